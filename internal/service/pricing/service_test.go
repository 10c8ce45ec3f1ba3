package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroindira/booking-service/internal/domain"
)

func TestPriceFor_FreeTier(t *testing.T) {
	r := NewResolver(30)

	// Кратчайший тариф бесплатный независимо от услуги
	price, err := r.PriceFor(domain.TierShort, "vedic-consultation")
	require.NoError(t, err)
	assert.Equal(t, int64(0), price)

	// Даже для незнакомой услуги
	price, err = r.PriceFor(domain.TierShort, "unknown-service")
	require.NoError(t, err)
	assert.Equal(t, int64(0), price)
}

func TestPriceFor_PaidTier(t *testing.T) {
	r := NewResolver(30)

	// Без скидки: 1500 руп. -> 150000 пайс
	price, err := r.PriceFor(domain.TierMedium, "vedic-consultation")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), price)

	// Со скидкой 10%: 2500 * 0.9 = 2250 руп. -> 225000 пайс
	price, err = r.PriceFor(domain.TierLong, "matchmaking")
	require.NoError(t, err)
	assert.Equal(t, int64(225000), price)

	// Со скидкой 15%: 3000 * 0.85 = 2550 руп. -> 255000 пайс
	price, err = r.PriceFor(domain.TierLong, "vastu-consultation")
	require.NoError(t, err)
	assert.Equal(t, int64(255000), price)
}

func TestPriceFor_UnknownService(t *testing.T) {
	r := NewResolver(30)

	// Платный тариф с незнакомой услугой - ошибка, а не ноль
	_, err := r.PriceFor(domain.TierMedium, "unknown-service")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestPriceFor_InvalidTier(t *testing.T) {
	r := NewResolver(30)

	_, err := r.PriceFor(domain.DurationTier("60+"), "vedic-consultation")
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestDurationFor(t *testing.T) {
	r := NewResolver(30)

	assert.Equal(t, 45, r.DurationFor("kundali-analysis"))
	assert.Equal(t, 20, r.DurationFor("gemstone-recommendation"))

	// Незнакомая услуга - дефолтная длительность
	assert.Equal(t, 30, r.DurationFor("unknown-service"))

	// Пустая услуга - дефолтная длительность
	assert.Equal(t, 30, r.DurationFor(""))
}

func TestNewResolver_DefaultFallback(t *testing.T) {
	r := NewResolver(0)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, r.DurationFor("unknown-service"))
}
