package pricing

import (
	"math"

	"github.com/astroindira/booking-service/internal/domain"
)

// paisePerRupee множитель перевода рупий в пайсы
const paisePerRupee = 100

// Resolver резолвер цен консультаций. Каталог услуг хранит цены в рупиях,
// наружу отдаются минорные единицы (пайсы).
type Resolver struct {
	defaultDurationMinutes int
}

// NewResolver создает новый резолвер цен
func NewResolver(defaultDurationMinutes int) *Resolver {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	return &Resolver{defaultDurationMinutes: defaultDurationMinutes}
}

// PriceFor вычисляет цену бронирования в пайсах.
// Кратчайший тариф всегда бесплатный независимо от услуги.
// Для платных тарифов услуга обязана присутствовать в каталоге:
// незнакомый service_id - это ошибка, а не бесплатное бронирование.
func (r *Resolver) PriceFor(tier domain.DurationTier, serviceID string) (int64, error) {
	if !tier.IsValid() {
		return 0, ErrInvalidTier
	}

	if tier.IsFree() {
		return 0, nil
	}

	entry, ok := domain.ServiceByID(serviceID)
	if !ok {
		return 0, ErrServiceNotFound
	}

	discounted := float64(entry.BasePriceRupees) * (1 - float64(entry.DiscountPercent)/100)
	rupees := int64(math.Round(discounted))

	return rupees * paisePerRupee, nil
}

// DurationFor возвращает длительность слота услуги в минутах.
// Для незнакомой услуги используется дефолтная длительность.
func (r *Resolver) DurationFor(serviceID string) int {
	if entry, ok := domain.ServiceByID(serviceID); ok && entry.DurationMinutes > 0 {
		return entry.DurationMinutes
	}
	return r.defaultDurationMinutes
}
