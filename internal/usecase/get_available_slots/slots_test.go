package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/types"
)

func window(start, end types.TimeString, duration int) *domain.AvailabilityWindow {
	return &domain.AvailabilityWindow{
		Astrologer:          "indira",
		DayOfWeek:           0,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: duration,
		IsActive:            true,
	}
}

func TestGenerateWindowSlots(t *testing.T) {
	slots, err := generateWindowSlots(window("09:00", "10:30", 30), 30)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), slots[0].EndTime)
	assert.Equal(t, "09:00 - 09:30", slots[0].Display)
	assert.Equal(t, types.TimeString("10:00"), slots[2].StartTime)
}

func TestGenerateWindowSlots_DropsPartialTail(t *testing.T) {
	// В окно 09:30-10:30 помещается два слота по 25 минут,
	// хвост 10:20-10:30 неполный и отбрасывается
	slots, err := generateWindowSlots(window("09:30", "10:30", 30), 25)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("09:55"), slots[1].StartTime)
	assert.Equal(t, types.TimeString("10:20"), slots[1].EndTime)

	slots, err = generateWindowSlots(window("09:30", "10:30", 30), 45)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, types.TimeString("09:30"), slots[0].StartTime)
}

func TestGenerateWindowSlots_EveningWindow(t *testing.T) {
	slots, err := generateWindowSlots(window("18:30", "22:00", 20), 20)
	require.NoError(t, err)

	// 210 минут / 20 = 10 полных слотов, хвост 21:50-22:00 отбрасывается
	require.Len(t, slots, 10)
	assert.Equal(t, types.TimeString("18:30"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("21:30"), slots[9].StartTime)
	assert.Equal(t, types.TimeString("21:50"), slots[9].EndTime)
}

func TestGenerateCandidates_DurationFallback(t *testing.T) {
	// Без услуги шаг берется из гранулярности окна
	candidates, err := generateCandidates([]*domain.AvailabilityWindow{
		window("09:00", "10:00", 20),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, 20, candidates[0].DurationMinutes)

	// Окно без гранулярности - дефолтная длительность
	candidates, err = generateCandidates([]*domain.AvailabilityWindow{
		window("09:00", "10:00", 0),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 60/domain.DefaultSlotDurationMinutes)
}

func TestGenerateCandidates_MergesAndSortsWindows(t *testing.T) {
	candidates, err := generateCandidates([]*domain.AvailabilityWindow{
		window("18:00", "19:00", 30),
		window("09:00", "10:00", 30),
	}, 30)
	require.NoError(t, err)

	require.Len(t, candidates, 4)
	assert.Equal(t, types.TimeString("09:00"), candidates[0].StartTime)
	assert.Equal(t, types.TimeString("18:00"), candidates[2].StartTime)
}

func TestOccupiedStartTimes(t *testing.T) {
	bookings := []*domain.Booking{
		{PreferredTime: "09:00"},
		{PreferredTime: ""}, // бронирование без слота не занимает время
	}
	reservations := []*domain.SlotReservation{
		{StartTime: "10:00"},
	}

	occupied := occupiedStartTimes(bookings, reservations)

	assert.Len(t, occupied, 2)
	assert.Contains(t, occupied, types.TimeString("09:00"))
	assert.Contains(t, occupied, types.TimeString("10:00"))
}

func TestFilterAvailable(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 16, 9, 15, 0, 0, loc)

	candidates := []Slot{
		{StartTime: "09:00", EndTime: "09:30"},
		{StartTime: "09:30", EndTime: "10:00"},
		{StartTime: "10:00", EndTime: "10:30"},
	}
	occupied := map[types.TimeString]struct{}{
		"10:00": {},
	}

	// Тот же день: прошедший 09:00 и занятый 10:00 отфильтрованы
	available := filterAvailable(candidates, occupied, now, now)
	require.Len(t, available, 1)
	assert.Equal(t, types.TimeString("09:30"), available[0].StartTime)

	// Будущая дата: фильтруются только занятые
	tomorrow := now.AddDate(0, 0, 1)
	available = filterAvailable(candidates, occupied, tomorrow, now)
	require.Len(t, available, 2)

	// Прошедшая дата: слотов нет
	yesterday := now.AddDate(0, 0, -1)
	available = filterAvailable(candidates, occupied, yesterday, now)
	assert.Empty(t, available)
}
