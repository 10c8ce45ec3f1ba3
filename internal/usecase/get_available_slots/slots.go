package get_available_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/types"
)

// generateWindowSlots генерирует слоты-кандидаты для одного рабочего окна.
// Слоты идут с фиксированным шагом duration от начала окна; хвост окна,
// в который полный слот не помещается, отбрасывается целиком.
func generateWindowSlots(window *domain.AvailabilityWindow, duration int) ([]Slot, error) {
	slots := make([]Slot, 0)
	current := window.StartTime

	for current.IsBefore(window.EndTime) {
		slotEnd, err := current.AddMinutes(duration)
		if err != nil {
			// Слот вышел за границу суток - дальше генерировать нечего
			break
		}
		if slotEnd.IsAfter(window.EndTime) {
			break
		}

		slots = append(slots, Slot{
			StartTime:       current,
			EndTime:         slotEnd,
			DurationMinutes: duration,
			Display:         fmt.Sprintf("%s - %s", current, slotEnd),
		})

		current = slotEnd
	}

	return slots, nil
}

// generateCandidates генерирует слоты-кандидаты по всем окнам дня,
// объединяет их и сортирует по времени начала
func generateCandidates(windows []*domain.AvailabilityWindow, duration int) ([]Slot, error) {
	candidates := make([]Slot, 0)

	for _, window := range windows {
		// Длительность: услуга задает шаг, иначе гранулярность окна,
		// иначе дефолт
		slotDuration := duration
		if slotDuration <= 0 {
			slotDuration = window.SlotDurationMinutes
		}
		if slotDuration <= 0 {
			slotDuration = domain.DefaultSlotDurationMinutes
		}

		windowSlots, err := generateWindowSlots(window, slotDuration)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, windowSlots...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].StartTime.IsBefore(candidates[j].StartTime)
	})

	return candidates, nil
}

// occupiedStartTimes собирает множество занятых времен начала слотов.
// Слот занят, если на него есть активное бронирование ИЛИ запись в журнале
// резерваций: два хранилища обновляются в разные моменты, каждое
// авторитетно само по себе.
func occupiedStartTimes(bookings []*domain.Booking, reservations []*domain.SlotReservation) map[types.TimeString]struct{} {
	occupied := make(map[types.TimeString]struct{})

	for _, b := range bookings {
		if b.PreferredTime.IsZero() {
			continue
		}
		occupied[b.PreferredTime] = struct{}{}
	}

	for _, res := range reservations {
		occupied[res.StartTime] = struct{}{}
	}

	return occupied
}

// filterAvailable отбрасывает занятые слоты и слоты, начинающиеся
// не строго в будущем (в рабочей таймзоне)
func filterAvailable(
	candidates []Slot,
	occupied map[types.TimeString]struct{},
	date time.Time,
	now time.Time,
) []Slot {
	// Дата целиком в прошлом - доступных слотов нет
	if isDateInPast(date, now) {
		return []Slot{}
	}

	sameDay := isSameDay(date, now)
	nowTime := types.NewTimeString(now)

	available := make([]Slot, 0, len(candidates))
	for _, slot := range candidates {
		if _, taken := occupied[slot.StartTime]; taken {
			continue
		}
		// Сегодняшние слоты должны начинаться строго в будущем
		if sameDay && !slot.StartTime.IsAfter(nowTime) {
			continue
		}
		available = append(available, slot)
	}

	return available
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
