package get_available_slots

import (
	"context"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListActiveByAstrologerDate получает активные (pending/confirmed)
	// бронирования астролога на дату
	ListActiveByAstrologerDate(ctx context.Context, astrologer string, date time.Time) ([]*domain.Booking, error)
}

// ReservationRepository интерфейс журнала резерваций
type ReservationRepository interface {
	ListByAstrologerDate(ctx context.Context, astrologer string, date time.Time) ([]*domain.SlotReservation, error)
}

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByAstrologerDay(ctx context.Context, astrologer string, dayOfWeek int) ([]*domain.AvailabilityWindow, error)
}

// DurationResolver определяет длительность слота для услуги
type DurationResolver interface {
	DurationFor(serviceID string) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования).
// Должен возвращать время в рабочей таймзоне сервиса.
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production.
// Отдает время в рабочей таймзоне сервиса.
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время в рабочей таймзоне
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(p.Location)
}
