package availability

import (
	"context"

	"github.com/astroindira/booking-service/internal/domain"
)

// AvailabilityRepository контракт репозитория окон доступности
type AvailabilityRepository interface {
	Upsert(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	ListByAstrologer(ctx context.Context, astrologer string) ([]*domain.AvailabilityWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
