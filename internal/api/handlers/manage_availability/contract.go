package manage_availability

import (
	"context"

	"github.com/astroindira/booking-service/internal/service/availability/models"
)

type AvailabilityService interface {
	Upsert(ctx context.Context, req *models.UpsertWindowRequest) (*models.WindowResponse, error)
	List(ctx context.Context, astrologer string) (*models.WindowListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
