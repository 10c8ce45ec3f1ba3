package set_status

import (
	"context"

	"github.com/astroindira/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	SetStatus(ctx context.Context, bookingID string, req *models.UpdateStatusRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
