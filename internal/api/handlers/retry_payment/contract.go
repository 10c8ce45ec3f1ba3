package retry_payment

import (
	"context"

	"github.com/astroindira/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id, requesterEmail string) (*models.BookingResponse, error)
	RetryPayment(ctx context.Context, bookingID string) (*models.RetryPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
