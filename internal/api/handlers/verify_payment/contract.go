package verify_payment

import (
	"context"

	"github.com/astroindira/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.BookingResponse, error)
	FailPayment(ctx context.Context, bookingID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
