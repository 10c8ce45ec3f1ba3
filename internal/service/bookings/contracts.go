package bookings

import (
	"context"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/internal/integrations/razorpay"
	"github.com/astroindira/booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, status *domain.BookingStatus, limit int) ([]*domain.Booking, error)
	GetActiveBySlot(ctx context.Context, astrologer string, date time.Time, startTime types.TimeString) (*domain.Booking, error)
	UpdateSlot(ctx context.Context, id string, date time.Time, startTime types.TimeString) error
	ConfirmPayment(ctx context.Context, id, paymentID string) error
	MarkPaymentFailed(ctx context.Context, id string) error
	UpdateOrderID(ctx context.Context, id, orderID string) error
	SetStatus(ctx context.Context, id string, status domain.BookingStatus) error
	Cancel(ctx context.Context, id, reason string) error
	SetRefund(ctx context.Context, id string, refundID *string, refundStatus string, amountPaise int64) error
	ListStalePending(ctx context.Context, today time.Time, now types.TimeString) ([]*domain.Booking, error)
}

// ReservationRepository интерфейс журнала резерваций
type ReservationRepository interface {
	Reserve(ctx context.Context, res *domain.SlotReservation) (*domain.SlotReservation, error)
	ReleaseByBooking(ctx context.Context, bookingID string) (int64, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Enabled() bool
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error)
	Refund(ctx context.Context, paymentID string, amountPaise int64) (*razorpay.Refund, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// Notifier интерфейс отправки уведомлений (best-effort)
type Notifier interface {
	PaymentConfirmed(b *domain.Booking) error
	BookingCancelled(b *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
