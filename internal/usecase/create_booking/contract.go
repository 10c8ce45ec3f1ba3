package create_booking

import (
	"context"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/internal/integrations/razorpay"
	"github.com/astroindira/booking-service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveBySlot(ctx context.Context, astrologer string, date time.Time, startTime types.TimeString) (*domain.Booking, error)
}

// ReservationRepository интерфейс журнала резерваций
type ReservationRepository interface {
	Reserve(ctx context.Context, res *domain.SlotReservation) (*domain.SlotReservation, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	ConsumeFreeSession(ctx context.Context, email string) error
}

// PricingResolver интерфейс резолвера цен
type PricingResolver interface {
	PriceFor(tier domain.DurationTier, serviceID string) (int64, error)
	DurationFor(serviceID string) int
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Enabled() bool
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error)
}

// Notifier интерфейс отправки уведомлений (best-effort)
type Notifier interface {
	BookingCreated(b *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
