package domain

import (
	"time"

	"github.com/astroindira/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// ConsultationType how the consultation is delivered
type ConsultationType string

const (
	ConsultationOnline   ConsultationType = "online"
	ConsultationInPerson ConsultationType = "inperson"
)

// Refund status values recorded on the booking
const (
	RefundProcessed    = "processed"
	RefundPending      = "pending"
	RefundManualReview = "manual_review"
)

// Booking represents a consultation booking.
// Owned by the bookings service; mutated only through its transitions.
type Booking struct {
	ID string

	// Customer identity
	Name  string
	Email string
	Phone string

	// Birth details for the astrological consultation (optional)
	DateOfBirth  *string
	TimeOfBirth  *string
	PlaceOfBirth *string

	Astrologer       string
	ServiceID        string
	ConsultationType ConsultationType
	DurationTier     DurationTier

	// Requested slot; both zero when the customer left scheduling open
	PreferredDate time.Time
	PreferredTime types.TimeString

	Message *string

	Status        BookingStatus
	PaymentStatus PaymentStatus

	AmountPaise       int64
	RazorpayOrderID   *string
	RazorpayPaymentID *string

	RefundID          *string
	RefundStatus      *string
	RefundAmountPaise *int64
	RefundedAt        *time.Time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds a claim on its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsTerminal returns true if no further transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeRescheduled returns true if the slot can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending
}

// HasSlot returns true if a concrete slot was requested
func (b *Booking) HasSlot() bool {
	return !b.PreferredDate.IsZero() && !b.PreferredTime.IsZero()
}

// IsFree returns true for zero-amount (free tier) bookings
func (b *Booking) IsFree() bool {
	return b.AmountPaise == 0
}
