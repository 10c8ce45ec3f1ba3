package domain

// Default slot settings used when an astrologer has no configured
// availability for a weekday
const (
	DefaultSlotDurationMinutes = 30
	DefaultWindowStart         = "09:00"
	DefaultWindowEnd           = "18:00"
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480
	MaxMessageLength            = 1000
	MaxCancellationReasonLength = 500
	MaxBookingsListLimit        = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// PaymentCurrency is the only currency the service charges in
const PaymentCurrency = "INR"

// ExpiredCancellationReason записывается при авто-отмене брони,
// по которой платеж так и не прошел до времени консультации
const ExpiredCancellationReason = "auto-cancelled: payment not completed before the consultation time"
