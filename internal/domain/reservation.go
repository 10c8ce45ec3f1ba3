package domain

import (
	"time"

	"github.com/astroindira/booking-service/pkg/types"
)

// SlotReservation is an explicit claim on a slot, independent of the
// booking's own denormalized date/time fields. It exists from booking
// creation until cancellation or reschedule releases it.
// Invariant: at most one reservation per (astrologer, date, start_time),
// enforced by a unique index.
type SlotReservation struct {
	ID         string
	Astrologer string
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	BookingID  string
	CreatedAt  time.Time
}
