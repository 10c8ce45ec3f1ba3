package domain

import (
	"time"

	"github.com/astroindira/booking-service/pkg/types"
)

// AvailabilityWindow represents a recurring weekly working window of an
// astrologer. Several disjoint windows may exist for the same weekday.
// Invariant: StartTime < EndTime.
type AvailabilityWindow struct {
	ID                  string
	Astrologer          string
	DayOfWeek           int // 0=Monday .. 6=Sunday
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WeekdayIndex converts time.Weekday to the 0=Monday..6=Sunday numbering
// used by availability windows
func WeekdayIndex(t time.Time) int {
	// time.Weekday: 0=Sunday..6=Saturday
	return (int(t.Weekday()) + 6) % 7
}
