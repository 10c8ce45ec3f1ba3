package domain

import "time"

// Customer is the user record keyed by email. The free-tier allowance is
// tracked here, not on bookings: one free consultation per customer.
type Customer struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	FreeSessionUsed bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
