package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Astrologer) == "" {
		return fmt.Errorf("%w: astrologer is required", ErrInvalidInput)
	}

	if !domain.DurationTier(req.DurationTier).IsValid() {
		return fmt.Errorf("%w: invalid duration tier %q", ErrInvalidInput, req.DurationTier)
	}

	switch domain.ConsultationType(req.ConsultationType) {
	case domain.ConsultationOnline, domain.ConsultationInPerson:
	default:
		return fmt.Errorf("%w: invalid consultation type %q", ErrInvalidInput, req.ConsultationType)
	}

	// Слот задается целиком или не задается вовсе
	if req.PreferredDate.IsZero() != req.PreferredTime.IsZero() {
		return fmt.Errorf("%w: preferred date and time must be set together", ErrInvalidInput)
	}

	if !req.PreferredTime.IsZero() {
		if err := req.PreferredTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid preferred time: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validateSlotInFuture проверяет, что запрошенный слот строго в будущем
// (в рабочей таймзоне)
func validateSlotInFuture(date time.Time, startTime types.TimeString, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: preferred date is in the past", ErrInvalidInput)
	}

	if dateOnly.Equal(nowOnly) && !startTime.IsAfter(types.NewTimeString(now)) {
		return fmt.Errorf("%w: preferred time is in the past", ErrInvalidInput)
	}

	return nil
}
