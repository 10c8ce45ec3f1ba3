package get_available_slots

import (
	"github.com/astroindira/booking-service/internal/domain"
	getAvailableSlots "github.com/astroindira/booking-service/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Astrologer string `json:"astrologer"`
	Date       string `json:"date"`
	ServiceID  string `json:"serviceId,omitempty"`
	Slots      []Slot `json:"slots"`
}

// Slot модель слота в HTTP ответе
type Slot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Display         string `json:"display"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = Slot{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			Display:         s.Display,
		}
	}

	return &SlotsResponse{
		Astrologer: resp.Astrologer,
		Date:       resp.Date.Format(domain.DateFormat),
		ServiceID:  resp.ServiceID,
		Slots:      slots,
	}
}
