package cancel_booking

import "github.com/astroindira/booking-service/internal/service/bookings/models"

// CancelBookingRequest тело запроса на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(requesterEmail string) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		RequesterEmail:     requesterEmail,
		CancellationReason: r.CancellationReason,
	}
}
