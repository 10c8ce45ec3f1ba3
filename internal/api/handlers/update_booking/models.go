package update_booking

import "github.com/astroindira/booking-service/internal/service/bookings/models"

// UpdateBookingRequest тело запроса на перенос бронирования
type UpdateBookingRequest struct {
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest(requesterEmail string) *models.UpdateBookingRequest {
	return &models.UpdateBookingRequest{
		RequesterEmail: requesterEmail,
		PreferredDate:  r.PreferredDate,
		PreferredTime:  r.PreferredTime,
	}
}
