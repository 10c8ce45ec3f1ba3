package create_booking

import (
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	createBooking "github.com/astroindira/booking-service/internal/usecase/create_booking"
	"github.com/astroindira/booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	TimeOfBirth  *string `json:"timeOfBirth,omitempty"`
	PlaceOfBirth *string `json:"placeOfBirth,omitempty"`

	Astrologer       string `json:"astrologer"`
	ServiceID        string `json:"serviceId"`
	ConsultationType string `json:"consultationType"`
	DurationTier     string `json:"consultationDuration"`

	PreferredDate string `json:"preferredDate,omitempty"` // "2026-09-15"
	PreferredTime string `json:"preferredTime,omitempty"` // "10:00"

	Message *string `json:"message,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Astrologer       string  `json:"astrologer"`
	ServiceID        string  `json:"serviceId"`
	ConsultationType string  `json:"consultationType"`
	DurationTier     string  `json:"consultationDuration"`
	PreferredDate    string  `json:"preferredDate,omitempty"`
	PreferredTime    string  `json:"preferredTime,omitempty"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"paymentStatus"`
	AmountPaise      int64   `json:"amountPaise"`
	RazorpayOrderID  *string `json:"razorpayOrderId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	req := &createBooking.Request{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		DateOfBirth:      r.DateOfBirth,
		TimeOfBirth:      r.TimeOfBirth,
		PlaceOfBirth:     r.PlaceOfBirth,
		Astrologer:       r.Astrologer,
		ServiceID:        r.ServiceID,
		ConsultationType: r.ConsultationType,
		DurationTier:     r.DurationTier,
		Message:          r.Message,
	}

	// Слот опционален: клиент может оставить время открытым
	if r.PreferredDate != "" {
		date, err := time.Parse(domain.DateFormat, r.PreferredDate)
		if err != nil {
			return nil, err
		}
		req.PreferredDate = date
	}

	if r.PreferredTime != "" {
		startTime, err := types.NewTimeStringFromString(r.PreferredTime)
		if err != nil {
			return nil, err
		}
		req.PreferredTime = startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	result := &BookingResponse{
		ID:               resp.ID,
		Name:             resp.Name,
		Email:            resp.Email,
		Astrologer:       resp.Astrologer,
		ServiceID:        resp.ServiceID,
		ConsultationType: resp.ConsultationType,
		DurationTier:     resp.DurationTier,
		Status:           resp.Status,
		PaymentStatus:    resp.PaymentStatus,
		AmountPaise:      resp.AmountPaise,
		RazorpayOrderID:  resp.RazorpayOrderID,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}

	if !resp.PreferredDate.IsZero() {
		result.PreferredDate = resp.PreferredDate.Format(domain.DateFormat)
	}
	if !resp.PreferredTime.IsZero() {
		result.PreferredTime = resp.PreferredTime.String()
	}

	return result
}
