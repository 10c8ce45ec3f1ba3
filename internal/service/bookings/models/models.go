package models

import (
	"errors"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	RequesterEmail     string `json:"requesterEmail"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateBookingRequest запрос на перенос бронирования
type UpdateBookingRequest struct {
	RequesterEmail string `json:"requesterEmail"`
	PreferredDate  string `json:"preferredDate"` // "2026-09-15"
	PreferredTime  string `json:"preferredTime"` // "10:00"
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ConfirmPaymentRequest запрос на подтверждение оплаты
type ConfirmPaymentRequest struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"razorpayOrderId"`
	PaymentID string `json:"razorpayPaymentId"`
	Signature string `json:"razorpaySignature"`
}

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	TimeOfBirth  *string `json:"timeOfBirth,omitempty"`
	PlaceOfBirth *string `json:"placeOfBirth,omitempty"`

	Astrologer       string `json:"astrologer"`
	ServiceID        string `json:"serviceId"`
	ConsultationType string `json:"consultationType"`
	DurationTier     string `json:"durationTier"`

	PreferredDate string `json:"preferredDate,omitempty"` // "2026-09-15"
	PreferredTime string `json:"preferredTime,omitempty"` // "10:00"

	Message *string `json:"message,omitempty"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	AmountPaise       int64   `json:"amountPaise"`
	RazorpayOrderID   *string `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string `json:"razorpayPaymentId,omitempty"`

	RefundID          *string `json:"refundId,omitempty"`
	RefundStatus      *string `json:"refundStatus,omitempty"`
	RefundAmountPaise *int64  `json:"refundAmountPaise,omitempty"`
	RefundedAt        *string `json:"refundedAt,omitempty"` // ISO 8601

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// RetryPaymentResponse ответ на повтор платежа с новым заказом шлюза
type RetryPaymentResponse struct {
	BookingID       string `json:"bookingId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	AmountPaise     int64  `json:"amountPaise"`
	Currency        string `json:"currency"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Email:              b.Email,
		Phone:              b.Phone,
		DateOfBirth:        b.DateOfBirth,
		TimeOfBirth:        b.TimeOfBirth,
		PlaceOfBirth:       b.PlaceOfBirth,
		Astrologer:         b.Astrologer,
		ServiceID:          b.ServiceID,
		ConsultationType:   string(b.ConsultationType),
		DurationTier:       string(b.DurationTier),
		Message:            b.Message,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AmountPaise:        b.AmountPaise,
		RazorpayOrderID:    b.RazorpayOrderID,
		RazorpayPaymentID:  b.RazorpayPaymentID,
		RefundID:           b.RefundID,
		RefundStatus:       b.RefundStatus,
		RefundAmountPaise:  b.RefundAmountPaise,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if !b.PreferredDate.IsZero() {
		resp.PreferredDate = b.PreferredDate.Format(domain.DateFormat)
	}
	if !b.PreferredTime.IsZero() {
		resp.PreferredTime = b.PreferredTime.String()
	}

	// Конвертируем временные метки в строки ISO 8601
	if b.RefundedAt != nil {
		resp.RefundedAt = ptr.Ptr(b.RefundedAt.Format(time.RFC3339))
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	switch s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
		return s, nil
	}

	return "", ErrInvalidStatus
}
