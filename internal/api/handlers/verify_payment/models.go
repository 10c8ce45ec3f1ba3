package verify_payment

import "github.com/astroindira/booking-service/internal/service/bookings/models"

// VerifyPaymentRequest тело запроса на подтверждение оплаты.
// Подпись отсутствует при неуспешном платеже на стороне шлюза.
type VerifyPaymentRequest struct {
	BookingID         string `json:"bookingId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string `json:"razorpaySignature,omitempty"`
}

// IsFailure платеж завершился неуспешно на стороне шлюза
func (r *VerifyPaymentRequest) IsFailure() bool {
	return r.RazorpayPaymentID == "" || r.RazorpaySignature == ""
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *VerifyPaymentRequest) ToServiceRequest() *models.ConfirmPaymentRequest {
	return &models.ConfirmPaymentRequest{
		BookingID: r.BookingID,
		OrderID:   r.RazorpayOrderID,
		PaymentID: r.RazorpayPaymentID,
		Signature: r.RazorpaySignature,
	}
}
