package verify_payment

import (
	"errors"
	"net/http"

	"github.com/astroindira/booking-service/internal/api/handlers"
	"github.com/astroindira/booking-service/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingBookingID   = "отсутствует идентификатор бронирования"
	msgNotFound           = "бронирование не найдено"
	msgSignatureInvalid   = "подпись платежа не прошла проверку"
	msgNoPaymentRequired  = "бронирование не требует оплаты"
	msgPaymentNotPending  = "платеж не находится в статусе ожидания"
	msgInvalidTransition  = "платеж уже обработан"
)

// PaymentFailedResponse ответ при неуспешном платеже на стороне шлюза
type PaymentFailedResponse struct {
	BookingID     string `json:"bookingId"`
	PaymentStatus string `json:"paymentStatus"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.BookingID == "" {
		h.logger.Warn("POST /verify-payment - Missing booking id")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	// Шлюз не прислал платеж и подпись - платеж завершился неуспешно
	if req.IsFailure() {
		h.handleFailure(w, r, &req)
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /verify-payment - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrSignatureInvalid):
			h.logger.Warn("POST /verify-payment - Signature verification failed: booking_id=%s, order=%s",
				req.BookingID, req.RazorpayOrderID)
			handlers.RespondBadRequest(w, msgSignatureInvalid)

		case errors.Is(err, bookings.ErrNoPaymentRequired):
			h.logger.Warn("POST /verify-payment - Booking is free: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgNoPaymentRequired)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("POST /verify-payment - Payment already processed: booking_id=%s", req.BookingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("POST /verify-payment - Failed to confirm payment: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /verify-payment - Payment confirmed: booking_id=%s, payment_id=%s",
		req.BookingID, req.RazorpayPaymentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFailure(w http.ResponseWriter, r *http.Request, req *VerifyPaymentRequest) {
	err := h.service.FailPayment(r.Context(), req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /verify-payment - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrNoPaymentRequired):
			h.logger.Warn("POST /verify-payment - Booking is free: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgNoPaymentRequired)

		case errors.Is(err, bookings.ErrPaymentNotPending):
			h.logger.Warn("POST /verify-payment - Payment not pending: booking_id=%s", req.BookingID)
			handlers.RespondError(w, http.StatusConflict, msgPaymentNotPending)

		default:
			h.logger.Error("POST /verify-payment - Failed to mark payment failed: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /verify-payment - Payment marked failed: booking_id=%s", req.BookingID)
	handlers.RespondJSON(w, http.StatusOK, &PaymentFailedResponse{
		BookingID:     req.BookingID,
		PaymentStatus: "failed",
	})
}
