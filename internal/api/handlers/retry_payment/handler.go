package retry_payment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/astroindira/booking-service/internal/api/handlers"
	"github.com/astroindira/booking-service/internal/api/middleware"
	"github.com/astroindira/booking-service/internal/service/bookings"
)

const (
	msgMissingEmail       = "отсутствует email пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNoPaymentRequired  = "бронирование не требует оплаты"
	msgPaymentNotPending  = "платеж не находится в статусе ожидания"
	msgGatewayUnavailable = "платежный шлюз недоступен"
)

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

// Handle POST /api/v1/bookings/{bookingId}/retry-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]

	requesterEmail, ok := middleware.GetRequesterEmail(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/retry-payment - Missing requester email")
		handlers.RespondUnauthorized(w, msgMissingEmail)
		return
	}

	// Проверяем права доступа до открытия нового заказа
	if _, err := h.service.GetByID(r.Context(), bookingID, requesterEmail); err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/retry-payment - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/retry-payment - Access denied: booking_id=%s, email=%s",
				bookingID, requesterEmail)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings/{id}/retry-payment - Failed to get booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	result, err := h.service.RetryPayment(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrNoPaymentRequired):
			h.logger.Warn("POST /bookings/{id}/retry-payment - Booking is free: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgNoPaymentRequired)

		case errors.Is(err, bookings.ErrPaymentNotPending):
			h.logger.Warn("POST /bookings/{id}/retry-payment - Payment not pending: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgPaymentNotPending)

		case errors.Is(err, bookings.ErrPaymentGatewayUnavailable):
			h.logger.Warn("POST /bookings/{id}/retry-payment - Payment gateway unavailable")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /bookings/{id}/retry-payment - Failed to retry payment: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/retry-payment - New order created: booking_id=%s, order=%s",
		bookingID, result.RazorpayOrderID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
