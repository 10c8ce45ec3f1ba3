package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/astroindira/booking-service/internal/api/handlers"
	"github.com/astroindira/booking-service/internal/api/middleware"
	"github.com/astroindira/booking-service/internal/service/bookings"
)

const (
	msgNotFound     = "бронирование не найдено"
	msgMissingEmail = "отсутствует email пользователя"
	msgForbidden    = "доступ запрещен"
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

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]

	// Получаем email из контекста (через middleware Auth)
	requesterEmail, ok := middleware.GetRequesterEmail(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing requester email")
		handlers.RespondUnauthorized(w, msgMissingEmail)
		return
	}

	// Получаем бронирование (сервис сам проверит права доступа)
	booking, err := h.service.GetByID(r.Context(), bookingID, requesterEmail)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%s, email=%s", bookingID, requesterEmail)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
