package create_booking

import (
	"errors"
	"net/http"

	"github.com/astroindira/booking-service/internal/api/handlers"
	createBooking "github.com/astroindira/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgServiceNotFound    = "услуга не найдена"
	msgFreeSessionUsed    = "бесплатная сессия уже использована"
	msgGatewayUnavailable = "платежный шлюз недоступен"
	msgOrderFailed        = "не удалось создать платежный заказ"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: email=%s, astrologer=%s", req.Email, req.Astrologer)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrFreeSessionUsed):
			h.logger.Warn("POST /bookings - Free session already used: email=%s", req.Email)
			handlers.RespondError(w, http.StatusConflict, msgFreeSessionUsed)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrPaymentGatewayUnavailable):
			h.logger.Warn("POST /bookings - Payment gateway unavailable")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgGatewayUnavailable)

		case errors.Is(err, createBooking.ErrPaymentOrderFailed):
			h.logger.Error("POST /bookings - Payment order failed: email=%s, error=%v", req.Email, err)
			handlers.RespondError(w, http.StatusBadGateway, msgOrderFailed)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, error=%v", req.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, email=%s, amount=%d",
		result.ID, req.Email, result.AmountPaise)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
