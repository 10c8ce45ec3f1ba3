package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/astroindira/booking-service/internal/api/handlers"
	"github.com/astroindira/booking-service/internal/domain"
	getAvailableSlots "github.com/astroindira/booking-service/internal/usecase/get_available_slots"
)

const (
	msgMissingAstrologer = "не указан астролог"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequest    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots?astrologer=...&date=YYYY-MM-DD&service=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	astrologer := query.Get("astrologer")
	if astrologer == "" {
		h.logger.Warn("GET /available-slots - Missing astrologer")
		handlers.RespondBadRequest(w, msgMissingAstrologer)
		return
	}

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getAvailableSlots.Request{
		Astrologer: astrologer,
		Date:       date,
		ServiceID:  query.Get("service"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput),
			errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: astrologer=%s, error=%v", astrologer, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - %d slots returned: astrologer=%s, date=%s",
		len(result.Slots), astrologer, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
