package manage_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/astroindira/booking-service/internal/api/handlers"
	"github.com/astroindira/booking-service/internal/service/availability"
	"github.com/astroindira/booking-service/internal/service/availability/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindow      = "некорректные параметры окна доступности"
	msgMissingAstrologer  = "отсутствует имя астролога"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleUpsert POST /api/v1/astrologer-availability
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /astrologer-availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /astrologer-availability - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("POST /astrologer-availability - Failed to upsert window: astrologer=%s, error=%v",
				req.Astrologer, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /astrologer-availability - Window saved: id=%s, astrologer=%s", result.ID, result.Astrologer)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/astrologer-availability/{astrologer}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	astrologer := vars["astrologer"]

	if astrologer == "" {
		h.logger.Warn("GET /astrologer-availability/{astrologer} - Missing astrologer")
		handlers.RespondBadRequest(w, msgMissingAstrologer)
		return
	}

	result, err := h.service.List(r.Context(), astrologer)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /astrologer-availability/{astrologer} - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgMissingAstrologer)

		default:
			h.logger.Error("GET /astrologer-availability/{astrologer} - Failed to list windows: astrologer=%s, error=%v",
				astrologer, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /astrologer-availability/{astrologer} - %d windows returned: astrologer=%s",
		result.Total, astrologer)
	handlers.RespondJSON(w, http.StatusOK, result)
}
