package get_payment_key

import (
	"net/http"

	"github.com/astroindira/booking-service/internal/api/handlers"
)

const msgGatewayDisabled = "платежный шлюз не настроен"

type Handler struct {
	gateway PaymentGateway
	logger  Logger
}

func NewHandler(gateway PaymentGateway, logger Logger) *Handler {
	return &Handler{
		gateway: gateway,
		logger:  logger,
	}
}

// keyResponse публичный ключ шлюза для инициализации платежной формы
type keyResponse struct {
	Key string `json:"key"`
}

// Handle GET /api/v1/razorpay-key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.gateway.Enabled() {
		h.logger.Warn("GET /razorpay-key - Payment gateway is not configured")
		handlers.RespondBadRequest(w, msgGatewayDisabled)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, keyResponse{Key: h.gateway.KeyID()})
}
