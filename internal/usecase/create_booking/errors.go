package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот уже занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrFreeSessionUsed возвращается, когда бесплатная сессия клиента
	// уже израсходована
	ErrFreeSessionUsed = errors.New("free session already used")

	// ErrPaymentGatewayUnavailable возвращается, когда платежный шлюз
	// не сконфигурирован, а бронирование платное
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrPaymentOrderFailed возвращается при ошибке создания заказа
	// в платежном шлюзе
	ErrPaymentOrderFailed = errors.New("failed to create payment order")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
