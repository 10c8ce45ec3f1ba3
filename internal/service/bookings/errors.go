package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotReschedule возвращается, когда перенос недоступен
	// (бронирование не в статусе pending)
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSignatureInvalid возвращается при неверной подписи платежа
	ErrSignatureInvalid = errors.New("payment signature invalid")

	// ErrPaymentNotPending возвращается при повторе платежа, когда платеж
	// не в статусе pending
	ErrPaymentNotPending = errors.New("payment is not pending")

	// ErrNoPaymentRequired возвращается при платежных операциях над
	// бесплатным бронированием
	ErrNoPaymentRequired = errors.New("no payment required")

	// ErrPaymentGatewayUnavailable возвращается, когда платежный шлюз
	// не сконфигурирован
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
