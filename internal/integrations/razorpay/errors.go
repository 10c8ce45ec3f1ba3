package razorpay

import "errors"

var (
	// ErrGatewayDisabled возвращается, когда клиент не сконфигурирован
	// (пустые ключи) и платежные операции недоступны
	ErrGatewayDisabled = errors.New("razorpay client: gateway disabled")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("razorpay client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("razorpay client: invalid response")

	// ErrSignatureMismatch возвращается при неверной подписи платежа
	ErrSignatureMismatch = errors.New("razorpay client: signature mismatch")
)
