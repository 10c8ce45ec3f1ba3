package expiry

import "context"

// ExpiryService сервис авто-истечения протухших бронирований
type ExpiryService interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Metrics счетчики фоновой очистки
type Metrics interface {
	ObserveExpired(count int)
	ObserveSweepFailure()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
