package razorpay

// Logger интерфейс для логирования в клиенте Razorpay
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
