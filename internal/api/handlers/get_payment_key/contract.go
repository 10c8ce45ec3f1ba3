package get_payment_key

type PaymentGateway interface {
	Enabled() bool
	KeyID() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
