package mailer

// Logger интерфейс для логирования в почтовом клиенте
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
