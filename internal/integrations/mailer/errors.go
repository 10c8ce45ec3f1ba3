package mailer

import "errors"

var (
	// ErrNotConfigured возвращается, когда SMTP-учетные данные не заданы
	ErrNotConfigured = errors.New("mailer: smtp credentials not configured")

	// ErrSendFailed возвращается при ошибке отправки письма
	ErrSendFailed = errors.New("mailer: failed to send email")
)
