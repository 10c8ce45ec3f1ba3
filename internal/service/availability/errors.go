package availability

import "errors"

var (
	// ErrInvalidInput некорректные параметры окна доступности
	ErrInvalidInput = errors.New("invalid availability window")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal availability service error")
)
