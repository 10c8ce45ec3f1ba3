package pricing

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	// для платного тарифа
	ErrServiceNotFound = errors.New("service not found in catalog")

	// ErrInvalidTier возвращается при неизвестном тарифе длительности
	ErrInvalidTier = errors.New("invalid duration tier")
)
