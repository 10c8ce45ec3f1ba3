package reservation

import "errors"

var (
	// ErrSlotTaken возвращается при нарушении уникальности ключа слота:
	// конкурентная резервация того же (астролог, дата, время) успела раньше
	ErrSlotTaken = errors.New("reservation.repository: slot already reserved")

	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
