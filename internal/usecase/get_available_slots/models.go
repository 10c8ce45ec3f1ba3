package get_available_slots

import (
	"time"

	"github.com/astroindira/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Astrologer string    // Идентификатор астролога
	Date       time.Time // Дата для получения слотов (без времени)
	ServiceID  string    // Услуга (опционально; задает длительность слота)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Astrologer string    // Идентификатор астролога
	Date       time.Time // Дата, на которую запрашивались слоты
	ServiceID  string    // Услуга из запроса
	Slots      []Slot    // Список доступных слотов, отсортированных по времени
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время конца слота
	DurationMinutes int              // Длительность слота в минутах
	Display         string           // Человекочитаемое представление ("10:00 - 10:30")
}
