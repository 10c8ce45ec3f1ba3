package create_booking

import (
	"time"

	"github.com/astroindira/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Name  string
	Email string
	Phone string

	DateOfBirth  *string
	TimeOfBirth  *string
	PlaceOfBirth *string

	Astrologer       string
	ServiceID        string
	ConsultationType string
	DurationTier     string

	// Запрошенный слот; оба поля пустые, когда клиент оставил
	// время открытым
	PreferredDate time.Time
	PreferredTime types.TimeString

	Message *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID               string
	Name             string
	Email            string
	Astrologer       string
	ServiceID        string
	ConsultationType string
	DurationTier     string
	PreferredDate    time.Time
	PreferredTime    types.TimeString
	Status           string
	PaymentStatus    string
	AmountPaise      int64
	RazorpayOrderID  *string
	CreatedAt        time.Time
}
