package models

import (
	"time"

	"github.com/astroindira/booking-service/internal/domain"
)

// UpsertWindowRequest запрос на создание или обновление окна доступности
type UpsertWindowRequest struct {
	Astrologer          string `json:"astrologer"`
	DayOfWeek           int    `json:"dayOfWeek"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	IsActive            *bool  `json:"isActive,omitempty"`
}

// WindowResponse окно доступности в API представлении
type WindowResponse struct {
	ID                  string `json:"id"`
	Astrologer          string `json:"astrologer"`
	DayOfWeek           int    `json:"dayOfWeek"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	IsActive            bool   `json:"isActive"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

// WindowListResponse список окон доступности астролога
type WindowListResponse struct {
	Astrologer string            `json:"astrologer"`
	Windows    []*WindowResponse `json:"windows"`
	Total      int               `json:"total"`
}

// FromDomainWindow конвертирует доменную модель окна в API представление
func FromDomainWindow(w *domain.AvailabilityWindow) *WindowResponse {
	return &WindowResponse{
		ID:                  w.ID,
		Astrologer:          w.Astrologer,
		DayOfWeek:           w.DayOfWeek,
		StartTime:           string(w.StartTime),
		EndTime:             string(w.EndTime),
		SlotDurationMinutes: w.SlotDurationMinutes,
		IsActive:            w.IsActive,
		CreatedAt:           w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           w.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainWindowList конвертирует список доменных окон в API представление
func FromDomainWindowList(astrologer string, windows []*domain.AvailabilityWindow) *WindowListResponse {
	result := make([]*WindowResponse, 0, len(windows))
	for _, w := range windows {
		result = append(result, FromDomainWindow(w))
	}

	return &WindowListResponse{
		Astrologer: astrologer,
		Windows:    result,
		Total:      len(result),
	}
}
