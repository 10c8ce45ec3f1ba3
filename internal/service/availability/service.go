package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/internal/service/availability/models"
	"github.com/astroindira/booking-service/pkg/types"
)

// Service сервис управления окнами доступности астрологов
type Service struct {
	repo   AvailabilityRepository
	logger Logger
}

// NewService создает новый сервис окон доступности
func NewService(repo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Upsert создает или обновляет окно доступности по ключу
// (астролог, день недели, время начала)
func (s *Service) Upsert(ctx context.Context, req *models.UpsertWindowRequest) (*models.WindowResponse, error) {
	// 1. Валидация входных данных
	if err := validateUpsertRequest(req); err != nil {
		s.logger.Warn("Upsert: invalid request for astrologer=%s: %v", req.Astrologer, err)
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	window := &domain.AvailabilityWindow{
		ID:                  uuid.NewString(),
		Astrologer:          req.Astrologer,
		DayOfWeek:           req.DayOfWeek,
		StartTime:           types.TimeString(req.StartTime),
		EndTime:             types.TimeString(req.EndTime),
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            isActive,
	}

	// 2. Upsert в хранилище (конфликт по ключу обновляет существующее окно)
	saved, err := s.repo.Upsert(ctx, window)
	if err != nil {
		s.logger.Error("Upsert: repository error for astrologer=%s: %v", req.Astrologer, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: window saved id=%s astrologer=%s day=%d %s-%s",
		saved.ID, saved.Astrologer, saved.DayOfWeek, saved.StartTime, saved.EndTime)

	return models.FromDomainWindow(saved), nil
}

// List возвращает все окна доступности астролога, включая неактивные
func (s *Service) List(ctx context.Context, astrologer string) (*models.WindowListResponse, error) {
	if astrologer == "" {
		return nil, fmt.Errorf("%w: astrologer is required", ErrInvalidInput)
	}

	windows, err := s.repo.ListByAstrologer(ctx, astrologer)
	if err != nil {
		s.logger.Error("List: repository error for astrologer=%s: %v", astrologer, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWindowList(astrologer, windows), nil
}

func validateUpsertRequest(req *models.UpsertWindowRequest) error {
	if req.Astrologer == "" {
		return fmt.Errorf("%w: astrologer is required", ErrInvalidInput)
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week must be in range 0..6, got %d", ErrInvalidInput, req.DayOfWeek)
	}

	start := types.TimeString(req.StartTime)
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time %q: %v", ErrInvalidInput, req.StartTime, err)
	}

	end := types.TimeString(req.EndTime)
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time %q: %v", ErrInvalidInput, req.EndTime, err)
	}

	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start time %s must be before end time %s", ErrInvalidInput, start, end)
	}

	if req.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidInput, req.SlotDurationMinutes)
	}

	return nil
}
