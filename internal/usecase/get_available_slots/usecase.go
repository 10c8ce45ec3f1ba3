package get_available_slots

import (
	"context"
	"fmt"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	reservationRepo  ReservationRepository
	availabilityRepo AvailabilityRepository
	durations        DurationResolver
	timeProvider     TimeProvider
	logger           Logger

	// Дефолтное рабочее окно на случай, когда у астролога нет
	// настроенного расписания на день недели
	defaultWindowStart  types.TimeString
	defaultWindowEnd    types.TimeString
	defaultSlotDuration int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	availabilityRepo AvailabilityRepository,
	durations DurationResolver,
	timeProvider TimeProvider,
	defaultWindowStart types.TimeString,
	defaultWindowEnd types.TimeString,
	defaultSlotDuration int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:         bookingRepo,
		reservationRepo:     reservationRepo,
		availabilityRepo:    availabilityRepo,
		durations:           durations,
		timeProvider:        timeProvider,
		defaultWindowStart:  defaultWindowStart,
		defaultWindowEnd:    defaultWindowEnd,
		defaultSlotDuration: defaultSlotDuration,
		logger:              logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: astrologer=%s, date=%s, service=%s",
		req.Astrologer, req.Date.Format(domain.DateFormat), req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время в рабочей таймзоне
	now := uc.timeProvider.Now()

	// 3. Определяем длительность слота по услуге (0 = брать из окна)
	duration := 0
	if req.ServiceID != "" {
		duration = uc.durations.DurationFor(req.ServiceID)
	}

	// 4. Получаем рабочие окна астролога на день недели запрошенной даты
	weekday := domain.WeekdayIndex(req.Date)
	windows, err := uc.availabilityRepo.ListByAstrologerDay(ctx, req.Astrologer, weekday)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
	}

	// Расписание не настроено - используем дефолтное окно
	if len(windows) == 0 {
		windows = []*domain.AvailabilityWindow{{
			Astrologer:          req.Astrologer,
			DayOfWeek:           weekday,
			StartTime:           uc.defaultWindowStart,
			EndTime:             uc.defaultWindowEnd,
			SlotDurationMinutes: uc.defaultSlotDuration,
			IsActive:            true,
		}}
		uc.logger.Info("GetAvailableSlots: no windows configured for astrologer=%s day=%d, using default %s-%s",
			req.Astrologer, weekday, uc.defaultWindowStart, uc.defaultWindowEnd)
	}

	// 5. Генерируем слоты-кандидаты по всем окнам
	candidates, err := generateCandidates(windows, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 6. Собираем занятые слоты: активные бронирования + журнал резерваций
	bookings, err := uc.bookingRepo.ListActiveByAstrologerDate(ctx, req.Astrologer, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	reservations, err := uc.reservationRepo.ListByAstrologerDate(ctx, req.Astrologer, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	occupied := occupiedStartTimes(bookings, reservations)

	// 7. Фильтруем занятые и прошедшие слоты
	slots := filterAvailable(candidates, occupied, req.Date, now)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for astrologer=%s, date=%s",
		len(slots), len(candidates), req.Astrologer, req.Date.Format(domain.DateFormat))

	return &Response{
		Astrologer: req.Astrologer,
		Date:       req.Date,
		ServiceID:  req.ServiceID,
		Slots:      slots,
	}, nil
}
