package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/astroindira/booking-service/internal/domain"
	bookingRepo "github.com/astroindira/booking-service/internal/infra/storage/booking"
	customerRepo "github.com/astroindira/booking-service/internal/infra/storage/customer"
	reservationRepo "github.com/astroindira/booking-service/internal/infra/storage/reservation"
	"github.com/astroindira/booking-service/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	customerRepo    CustomerRepository
	pricing         PricingResolver
	gateway         PaymentGateway
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	customerRepo CustomerRepository,
	pricing PricingResolver,
	gateway PaymentGateway,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		pricing:         pricing,
		gateway:         gateway,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости слота, резервация и запись бронирования выполняются
// в одной сериализуемой транзакции для предотвращения гонки данных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: email=%s, astrologer=%s, service=%s, tier=%s, date=%s, time=%s",
		req.Email, req.Astrologer, req.ServiceID, req.DurationTier,
		req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время в рабочей таймзоне
	now := uc.timeProvider.Now()

	tier := domain.DurationTier(req.DurationTier)
	hasSlot := !req.PreferredDate.IsZero() && !req.PreferredTime.IsZero()

	// 3. Запрошенный слот должен быть строго в будущем
	if hasSlot {
		if err := validateSlotInFuture(req.PreferredDate, req.PreferredTime, now); err != nil {
			uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
			return nil, err
		}
	}

	// 4. Вычисляем цену
	amount, err := uc.pricing.PriceFor(tier, req.ServiceID)
	if err != nil {
		if errors.Is(err, pricing.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service %q not found in catalog", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookingID := uuid.NewString()

	// 5. Для платных бронирований открываем заказ в платежном шлюзе.
	// Ошибка шлюза прерывает создание: платное бронирование без заказа
	// не имеет смысла.
	var orderID *string
	if amount > 0 {
		if !uc.gateway.Enabled() {
			uc.logger.Warn("CreateBooking: payment gateway disabled, rejecting paid booking")
			return nil, ErrPaymentGatewayUnavailable
		}

		order, err := uc.gateway.CreateOrder(ctx, amount, domain.PaymentCurrency, bookingID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create payment order: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentOrderFailed, err)
		}
		orderID = &order.ID
	}

	// 6. Определяем начальные статусы: бесплатный тариф подтверждается
	// сразу, платный ждет оплаты
	status := domain.StatusPending
	paymentStatus := domain.PaymentPending
	if amount == 0 {
		status = domain.StatusConfirmed
		paymentStatus = domain.PaymentCompleted
	}

	booking := &domain.Booking{
		ID:               bookingID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		TimeOfBirth:      req.TimeOfBirth,
		PlaceOfBirth:     req.PlaceOfBirth,
		Astrologer:       req.Astrologer,
		ServiceID:        req.ServiceID,
		ConsultationType: domain.ConsultationType(req.ConsultationType),
		DurationTier:     tier,
		PreferredDate:    req.PreferredDate,
		PreferredTime:    req.PreferredTime,
		Message:          req.Message,
		Status:           status,
		PaymentStatus:    paymentStatus,
		AmountPaise:      amount,
		RazorpayOrderID:  orderID,
	}

	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Создаем или обновляем клиента
		customer := &domain.Customer{
			ID:    uuid.NewString(),
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		}
		if _, err := uc.customerRepo.Upsert(txCtx, customer); err != nil {
			uc.logger.Error("CreateBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 7.2. Бесплатный тариф расходуется атомарно: второй бесплатной
		// сессии у клиента не бывает
		if tier.IsFree() {
			if err := uc.customerRepo.ConsumeFreeSession(txCtx, req.Email); err != nil {
				if errors.Is(err, customerRepo.ErrFreeSessionAlreadyUsed) {
					uc.logger.Warn("CreateBooking: free session already used by %s", req.Email)
					return ErrFreeSessionUsed
				}
				uc.logger.Error("CreateBooking: failed to consume free session: %v", err)
				return fmt.Errorf("%w: failed to consume free session: %v", ErrInternal, err)
			}
		}

		// 7.3. Проверяем занятость слота и резервируем его
		if hasSlot {
			_, err := uc.bookingRepo.GetActiveBySlot(txCtx, req.Astrologer, req.PreferredDate, req.PreferredTime)
			if err == nil {
				uc.logger.Warn("CreateBooking: slot %s %s already taken by another booking",
					req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)
				return ErrSlotNotAvailable
			}
			if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Error("CreateBooking: failed to check slot occupancy: %v", err)
				return fmt.Errorf("%w: failed to check slot occupancy: %v", ErrInternal, err)
			}

			endTime, err := req.PreferredTime.AddMinutes(uc.pricing.DurationFor(req.ServiceID))
			if err != nil {
				uc.logger.Warn("CreateBooking: slot end time out of range: %v", err)
				return fmt.Errorf("%w: invalid slot time: %v", ErrInvalidInput, err)
			}

			reservation := &domain.SlotReservation{
				ID:         uuid.NewString(),
				Astrologer: req.Astrologer,
				Date:       req.PreferredDate,
				StartTime:  req.PreferredTime,
				EndTime:    endTime,
				BookingID:  bookingID,
			}

			if _, err := uc.reservationRepo.Reserve(txCtx, reservation); err != nil {
				if errors.Is(err, reservationRepo.ErrSlotTaken) {
					uc.logger.Warn("CreateBooking: slot %s %s lost to a concurrent reservation",
						req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)
					return ErrSlotNotAvailable
				}
				uc.logger.Error("CreateBooking: failed to reserve slot: %v", err)
				return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
			}
		}

		// 7.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, amount=%d, status=%s",
		result.ID, result.AmountPaise, result.Status)

	// 8. Письмо-подтверждение best-effort: ошибка не влияет на результат
	if err := uc.notifier.BookingCreated(result); err != nil {
		uc.logger.Warn("CreateBooking: failed to send confirmation email for booking id=%s: %v", result.ID, err)
	}

	return &Response{
		ID:               result.ID,
		Name:             result.Name,
		Email:            result.Email,
		Astrologer:       result.Astrologer,
		ServiceID:        result.ServiceID,
		ConsultationType: string(result.ConsultationType),
		DurationTier:     string(result.DurationTier),
		PreferredDate:    result.PreferredDate,
		PreferredTime:    result.PreferredTime,
		Status:           string(result.Status),
		PaymentStatus:    string(result.PaymentStatus),
		AmountPaise:      result.AmountPaise,
		RazorpayOrderID:  result.RazorpayOrderID,
		CreatedAt:        result.CreatedAt,
	}, nil
}
