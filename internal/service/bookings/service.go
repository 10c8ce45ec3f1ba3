package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astroindira/booking-service/internal/domain"
	bookingRepo "github.com/astroindira/booking-service/internal/infra/storage/booking"
	reservationRepo "github.com/astroindira/booking-service/internal/infra/storage/reservation"
	"github.com/astroindira/booking-service/internal/service/bookings/models"
	"github.com/astroindira/booking-service/pkg/types"
)

// defaultListLimit ограничение списка бронирований по умолчанию
const defaultListLimit = 100

// Service сервис жизненного цикла бронирований. Владеет машиной состояний:
// все переходы статусов проходят через его методы.
type Service struct {
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	gateway         PaymentGateway
	notifier        Notifier
	durations       DurationResolver
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	gateway PaymentGateway,
	notifier Notifier,
	durations DurationResolver,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		gateway:         gateway,
		notifier:        notifier,
		durations:       durations,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пустой requesterEmail означает административный доступ; иначе
// пользователь видит только собственные бронирования.
func (s *Service) GetByID(ctx context.Context, id, requesterEmail string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for requester=%s", id, requesterEmail)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := checkOwnerAccess(booking, requesterEmail); err != nil {
		s.logger.Warn("GetByID: access denied for requester=%s to booking id=%s", requesterEmail, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с опциональным фильтром по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, status=%v", req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	limit := req.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	bookings, err := s.bookingRepo.List(ctx, domainStatus, limit)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование: освобождает слот и, если платеж прошел,
// инициирует полный возврат. Ошибка возврата не блокирует отмену -
// возврат помечается для ручного разбора.
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by requester=%s", bookingID, req.RequesterEmail)

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := checkOwnerAccess(booking, req.RequesterEmail); err != nil {
		s.logger.Warn("Cancel: access denied for requester=%s to booking id=%s", req.RequesterEmail, bookingID)
		return nil, err
	}

	// 3. Проверяем, можно ли отменить бронирование
	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%s is already cancelled", bookingID)
		return nil, ErrAlreadyCancelled
	}
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// 4. Отменяем (compare-and-set: конкурентный переход в терминальный
	// статус оставляет 0 строк)
	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrNotUpdated) {
			s.logger.Warn("Cancel: booking id=%s reached a terminal status concurrently", bookingID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 5. Освобождаем слот (идемпотентно)
	released, err := s.reservationRepo.ReleaseByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("Cancel: failed to release reservation for booking id=%s: %v", bookingID, err)
	} else if released > 0 {
		s.logger.Info("Cancel: released %d reservation(s) for booking id=%s", released, bookingID)
	}

	// 6. Перечитываем состояние после отмены: payment_status больше не может
	// измениться конкурентным подтверждением оплаты (его compare-and-set
	// не проходит по отмененной брони), поэтому решение о возврате
	// принимается по этому чтению, а не по снимку из шага 1
	updated, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 7. Возврат для оплаченных бронирований
	if updated.PaymentStatus == domain.PaymentCompleted && updated.AmountPaise > 0 {
		s.processRefund(ctx, updated)

		updated, err = s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return nil, err
		}
	}

	// 8. Уведомляем клиента
	if err := s.notifier.BookingCancelled(updated); err != nil {
		s.logger.Warn("Cancel: failed to send cancellation email for booking id=%s: %v", bookingID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(updated), nil
}

// processRefund инициирует полный возврат через платежный шлюз.
// Ошибка шлюза помечает возврат для ручного разбора, отмена продолжается.
func (s *Service) processRefund(ctx context.Context, booking *domain.Booking) {
	if booking.RazorpayPaymentID == nil {
		s.logger.Warn("processRefund: booking id=%s has completed payment but no payment id, flagging for manual review",
			booking.ID)
		s.recordRefund(ctx, booking.ID, nil, domain.RefundManualReview, booking.AmountPaise)
		return
	}

	refund, err := s.gateway.Refund(ctx, *booking.RazorpayPaymentID, booking.AmountPaise)
	if err != nil {
		s.logger.Error("processRefund: refund failed for booking id=%s, flagging for manual review: %v",
			booking.ID, err)
		s.recordRefund(ctx, booking.ID, nil, domain.RefundManualReview, booking.AmountPaise)
		return
	}

	s.logger.Info("processRefund: refund %s processed for booking id=%s, amount=%d",
		refund.ID, booking.ID, booking.AmountPaise)
	s.recordRefund(ctx, booking.ID, &refund.ID, domain.RefundProcessed, booking.AmountPaise)
}

func (s *Service) recordRefund(ctx context.Context, bookingID string, refundID *string, status string, amountPaise int64) {
	if err := s.bookingRepo.SetRefund(ctx, bookingID, refundID, status, amountPaise); err != nil {
		s.logger.Error("recordRefund: failed to record refund for booking id=%s: %v", bookingID, err)
	}
}

// Update переносит бронирование на другой слот.
// Доступно только для бронирований в статусе pending. Освобождение старого
// слота и резервация нового выполняются в одной сериализуемой транзакции.
func (s *Service) Update(ctx context.Context, bookingID string, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: rescheduling booking id=%s to date=%s time=%s by requester=%s",
		bookingID, req.PreferredDate, req.PreferredTime, req.RequesterEmail)

	// 1. Парсим новый слот
	newDate, err := time.Parse(domain.DateFormat, req.PreferredDate)
	if err != nil {
		s.logger.Warn("Update: invalid date %q", req.PreferredDate)
		return nil, fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	}

	newTime, err := types.NewTimeStringFromString(req.PreferredTime)
	if err != nil {
		s.logger.Warn("Update: invalid time %q", req.PreferredTime)
		return nil, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}

	// 2. Перенос в сериализуемой транзакции: проверка занятости нового
	// слота и обмен резерваций должны быть атомарными
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Update", bookingID)
		if err != nil {
			return err
		}

		if err := checkOwnerAccess(booking, req.RequesterEmail); err != nil {
			s.logger.Warn("Update: access denied for requester=%s to booking id=%s", req.RequesterEmail, bookingID)
			return err
		}

		if !booking.CanBeRescheduled() {
			s.logger.Warn("Update: booking id=%s cannot be rescheduled, status=%s", bookingID, booking.Status)
			return ErrCannotReschedule
		}

		// Слот не изменился - ничего не делаем
		if booking.HasSlot() && booking.PreferredDate.Equal(newDate) && booking.PreferredTime == newTime {
			s.logger.Info("Update: booking id=%s slot unchanged", bookingID)
			return nil
		}

		// 2.1. Проверяем, что новый слот не занят другим бронированием
		occupant, err := s.bookingRepo.GetActiveBySlot(txCtx, booking.Astrologer, newDate, newTime)
		if err == nil && occupant.ID != bookingID {
			s.logger.Warn("Update: slot %s %s already taken by booking id=%s",
				req.PreferredDate, req.PreferredTime, occupant.ID)
			return ErrSlotNotAvailable
		}
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Error("Update: failed to check slot occupancy: %v", err)
			return fmt.Errorf("%w: Update - failed to check slot occupancy: %v", ErrInternal, err)
		}

		// 2.2. Освобождаем старый слот
		if _, err := s.reservationRepo.ReleaseByBooking(txCtx, bookingID); err != nil {
			s.logger.Error("Update: failed to release old reservation for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Update - failed to release reservation: %v", ErrInternal, err)
		}

		// 2.3. Резервируем новый слот
		endTime, err := newTime.AddMinutes(s.durations.DurationFor(booking.ServiceID))
		if err != nil {
			s.logger.Warn("Update: slot end time out of range: %v", err)
			return fmt.Errorf("%w: invalid slot time: %v", ErrInvalidInput, err)
		}

		reservation := &domain.SlotReservation{
			ID:         uuid.NewString(),
			Astrologer: booking.Astrologer,
			Date:       newDate,
			StartTime:  newTime,
			EndTime:    endTime,
			BookingID:  bookingID,
		}

		if _, err := s.reservationRepo.Reserve(txCtx, reservation); err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				s.logger.Warn("Update: slot %s %s lost to a concurrent reservation",
					req.PreferredDate, req.PreferredTime)
				return ErrSlotNotAvailable
			}
			s.logger.Error("Update: failed to reserve new slot: %v", err)
			return fmt.Errorf("%w: Update - failed to reserve slot: %v", ErrInternal, err)
		}

		// 2.4. Обновляем слот бронирования (compare-and-set по статусу pending)
		if err := s.bookingRepo.UpdateSlot(txCtx, bookingID, newDate, newTime); err != nil {
			if errors.Is(err, bookingRepo.ErrNotUpdated) {
				s.logger.Warn("Update: booking id=%s left pending status concurrently", bookingID)
				return ErrCannotReschedule
			}
			s.logger.Error("Update: repository error for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	updated, err := s.getBooking(ctx, "Update", bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully rescheduled booking id=%s to %s %s",
		bookingID, req.PreferredDate, req.PreferredTime)
	return models.FromDomainBooking(updated), nil
}

// SetStatus выставляет статус бронирования (административная операция).
// Правила консистентности: confirmed требует завершенного платежа,
// pending несовместим с завершенным платежом.
func (s *Service) SetStatus(ctx context.Context, bookingID string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("SetStatus: updating booking id=%s to status=%s", bookingID, req.Status)

	// 1. Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// 2. Проверяем существование бронирования
	if _, err := s.getBooking(ctx, "SetStatus", bookingID); err != nil {
		return nil, err
	}

	// 3. Обновляем статус (условия консистентности закодированы в запросе)
	if err := s.bookingRepo.SetStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrNotUpdated) {
			s.logger.Warn("SetStatus: transition to %s rejected for booking id=%s", newStatus, bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("SetStatus: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	// 4. Отмененное бронирование больше не держит слот
	if newStatus == domain.StatusCancelled {
		if _, err := s.reservationRepo.ReleaseByBooking(ctx, bookingID); err != nil {
			s.logger.Error("SetStatus: failed to release reservation for booking id=%s: %v", bookingID, err)
		}
	}

	updated, err := s.getBooking(ctx, "SetStatus", bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("SetStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}

// ConfirmPayment подтверждает оплату после проверки подписи шлюза
// и переводит бронирование в confirmed
func (s *Service) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: confirming payment for booking id=%s, order=%s", req.BookingID, req.OrderID)

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "ConfirmPayment", req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsFree() {
		s.logger.Warn("ConfirmPayment: booking id=%s is free, nothing to confirm", req.BookingID)
		return nil, ErrNoPaymentRequired
	}

	// 2. Заказ из запроса должен совпадать с заказом бронирования
	if booking.RazorpayOrderID == nil || *booking.RazorpayOrderID != req.OrderID {
		s.logger.Warn("ConfirmPayment: order id mismatch for booking id=%s", req.BookingID)
		return nil, ErrSignatureInvalid
	}

	// 3. Проверяем подпись платежа
	if err := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		s.logger.Warn("ConfirmPayment: signature verification failed for booking id=%s: %v", req.BookingID, err)
		return nil, ErrSignatureInvalid
	}

	// 4. Переводим платеж и бронирование (compare-and-set: терминальные
	// и уже оплаченные брони не затрагиваются)
	if err := s.bookingRepo.ConfirmPayment(ctx, req.BookingID, req.PaymentID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotUpdated) {
			s.logger.Warn("ConfirmPayment: transition rejected for booking id=%s", req.BookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("ConfirmPayment: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	// 5. Читаем итоговое состояние и уведомляем клиента
	updated, err := s.getBooking(ctx, "ConfirmPayment", req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.PaymentConfirmed(updated); err != nil {
		s.logger.Warn("ConfirmPayment: failed to send confirmation email for booking id=%s: %v", req.BookingID, err)
	}

	s.logger.Info("ConfirmPayment: successfully confirmed payment for booking id=%s", req.BookingID)
	return models.FromDomainBooking(updated), nil
}

// FailPayment помечает платеж как неуспешный. Статус бронирования
// не меняется: возможен повтор платежа или авто-истечение.
func (s *Service) FailPayment(ctx context.Context, bookingID string) error {
	s.logger.Info("FailPayment: marking payment failed for booking id=%s", bookingID)

	booking, err := s.getBooking(ctx, "FailPayment", bookingID)
	if err != nil {
		return err
	}

	if booking.IsFree() {
		s.logger.Warn("FailPayment: booking id=%s is free", bookingID)
		return ErrNoPaymentRequired
	}

	if err := s.bookingRepo.MarkPaymentFailed(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotUpdated) {
			s.logger.Warn("FailPayment: payment for booking id=%s is not pending", bookingID)
			return ErrPaymentNotPending
		}
		s.logger.Error("FailPayment: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: FailPayment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("FailPayment: successfully marked payment failed for booking id=%s", bookingID)
	return nil
}

// RetryPayment открывает новый заказ в платежном шлюзе взамен прежнего.
// Доступно только при payment_status=pending и ненулевой сумме.
func (s *Service) RetryPayment(ctx context.Context, bookingID string) (*models.RetryPaymentResponse, error) {
	s.logger.Info("RetryPayment: retrying payment for booking id=%s", bookingID)

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "RetryPayment", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.IsFree() {
		s.logger.Warn("RetryPayment: booking id=%s is free, nothing to pay", bookingID)
		return nil, ErrNoPaymentRequired
	}

	if booking.PaymentStatus != domain.PaymentPending {
		s.logger.Warn("RetryPayment: payment for booking id=%s is %s, not pending", bookingID, booking.PaymentStatus)
		return nil, ErrPaymentNotPending
	}

	if !s.gateway.Enabled() {
		s.logger.Warn("RetryPayment: payment gateway disabled")
		return nil, ErrPaymentGatewayUnavailable
	}

	// 2. Открываем новый заказ
	order, err := s.gateway.CreateOrder(ctx, booking.AmountPaise, domain.PaymentCurrency, bookingID)
	if err != nil {
		s.logger.Error("RetryPayment: failed to create order for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: RetryPayment - gateway error: %v", ErrInternal, err)
	}

	// 3. Заменяем order id (compare-and-set: только при payment=pending)
	if err := s.bookingRepo.UpdateOrderID(ctx, bookingID, order.ID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotUpdated) {
			s.logger.Warn("RetryPayment: payment for booking id=%s left pending concurrently", bookingID)
			return nil, ErrPaymentNotPending
		}
		s.logger.Error("RetryPayment: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: RetryPayment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RetryPayment: new order %s created for booking id=%s", order.ID, bookingID)
	return &models.RetryPaymentResponse{
		BookingID:       bookingID,
		RazorpayOrderID: order.ID,
		AmountPaise:     booking.AmountPaise,
		Currency:        domain.PaymentCurrency,
	}, nil
}

// ExpireStale отменяет протухшие неоплаченные бронирования: pending/pending
// с уже прошедшим временем консультации (в рабочей таймзоне).
// Возвращает число отмененных бронирований.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowTime := types.NewTimeString(now)

	stale, err := s.bookingRepo.ListStalePending(ctx, today, nowTime)
	if err != nil {
		s.logger.Error("ExpireStale: failed to list stale bookings: %v", err)
		return 0, fmt.Errorf("%w: ExpireStale - repository error: %v", ErrInternal, err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	s.logger.Info("ExpireStale: found %d stale pending bookings", len(stale))

	expired := 0
	for _, booking := range stale {
		// Compare-and-set: конкурентная отмена или оплата оставляет
		// 0 строк - такое бронирование просто пропускаем
		if err := s.bookingRepo.Cancel(ctx, booking.ID, domain.ExpiredCancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrNotUpdated) {
				s.logger.Info("ExpireStale: booking id=%s transitioned concurrently, skipping", booking.ID)
				continue
			}
			s.logger.Error("ExpireStale: failed to cancel booking id=%s: %v", booking.ID, err)
			continue
		}

		if _, err := s.reservationRepo.ReleaseByBooking(ctx, booking.ID); err != nil {
			s.logger.Error("ExpireStale: failed to release reservation for booking id=%s: %v", booking.ID, err)
		}

		s.logger.Info("ExpireStale: expired booking id=%s (slot %s %s)",
			booking.ID, booking.PreferredDate.Format(domain.DateFormat), booking.PreferredTime)
		expired++
	}

	return expired, nil
}

// Вспомогательные методы

// getBooking получает бронирование с маппингом ошибок репозитория
func (s *Service) getBooking(ctx context.Context, operation, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", operation, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", operation, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, operation, err)
	}
	return booking, nil
}

// checkOwnerAccess проверяет, что запрос исходит от владельца бронирования.
// Пустой requesterEmail означает административный доступ.
func checkOwnerAccess(booking *domain.Booking, requesterEmail string) error {
	if requesterEmail == "" {
		return nil
	}
	if booking.Email != requesterEmail {
		return ErrAccessDenied
	}
	return nil
}
