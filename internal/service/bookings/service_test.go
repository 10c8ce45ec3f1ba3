package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroindira/booking-service/internal/domain"
	bookingRepo "github.com/astroindira/booking-service/internal/infra/storage/booking"
	reservationRepo "github.com/astroindira/booking-service/internal/infra/storage/reservation"
	"github.com/astroindira/booking-service/internal/integrations/razorpay"
	"github.com/astroindira/booking-service/internal/service/bookings/models"
	"github.com/astroindira/booking-service/internal/service/pricing"
	"github.com/astroindira/booking-service/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBookingRepo хранит бронирования в памяти и воспроизводит
// compare-and-set семантику хранилища
type fakeBookingRepo struct {
	bookings map[string]*domain.Booking
	stale    []*domain.Booking

	// onCancel вызывается перед compare-and-set отменой: позволяет
	// вклинить конкурентный переход между чтением и отменой
	onCancel func()
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

// GetByID возвращает копию: читающий видит снимок, а не живой объект
func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	snapshot := *b
	return &snapshot, nil
}

func (r *fakeBookingRepo) List(_ context.Context, status *domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if status != nil && b.Status != *status {
			continue
		}
		if len(result) >= limit {
			break
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetActiveBySlot(_ context.Context, astrologer string, date time.Time, startTime types.TimeString) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.IsActive() && b.Astrologer == astrologer && b.PreferredDate.Equal(date) && b.PreferredTime == startTime {
			return b, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) UpdateSlot(_ context.Context, id string, date time.Time, startTime types.TimeString) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != domain.StatusPending {
		return bookingRepo.ErrNotUpdated
	}
	b.PreferredDate = date
	b.PreferredTime = startTime
	return nil
}

func (r *fakeBookingRepo) ConfirmPayment(_ context.Context, id, paymentID string) error {
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != domain.PaymentPending || b.IsTerminal() {
		return bookingRepo.ErrNotUpdated
	}
	b.PaymentStatus = domain.PaymentCompleted
	b.Status = domain.StatusConfirmed
	b.RazorpayPaymentID = &paymentID
	return nil
}

func (r *fakeBookingRepo) MarkPaymentFailed(_ context.Context, id string) error {
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != domain.PaymentPending {
		return bookingRepo.ErrNotUpdated
	}
	b.PaymentStatus = domain.PaymentFailed
	return nil
}

func (r *fakeBookingRepo) UpdateOrderID(_ context.Context, id, orderID string) error {
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != domain.PaymentPending {
		return bookingRepo.ErrNotUpdated
	}
	b.RazorpayOrderID = &orderID
	return nil
}

func (r *fakeBookingRepo) SetStatus(_ context.Context, id string, status domain.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok || b.IsTerminal() {
		return bookingRepo.ErrNotUpdated
	}
	// Правила консистентности статуса и платежа
	if status == domain.StatusConfirmed && b.PaymentStatus != domain.PaymentCompleted {
		return bookingRepo.ErrNotUpdated
	}
	if status == domain.StatusPending && b.PaymentStatus == domain.PaymentCompleted {
		return bookingRepo.ErrNotUpdated
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id, reason string) error {
	if r.onCancel != nil {
		r.onCancel()
	}
	b, ok := r.bookings[id]
	if !ok || b.IsTerminal() {
		return bookingRepo.ErrNotUpdated
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

func (r *fakeBookingRepo) SetRefund(_ context.Context, id string, refundID *string, refundStatus string, amountPaise int64) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotUpdated
	}
	b.RefundID = refundID
	b.RefundStatus = &refundStatus
	b.RefundAmountPaise = &amountPaise
	if refundStatus == domain.RefundProcessed {
		b.PaymentStatus = domain.PaymentRefunded
	}
	return nil
}

func (r *fakeBookingRepo) ListStalePending(context.Context, time.Time, types.TimeString) ([]*domain.Booking, error) {
	return r.stale, nil
}

type fakeReservationRepo struct {
	reserved   []*domain.SlotReservation
	reserveErr error
	released   map[string]int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{released: make(map[string]int)}
}

func (r *fakeReservationRepo) Reserve(_ context.Context, res *domain.SlotReservation) (*domain.SlotReservation, error) {
	if r.reserveErr != nil {
		return nil, r.reserveErr
	}
	r.reserved = append(r.reserved, res)
	return res, nil
}

func (r *fakeReservationRepo) ReleaseByBooking(_ context.Context, bookingID string) (int64, error) {
	r.released[bookingID]++
	return 1, nil
}

type fakeGateway struct {
	enabled      bool
	refundErr    error
	signatureErr error
	orders       int
	refunds      int
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error) {
	g.orders++
	return &razorpay.Order{ID: "order_retry_1", Amount: amountPaise, Currency: currency, Receipt: receipt}, nil
}

func (g *fakeGateway) Refund(_ context.Context, paymentID string, amountPaise int64) (*razorpay.Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds++
	return &razorpay.Refund{ID: "rfnd_test_1", PaymentID: paymentID, Amount: amountPaise, Status: "processed"}, nil
}

func (g *fakeGateway) VerifySignature(string, string, string) error {
	return g.signatureErr
}

type fakeNotifier struct {
	paymentConfirmed int
	bookingCancelled int
}

func (n *fakeNotifier) PaymentConfirmed(*domain.Booking) error {
	n.paymentConfirmed++
	return nil
}

func (n *fakeNotifier) BookingCancelled(*domain.Booking) error {
	n.bookingCancelled++
	return nil
}

type serviceEnv struct {
	bookings     *fakeBookingRepo
	reservations *fakeReservationRepo
	gateway      *fakeGateway
	notifier     *fakeNotifier
	svc          *Service
}

func newServiceEnv(bookings ...*domain.Booking) *serviceEnv {
	env := &serviceEnv{
		bookings:     newFakeBookingRepo(bookings...),
		reservations: newFakeReservationRepo(),
		gateway:      &fakeGateway{enabled: true},
		notifier:     &fakeNotifier{},
	}

	loc := time.FixedZone("IST", 5*3600+1800)
	env.svc = NewService(
		env.bookings,
		env.reservations,
		env.gateway,
		env.notifier,
		pricing.NewResolver(30),
		fakeTxManager{},
		&fixedTimeProvider{now: time.Date(2026, 3, 16, 10, 0, 0, 0, loc)},
		nopLogger{},
	)
	return env
}

func strPtr(s string) *string { return &s }

func paidBooking(id string) *domain.Booking {
	return &domain.Booking{
		ID:               id,
		Name:             "Priya Sharma",
		Email:            "priya@example.com",
		Phone:            "+919876543210",
		Astrologer:       "indira",
		ServiceID:        "vedic-consultation",
		ConsultationType: domain.ConsultationOnline,
		DurationTier:     domain.TierMedium,
		PreferredDate:    time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		PreferredTime:    "11:00",
		Status:           domain.StatusPending,
		PaymentStatus:    domain.PaymentPending,
		AmountPaise:      150000,
		RazorpayOrderID:  strPtr("order_test_1"),
	}
}

func TestGetByID_OwnerAccess(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	// Владелец видит свое бронирование
	resp, err := env.svc.GetByID(context.Background(), "b1", "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, "b1", resp.ID)

	// Пустой requester - административный доступ
	_, err = env.svc.GetByID(context.Background(), "b1", "")
	require.NoError(t, err)

	// Чужое бронирование недоступно
	_, err = env.svc.GetByID(context.Background(), "b1", "other@example.com")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_StatusFilter(t *testing.T) {
	confirmed := paidBooking("b2")
	confirmed.Status = domain.StatusConfirmed
	env := newServiceEnv(paidBooking("b1"), confirmed)

	resp, err := env.svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	status := "confirmed"
	resp, err = env.svc.List(context.Background(), &models.ListBookingsRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "b2", resp.Bookings[0].ID)

	bad := "unknown"
	_, err = env.svc.List(context.Background(), &models.ListBookingsRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_ReleasesSlot(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	resp, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{
		RequesterEmail:     "priya@example.com",
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "plans changed", *resp.CancellationReason)
	assert.Equal(t, 1, env.reservations.released["b1"])
	assert.Equal(t, 1, env.notifier.bookingCancelled)

	// Платеж не прошел - возврата нет
	assert.Equal(t, 0, env.gateway.refunds)
}

func TestCancel_PaidBookingRefunded(t *testing.T) {
	booking := paidBooking("b1")
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentCompleted
	booking.RazorpayPaymentID = strPtr("pay_test_1")
	env := newServiceEnv(booking)

	resp, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{
		RequesterEmail: "priya@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, env.gateway.refunds)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	require.NotNil(t, resp.RefundStatus)
	assert.Equal(t, domain.RefundProcessed, *resp.RefundStatus)
	require.NotNil(t, resp.RefundID)
	assert.Equal(t, "rfnd_test_1", *resp.RefundID)
}

func TestCancel_ConcurrentPaymentConfirmationRefunded(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	// Оплата подтверждается между чтением бронирования и compare-and-set
	// отменой: в снимке платеж еще pending, но отмена проходит, потому что
	// confirmed не терминальный статус
	env.bookings.onCancel = func() {
		require.NoError(t, env.bookings.ConfirmPayment(context.Background(), "b1", "pay_test_1"))
	}

	resp, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{
		RequesterEmail: "priya@example.com",
	})
	require.NoError(t, err)

	// Решение о возврате принято по итоговому состоянию, а не по снимку
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 1, env.gateway.refunds)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	require.NotNil(t, resp.RefundStatus)
	assert.Equal(t, domain.RefundProcessed, *resp.RefundStatus)
}

func TestCancel_RefundFailureFlagsManualReview(t *testing.T) {
	booking := paidBooking("b1")
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentCompleted
	booking.RazorpayPaymentID = strPtr("pay_test_1")
	env := newServiceEnv(booking)
	env.gateway.refundErr = errors.New("gateway down")

	resp, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{
		RequesterEmail: "priya@example.com",
	})
	require.NoError(t, err)

	// Отмена прошла, возврат помечен для ручного разбора
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.RefundStatus)
	assert.Equal(t, domain.RefundManualReview, *resp.RefundStatus)
	assert.Nil(t, resp.RefundID)
}

func TestCancel_MissingPaymentIDFlagsManualReview(t *testing.T) {
	booking := paidBooking("b1")
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentCompleted
	env := newServiceEnv(booking)

	resp, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{
		RequesterEmail: "priya@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.gateway.refunds)
	require.NotNil(t, resp.RefundStatus)
	assert.Equal(t, domain.RefundManualReview, *resp.RefundStatus)
}

func TestCancel_Guards(t *testing.T) {
	cancelled := paidBooking("b1")
	cancelled.Status = domain.StatusCancelled
	completed := paidBooking("b2")
	completed.Status = domain.StatusCompleted
	env := newServiceEnv(cancelled, completed)

	_, err := env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = env.svc.Cancel(context.Background(), "b2", &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = env.svc.Cancel(context.Background(), "b1", &models.CancelBookingRequest{RequesterEmail: "other@example.com"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_ReschedulesSlot(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	resp, err := env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		RequesterEmail: "priya@example.com",
		PreferredDate:  "2026-03-25",
		PreferredTime:  "15:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-25", resp.PreferredDate)
	assert.Equal(t, "15:00", resp.PreferredTime)

	// Старая резервация освобождена, новая создана на длительность услуги
	assert.Equal(t, 1, env.reservations.released["b1"])
	require.Len(t, env.reservations.reserved, 1)
	assert.Equal(t, types.TimeString("15:30"), env.reservations.reserved[0].EndTime)
}

func TestUpdate_SlotTaken(t *testing.T) {
	other := paidBooking("b2")
	other.PreferredDate = time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
	other.PreferredTime = "15:00"
	env := newServiceEnv(paidBooking("b1"), other)

	_, err := env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		RequesterEmail: "priya@example.com",
		PreferredDate:  "2026-03-25",
		PreferredTime:  "15:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUpdate_ConcurrentReservationLoss(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))
	env.reservations.reserveErr = reservationRepo.ErrSlotTaken

	_, err := env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		RequesterEmail: "priya@example.com",
		PreferredDate:  "2026-03-25",
		PreferredTime:  "15:00",
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUpdate_Guards(t *testing.T) {
	confirmed := paidBooking("b1")
	confirmed.Status = domain.StatusConfirmed
	env := newServiceEnv(confirmed)

	// Перенос доступен только для pending
	_, err := env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		RequesterEmail: "priya@example.com",
		PreferredDate:  "2026-03-25",
		PreferredTime:  "15:00",
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)

	// Некорректные дата и время
	_, err = env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		PreferredDate: "25-03-2026",
		PreferredTime: "15:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.Update(context.Background(), "b1", &models.UpdateBookingRequest{
		PreferredDate: "2026-03-25",
		PreferredTime: "3pm",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetStatus_Transitions(t *testing.T) {
	booking := paidBooking("b1")
	booking.PaymentStatus = domain.PaymentCompleted
	env := newServiceEnv(booking)

	resp, err := env.svc.SetStatus(context.Background(), "b1", &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	// Возврат в pending с завершенным платежом запрещен
	_, err = env.svc.SetStatus(context.Background(), "b1", &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.svc.SetStatus(context.Background(), "b1", &models.UpdateStatusRequest{Status: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetStatus_ConfirmRequiresCompletedPayment(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	_, err := env.svc.SetStatus(context.Background(), "b1", &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatus_CancelledReleasesSlot(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	resp, err := env.svc.SetStatus(context.Background(), "b1", &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 1, env.reservations.released["b1"])
}

func TestConfirmPayment(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	resp, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
		BookingID: "b1",
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "valid-signature",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentCompleted), resp.PaymentStatus)
	require.NotNil(t, resp.RazorpayPaymentID)
	assert.Equal(t, "pay_test_1", *resp.RazorpayPaymentID)
	assert.Equal(t, 1, env.notifier.paymentConfirmed)
}

func TestConfirmPayment_OrderMismatch(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
		BookingID: "b1",
		OrderID:   "order_other",
		PaymentID: "pay_test_1",
		Signature: "valid-signature",
	})
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestConfirmPayment_BadSignature(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))
	env.gateway.signatureErr = errors.New("signature mismatch")

	_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
		BookingID: "b1",
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "forged",
	})
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.Equal(t, 0, env.notifier.paymentConfirmed)
}

func TestConfirmPayment_FreeBooking(t *testing.T) {
	booking := paidBooking("b1")
	booking.AmountPaise = 0
	env := newServiceEnv(booking)

	_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
		BookingID: "b1",
		OrderID:   "order_test_1",
	})
	assert.ErrorIs(t, err, ErrNoPaymentRequired)
}

func TestConfirmPayment_AlreadyProcessed(t *testing.T) {
	booking := paidBooking("b1")
	booking.PaymentStatus = domain.PaymentCompleted
	env := newServiceEnv(booking)

	_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
		BookingID: "b1",
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: "valid-signature",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFailPayment(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	require.NoError(t, env.svc.FailPayment(context.Background(), "b1"))

	booking := env.bookings.bookings["b1"]
	assert.Equal(t, domain.PaymentFailed, booking.PaymentStatus)
	// Статус бронирования не меняется: возможен повтор платежа
	assert.Equal(t, domain.StatusPending, booking.Status)

	// Повторная попытка пометить - платеж уже не pending
	err := env.svc.FailPayment(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}

func TestRetryPayment(t *testing.T) {
	env := newServiceEnv(paidBooking("b1"))

	resp, err := env.svc.RetryPayment(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "order_retry_1", resp.RazorpayOrderID)
	assert.Equal(t, int64(150000), resp.AmountPaise)
	assert.Equal(t, domain.PaymentCurrency, resp.Currency)

	booking := env.bookings.bookings["b1"]
	require.NotNil(t, booking.RazorpayOrderID)
	assert.Equal(t, "order_retry_1", *booking.RazorpayOrderID)
}

func TestRetryPayment_Guards(t *testing.T) {
	free := paidBooking("free")
	free.AmountPaise = 0
	completed := paidBooking("paid")
	completed.PaymentStatus = domain.PaymentCompleted
	env := newServiceEnv(free, completed, paidBooking("b1"))

	_, err := env.svc.RetryPayment(context.Background(), "free")
	assert.ErrorIs(t, err, ErrNoPaymentRequired)

	_, err = env.svc.RetryPayment(context.Background(), "paid")
	assert.ErrorIs(t, err, ErrPaymentNotPending)

	env.gateway.enabled = false
	_, err = env.svc.RetryPayment(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrPaymentGatewayUnavailable)
}

func TestExpireStale(t *testing.T) {
	stale1 := paidBooking("s1")
	stale2 := paidBooking("s2")
	env := newServiceEnv(stale1, stale2)
	env.bookings.stale = []*domain.Booking{stale1, stale2}

	expired, err := env.svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)

	assert.Equal(t, domain.StatusCancelled, stale1.Status)
	require.NotNil(t, stale1.CancellationReason)
	assert.Equal(t, domain.ExpiredCancellationReason, *stale1.CancellationReason)
	assert.Equal(t, 1, env.reservations.released["s1"])
	assert.Equal(t, 1, env.reservations.released["s2"])
}

func TestExpireStale_SkipsConcurrentlyTransitioned(t *testing.T) {
	stale := paidBooking("s1")
	paidMeanwhile := paidBooking("s2")
	paidMeanwhile.Status = domain.StatusCompleted // конкурентный переход
	env := newServiceEnv(stale, paidMeanwhile)
	env.bookings.stale = []*domain.Booking{stale, paidMeanwhile}

	expired, err := env.svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, domain.StatusCompleted, paidMeanwhile.Status)
}
