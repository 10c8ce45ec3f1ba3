package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroindira/booking-service/internal/domain"
	bookingRepo "github.com/astroindira/booking-service/internal/infra/storage/booking"
	customerRepo "github.com/astroindira/booking-service/internal/infra/storage/customer"
	reservationRepo "github.com/astroindira/booking-service/internal/infra/storage/reservation"
	"github.com/astroindira/booking-service/internal/integrations/razorpay"
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

type mockBookingRepo struct {
	created      *domain.Booking
	slotOccupant *domain.Booking
}

func (r *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.created = b
	return b, nil
}

func (r *mockBookingRepo) GetActiveBySlot(context.Context, string, time.Time, types.TimeString) (*domain.Booking, error) {
	if r.slotOccupant != nil {
		return r.slotOccupant, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

type mockReservationRepo struct {
	reserved *domain.SlotReservation
	err      error
}

func (r *mockReservationRepo) Reserve(_ context.Context, res *domain.SlotReservation) (*domain.SlotReservation, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.reserved = res
	return res, nil
}

type mockCustomerRepo struct {
	upserted        *domain.Customer
	freeSessionErr  error
	consumedSession bool
}

func (r *mockCustomerRepo) Upsert(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.upserted = c
	return c, nil
}

func (r *mockCustomerRepo) ConsumeFreeSession(context.Context, string) error {
	if r.freeSessionErr != nil {
		return r.freeSessionErr
	}
	r.consumedSession = true
	return nil
}

type fakeGateway struct {
	enabled  bool
	orderErr error
	orders   int
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders++
	return &razorpay.Order{
		ID:       "order_test_1",
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

type fakeNotifier struct {
	sent int
	err  error
}

func (n *fakeNotifier) BookingCreated(*domain.Booking) error {
	n.sent++
	return n.err
}

type testEnv struct {
	bookings     *mockBookingRepo
	reservations *mockReservationRepo
	customers    *mockCustomerRepo
	gateway      *fakeGateway
	notifier     *fakeNotifier
	uc           *UseCase
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		bookings:     &mockBookingRepo{},
		reservations: &mockReservationRepo{},
		customers:    &mockCustomerRepo{},
		gateway:      &fakeGateway{enabled: true},
		notifier:     &fakeNotifier{},
	}
	env.uc = NewUseCase(
		env.bookings,
		env.reservations,
		env.customers,
		pricing.NewResolver(30),
		env.gateway,
		env.notifier,
		fakeTxManager{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)
	return env
}

func testNow() time.Time {
	loc := time.FixedZone("IST", 5*3600+1800)
	return time.Date(2026, 3, 16, 10, 0, 0, 0, loc)
}

func validRequest() *Request {
	return &Request{
		Name:             "Priya Sharma",
		Email:            "priya@example.com",
		Phone:            "+919876543210",
		Astrologer:       "indira",
		ServiceID:        "vedic-consultation",
		ConsultationType: string(domain.ConsultationOnline),
		DurationTier:     string(domain.TierMedium),
		PreferredDate:    time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		PreferredTime:    "11:00",
	}
}

func TestExecute_PaidBooking(t *testing.T) {
	env := newTestEnv(testNow())

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Платное бронирование ждет оплаты
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, int64(150000), resp.AmountPaise)
	require.NotNil(t, resp.RazorpayOrderID)
	assert.Equal(t, "order_test_1", *resp.RazorpayOrderID)

	// Слот зарезервирован на длительность услуги
	require.NotNil(t, env.reservations.reserved)
	assert.Equal(t, types.TimeString("11:00"), env.reservations.reserved.StartTime)
	assert.Equal(t, types.TimeString("11:30"), env.reservations.reserved.EndTime)
	assert.Equal(t, resp.ID, env.reservations.reserved.BookingID)

	// Клиент сохранен, письмо отправлено
	require.NotNil(t, env.customers.upserted)
	assert.False(t, env.customers.consumedSession)
	assert.Equal(t, 1, env.notifier.sent)
}

func TestExecute_FreeBookingConfirmedImmediately(t *testing.T) {
	env := newTestEnv(testNow())

	req := validRequest()
	req.DurationTier = string(domain.TierShort)

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentCompleted), resp.PaymentStatus)
	assert.Equal(t, int64(0), resp.AmountPaise)
	assert.Nil(t, resp.RazorpayOrderID)

	// Бесплатная сессия израсходована, шлюз не трогали
	assert.True(t, env.customers.consumedSession)
	assert.Equal(t, 0, env.gateway.orders)
}

func TestExecute_FreeSessionAlreadyUsed(t *testing.T) {
	env := newTestEnv(testNow())
	env.customers.freeSessionErr = customerRepo.ErrFreeSessionAlreadyUsed

	req := validRequest()
	req.DurationTier = string(domain.TierShort)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrFreeSessionUsed)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_SlotTakenByActiveBooking(t *testing.T) {
	env := newTestEnv(testNow())
	env.bookings.slotOccupant = &domain.Booking{ID: "other"}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SlotLostToConcurrentReservation(t *testing.T) {
	env := newTestEnv(testNow())
	env.reservations.err = reservationRepo.ErrSlotTaken

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_NoSlotSkipsReservation(t *testing.T) {
	env := newTestEnv(testNow())

	req := validRequest()
	req.PreferredDate = time.Time{}
	req.PreferredTime = ""

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, env.reservations.reserved)
	assert.NotEmpty(t, resp.ID)
}

func TestExecute_GatewayDisabled(t *testing.T) {
	env := newTestEnv(testNow())
	env.gateway.enabled = false

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentGatewayUnavailable)
}

func TestExecute_OrderCreationFails(t *testing.T) {
	env := newTestEnv(testNow())
	env.gateway.orderErr = errors.New("gateway down")

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentOrderFailed)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_UnknownService(t *testing.T) {
	env := newTestEnv(testNow())

	req := validRequest()
	req.ServiceID = "unknown-service"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SlotInPast(t *testing.T) {
	env := newTestEnv(testNow())

	req := validRequest()
	req.PreferredDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	req.PreferredTime = "09:00" // сейчас 10:00 того же дня

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_Validation(t *testing.T) {
	env := newTestEnv(testNow())

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty name", func(r *Request) { r.Name = " " }},
		{"bad email", func(r *Request) { r.Email = "not-an-email" }},
		{"empty phone", func(r *Request) { r.Phone = "" }},
		{"empty astrologer", func(r *Request) { r.Astrologer = "" }},
		{"bad tier", func(r *Request) { r.DurationTier = "60+" }},
		{"bad consultation type", func(r *Request) { r.ConsultationType = "telepathy" }},
		{"time without date", func(r *Request) { r.PreferredDate = time.Time{} }},
		{"bad time format", func(r *Request) { r.PreferredTime = "9:00" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_NotifierFailureDoesNotFailBooking(t *testing.T) {
	env := newTestEnv(testNow())
	env.notifier.err = errors.New("smtp timeout")

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}
