package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/internal/service/availability/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubRepo struct {
	upserted *domain.AvailabilityWindow
	windows  []*domain.AvailabilityWindow
}

func (r *stubRepo) Upsert(_ context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	r.upserted = w
	return w, nil
}

func (r *stubRepo) ListByAstrologer(context.Context, string) ([]*domain.AvailabilityWindow, error) {
	return r.windows, nil
}

func validRequest() *models.UpsertWindowRequest {
	return &models.UpsertWindowRequest{
		Astrologer:          "indira",
		DayOfWeek:           0,
		StartTime:           "18:30",
		EndTime:             "22:00",
		SlotDurationMinutes: 20,
	}
}

func TestUpsert(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Upsert(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "indira", resp.Astrologer)
	// Без явного флага окно активно
	assert.True(t, resp.IsActive)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, 20, repo.upserted.SlotDurationMinutes)
}

func TestUpsert_ExplicitInactive(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nopLogger{})

	inactive := false
	req := validRequest()
	req.IsActive = &inactive

	resp, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestUpsert_Validation(t *testing.T) {
	svc := NewService(&stubRepo{}, nopLogger{})

	cases := []struct {
		name   string
		mutate func(*models.UpsertWindowRequest)
	}{
		{"empty astrologer", func(r *models.UpsertWindowRequest) { r.Astrologer = "" }},
		{"day out of range", func(r *models.UpsertWindowRequest) { r.DayOfWeek = 7 }},
		{"negative day", func(r *models.UpsertWindowRequest) { r.DayOfWeek = -1 }},
		{"bad start time", func(r *models.UpsertWindowRequest) { r.StartTime = "6pm" }},
		{"bad end time", func(r *models.UpsertWindowRequest) { r.EndTime = "25:00" }},
		{"start after end", func(r *models.UpsertWindowRequest) { r.StartTime = "22:00"; r.EndTime = "18:30" }},
		{"zero duration", func(r *models.UpsertWindowRequest) { r.SlotDurationMinutes = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, err := svc.Upsert(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestList(t *testing.T) {
	repo := &stubRepo{windows: []*domain.AvailabilityWindow{
		{ID: "w1", Astrologer: "indira", DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30, IsActive: true},
		{ID: "w2", Astrologer: "indira", DayOfWeek: 5, StartTime: "18:30", EndTime: "22:00", SlotDurationMinutes: 20, IsActive: false},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.List(context.Background(), "indira")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "w1", resp.Windows[0].ID)
	// Неактивные окна тоже возвращаются
	assert.False(t, resp.Windows[1].IsActive)

	_, err = svc.List(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
