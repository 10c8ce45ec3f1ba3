package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/dbmetrics"
	"github.com/astroindira/booking-service/pkg/psqlbuilder"
)

var windowColumns = []string{
	"id",
	"astrologer",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий окон доступности астрологов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет окно доступности по ключу
// (astrologer, day_of_week, start_time)
func (r *Repository) Upsert(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_windows").
		Columns(
			"id",
			"astrologer",
			"day_of_week",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"is_active",
		).
		Values(
			w.ID,
			w.Astrologer,
			w.DayOfWeek,
			w.StartTime,
			w.EndTime,
			w.SlotDurationMinutes,
			w.IsActive,
		).
		Suffix(`ON CONFLICT (astrologer, day_of_week, start_time) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return w, nil
}

// ListByAstrologerDay получает активные окна астролога на день недели,
// отсортированные по времени начала
func (r *Repository) ListByAstrologerDay(
	ctx context.Context,
	astrologer string,
	dayOfWeek int,
) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("availability_windows").
		Where(squirrel.Eq{
			"astrologer":  astrologer,
			"day_of_week": dayOfWeek,
			"is_active":   true,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologerDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologerDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// ListByAstrologer получает все окна астролога (включая неактивные),
// отсортированные по дню недели и времени начала
func (r *Repository) ListByAstrologer(ctx context.Context, astrologer string) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("availability_windows").
		Where(squirrel.Eq{"astrologer": astrologer}).
		OrderBy("day_of_week ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWindow(row rowScanner) (*domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&w.ID,
		&w.Astrologer,
		&w.DayOfWeek,
		&w.StartTime,
		&w.EndTime,
		&w.SlotDurationMinutes,
		&w.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}

func scanWindows(rows *sql.Rows) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0)

	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
