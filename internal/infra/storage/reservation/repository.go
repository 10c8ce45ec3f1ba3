package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/dbmetrics"
	"github.com/astroindira/booking-service/pkg/psqlbuilder"
	"github.com/astroindira/booking-service/pkg/types"
)

// pgUniqueViolation код Postgres для нарушения уникального индекса
const pgUniqueViolation = "23505"

var reservationColumns = []string{
	"id",
	"astrologer",
	"date",
	"start_time",
	"end_time",
	"booking_id",
	"created_at",
}

// Repository репозиторий журнала резерваций слотов.
// Уникальный индекс (astrologer, date, start_time) гарантирует,
// что слот может быть зарезервирован ровно один раз.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve вставляет запись резервации. Нарушение уникального индекса
// переводится в ErrSlotTaken - конкурент успел занять слот первым.
func (r *Repository) Reserve(ctx context.Context, res *domain.SlotReservation) (*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_reservations").
		Columns(
			"id",
			"astrologer",
			"date",
			"start_time",
			"end_time",
			"booking_id",
		).
		Values(
			res.ID,
			res.Astrologer,
			res.Date,
			res.StartTime,
			res.EndTime,
			res.BookingID,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time

	return res, nil
}

// GetBySlot получает резервацию по ключу слота
func (r *Repository) GetBySlot(
	ctx context.Context,
	astrologer string,
	date time.Time,
	startTime types.TimeString,
) (*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("slot_reservations").
		Where(squirrel.Eq{
			"astrologer": astrologer,
			"date":       date,
			"start_time": startTime,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListByAstrologerDate получает все резервации астролога на дату
// (для фильтрации доступных слотов)
func (r *Repository) ListByAstrologerDate(
	ctx context.Context,
	astrologer string,
	date time.Time,
) ([]*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("slot_reservations").
		Where(squirrel.Eq{
			"astrologer": astrologer,
			"date":       date,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologerDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologerDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.SlotReservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByAstrologerDate - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAstrologerDate - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// ReleaseByBooking удаляет резервации бронирования. Идемпотентна:
// отсутствие записей не считается ошибкой, возвращается число удаленных строк.
func (r *Repository) ReleaseByBooking(ctx context.Context, bookingID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_reservations").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBooking - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByBooking - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.SlotReservation, error) {
	var res domain.SlotReservation
	var createdAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.Astrologer,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.BookingID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time

	return &res, nil
}
