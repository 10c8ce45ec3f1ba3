package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/dbmetrics"
	"github.com/astroindira/booking-service/pkg/psqlbuilder"
	"github.com/astroindira/booking-service/pkg/types"
)

// bookingColumns полный набор колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"date_of_birth",
	"time_of_birth",
	"place_of_birth",
	"astrologer",
	"service_id",
	"consultation_type",
	"duration_tier",
	"preferred_date",
	"preferred_time",
	"message",
	"status",
	"payment_status",
	"amount_paise",
	"razorpay_order_id",
	"razorpay_payment_id",
	"refund_id",
	"refund_status",
	"refund_amount_paise",
	"refunded_at",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование. ID генерируется вызывающей стороной.
// При создании с проверкой слота вызывается внутри сериализуемой транзакции
// (executor подхватывается из context).
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"name",
			"email",
			"phone",
			"date_of_birth",
			"time_of_birth",
			"place_of_birth",
			"astrologer",
			"service_id",
			"consultation_type",
			"duration_tier",
			"preferred_date",
			"preferred_time",
			"message",
			"status",
			"payment_status",
			"amount_paise",
			"razorpay_order_id",
		).
		Values(
			b.ID,
			b.Name,
			b.Email,
			b.Phone,
			b.DateOfBirth,
			b.TimeOfBirth,
			b.PlaceOfBirth,
			b.Astrologer,
			b.ServiceID,
			b.ConsultationType,
			b.DurationTier,
			nullableDate(b.PreferredDate),
			b.PreferredTime,
			b.Message,
			b.Status,
			b.PaymentStatus,
			b.AmountPaise,
			b.RazorpayOrderID,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// List получает бронирования с опциональным фильтром по статусу,
// отсортированные от новых к старым
func (r *Repository) List(ctx context.Context, status *domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveBySlot ищет активное (pending/confirmed) бронирование,
// занимающее точный слот (астролог, дата, время начала).
// Внутри транзакции блокирует найденную строку (FOR UPDATE).
func (r *Repository) GetActiveBySlot(
	ctx context.Context,
	astrologer string,
	date time.Time,
	startTime types.TimeString,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"astrologer":     astrologer,
			"preferred_date": date,
			"preferred_time": startTime,
		}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListActiveByAstrologerDate получает все активные бронирования астролога
// на дату (для фильтрации доступных слотов)
func (r *Repository) ListActiveByAstrologerDate(
	ctx context.Context,
	astrologer string,
	date time.Time,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"astrologer":     astrologer,
			"preferred_date": date,
		}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
		OrderBy("preferred_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByAstrologerDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByAstrologerDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateSlot обновляет слот бронирования (перенос).
// Compare-and-set: обновляет только бронирования в статусе pending.
func (r *Repository) UpdateSlot(ctx context.Context, id string, date time.Time, startTime types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("preferred_date", nullableDate(date)).
		Set("preferred_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusPending,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "UpdateSlot")
}

// ConfirmPayment переводит бронирование в confirmed/completed-оплату.
// Compare-and-set: не трогает отмененные/завершенные и уже оплаченные брони.
func (r *Repository) ConfirmPayment(ctx context.Context, id, paymentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentCompleted).
		Set("status", domain.StatusConfirmed).
		Set("razorpay_payment_id", paymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": []string{string(domain.StatusCancelled), string(domain.StatusCompleted)}}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentCompleted}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConfirmPayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "ConfirmPayment")
}

// MarkPaymentFailed помечает платеж как неуспешный; статус брони не меняется
// (остается pending - возможен повтор платежа или авто-истечение)
func (r *Repository) MarkPaymentFailed(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentFailed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":             id,
			"payment_status": domain.PaymentPending,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaymentFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "MarkPaymentFailed")
}

// UpdateOrderID заменяет order id платежного шлюза (повтор платежа).
// Compare-and-set: только при payment_status=pending.
func (r *Repository) UpdateOrderID(ctx context.Context, id, orderID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("razorpay_order_id", orderID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":             id,
			"payment_status": domain.PaymentPending,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateOrderID - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "UpdateOrderID")
}

// SetStatus выставляет статус напрямую (административная операция).
// Правила консистентности закодированы в условиях запроса:
//   - confirmed можно выставить только при payment_status=completed
//   - pending нельзя выставить при payment_status=completed
func (r *Repository) SetStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.Where(squirrel.Eq{"payment_status": domain.PaymentCompleted})
	case domain.StatusPending:
		updateBuilder = updateBuilder.Where(squirrel.NotEq{"payment_status": domain.PaymentCompleted})
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "SetStatus")
}

// Cancel отменяет бронирование с указанием причины.
// Compare-and-set: терминальные статусы не затрагиваются.
func (r *Repository) Cancel(ctx context.Context, id, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": []string{string(domain.StatusCancelled), string(domain.StatusCompleted)}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "Cancel")
}

// SetRefund записывает данные возврата. При статусе processed платеж
// помечается как refunded.
func (r *Repository) SetRefund(ctx context.Context, id string, refundID *string, refundStatus string, amountPaise int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("refund_id", refundID).
		Set("refund_status", refundStatus).
		Set("refund_amount_paise", amountPaise).
		Set("refunded_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if refundStatus == domain.RefundProcessed {
		updateBuilder = updateBuilder.Set("payment_status", domain.PaymentRefunded)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetRefund - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "SetRefund")
}

// ListStalePending получает брони со статусом pending/pending, чье время
// консультации уже прошло в рабочей таймзоне. preferred_time хранится как
// "HH:MM" с ведущими нулями, поэтому сравнение строк в SQL корректно.
func (r *Repository) ListStalePending(ctx context.Context, today time.Time, now types.TimeString) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"status":         domain.StatusPending,
			"payment_status": domain.PaymentPending,
		}).
		Where(squirrel.NotEq{"preferred_time": ""}).
		Where(squirrel.Or{
			squirrel.Lt{"preferred_date": today},
			squirrel.And{
				squirrel.Eq{"preferred_date": today},
				squirrel.Lt{"preferred_time": now},
			},
		}).
		OrderBy("preferred_date ASC, preferred_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// execConditional выполняет условный UPDATE и переводит "0 строк"
// в ErrNotUpdated
func (r *Repository) execConditional(
	ctx context.Context,
	executor DBExecutor,
	query string,
	args []interface{},
	operation string,
) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, operation, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, operation, err)
	}

	if rowsAffected == 0 {
		return ErrNotUpdated
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var preferredDate, refundedAt, cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.DateOfBirth,
		&b.TimeOfBirth,
		&b.PlaceOfBirth,
		&b.Astrologer,
		&b.ServiceID,
		&b.ConsultationType,
		&b.DurationTier,
		&preferredDate,
		&b.PreferredTime,
		&b.Message,
		&b.Status,
		&b.PaymentStatus,
		&b.AmountPaise,
		&b.RazorpayOrderID,
		&b.RazorpayPaymentID,
		&b.RefundID,
		&b.RefundStatus,
		&b.RefundAmountPaise,
		&refundedAt,
		&b.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if preferredDate.Valid {
		b.PreferredDate = preferredDate.Time
	}
	if refundedAt.Valid {
		b.RefundedAt = &refundedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// nullableDate конвертирует нулевую дату в NULL
func nullableDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
