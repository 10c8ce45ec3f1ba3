package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/astroindira/booking-service/internal/domain"
	"github.com/astroindira/booking-service/pkg/dbmetrics"
	"github.com/astroindira/booking-service/pkg/psqlbuilder"
)

var customerColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"free_session_used",
	"created_at",
	"updated_at",
}

// Repository репозиторий клиентов. Ключ - email.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает клиента или обновляет имя/телефон существующего.
// Флаг free_session_used при обновлении не трогается.
func (r *Repository) Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns(
			"id",
			"name",
			"email",
			"phone",
		).
		Values(
			c.ID,
			c.Name,
			c.Email,
			c.Phone,
		).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			updated_at = NOW()
			RETURNING id, free_session_used, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.FreeSessionUsed, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByEmail получает клиента по email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(customerColumns...).
		From("customers").
		Where(squirrel.Eq{"email": email}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Customer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.FreeSessionUsed,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - scan customer: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// ConsumeFreeSession атомарно расходует бесплатную сессию клиента.
// Compare-and-set: если флаг уже выставлен, возвращает
// ErrFreeSessionAlreadyUsed. Вызывается внутри сериализуемой транзакции
// создания бронирования.
func (r *Repository) ConsumeFreeSession(ctx context.Context, email string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customers").
		Set("free_session_used", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"email":             email,
			"free_session_used": false,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConsumeFreeSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConsumeFreeSession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConsumeFreeSession - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrFreeSessionAlreadyUsed
	}

	return nil
}
