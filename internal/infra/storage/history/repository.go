package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/pkg/dbmetrics"
	"github.com/avtomir/ASC-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий журнала смены статусов бронирований
// Таблица append-only: строки никогда не обновляются и не удаляются
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории статусов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет одну запись истории
// Вызывается в той же транзакции, что и мутация бронирования
func (r *Repository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns(
			"booking_id",
			"old_status",
			"new_status",
			"changed_by",
			"changed_at",
			"notes",
		).
		Values(
			entry.BookingID,
			entry.OldStatus,
			entry.NewStatus,
			entry.ChangedBy,
			entry.ChangedAt,
			entry.Notes,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return entry, nil
}

// GetByBookingID возвращает журнал бронирования в порядке переходов
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.StatusHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"old_status",
		"new_status",
		"changed_by",
		"changed_at",
		"notes",
	).
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("changed_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// scanEntries сканирует результаты запроса в слайс записей истории
func scanEntries(rows *sql.Rows) ([]*domain.StatusHistoryEntry, error) {
	entries := make([]*domain.StatusHistoryEntry, 0)

	for rows.Next() {
		var entry domain.StatusHistoryEntry
		var oldStatus sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&oldStatus,
			&entry.NewStatus,
			&entry.ChangedBy,
			&entry.ChangedAt,
			&entry.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}

		if oldStatus.Valid {
			s := domain.BookingStatus(oldStatus.String)
			entry.OldStatus = &s
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
