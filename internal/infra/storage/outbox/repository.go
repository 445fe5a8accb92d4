package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/pkg/dbmetrics"
	"github.com/avtomir/ASC-BookingService/pkg/psqlbuilder"
)

// Row строка таблицы booking_events
// Событие записывается в одной транзакции с мутацией бронирования,
// публикуется в брокер отдельным relay после коммита
type Row struct {
	ID          int64
	EventType   domain.EventType
	BookingID   int64
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Repository репозиторий outbox-таблицы доменных событий
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет событие в outbox
// Вызывается в той же транзакции, что и мутация бронирования: так событие
// становится видимым только вместе с коммитом вызвавшего его перехода
func (r *Repository) Append(ctx context.Context, event domain.Event) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: Append - marshal event: %v", ErrMarshalEvent, err)
	}

	query, args, err := psqlbuilder.Insert("booking_events").
		Columns(
			"event_type",
			"booking_id",
			"payload",
		).
		Values(
			event.Type,
			event.BookingID,
			payload,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetUnpublished возвращает до limit неопубликованных событий в порядке записи
// FOR UPDATE SKIP LOCKED позволяет запускать несколько relay без дублей
func (r *Repository) GetUnpublished(ctx context.Context, limit uint64) ([]*Row, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"event_type",
		"booking_id",
		"payload",
		"created_at",
		"published_at",
	).
		From("booking_events").
		Where(squirrel.Eq{"published_at": nil}).
		OrderBy("id ASC").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUnpublished - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*Row, 0)
	for rows.Next() {
		var row Row
		if err := rows.Scan(
			&row.ID,
			&row.EventType,
			&row.BookingID,
			&row.Payload,
			&row.CreatedAt,
			&row.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetUnpublished - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetUnpublished - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// MarkPublished помечает событие опубликованным
func (r *Repository) MarkPublished(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_events").
		Set("published_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// CountUnpublished возвращает количество неопубликованных событий
// Используется для gauge-метрики relay
func (r *Repository) CountUnpublished(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_events").
		Where(squirrel.Eq{"published_at": nil}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: CountUnpublished - scan: %v", ErrScanRow, err)
	}

	return count, nil
}
