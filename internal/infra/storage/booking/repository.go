package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/pkg/dbmetrics"
	"github.com/avtomir/ASC-BookingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings
// Порядок совпадает с порядком сканирования в scanBooking
var bookingColumns = []string{
	"id",
	"booking_number",
	"customer_id",
	"vehicle_id",
	"service_center_id",
	"service_id",
	"booking_date",
	"booking_time",
	"status",
	"customer_notes",
	"staff_notes",
	"confirmed_at",
	"confirmed_by",
	"completed_at",
	"cancelled_at",
	"cancellation_reason",
	"cancelled_by",
	"version",
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

// Create создает новое бронирование со статусом pending и версией 1
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_number",
			"customer_id",
			"vehicle_id",
			"service_center_id",
			"service_id",
			"booking_date",
			"booking_time",
			"status",
			"customer_notes",
		).
		Values(
			b.BookingNumber,
			b.CustomerID,
			b.VehicleID,
			b.ServiceCenterID,
			b.ServiceID,
			b.BookingDate,
			b.BookingTime,
			b.Status,
			b.CustomerNotes,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("booking_date DESC, booking_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByCenterWithFilter получает бронирования сервисного центра с фильтрацией
// по периоду и статусу. Отменённые бронирования исключаются, если не указан
// конкретный статус и не установлен IncludeCancelled
func (r *Repository) GetByCenterWithFilter(ctx context.Context, filter domain.CenterBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_center_id": filter.ServiceCenterID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	// Для конкретной даты сортируем по времени начала, иначе - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("booking_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, booking_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCenterWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCenterWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateWithVersion записывает мутированные переходом поля бронирования
// с проверкой версии (optimistic concurrency). Если версия в БД уже не
// совпадает с прочитанной, возвращает ErrVersionConflict - вызывающая
// сторона должна перечитать бронирование и повторить попытку
func (r *Repository) UpdateWithVersion(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", b.Status).
		Set("staff_notes", b.StaffNotes).
		Set("confirmed_at", b.ConfirmedAt).
		Set("confirmed_by", b.ConfirmedBy).
		Set("completed_at", b.CompletedAt).
		Set("cancelled_at", b.CancelledAt).
		Set("cancellation_reason", b.CancellationReason).
		Set("cancelled_by", b.CancelledBy).
		Set("version", b.Version+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID, "version": b.Version}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWithVersion - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо бронирование удалено, либо версия устарела
		exists, err := r.exists(ctx, b.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrVersionConflict
	}

	b.Version++
	return nil
}

// exists проверяет существование бронирования по ID
func (r *Repository) exists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в domain.Booking
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.CustomerID,
		&b.VehicleID,
		&b.ServiceCenterID,
		&b.ServiceID,
		&b.BookingDate,
		&b.BookingTime,
		&b.Status,
		&b.CustomerNotes,
		&b.StaffNotes,
		&b.ConfirmedAt,
		&b.ConfirmedBy,
		&b.CompletedAt,
		&b.CancelledAt,
		&b.CancellationReason,
		&b.CancelledBy,
		&b.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
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
