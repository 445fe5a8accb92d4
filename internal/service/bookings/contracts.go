package bookings

import (
	"context"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByCenterWithFilter(ctx context.Context, filter domain.CenterBookingsFilter) ([]*domain.Booking, error)
}

// HistoryRepository интерфейс журнала смены статусов
type HistoryRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.StatusHistoryEntry, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetCenter(ctx context.Context, centerID int64) (*catalogservice.ServiceCenter, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
