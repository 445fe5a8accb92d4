package create_booking

import (
	"context"
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	"github.com/avtomir/ASC-BookingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// HistoryRepository интерфейс журнала смены статусов
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error)
}

// OutboxRepository интерфейс outbox-таблицы доменных событий
type OutboxRepository interface {
	Append(ctx context.Context, event domain.Event) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*userservice.Customer, error)
	GetVehicle(ctx context.Context, vehicleID int64) (*userservice.Vehicle, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetCenter(ctx context.Context, centerID int64) (*catalogservice.ServiceCenter, error)
	GetService(ctx context.Context, centerID, serviceID int64) (*catalogservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
