package confirm_booking

import (
	"context"
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateWithVersion(ctx context.Context, booking *domain.Booking) error
}

// HistoryRepository интерфейс журнала смены статусов
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error)
}

// OutboxRepository интерфейс outbox-таблицы доменных событий
type OutboxRepository interface {
	Append(ctx context.Context, event domain.Event) error
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
