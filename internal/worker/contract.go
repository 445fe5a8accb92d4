package worker

import (
	"context"

	"github.com/avtomir/ASC-BookingService/internal/infra/storage/outbox"
)

// OutboxRepository интерфейс outbox-таблицы доменных событий
type OutboxRepository interface {
	GetUnpublished(ctx context.Context, limit uint64) ([]*outbox.Row, error)
	MarkPublished(ctx context.Context, id int64) error
	CountUnpublished(ctx context.Context) (int, error)
}

// Publisher интерфейс публикации событий в брокер
type Publisher interface {
	PublishRaw(ctx context.Context, routingKey string, body []byte) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик relay
type Metrics interface {
	IncOutboxPublished(eventType string)
	IncOutboxFailed(eventType string)
	SetOutboxPending(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
