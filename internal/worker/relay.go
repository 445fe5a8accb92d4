package worker

import (
	"context"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Relay перекладывает события из outbox-таблицы в брокер
// Выборка и пометка published идут в одной транзакции: при падении
// публикации строка остается неопубликованной и будет повторена.
// SKIP LOCKED в выборке позволяет запускать несколько экземпляров
type Relay struct {
	outboxRepo   OutboxRepository
	publisher    Publisher
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
	pollInterval time.Duration
	batchSize    uint64
}

// NewRelay создает новый экземпляр relay
func NewRelay(
	outboxRepo OutboxRepository,
	publisher Publisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	pollInterval time.Duration,
	batchSize uint64,
) *Relay {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if batchSize == 0 {
		batchSize = defaultBatchSize
	}
	return &Relay{
		outboxRepo:   outboxRepo,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run запускает цикл публикации до отмены контекста
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay: started, poll=%s batch=%d", r.pollInterval, r.batchSize)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay: stopped")
			return
		case <-ticker.C:
			if err := r.publishBatch(ctx); err != nil {
				r.logger.Error("outbox relay: batch failed: %v", err)
			}
			r.reportPending(ctx)
		}
	}
}

// publishBatch публикует одну пачку неопубликованных событий
// Ошибка публикации одного события не останавливает остальные
func (r *Relay) publishBatch(ctx context.Context) error {
	return r.txManager.Do(ctx, func(txCtx context.Context) error {
		rows, err := r.outboxRepo.GetUnpublished(txCtx, r.batchSize)
		if err != nil {
			return err
		}

		for _, row := range rows {
			eventType := string(row.EventType)

			if err := r.publisher.PublishRaw(txCtx, eventType, row.Payload); err != nil {
				r.metrics.IncOutboxFailed(eventType)
				r.logger.Warn("outbox relay: publish event id=%d type=%s failed: %v", row.ID, eventType, err)
				continue
			}

			if err := r.outboxRepo.MarkPublished(txCtx, row.ID); err != nil {
				return err
			}

			r.metrics.IncOutboxPublished(eventType)
			r.logger.Info("outbox relay: published event id=%d type=%s booking=%d", row.ID, eventType, row.BookingID)
		}

		return nil
	})
}

// reportPending обновляет gauge отставания публикации
func (r *Relay) reportPending(ctx context.Context) {
	count, err := r.outboxRepo.CountUnpublished(ctx)
	if err != nil {
		r.logger.Warn("outbox relay: count unpublished failed: %v", err)
		return
	}
	r.metrics.SetOutboxPending(count)
}
