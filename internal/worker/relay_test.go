package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/infra/storage/outbox"
)

type fakeOutboxRepo struct {
	rows      []*outbox.Row
	published []int64
	pending   int
}

func (f *fakeOutboxRepo) GetUnpublished(_ context.Context, _ uint64) ([]*outbox.Row, error) {
	return f.rows, nil
}

func (f *fakeOutboxRepo) MarkPublished(_ context.Context, id int64) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutboxRepo) CountUnpublished(_ context.Context) (int, error) {
	return f.pending, nil
}

type fakePublisher struct {
	failKeys map[string]bool
	sent     []string
}

func (f *fakePublisher) PublishRaw(_ context.Context, routingKey string, _ []byte) error {
	if f.failKeys[routingKey] {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, routingKey)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	published int
	failed    int
	pending   int
}

func (m *fakeMetrics) IncOutboxPublished(string) { m.published++ }
func (m *fakeMetrics) IncOutboxFailed(string)    { m.failed++ }
func (m *fakeMetrics) SetOutboxPending(n int)    { m.pending = n }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestPublishBatch(t *testing.T) {
	repo := &fakeOutboxRepo{rows: []*outbox.Row{
		{ID: 1, EventType: "booking.created", BookingID: 7, Payload: []byte(`{}`)},
		{ID: 2, EventType: "booking.confirmed", BookingID: 7, Payload: []byte(`{}`)},
	}}
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	relay := NewRelay(repo, pub, fakeTxManager{}, m, nopLogger{}, 0, 0)

	require.NoError(t, relay.publishBatch(context.Background()))

	assert.Equal(t, []string{"booking.created", "booking.confirmed"}, pub.sent)
	assert.Equal(t, []int64{1, 2}, repo.published)
	assert.Equal(t, 2, m.published)
}

// Падение публикации одного события не блокирует остальные и не
// помечает упавшее опубликованным
func TestPublishBatch_PartialFailure(t *testing.T) {
	repo := &fakeOutboxRepo{rows: []*outbox.Row{
		{ID: 1, EventType: "booking.created", BookingID: 7, Payload: []byte(`{}`)},
		{ID: 2, EventType: "booking.cancelled", BookingID: 8, Payload: []byte(`{}`)},
	}}
	pub := &fakePublisher{failKeys: map[string]bool{"booking.created": true}}
	m := &fakeMetrics{}
	relay := NewRelay(repo, pub, fakeTxManager{}, m, nopLogger{}, 0, 0)

	require.NoError(t, relay.publishBatch(context.Background()))

	assert.Equal(t, []string{"booking.cancelled"}, pub.sent)
	assert.Equal(t, []int64{2}, repo.published)
	assert.Equal(t, 1, m.published)
	assert.Equal(t, 1, m.failed)
}

func TestReportPending(t *testing.T) {
	repo := &fakeOutboxRepo{pending: 5}
	m := &fakeMetrics{}
	relay := NewRelay(repo, &fakePublisher{}, fakeTxManager{}, m, nopLogger{}, 0, 0)

	relay.reportPending(context.Background())
	assert.Equal(t, 5, m.pending)
}
