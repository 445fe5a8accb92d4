package confirm_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

// Фейки репозиториев

type fakeBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	updateErr error
	updated   *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) UpdateWithVersion(_ context.Context, b *domain.Booking) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = b
	return nil
}

type fakeHistoryRepo struct {
	entries []domain.StatusHistoryEntry
}

func (f *fakeHistoryRepo) Append(_ context.Context, e *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	f.entries = append(f.entries, *e)
	return e, nil
}

type fakeOutboxRepo struct {
	events []domain.Event
}

func (f *fakeOutboxRepo) Append(_ context.Context, e domain.Event) error {
	f.events = append(f.events, e)
	return nil
}

// fakeTxManager исполняет fn без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := domain.NewBooking(101, 201, 301, 401,
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), types.TimeString("10:00"), nil, created)
	b.ID = 7
	b.Version = 1
	// Репозиторий отдает бронирование без незакоммиченных хвостов
	return reload(b)
}

// reload имитирует чтение из БД: копия без pending истории и событий
func reload(b *domain.Booking) *domain.Booking {
	return &domain.Booking{
		ID:              b.ID,
		BookingNumber:   b.BookingNumber,
		CustomerID:      b.CustomerID,
		VehicleID:       b.VehicleID,
		ServiceCenterID: b.ServiceCenterID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		Status:          b.Status,
		CustomerNotes:   b.CustomerNotes,
		StaffNotes:      b.StaffNotes,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func newTestUseCase(br *fakeBookingRepo, hr *fakeHistoryRepo, or *fakeOutboxRepo) *UseCase {
	return NewUseCase(br, hr, or, fakeTxManager{}, nopLogger{})
}

func TestExecute_HappyPath(t *testing.T) {
	br := &fakeBookingRepo{booking: pendingBooking()}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := newTestUseCase(br, hr, or)

	notes := "подъемник 3"
	resp, err := uc.Execute(context.Background(), &Request{
		Actor:      domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID:  7,
		StaffNotes: &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, int64(500), resp.ConfirmedBy)
	require.NotNil(t, resp.StaffNotes)
	assert.Equal(t, "подъемник 3", *resp.StaffNotes)

	// Мутация, история и событие закоммичены одним юнитом
	require.NotNil(t, br.updated)
	assert.Equal(t, domain.StatusConfirmed, br.updated.Status)
	require.Len(t, hr.entries, 1)
	assert.Equal(t, domain.StatusConfirmed, hr.entries[0].NewStatus)
	require.Len(t, or.events, 1)
	assert.Equal(t, domain.EventBookingConfirmed, or.events[0].Type)
}

func TestExecute_ForbiddenLeavesNoTrace(t *testing.T) {
	br := &fakeBookingRepo{booking: pendingBooking()}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := newTestUseCase(br, hr, or)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 101, Role: domain.RoleCustomer},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// Запрет доступа не оставляет следов
	assert.Nil(t, br.updated)
	assert.Empty(t, hr.entries)
	assert.Empty(t, or.events)
}

func TestExecute_IllegalState(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusCompleted
	br := &fakeBookingRepo{booking: b}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
}

func TestExecute_NotFound(t *testing.T) {
	br := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID: 404,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_VersionConflict(t *testing.T) {
	br := &fakeBookingRepo{booking: pendingBooking(), updateErr: bookingRepo.ErrVersionConflict}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

// versionedBookingRepo хранит бронирование и отклоняет записи с устаревшей
// версией так же, как настоящий репозиторий. Барьер loaded гарантирует,
// что обе стороны прочитают одну версию до первой записи
type versionedBookingRepo struct {
	mu     sync.Mutex
	stored *domain.Booking
	loaded sync.WaitGroup
}

func (f *versionedBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	f.mu.Lock()
	b := reload(f.stored)
	f.mu.Unlock()

	f.loaded.Done()
	f.loaded.Wait()
	return b, nil
}

func (f *versionedBookingRepo) UpdateWithVersion(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b.Version != f.stored.Version {
		return bookingRepo.ErrVersionConflict
	}
	b.Version++
	f.stored = reload(b)
	return nil
}

type syncHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.StatusHistoryEntry
}

func (f *syncHistoryRepo) Append(_ context.Context, e *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *e)
	return e, nil
}

type syncOutboxRepo struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *syncOutboxRepo) Append(_ context.Context, e domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func TestExecute_ConcurrentConfirmsOneWinner(t *testing.T) {
	br := &versionedBookingRepo{stored: pendingBooking()}
	br.loaded.Add(2)
	hr := &syncHistoryRepo{}
	or := &syncOutboxRepo{}
	uc := NewUseCase(br, hr, or, fakeTxManager{}, nopLogger{})

	// Оба подтверждения читают версию 1 до того, как любое из них запишет
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		actorID := int64(500 + i)
		go func() {
			_, err := uc.Execute(context.Background(), &Request{
				Actor:     domain.Actor{ID: actorID, Role: domain.RoleEmployee},
				BookingID: 7,
			})
			errs <- err
		}()
	}

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
			conflicts++
		} else {
			successes++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	// Закоммичен ровно один переход: версия выросла на единицу,
	// проигравший не оставил ни истории, ни события
	assert.Equal(t, int64(2), br.stored.Version)
	assert.Equal(t, domain.StatusConfirmed, br.stored.Status)
	assert.Len(t, hr.entries, 1)
	assert.Len(t, or.events, 1)
}

func TestExecute_NoActor(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 7})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
