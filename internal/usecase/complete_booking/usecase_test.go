package complete_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	"github.com/avtomir/ASC-BookingService/pkg/ptr"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

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

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// storedBooking имитирует прочитанное из БД бронирование: без pending хвостов
func storedBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              7,
		BookingNumber:   "BK-20260301-DEADBEEF",
		CustomerID:      101,
		VehicleID:       201,
		ServiceCenterID: 301,
		ServiceID:       401,
		BookingDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		BookingTime:     types.TimeString("10:00"),
		Status:          status,
		StaffNotes:      ptr.Ptr("подъемник 3"),
		Version:         3,
	}
}

func newTestUseCase(br *fakeBookingRepo, hr *fakeHistoryRepo, or *fakeOutboxRepo) *UseCase {
	return NewUseCase(br, hr, or, fakeTxManager{}, nopLogger{})
}

func TestExecute_HappyPath(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusInProgress)}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := newTestUseCase(br, hr, or)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:      domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID:  7,
		StaffNotes: ptr.Ptr("заменены колодки"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.False(t, resp.CompletedAt.IsZero())
	require.NotNil(t, resp.StaffNotes)
	assert.Equal(t, "заменены колодки", *resp.StaffNotes)

	// Мутация, история и событие закоммичены одним юнитом
	require.NotNil(t, br.updated)
	assert.Equal(t, domain.StatusCompleted, br.updated.Status)
	require.Len(t, hr.entries, 1)
	require.NotNil(t, hr.entries[0].OldStatus)
	assert.Equal(t, domain.StatusInProgress, *hr.entries[0].OldStatus)
	assert.Equal(t, domain.StatusCompleted, hr.entries[0].NewStatus)
	require.Len(t, or.events, 1)
	assert.Equal(t, domain.EventBookingCompleted, or.events[0].Type)
	assert.Equal(t, int64(500), or.events[0].ActorID)
}

func TestExecute_EmptyNotesKeepExisting(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusInProgress)}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:      domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID:  7,
		StaffNotes: ptr.Ptr("   "),
	})
	require.NoError(t, err)

	// Пустые заметки не затирают сохраненные при подтверждении
	require.NotNil(t, resp.StaffNotes)
	assert.Equal(t, "подъемник 3", *resp.StaffNotes)
}

func TestExecute_CustomerForbiddenLeavesNoTrace(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusInProgress)}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := newTestUseCase(br, hr, or)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 101, Role: domain.RoleCustomer},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	assert.Nil(t, br.updated)
	assert.Empty(t, hr.entries)
	assert.Empty(t, or.events)
}

func TestExecute_FromConfirmedRejected(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusConfirmed)}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
	assert.Nil(t, br.updated)
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
	br := &fakeBookingRepo{
		booking:   storedBooking(domain.StatusInProgress),
		updateErr: bookingRepo.ErrVersionConflict,
	}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID: 7,
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestExecute_NoActor(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{booking: storedBooking(domain.StatusInProgress)},
		&fakeHistoryRepo{}, &fakeOutboxRepo{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 7})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
