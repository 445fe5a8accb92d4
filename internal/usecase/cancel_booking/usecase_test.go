package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/domain"
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
		Version:         2,
	}
}

func TestExecute_OwnerCancels(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusPending)}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := NewUseCase(br, hr, or, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:              domain.Actor{ID: 101, Role: domain.RoleCustomer},
		BookingID:          7,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, int64(101), resp.CancelledBy)
	assert.Equal(t, "передумал", resp.CancellationReason)

	require.NotNil(t, br.updated)
	require.Len(t, hr.entries, 1)
	assert.Equal(t, domain.StatusCancelled, hr.entries[0].NewStatus)
	require.Len(t, or.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, or.events[0].Type)
	require.NotNil(t, or.events[0].CancellationReason)
}

func TestExecute_StaffCancelsConfirmed(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusConfirmed)}
	uc := NewUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{}, fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:              domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID:          7,
		CancellationReason: "центр закрыт на ремонт",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.CancelledBy)
}

func TestExecute_OtherCustomerForbidden(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusPending)}
	hr := &fakeHistoryRepo{}
	uc := NewUseCase(br, hr, &fakeOutboxRepo{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:              domain.Actor{ID: 999, Role: domain.RoleCustomer},
		BookingID:          7,
		CancellationReason: "чужое бронирование",
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, br.updated)
	assert.Empty(t, hr.entries)
}

func TestExecute_ReasonRequired(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusPending)}
	uc := NewUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:              domain.Actor{ID: 101, Role: domain.RoleCustomer},
		BookingID:          7,
		CancellationReason: "   ",
	})
	require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
	assert.Nil(t, br.updated)
}

func TestExecute_InProgressCannotBeCancelled(t *testing.T) {
	br := &fakeBookingRepo{booking: storedBooking(domain.StatusInProgress)}
	uc := NewUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{}, fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:              domain.Actor{ID: 500, Role: domain.RoleEmployee},
		BookingID:          7,
		CancellationReason: "поздно",
	})
	require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
}

func TestExecute_TerminalStatusesRejectCancel(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled} {
		br := &fakeBookingRepo{booking: storedBooking(status)}
		uc := NewUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{}, fakeTxManager{}, nopLogger{})

		_, err := uc.Execute(context.Background(), &Request{
			Actor:              domain.Actor{ID: 500, Role: domain.RoleAdmin},
			BookingID:          7,
			CancellationReason: "причина",
		})
		require.ErrorIs(t, err, domain.ErrBusinessRuleViolation, "status=%s", status)
		assert.Nil(t, br.updated)
	}
}
