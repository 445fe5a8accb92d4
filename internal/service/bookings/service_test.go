package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	"github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	"github.com/avtomir/ASC-BookingService/internal/service/bookings/models"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	booking    *domain.Booking
	getErr     error
	list       []*domain.Booking
	lastFilter domain.CenterBookingsFilter
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.list, nil
}

func (f *fakeBookingRepo) GetByCenterWithFilter(_ context.Context, filter domain.CenterBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return f.list, nil
}

type fakeHistoryRepo struct {
	entries []*domain.StatusHistoryEntry
}

func (f *fakeHistoryRepo) GetByBookingID(_ context.Context, _ int64) ([]*domain.StatusHistoryEntry, error) {
	return f.entries, nil
}

type fakeCatalogClient struct {
	center *catalogservice.ServiceCenter
	err    error
}

func (f *fakeCatalogClient) GetCenter(_ context.Context, _ int64) (*catalogservice.ServiceCenter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.center, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func storedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              7,
		BookingNumber:   "BK-20260301-DEADBEEF",
		CustomerID:      101,
		VehicleID:       201,
		ServiceCenterID: 301,
		ServiceID:       401,
		BookingDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		BookingTime:     types.TimeString("10:00"),
		Status:          domain.StatusConfirmed,
		Version:         2,
	}
}

func centerWithStaff(staffIDs ...int64) *fakeCatalogClient {
	return &fakeCatalogClient{
		center: &catalogservice.ServiceCenter{ID: 301, Name: "ASC Центр", IsActive: true, StaffIDs: staffIDs},
	}
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		catalog *fakeCatalogClient
		wantErr error
	}{
		{"owner", domain.Actor{ID: 101, Role: domain.RoleCustomer}, centerWithStaff(), nil},
		{"other customer", domain.Actor{ID: 999, Role: domain.RoleCustomer}, centerWithStaff(), ErrAccessDenied},
		{"center employee", domain.Actor{ID: 500, Role: domain.RoleEmployee}, centerWithStaff(500), nil},
		{"foreign employee", domain.Actor{ID: 600, Role: domain.RoleEmployee}, centerWithStaff(500), ErrAccessDenied},
		{"admin", domain.Actor{ID: 1, Role: domain.RoleAdmin}, centerWithStaff(), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeBookingRepo{booking: storedBooking()}, &fakeHistoryRepo{}, tc.catalog, nopLogger{})

			resp, err := svc.GetByID(context.Background(), 7, tc.actor)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), resp.ID)
			assert.Equal(t, "confirmed", resp.Status)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}, &fakeHistoryRepo{}, centerWithStaff(), nopLogger{})

	_, err := svc.GetByID(context.Background(), 404, domain.Actor{ID: 101, Role: domain.RoleCustomer})
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetHistory_PreservesOrder(t *testing.T) {
	old := domain.StatusPending
	hr := &fakeHistoryRepo{entries: []*domain.StatusHistoryEntry{
		{ID: 1, BookingID: 7, NewStatus: domain.StatusPending, ChangedBy: 101, ChangedAt: time.Now()},
		{ID: 2, BookingID: 7, OldStatus: &old, NewStatus: domain.StatusConfirmed, ChangedBy: 500, ChangedAt: time.Now()},
	}}
	svc := NewService(&fakeBookingRepo{booking: storedBooking()}, hr, centerWithStaff(), nopLogger{})

	resp, err := svc.GetHistory(context.Background(), 7, domain.Actor{ID: 101, Role: domain.RoleCustomer})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	assert.Nil(t, resp.Entries[0].OldStatus)
	require.NotNil(t, resp.Entries[1].OldStatus)
	assert.Equal(t, "pending", *resp.Entries[1].OldStatus)
	assert.Equal(t, "confirmed", resp.Entries[1].NewStatus)
}

func TestGetUserBookings_CustomerOnlyOwn(t *testing.T) {
	svc := NewService(&fakeBookingRepo{list: []*domain.Booking{storedBooking()}}, &fakeHistoryRepo{}, centerWithStaff(), nopLogger{})

	// Свои бронирования - можно
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:      domain.Actor{ID: 101, Role: domain.RoleCustomer},
		CustomerID: 101,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Чужие - нельзя
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:      domain.Actor{ID: 101, Role: domain.RoleCustomer},
		CustomerID: 102,
	})
	require.ErrorIs(t, err, ErrAccessDenied)

	// Персонал видит любого клиента
	resp, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:      domain.Actor{ID: 500, Role: domain.RoleEmployee},
		CustomerID: 101,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeHistoryRepo{}, centerWithStaff(), nopLogger{})

	bad := "unknown"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		Actor:      domain.Actor{ID: 101, Role: domain.RoleCustomer},
		CustomerID: 101,
		Status:     &bad,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCenterBookings_StaffOnly(t *testing.T) {
	br := &fakeBookingRepo{list: []*domain.Booking{storedBooking()}}
	svc := NewService(br, &fakeHistoryRepo{}, centerWithStaff(500), nopLogger{})

	_, err := svc.GetCenterBookings(context.Background(), &models.GetCenterBookingsRequest{
		Actor:           domain.Actor{ID: 101, Role: domain.RoleCustomer},
		ServiceCenterID: 301,
	})
	require.ErrorIs(t, err, ErrAccessDenied)

	status := "confirmed"
	resp, err := svc.GetCenterBookings(context.Background(), &models.GetCenterBookingsRequest{
		Actor:           domain.Actor{ID: 500, Role: domain.RoleEmployee},
		ServiceCenterID: 301,
		Status:          &status,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Фильтр дошёл до репозитория
	require.NotNil(t, br.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *br.lastFilter.Status)
	assert.Equal(t, int64(301), br.lastFilter.ServiceCenterID)
}
