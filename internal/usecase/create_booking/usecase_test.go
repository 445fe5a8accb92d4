package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	"github.com/avtomir/ASC-BookingService/internal/integrations/userservice"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	created *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	b.ID = 7
	b.Version = 1
	b.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.created = b
	return b, nil
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

type fakeUserClient struct {
	customer    *userservice.Customer
	customerErr error
	vehicle     *userservice.Vehicle
	vehicleErr  error
}

func (f *fakeUserClient) GetCustomer(_ context.Context, _ int64) (*userservice.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeUserClient) GetVehicle(_ context.Context, _ int64) (*userservice.Vehicle, error) {
	return f.vehicle, f.vehicleErr
}

type fakeCatalogClient struct {
	center     *catalogservice.ServiceCenter
	centerErr  error
	service    *catalogservice.Service
	serviceErr error
}

func (f *fakeCatalogClient) GetCenter(_ context.Context, _ int64) (*catalogservice.ServiceCenter, error) {
	return f.center, f.centerErr
}

func (f *fakeCatalogClient) GetService(_ context.Context, _, _ int64) (*catalogservice.Service, error) {
	return f.service, f.serviceErr
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time {
	return f.t
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func happyUserClient() *fakeUserClient {
	return &fakeUserClient{
		customer: &userservice.Customer{ID: 101, Name: "Иван", IsActive: true},
		vehicle:  &userservice.Vehicle{ID: 201, OwnerID: 101, Brand: "Lada", Model: "Vesta"},
	}
}

func happyCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{
		center:  &catalogservice.ServiceCenter{ID: 301, Name: "ASC Центр", IsActive: true},
		service: &catalogservice.Service{ID: 401, Name: "Замена масла", DurationMinutes: 60, CenterIDs: []int64{301}},
	}
}

func validRequest() *Request {
	return &Request{
		Actor:           domain.Actor{ID: 101, Role: domain.RoleCustomer},
		VehicleID:       201,
		ServiceCenterID: 301,
		ServiceID:       401,
		BookingDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		BookingTime:     types.TimeString("10:00"),
	}
}

func newTestUseCase(br *fakeBookingRepo, hr *fakeHistoryRepo, or *fakeOutboxRepo,
	user *fakeUserClient, catalog *fakeCatalogClient) *UseCase {
	uc := NewUseCase(br, hr, or, user, catalog, fakeTxManager{}, 60, nopLogger{})
	uc.timeProvider = fixedTime{testNow}
	return uc
}

func TestExecute_HappyPath(t *testing.T) {
	br := &fakeBookingRepo{}
	hr := &fakeHistoryRepo{}
	or := &fakeOutboxRepo{}
	uc := newTestUseCase(br, hr, or, happyUserClient(), happyCatalogClient())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, int64(101), resp.CustomerID)
	assert.NotEmpty(t, resp.BookingNumber)

	// Начальная запись истории и событие создания привязаны к новому id
	require.Len(t, hr.entries, 1)
	assert.Equal(t, int64(7), hr.entries[0].BookingID)
	assert.Nil(t, hr.entries[0].OldStatus)
	assert.Equal(t, domain.StatusPending, hr.entries[0].NewStatus)

	require.Len(t, or.events, 1)
	assert.Equal(t, domain.EventBookingCreated, or.events[0].Type)
	assert.Equal(t, int64(7), or.events[0].BookingID)
}

func TestExecute_StaffCannotCreate(t *testing.T) {
	br := &fakeBookingRepo{}
	uc := newTestUseCase(br, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), happyCatalogClient())

	req := validRequest()
	req.Actor = domain.Actor{ID: 500, Role: domain.RoleEmployee}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, br.created)
}

func TestExecute_InactiveCustomer(t *testing.T) {
	user := happyUserClient()
	user.customer.IsActive = false
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, user, happyCatalogClient())

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrCustomerInactive)
}

func TestExecute_VehicleNotOwned(t *testing.T) {
	user := happyUserClient()
	user.vehicle.OwnerID = 999
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, user, happyCatalogClient())

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrVehicleNotOwned)
	require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
}

func TestExecute_VehicleNotFound(t *testing.T) {
	user := happyUserClient()
	user.vehicle = nil
	user.vehicleErr = userservice.ErrVehicleNotFound
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, user, happyCatalogClient())

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_InactiveCenter(t *testing.T) {
	catalog := happyCatalogClient()
	catalog.center.IsActive = false
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), catalog)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrCenterInactive)
}

func TestExecute_ServiceNotOfferedAtCenter(t *testing.T) {
	catalog := happyCatalogClient()
	catalog.service.CenterIDs = []int64{999}
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), catalog)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrServiceNotOffered)
}

func TestExecute_TooLateToBook(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), happyCatalogClient())

	// Запись через 30 минут при требуемом запасе в 60
	req := validRequest()
	req.BookingDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req.BookingTime = types.TimeString("12:30")

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), happyCatalogClient())

	req := validRequest()
	req.BookingDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeHistoryRepo{}, &fakeOutboxRepo{}, happyUserClient(), happyCatalogClient())

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero vehicle", func(r *Request) { r.VehicleID = 0 }},
		{"zero center", func(r *Request) { r.ServiceCenterID = 0 }},
		{"zero service", func(r *Request) { r.ServiceID = 0 }},
		{"zero date", func(r *Request) { r.BookingDate = time.Time{} }},
		{"bad time", func(r *Request) { r.BookingTime = types.TimeString("25:99") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrBusinessRuleViolation)
		})
	}
}
