package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	"github.com/avtomir/ASC-BookingService/internal/integrations/userservice"
)

// UseCase use case создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	historyRepo      HistoryRepository
	outboxRepo       OutboxRepository
	userClient       UserServiceClient
	catalogClient    CatalogServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	minNoticeMinutes int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	outboxRepo OutboxRepository,
	userClient UserServiceClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	if minNoticeMinutes <= 0 {
		minNoticeMinutes = domain.DefaultMinBookingNoticeMinutes
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		historyRepo:      historyRepo,
		outboxRepo:       outboxRepo,
		userClient:       userClient,
		catalogClient:    catalogClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		minNoticeMinutes: minNoticeMinutes,
		logger:           logger,
	}
}

// Execute выполняет создание бронирования
// Порядок проверок фиксированный: вход -> авторизация -> клиент -> автомобиль ->
// сервисный центр -> услуга -> время записи -> атомарная запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: actor=%d role=%s vehicle=%d center=%d service=%d",
		req.Actor.ID, req.Actor.Role, req.VehicleID, req.ServiceCenterID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(*req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование создает только клиент от своего имени
	if err := domain.Authorize(req.Actor, domain.TransitionCreate, nil); err != nil {
		uc.logger.Warn("CreateBooking: actor=%d denied: %v", req.Actor.ID, err)
		return nil, err
	}

	// 3. Проверяем клиента и автомобиль через UserService
	if err := uc.checkCustomerAndVehicle(ctx, req); err != nil {
		uc.logError(req, err)
		return nil, err
	}

	// 4. Проверяем сервисный центр и услугу через CatalogService
	if err := uc.checkCenterAndService(ctx, req); err != nil {
		uc.logError(req, err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 5. Запись должна быть в будущем с минимальным запасом времени
	if err := uc.checkAppointmentTime(req, now); err != nil {
		uc.logger.Warn("CreateBooking: actor=%d rejected: %v", req.Actor.ID, err)
		return nil, err
	}

	b := domain.NewBooking(
		req.Actor.ID,
		req.VehicleID,
		req.ServiceCenterID,
		req.ServiceID,
		req.BookingDate,
		req.BookingTime,
		req.CustomerNotes,
		now,
	)

	// 6. Вставка бронирования, начальной записи истории и события одним юнитом
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, b)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		b = created
		b.SyncPendingIDs()

		pendingHistory := b.PendingHistory()
		for i := range pendingHistory {
			if _, err := uc.historyRepo.Append(txCtx, &pendingHistory[i]); err != nil {
				return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
			}
		}

		for _, event := range b.PendingEvents() {
			if err := uc.outboxRepo.Append(txCtx, event); err != nil {
				return fmt.Errorf("%w: failed to append event: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		uc.logError(req, err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking=%d number=%s created for customer=%d", b.ID, b.BookingNumber, b.CustomerID)

	return &Response{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		Status:        b.Status,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		CenterID:      b.ServiceCenterID,
		ServiceID:     b.ServiceID,
		BookingDate:   b.BookingDate,
		BookingTime:   b.BookingTime,
		CustomerNotes: b.CustomerNotes,
		CreatedAt:     b.CreatedAt,
	}, nil
}

// checkCustomerAndVehicle проверяет что клиент активен и автомобиль принадлежит ему
func (uc *UseCase) checkCustomerAndVehicle(ctx context.Context, req *Request) error {
	customer, err := uc.userClient.GetCustomer(ctx, req.Actor.ID)
	if err != nil {
		if errors.Is(err, userservice.ErrCustomerNotFound) {
			return fmt.Errorf("%w: customer id=%d", domain.ErrNotFound, req.Actor.ID)
		}
		return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	if !customer.IsActive {
		return ErrCustomerInactive
	}

	vehicle, err := uc.userClient.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, userservice.ErrVehicleNotFound) {
			return fmt.Errorf("%w: vehicle id=%d", domain.ErrNotFound, req.VehicleID)
		}
		return fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}
	if vehicle.OwnerID != req.Actor.ID {
		return ErrVehicleNotOwned
	}

	return nil
}

// checkCenterAndService проверяет что центр активен и услуга в нем доступна
func (uc *UseCase) checkCenterAndService(ctx context.Context, req *Request) error {
	center, err := uc.catalogClient.GetCenter(ctx, req.ServiceCenterID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrCenterNotFound) {
			return fmt.Errorf("%w: service center id=%d", domain.ErrNotFound, req.ServiceCenterID)
		}
		return fmt.Errorf("%w: failed to get service center: %v", ErrInternal, err)
	}
	if !center.IsActive {
		return ErrCenterInactive
	}

	service, err := uc.catalogClient.GetService(ctx, req.ServiceCenterID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			return fmt.Errorf("%w: service id=%d", domain.ErrNotFound, req.ServiceID)
		}
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.OfferedAt(req.ServiceCenterID) {
		return ErrServiceNotOffered
	}

	return nil
}

// checkAppointmentTime проверяет что запись в будущем с минимальным запасом
func (uc *UseCase) checkAppointmentTime(req *Request, now time.Time) error {
	appointment, err := req.BookingTime.At(req.BookingDate)
	if err != nil {
		return fmt.Errorf("%w: booking time: %v", ErrInvalidInput, err)
	}

	earliest := now.Add(time.Duration(uc.minNoticeMinutes) * time.Minute)
	if appointment.Before(earliest) {
		return fmt.Errorf("%w: booking requires at least %d minutes notice", ErrTooLateToBook, uc.minNoticeMinutes)
	}

	return nil
}

// logError выбирает уровень логирования по виду ошибки
func (uc *UseCase) logError(req *Request, err error) {
	switch {
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: actor=%d failed: %v", req.Actor.ID, err)
	default:
		uc.logger.Warn("CreateBooking: actor=%d rejected: %v", req.Actor.ID, err)
	}
}
