package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	"github.com/avtomir/ASC-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo   BookingRepository
	historyRepo   HistoryRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		historyRepo:   historyRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, сотрудник - бронирования своего центра
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d role=%s", id, actor.ID, actor.Role)

	booking, err := s.loadBooking(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetHistory получает журнал смены статусов бронирования
// Правила доступа те же, что и для самого бронирования
func (s *Service) GetHistory(ctx context.Context, bookingID int64, actor domain.Actor) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: fetching history for booking id=%d, actor=%d", bookingID, actor.ID)

	if _, err := s.loadBooking(ctx, bookingID, actor); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHistory: fetched %d entries for booking id=%d", len(entries), bookingID)
	return models.FromDomainHistory(bookingID, entries), nil
}

// GetUserBookings получает бронирования клиента
// Клиент может запросить только свои, персонал - любого клиента
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for customer=%d, actor=%d, status=%v",
		req.CustomerID, req.Actor.ID, req.Status)

	if !req.Actor.Role.IsStaff() && req.Actor.ID != req.CustomerID {
		s.logger.Warn("GetUserBookings: actor=%d denied access to customer=%d bookings", req.Actor.ID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, ok := domain.ParseStatus(*req.Status)
		if !ok {
			s.logger.Warn("GetUserBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCenterBookings получает бронирования сервисного центра с фильтрацией
// по периоду и статусу. Доступно только персоналу центра.
//
// Примеры использования:
// - Все активные бронирования: указать только ServiceCenterID
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отмененные: IncludeCancelled = true
func (s *Service) GetCenterBookings(ctx context.Context, req *models.GetCenterBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCenterBookings: fetching bookings for center=%d, actor=%d role=%s",
		req.ServiceCenterID, req.Actor.ID, req.Actor.Role)

	if err := s.checkStaffAccess(ctx, req.ServiceCenterID, req.Actor); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCenterBookings: invalid filter for center=%d: %v", req.ServiceCenterID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCenterWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCenterBookings: repository error for center=%d: %v", req.ServiceCenterID, err)
		return nil, fmt.Errorf("%w: GetCenterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCenterBookings: fetched %d bookings for center=%d", len(bookings), req.ServiceCenterID)
	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// loadBooking загружает бронирование и проверяет право актора его видеть
func (s *Service) loadBooking(ctx context.Context, id int64, actor domain.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("loadBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("loadBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: loadBooking - repository error: %v", ErrInternal, err)
	}

	// Владелец бронирования - доступ разрешен
	if actor.Role == domain.RoleCustomer {
		if booking.CustomerID == actor.ID {
			return booking, nil
		}
		s.logger.Warn("loadBooking: customer=%d denied access to booking id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	if err := s.checkStaffAccess(ctx, booking.ServiceCenterID, actor); err != nil {
		return nil, err
	}

	return booking, nil
}

// checkStaffAccess проверяет, что актор относится к персоналу центра
// Администратор имеет доступ к любому центру, сотрудник - только к своему
func (s *Service) checkStaffAccess(ctx context.Context, centerID int64, actor domain.Actor) error {
	if !actor.Role.IsStaff() {
		s.logger.Warn("checkStaffAccess: actor=%d role=%s is not staff", actor.ID, actor.Role)
		return ErrAccessDenied
	}

	if actor.Role == domain.RoleAdmin {
		return nil
	}

	center, err := s.catalogClient.GetCenter(ctx, centerID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrCenterNotFound) {
			s.logger.Warn("checkStaffAccess: center id=%d not found", centerID)
			return ErrCenterNotFound
		}
		s.logger.Error("checkStaffAccess: failed to get center id=%d: %v", centerID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get center: %v", ErrInternal, err)
	}

	for _, staffID := range center.StaffIDs {
		if staffID == actor.ID {
			return nil
		}
	}

	s.logger.Warn("checkStaffAccess: employee=%d is not staff of center=%d", actor.ID, centerID)
	return ErrAccessDenied
}
