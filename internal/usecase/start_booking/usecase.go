package start_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
)

// UseCase use case начала работ по бронированию (confirmed -> in_progress)
// Единственный переход без доменного события: потребителей уведомлений
// начало работ не интересует, в outbox ничего не пишется
type UseCase struct {
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет перевод бронирования в работу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("StartBooking: booking=%d, actor=%d role=%s", req.BookingID, req.Actor.ID, req.Actor.Role)

	if req.Actor.ID <= 0 || req.Actor.Role == "" {
		uc.logger.Warn("StartBooking: no authenticated actor")
		return nil, fmt.Errorf("%w: no authenticated actor", domain.ErrUnauthorized)
	}

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", domain.ErrNotFound)
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}

		// Авторизация до применения перехода
		if err := domain.Authorize(req.Actor, domain.TransitionStart, b); err != nil {
			return err
		}

		if err := b.Start(req.Actor.ID, now); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpdateWithVersion(txCtx, b); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrVersionConflict):
				return fmt.Errorf("%w: booking id=%d was modified concurrently", domain.ErrConcurrencyConflict, b.ID)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, b.ID)
			default:
				return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
			}
		}

		pendingHistory := b.PendingHistory()
		for i := range pendingHistory {
			if _, err := uc.historyRepo.Append(txCtx, &pendingHistory[i]); err != nil {
				return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
			}
		}

		result = b
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("StartBooking: booking=%d failed: %v", req.BookingID, err)
		} else {
			uc.logger.Warn("StartBooking: booking=%d rejected: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.logger.Info("StartBooking: booking=%d started by actor=%d", result.ID, req.Actor.ID)

	return &Response{
		ID:            result.ID,
		BookingNumber: result.BookingNumber,
		Status:        string(result.Status),
	}, nil
}
