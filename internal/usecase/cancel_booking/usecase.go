package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	"github.com/avtomir/ASC-BookingService/pkg/ptr"
)

// UseCase use case отмены бронирования (pending/confirmed -> cancelled)
// Отменить может сотрудник или клиент-владелец; из in_progress и
// терминальных статусов отмена невозможна
type UseCase struct {
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	outboxRepo   OutboxRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет отмену бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d role=%s", req.BookingID, req.Actor.ID, req.Actor.Role)

	if req.Actor.ID <= 0 || req.Actor.Role == "" {
		uc.logger.Warn("CancelBooking: no authenticated actor")
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

		// Авторизация до применения перехода: владение бронированием
		// проверяется гардом, а не агрегатом
		if err := domain.Authorize(req.Actor, domain.TransitionCancel, b); err != nil {
			return err
		}

		// Агрегат проверяет обязательность причины и легальность состояния
		if err := b.Cancel(req.Actor.ID, req.CancellationReason, now); err != nil {
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

		for _, event := range b.PendingEvents() {
			if err := uc.outboxRepo.Append(txCtx, event); err != nil {
				return fmt.Errorf("%w: failed to append event: %v", ErrInternal, err)
			}
		}

		result = b
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CancelBooking: booking=%d failed: %v", req.BookingID, err)
		} else {
			uc.logger.Warn("CancelBooking: booking=%d rejected: %v", req.BookingID, err)
		}
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking=%d cancelled by actor=%d", result.ID, req.Actor.ID)

	return &Response{
		ID:                 result.ID,
		BookingNumber:      result.BookingNumber,
		Status:             string(result.Status),
		CancelledAt:        ptr.Deref(result.CancelledAt),
		CancelledBy:        ptr.Deref(result.CancelledBy),
		CancellationReason: ptr.Deref(result.CancellationReason),
	}, nil
}
