package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	"github.com/avtomir/ASC-BookingService/pkg/ptr"
)

// UseCase use case подтверждения бронирования (pending -> confirmed)
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

// Execute выполняет подтверждение бронирования
// Порядок фиксированный: актор -> загрузка -> авторизация -> переход ->
// атомарный коммит мутации, записи истории и события
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking=%d, actor=%d role=%s", req.BookingID, req.Actor.ID, req.Actor.Role)

	// 1. Проверяем наличие аутентифицированного актора
	if err := validateActor(req.Actor); err != nil {
		uc.logger.Warn("ConfirmBooking: actor validation failed: %v", err)
		return nil, err
	}

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", domain.ErrNotFound)
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Загружаем бронирование
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}

		// 3. Авторизация до применения перехода: запрет доступа не должен
		// доходить до агрегата и оставлять следов в истории
		if err := domain.Authorize(req.Actor, domain.TransitionConfirm, b); err != nil {
			return err
		}

		// 4. Применяем переход; агрегат сам валидирует легальность состояния
		if err := b.Confirm(req.Actor.ID, req.StaffNotes, now); err != nil {
			return err
		}

		// 5. Коммитим мутацию, запись истории и событие одним юнитом
		if err := commitPending(txCtx, uc.bookingRepo, uc.historyRepo, uc.outboxRepo, b); err != nil {
			return err
		}

		result = b
		return nil
	})

	if err != nil {
		uc.logError(req, err)
		return nil, err
	}

	uc.logger.Info("ConfirmBooking: booking=%d confirmed by actor=%d", result.ID, req.Actor.ID)

	return &Response{
		ID:            result.ID,
		BookingNumber: result.BookingNumber,
		Status:        string(result.Status),
		ConfirmedAt:   ptr.Deref(result.ConfirmedAt),
		ConfirmedBy:   ptr.Deref(result.ConfirmedBy),
		StaffNotes:    result.StaffNotes,
	}, nil
}

// logError выбирает уровень логирования по виду ошибки
// Бизнес-отказы это warning, внутренние ошибки - error
func (uc *UseCase) logError(req *Request, err error) {
	switch {
	case errors.Is(err, ErrInternal):
		uc.logger.Error("ConfirmBooking: booking=%d failed: %v", req.BookingID, err)
	default:
		uc.logger.Warn("ConfirmBooking: booking=%d rejected: %v", req.BookingID, err)
	}
}

// validateActor проверяет наличие аутентифицированного актора
func validateActor(actor domain.Actor) error {
	if actor.ID <= 0 || actor.Role == "" {
		return fmt.Errorf("%w: no authenticated actor", domain.ErrUnauthorized)
	}
	return nil
}

// commitPending записывает мутированное бронирование с проверкой версии,
// затем накопленные агрегатом записи истории и события - в одной транзакции
func commitPending(
	ctx context.Context,
	bookings BookingRepository,
	histories HistoryRepository,
	events OutboxRepository,
	b *domain.Booking,
) error {
	if err := bookings.UpdateWithVersion(ctx, b); err != nil {
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
		if _, err := histories.Append(ctx, &pendingHistory[i]); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}
	}

	for _, event := range b.PendingEvents() {
		if err := events.Append(ctx, event); err != nil {
			return fmt.Errorf("%w: failed to append event: %v", ErrInternal, err)
		}
	}

	return nil
}
