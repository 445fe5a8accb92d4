package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	cancelBooking "github.com/avtomir/ASC-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoActor            = "запрос без аутентификации"
	msgForbidden          = "отменить можно только собственное бронирование"
	msgNotFound           = "бронирование не найдено"
	msgReasonRequired     = "причина отмены обязательна"
	msgCannotCancel       = "бронирование не может быть отменено в текущем статусе"
	msgConflict           = "бронирование было изменено параллельно, повторите запрос"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID                 int64  `json:"id"`
	BookingNumber      string `json:"bookingNumber"`
	Status             string `json:"status"`
	CancelledAt        string `json:"cancelledAt"`
	CancelledBy        int64  `json:"cancelledBy"`
	CancellationReason string `json:"cancellationReason"`
}

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.CancellationReason) == "" {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing cancellation reason: booking=%d", bookingID)
		handlers.RespondBadRequest(w, msgReasonRequired)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		Actor:              actor,
		BookingID:          bookingID,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgNoActor)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Forbidden: booking=%d, actor=%d role=%s",
				bookingID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Version conflict: booking=%d", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrBusinessRuleViolation):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking=%d, actor=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, &CancelBookingResponse{
		ID:                 result.ID,
		BookingNumber:      result.BookingNumber,
		Status:             result.Status,
		CancelledAt:        result.CancelledAt.Format(time.RFC3339),
		CancelledBy:        result.CancelledBy,
		CancellationReason: result.CancellationReason,
	})
}
