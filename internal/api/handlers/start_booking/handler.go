package start_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	startBooking "github.com/avtomir/ASC-BookingService/internal/usecase/start_booking"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgNoActor           = "запрос без аутентификации"
	msgForbidden         = "начинать работы может только персонал"
	msgNotFound          = "бронирование не найдено"
	msgIllegalTransition = "работы нельзя начать в текущем статусе бронирования"
	msgConflict          = "бронирование было изменено параллельно, повторите запрос"
)

// StartBookingResponse HTTP response model
type StartBookingResponse struct {
	ID            int64  `json:"id"`
	BookingNumber string `json:"bookingNumber"`
	Status        string `json:"status"`
}

type Handler struct {
	useCase StartBookingUseCase
	logger  Logger
}

func NewHandler(useCase StartBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/start - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &startBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgNoActor)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/start - Forbidden: booking=%d, actor=%d role=%s",
				bookingID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/start - Booking not found: booking=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/{id}/start - Version conflict: booking=%d", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrBusinessRuleViolation):
			h.logger.Warn("PATCH /bookings/{id}/start - Illegal transition: booking=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgIllegalTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/start - Failed: booking=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/start - Work started: booking=%d, actor=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, &StartBookingResponse{
		ID:            result.ID,
		BookingNumber: result.BookingNumber,
		Status:        result.Status,
	})
}
