package confirm_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	confirmBooking "github.com/avtomir/ASC-BookingService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoActor            = "запрос без аутентификации"
	msgForbidden          = "подтверждать бронирования может только персонал"
	msgNotFound           = "бронирование не найдено"
	msgIllegalTransition  = "бронирование нельзя подтвердить в текущем статусе"
	msgConflict           = "бронирование было изменено параллельно, повторите запрос"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: подтверждение без заметок допустимо
	var req ConfirmBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/confirm - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{
		Actor:      actor,
		BookingID:  bookingID,
		StaffNotes: req.StaffNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgNoActor)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Forbidden: booking=%d, actor=%d role=%s",
				bookingID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Booking not found: booking=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Version conflict: booking=%d", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrBusinessRuleViolation):
			h.logger.Warn("PATCH /bookings/{id}/confirm - Illegal transition: booking=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgIllegalTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirm - Failed: booking=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking=%d, actor=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
