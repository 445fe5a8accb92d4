package complete_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	completeBooking "github.com/avtomir/ASC-BookingService/internal/usecase/complete_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoActor            = "запрос без аутентификации"
	msgForbidden          = "завершать работы может только персонал"
	msgNotFound           = "бронирование не найдено"
	msgIllegalTransition  = "работы нельзя завершить в текущем статусе бронирования"
	msgConflict           = "бронирование было изменено параллельно, повторите запрос"
)

// CompleteBookingRequest HTTP request model
type CompleteBookingRequest struct {
	StaffNotes *string `json:"staffNotes,omitempty"`
}

// CompleteBookingResponse HTTP response model
type CompleteBookingResponse struct {
	ID            int64   `json:"id"`
	BookingNumber string  `json:"bookingNumber"`
	Status        string  `json:"status"`
	CompletedAt   string  `json:"completedAt"`
	StaffNotes    *string `json:"staffNotes,omitempty"`
}

type Handler struct {
	useCase CompleteBookingUseCase
	logger  Logger
}

func NewHandler(useCase CompleteBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: завершение без итоговых заметок допустимо
	var req CompleteBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/complete - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &completeBooking.Request{
		Actor:      actor,
		BookingID:  bookingID,
		StaffNotes: req.StaffNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgNoActor)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/complete - Forbidden: booking=%d, actor=%d role=%s",
				bookingID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/complete - Booking not found: booking=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.logger.Warn("PATCH /bookings/{id}/complete - Version conflict: booking=%d", bookingID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrBusinessRuleViolation):
			h.logger.Warn("PATCH /bookings/{id}/complete - Illegal transition: booking=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgIllegalTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/complete - Failed: booking=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Work completed: booking=%d, actor=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, &CompleteBookingResponse{
		ID:            result.ID,
		BookingNumber: result.BookingNumber,
		Status:        result.Status,
		CompletedAt:   result.CompletedAt.Format(time.RFC3339),
		StaffNotes:    result.StaffNotes,
	})
}
