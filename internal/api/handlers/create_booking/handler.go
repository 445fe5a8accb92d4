package create_booking

import (
	"errors"
	"net/http"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	createBooking "github.com/avtomir/ASC-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректные дата или время записи, ожидается YYYY-MM-DD и HH:MM"
	msgNoActor            = "запрос без аутентификации"
	msgForbidden          = "создавать бронирования может только клиент"
	msgNotFound           = "ресурс не найден"
	msgCustomerInactive   = "учетная запись клиента неактивна"
	msgVehicleNotOwned    = "автомобиль не принадлежит клиенту"
	msgCenterInactive     = "сервисный центр неактивен"
	msgServiceNotOffered  = "услуга недоступна в выбранном центре"
	msgTooLateToBook      = "слишком поздно для записи на выбранное время"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			h.logger.Warn("POST /bookings - Unauthorized: %v", err)
			handlers.RespondUnauthorized(w, msgNoActor)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /bookings - Forbidden: actor=%d role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Not found: actor=%d, error=%v", actor.ID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createBooking.ErrCustomerInactive):
			h.logger.Warn("POST /bookings - Customer inactive: actor=%d", actor.ID)
			handlers.RespondBadRequest(w, msgCustomerInactive)

		case errors.Is(err, createBooking.ErrVehicleNotOwned):
			h.logger.Warn("POST /bookings - Vehicle not owned: actor=%d, vehicle=%d", actor.ID, req.VehicleID)
			handlers.RespondBadRequest(w, msgVehicleNotOwned)

		case errors.Is(err, createBooking.ErrCenterInactive):
			h.logger.Warn("POST /bookings - Center inactive: center=%d", req.ServiceCenterID)
			handlers.RespondBadRequest(w, msgCenterInactive)

		case errors.Is(err, createBooking.ErrServiceNotOffered):
			h.logger.Warn("POST /bookings - Service not offered: center=%d, service=%d", req.ServiceCenterID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: actor=%d", actor.ID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, domain.ErrBusinessRuleViolation):
			h.logger.Warn("POST /bookings - Invalid input: actor=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: actor=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, number=%s, customer=%d",
		result.ID, result.BookingNumber, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
