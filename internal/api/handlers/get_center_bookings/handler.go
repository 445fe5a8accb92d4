package get_center_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avtomir/ASC-BookingService/internal/api/handlers"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/service/bookings"
	"github.com/avtomir/ASC-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidCenterID = "некорректный ID сервисного центра"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter   = "некорректные параметры фильтрации"
	msgNoActor         = "запрос без аутентификации"
	msgForbidden       = "доступ запрещен"
	msgCenterNotFound  = "сервисный центр не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/bookings
//
// Query параметры:
// - startDate, endDate: период в формате YYYY-MM-DD
// - status: фильтр по статусу
// - includeCancelled: true для включения отмененных
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNoActor)
		return
	}

	vars := mux.Vars(r)
	centerID, err := strconv.ParseInt(vars["centerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /centers/{centerId}/bookings - Invalid center ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCenterID)
		return
	}

	req := &models.GetCenterBookingsRequest{
		Actor:           actor,
		ServiceCenterID: centerID,
	}

	query := r.URL.Query()

	if startStr := query.Get("startDate"); startStr != "" {
		start, err := time.Parse(domain.DateFormat, startStr)
		if err != nil {
			h.logger.Warn("GET /centers/{centerId}/bookings - Invalid startDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &start
	}

	if endStr := query.Get("endDate"); endStr != "" {
		end, err := time.Parse(domain.DateFormat, endStr)
		if err != nil {
			h.logger.Warn("GET /centers/{centerId}/bookings - Invalid endDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &end
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeCancelled = query.Get("includeCancelled") == "true"

	result, err := h.service.GetCenterBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /centers/{centerId}/bookings - Access denied: center=%d, actor=%d", centerID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCenterNotFound):
			h.logger.Warn("GET /centers/{centerId}/bookings - Center not found: center=%d", centerID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /centers/{centerId}/bookings - Invalid filter: center=%d", centerID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /centers/{centerId}/bookings - Failed: center=%d, error=%v", centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
