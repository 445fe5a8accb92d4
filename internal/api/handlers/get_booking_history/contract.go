package get_booking_history

import (
	"context"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetHistory(ctx context.Context, bookingID int64, actor domain.Actor) (*models.HistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
