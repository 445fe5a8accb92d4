package get_center_bookings

import (
	"context"

	"github.com/avtomir/ASC-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetCenterBookings(ctx context.Context, req *models.GetCenterBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
