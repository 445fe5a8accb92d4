package create_booking

import (
	"time"

	"github.com/avtomir/ASC-BookingService/internal/domain"
	"github.com/avtomir/ASC-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor
	VehicleID       int64
	ServiceCenterID int64
	ServiceID       int64
	BookingDate     time.Time
	BookingTime     types.TimeString
	CustomerNotes   *string
}

// Response модель ответа с данными созданного бронирования
type Response struct {
	ID            int64
	BookingNumber string
	Status        domain.BookingStatus
	CustomerID    int64
	VehicleID     int64
	CenterID      int64
	ServiceID     int64
	BookingDate   time.Time
	BookingTime   types.TimeString
	CustomerNotes *string
	CreatedAt     time.Time
}
