package start_booking

import (
	"context"

	startBooking "github.com/avtomir/ASC-BookingService/internal/usecase/start_booking"
)

type StartBookingUseCase interface {
	Execute(ctx context.Context, req *startBooking.Request) (*startBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
