package bookings

import (
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

var (
	ErrBookingNotFound = fmt.Errorf("%w: booking not found", domain.ErrNotFound)
	ErrCenterNotFound  = fmt.Errorf("%w: service center not found", domain.ErrNotFound)
	ErrAccessDenied    = fmt.Errorf("%w: access denied", domain.ErrForbidden)
	ErrInvalidInput    = fmt.Errorf("%w: invalid input", domain.ErrBusinessRuleViolation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
