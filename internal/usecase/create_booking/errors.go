package create_booking

import (
	"errors"
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

var (
	ErrInvalidInput      = fmt.Errorf("%w: invalid input", domain.ErrBusinessRuleViolation)
	ErrCustomerInactive  = fmt.Errorf("%w: customer account is inactive", domain.ErrBusinessRuleViolation)
	ErrVehicleNotOwned   = fmt.Errorf("%w: vehicle does not belong to the customer", domain.ErrBusinessRuleViolation)
	ErrCenterInactive    = fmt.Errorf("%w: service center is inactive", domain.ErrBusinessRuleViolation)
	ErrServiceNotOffered = fmt.Errorf("%w: service is not offered at this center", domain.ErrBusinessRuleViolation)
	ErrTooLateToBook     = fmt.Errorf("%w: appointment time is in the past or too soon", domain.ErrBusinessRuleViolation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
