package create_booking

import (
	"fmt"

	"github.com/avtomir/ASC-BookingService/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor id is required", domain.ErrUnauthorized)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicle id is required", ErrInvalidInput)
	}

	if req.ServiceCenterID <= 0 {
		return fmt.Errorf("%w: service center id is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id is required", ErrInvalidInput)
	}

	if req.BookingDate.IsZero() {
		return fmt.Errorf("%w: booking date is required", ErrInvalidInput)
	}

	if err := req.BookingTime.Validate(); err != nil {
		return fmt.Errorf("%w: booking time: %v", ErrInvalidInput, err)
	}

	if req.CustomerNotes != nil && len(*req.CustomerNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: customer notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
