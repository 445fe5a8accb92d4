package domain

import "fmt"

// Authorize checks whether the actor may request the given transition on
// the booking. It is pure: no I/O, no mutation. A denial is a permission
// problem (ErrForbidden) and is distinct from an illegal-state-transition
// problem, which the aggregate itself reports as ErrBusinessRuleViolation.
//
// The booking argument is nil for TransitionCreate: there is nothing to
// own yet, only the role matters.
func Authorize(actor Actor, transition Transition, booking *Booking) error {
	switch transition {
	case TransitionCreate:
		if actor.Role != RoleCustomer {
			return fmt.Errorf("%w: only customers may create bookings", ErrForbidden)
		}
		return nil

	case TransitionConfirm, TransitionStart, TransitionComplete:
		if !actor.Role.IsStaff() {
			return fmt.Errorf("%w: %s requires a staff role", ErrForbidden, transition)
		}
		return nil

	case TransitionCancel:
		if actor.Role.IsStaff() {
			return nil
		}
		if actor.Role == RoleCustomer && booking != nil && booking.CustomerID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: only staff or the owning customer may cancel", ErrForbidden)

	default:
		return fmt.Errorf("%w: unknown transition %q", ErrForbidden, transition)
	}
}
