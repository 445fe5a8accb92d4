package domain

import "time"

// CenterBookingsFilter narrows the staff listing of a service center's bookings
type CenterBookingsFilter struct {
	ServiceCenterID  int64          // Required
	StartDate        *time.Time     // Period start (optional)
	EndDate          *time.Time     // Period end (optional)
	Status           *BookingStatus // Status filter (optional)
	IncludeCancelled bool           // Include cancelled bookings when no status filter is set
}
