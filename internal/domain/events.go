package domain

import "time"

// EventType identifies the domain event raised by a transition.
// Start raises no event: the notification consumers only care about
// created/confirmed/completed/cancelled, so the set is closed at four.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCompleted EventType = "booking.completed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// Event is a data-only record of a committed transition, published for
// notification consumers (email/SMS). It carries no behavior.
type Event struct {
	Type            EventType `json:"type"`
	BookingID       int64     `json:"bookingId"`
	BookingNumber   string    `json:"bookingNumber"`
	CustomerID      int64     `json:"customerId"`
	ServiceCenterID int64     `json:"serviceCenterId"`
	ActorID         int64     `json:"actorId"`
	BookingDate     string    `json:"bookingDate"` // "2026-09-14"
	BookingTime     string    `json:"bookingTime"` // "10:30"
	OccurredAt      time.Time `json:"occurredAt"`

	// Only set on booking.cancelled
	CancellationReason *string `json:"cancellationReason,omitempty"`
}
