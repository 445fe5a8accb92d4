package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/avtomir/ASC-BookingService/pkg/types"
)

// Booking is the aggregate root of a vehicle-service appointment.
// All status changes go through the transition methods below; each
// successful call mutates the status exactly once, records one history
// entry and raises at most one domain event. The pending history and
// events are persisted by the use case in the same transaction as the
// booking row itself.
type Booking struct {
	ID            int64
	BookingNumber string

	// Immutable references, set at creation
	CustomerID      int64
	VehicleID       int64
	ServiceCenterID int64
	ServiceID       int64

	// Appointment instant, immutable (no reschedule operation exists)
	BookingDate time.Time
	BookingTime types.TimeString

	Status BookingStatus

	CustomerNotes *string
	StaffNotes    *string

	// Transition stamps, each populated exactly once and never cleared
	ConfirmedAt        *time.Time
	ConfirmedBy        *int64
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	CancelledBy        *int64

	// Version is the optimistic-concurrency stamp checked at commit time
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time

	pendingHistory []StatusHistoryEntry
	pendingEvents  []Event
}

// NewBooking creates a booking in the Pending status, records the initial
// history entry and raises the created event. Reference validity (vehicle
// ownership, service offered at the center) is checked by the use case
// before this constructor is called.
func NewBooking(
	customerID, vehicleID, serviceCenterID, serviceID int64,
	bookingDate time.Time,
	bookingTime types.TimeString,
	customerNotes *string,
	now time.Time,
) *Booking {
	b := &Booking{
		BookingNumber:   GenerateBookingNumber(now),
		CustomerID:      customerID,
		VehicleID:       vehicleID,
		ServiceCenterID: serviceCenterID,
		ServiceID:       serviceID,
		BookingDate:     bookingDate,
		BookingTime:     bookingTime,
		Status:          StatusPending,
		CustomerNotes:   normalizeNotes(customerNotes),
	}

	b.recordHistory(nil, StatusPending, customerID, now, nil)
	b.raiseEvent(EventBookingCreated, customerID, now, nil)

	return b
}

// Confirm moves the booking from Pending to Confirmed.
// Optional staff notes are trimmed; empty input leaves existing notes intact.
func (b *Booking) Confirm(actorID int64, staffNotes *string, now time.Time) error {
	if err := b.applyTransition(TransitionConfirm); err != nil {
		return err
	}

	b.ConfirmedAt = &now
	b.ConfirmedBy = &actorID
	b.setStaffNotes(staffNotes)

	b.recordHistory(ptrStatus(StatusPending), StatusConfirmed, actorID, now, normalizeNotes(staffNotes))
	b.raiseEvent(EventBookingConfirmed, actorID, now, nil)

	return nil
}

// Start moves the booking from Confirmed to InProgress.
// No domain event is raised: notification consumers are not interested
// in work having started.
func (b *Booking) Start(actorID int64, now time.Time) error {
	if err := b.applyTransition(TransitionStart); err != nil {
		return err
	}

	b.recordHistory(ptrStatus(StatusConfirmed), StatusInProgress, actorID, now, nil)

	return nil
}

// Complete moves the booking from InProgress to Completed.
// Optional staff notes are trimmed; empty input leaves existing notes intact.
func (b *Booking) Complete(actorID int64, staffNotes *string, now time.Time) error {
	if err := b.applyTransition(TransitionComplete); err != nil {
		return err
	}

	b.CompletedAt = &now
	b.setStaffNotes(staffNotes)

	b.recordHistory(ptrStatus(StatusInProgress), StatusCompleted, actorID, now, normalizeNotes(staffNotes))
	b.raiseEvent(EventBookingCompleted, actorID, now, nil)

	return nil
}

// Cancel moves the booking from Pending or Confirmed to Cancelled.
// The cancellation reason is mandatory and recorded verbatim; only the
// emptiness check ignores surrounding whitespace.
func (b *Booking) Cancel(actorID int64, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: cancellation reason is required", ErrBusinessRuleViolation)
	}

	oldStatus := b.Status
	if err := b.applyTransition(TransitionCancel); err != nil {
		return err
	}

	b.CancelledAt = &now
	b.CancelledBy = &actorID
	b.CancellationReason = &reason

	b.recordHistory(&oldStatus, StatusCancelled, actorID, now, &reason)
	b.raiseEvent(EventBookingCancelled, actorID, now, &reason)

	return nil
}

// CanBeModified returns true while the booking has not started yet
func (b *Booking) CanBeModified() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelledByCustomer returns true if the owning customer may still
// cancel; staff may additionally cancel subject to the same state rule
func (b *Booking) CanBeCancelledByCustomer() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// AppointmentAt combines the booking date and time into a single instant
func (b *Booking) AppointmentAt() (time.Time, error) {
	return b.BookingTime.At(b.BookingDate)
}

// PendingHistory returns the history entries recorded by transitions on
// this in-memory instance and not yet persisted
func (b *Booking) PendingHistory() []StatusHistoryEntry {
	return b.pendingHistory
}

// PendingEvents returns the domain events raised by transitions on this
// in-memory instance and not yet persisted
func (b *Booking) PendingEvents() []Event {
	return b.pendingEvents
}

// SyncPendingIDs propagates the persisted booking id into pending history
// entries and events. Called once after the initial insert, when the id
// first becomes known.
func (b *Booking) SyncPendingIDs() {
	for i := range b.pendingHistory {
		b.pendingHistory[i].BookingID = b.ID
	}
	for i := range b.pendingEvents {
		b.pendingEvents[i].BookingID = b.ID
	}
}

// applyTransition validates the (status, transition) pair against the
// legal transition table and advances the status. State legality is
// re-checked here even though use cases authorize first: permission and
// state legality are orthogonal and must fail distinguishably.
func (b *Booking) applyTransition(t Transition) error {
	next, ok := NextStatus(b.Status, t)
	if !ok {
		return fmt.Errorf("%w: cannot %s booking %s in status %s",
			ErrBusinessRuleViolation, t, b.BookingNumber, b.Status)
	}
	b.Status = next
	return nil
}

func (b *Booking) recordHistory(old *BookingStatus, newStatus BookingStatus, actorID int64, now time.Time, notes *string) {
	b.pendingHistory = append(b.pendingHistory, StatusHistoryEntry{
		BookingID: b.ID,
		OldStatus: old,
		NewStatus: newStatus,
		ChangedBy: actorID,
		ChangedAt: now,
		Notes:     notes,
	})
}

func (b *Booking) raiseEvent(eventType EventType, actorID int64, now time.Time, reason *string) {
	b.pendingEvents = append(b.pendingEvents, Event{
		Type:               eventType,
		BookingID:          b.ID,
		BookingNumber:      b.BookingNumber,
		CustomerID:         b.CustomerID,
		ServiceCenterID:    b.ServiceCenterID,
		ActorID:            actorID,
		BookingDate:        b.BookingDate.Format(DateFormat),
		BookingTime:        b.BookingTime.String(),
		OccurredAt:         now,
		CancellationReason: reason,
	})
}

// setStaffNotes overwrites staff notes with the trimmed input.
// Empty or whitespace-only input means "no notes supplied" and does not
// touch existing notes.
func (b *Booking) setStaffNotes(notes *string) {
	if n := normalizeNotes(notes); n != nil {
		b.StaffNotes = n
	}
}

// normalizeNotes trims the input and collapses empty strings to nil
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ptrStatus(s BookingStatus) *BookingStatus {
	return &s
}
