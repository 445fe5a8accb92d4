package domain

import "time"

// StatusHistoryEntry is one immutable audit record of a committed
// transition. Entries are only ever appended; the first entry of a
// booking has no OldStatus.
type StatusHistoryEntry struct {
	ID        int64
	BookingID int64
	OldStatus *BookingStatus
	NewStatus BookingStatus
	ChangedBy int64
	ChangedAt time.Time
	Notes     *string
}
