package domain

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Transition is a named operation moving a booking between statuses
type Transition string

const (
	TransitionCreate   Transition = "create"
	TransitionConfirm  Transition = "confirm"
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
)

// AllStatuses are the possible booking statuses, used for validation
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// transitionTable is the legal transition graph. Completed and Cancelled
// are terminal: they have no outgoing edges.
var transitionTable = map[BookingStatus]map[Transition]BookingStatus{
	StatusPending: {
		TransitionConfirm: StatusConfirmed,
		TransitionCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		TransitionStart:  StatusInProgress,
		TransitionCancel: StatusCancelled,
	},
	StatusInProgress: {
		TransitionComplete: StatusCompleted,
	},
}

// NextStatus returns the successor status for the given (status, transition)
// pair and whether that pair is legal
func NextStatus(from BookingStatus, t Transition) (BookingStatus, bool) {
	next, ok := transitionTable[from][t]
	return next, ok
}

// IsTerminal returns true if the status has no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(transitionTable[s]) == 0
}

// ParseStatus validates and converts a string into a BookingStatus
func ParseStatus(s string) (BookingStatus, bool) {
	for _, valid := range AllStatuses {
		if BookingStatus(s) == valid {
			return valid, true
		}
	}
	return "", false
}
