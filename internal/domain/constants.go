package domain

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
