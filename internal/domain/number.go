package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingNumber produces a human-readable unique booking number,
// e.g. "BK-20261114-9F3A1C07". Generated once at creation, never changed.
func GenerateBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), suffix)
}
