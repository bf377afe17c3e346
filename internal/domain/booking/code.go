package booking

import (
	"fmt"
	"time"
)

// FormatCode renders the human-readable booking code BKG-YYYYMMDD-NNN.
// The sequence is scoped to the booking day and never reused, even after
// expiry or cancellation.
func FormatCode(day time.Time, seq int) string {
	return fmt.Sprintf("BKG-%s-%03d", day.Format("20060102"), seq)
}
