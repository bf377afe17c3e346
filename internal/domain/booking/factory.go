package booking

import (
	"errors"
	"fmt"
	"time"

	"resihub/internal/domain/amenity"
	"resihub/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrOutsideOperatingHours = errors.New("window is outside operating hours")
	ErrNotSlotMultiple       = errors.New("window duration must be a whole number of slots")
)

// WindowValidationError carries the offending window so callers can tell the
// client exactly which interval to fix.
type WindowValidationError struct {
	Window TimeWindow
	Reason error
}

func (e *WindowValidationError) Error() string {
	return fmt.Sprintf("window %s: %s", e.Window, e.Reason)
}

func (e *WindowValidationError) Unwrap() error {
	return e.Reason
}

type Factory struct {
	clock clock.Clock
}

func NewFactory(clock clock.Clock) *Factory {
	return &Factory{clock: clock}
}

// NewBooking validates the requested windows against the amenity definition,
// prices them and builds a PENDING booking holding its slots for HoldTTL.
// Windows must already be normalized; the ledger reservation itself is the
// caller's job, the factory only decides what a valid booking looks like.
//
// Price: for every window, slots(duration/slotLength) x unit price, summed.
// The unit price is frozen on the booking at creation time.
func (f *Factory) NewBooking(
	def *amenity.Definition,
	code string,
	residentID uuid.UUID,
	bookingDate time.Time,
	windows []TimeWindow,
) (*Booking, error) {
	total := int64(0)
	for _, w := range windows {
		if !def.ContainsSpan(w.Start(), w.End()) {
			return nil, &WindowValidationError{Window: w, Reason: ErrOutsideOperatingHours}
		}
		slots := def.SlotCount(w.Start(), w.End())
		if slots == 0 {
			return nil, &WindowValidationError{Window: w, Reason: ErrNotSlotMultiple}
		}
		total += int64(slots) * def.UnitPrice()
	}

	return newBooking(code, residentID, def.ID(), bookingDate, windows, def.UnitPrice(), total, f.clock.Now()), nil
}
