package amenity

import "time"

// GridWindow is one fixed half-open interval [Start, End) of the daily
// availability grid.
type GridWindow struct {
	Start time.Time
	End   time.Time
}

// DayGrid synthesizes the full set of slot windows for one calendar day
// from the definition's operating hours and slot length. A trailing span
// shorter than one slot is dropped, it is never bookable.
func (d *Definition) DayGrid(day time.Time) []GridWindow {
	step := time.Duration(d.slotMinutes) * time.Minute
	open := d.OpensAt(day)
	close := d.ClosesAt(day)

	var grid []GridWindow
	for start := open; !start.Add(step).After(close); start = start.Add(step) {
		grid = append(grid, GridWindow{Start: start, End: start.Add(step)})
	}
	return grid
}

// ContainsSpan reports whether [start, end) lies entirely inside the
// operating hours of the day the span starts on.
func (d *Definition) ContainsSpan(start, end time.Time) bool {
	open := d.OpensAt(start)
	close := d.ClosesAt(start)
	return !start.Before(open) && !end.After(close)
}

// SlotCount returns how many whole slots [start, end) covers, or 0 when the
// duration is not a positive multiple of the slot length.
func (d *Definition) SlotCount(start, end time.Time) int {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes <= 0 || minutes%d.slotMinutes != 0 {
		return 0
	}
	return minutes / d.slotMinutes
}
