package booking

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidWindow = errors.New("window end must be after start")
	ErrNoWindows     = errors.New("at least one window is required")
)

// TimeWindow is a half-open interval [Start, End) within one booking day.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time        { return w.start }
func (w TimeWindow) End() time.Time          { return w.end }
func (w TimeWindow) Duration() time.Duration { return w.end.Sub(w.start) }

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s/%s", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

// NormalizeWindows validates, de-duplicates and sorts the requested windows.
// Duplicates in the input collapse to one reservation attempt; the result is
// ordered by start time.
func NormalizeWindows(windows []TimeWindow) ([]TimeWindow, error) {
	if len(windows) == 0 {
		return nil, ErrNoWindows
	}

	seen := make(map[string]struct{}, len(windows))
	out := make([]TimeWindow, 0, len(windows))
	for _, w := range windows {
		key := w.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })
	return out, nil
}
