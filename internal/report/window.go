package report

import "time"

// DateWindow is an inclusive time range. Either bound may be nil.
type DateWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// NewDateWindow builds a window from optional bounds.
func NewDateWindow(start, end *time.Time) DateWindow {
	return DateWindow{Start: start, End: end}
}

// Bounded reports whether both bounds are set. Only a bounded window filters.
func (w DateWindow) Bounded() bool {
	return w.Start != nil && w.End != nil
}

// Contains reports whether t falls within the window.
func (w DateWindow) Contains(t time.Time) bool {
	if !w.Bounded() {
		return true
	}
	return !t.Before(*w.Start) && !t.After(*w.End)
}

// Filter returns the records whose timestamp falls within the window, in input order.
// A window with start after end yields an empty result.
func Filter[T Record](records []T, window DateWindow) []T {
	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if window.Contains(record.OccurredAt()) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
