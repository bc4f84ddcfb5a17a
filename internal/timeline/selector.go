// Package timeline implements the clip-range selection state machine: two
// handles picking [start, end) within [0, duration), fed either by text
// input or by proportional drag positions, plus the preview loop that drives
// an external player over the selected range.
package timeline

// Handle identifies which edge of the range a drag gesture is moving.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
)

// Handles keep at least this many seconds apart; dragging one clamps it
// against the other's current position.
const minSeparation = 1.0

// defaultClipLength seeds the end handle the first time the video duration
// becomes known.
const defaultClipLength = 30.0

// Selector holds the range-selection state. The duration arrives
// asynchronously (the external player reports it only after the video is
// loaded), so the end handle stays unset (0) until then. Every mutation
// keeps 0 <= start < end <= duration.
type Selector struct {
	duration float64
	start    float64
	end      float64
	dragging Handle
}

// NewSelector returns a selector with no video loaded.
func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) StartTime() float64 { return s.start }
func (s *Selector) EndTime() float64   { return s.end }
func (s *Selector) Duration() float64  { return s.duration }
func (s *Selector) Dragging() Handle   { return s.dragging }

// SetDuration records the duration reported by the player. On first
// arrival, an unset end handle defaults to min(start+30, duration). A
// shrinking duration (a different video was loaded) re-clamps both handles.
func (s *Selector) SetDuration(d float64) {
	if d <= 0 {
		return
	}
	s.duration = d
	if s.end == 0 {
		s.end = min(s.start+defaultClipLength, d)
	}
	if s.end > d {
		s.end = d
	}
	if s.start > s.end-minSeparation {
		s.start = max(0, s.end-minSeparation)
	}
}

// SetStartTime moves the start handle, clamping into [0, end-1].
func (s *Selector) SetStartTime(t float64) {
	if s.end > 0 {
		t = min(t, s.end-minSeparation)
	}
	s.start = max(0, t)
}

// SetEndTime moves the end handle, clamping into [start+1, duration].
func (s *Selector) SetEndTime(t float64) {
	t = max(t, s.start+minSeparation)
	if s.duration > 0 {
		t = min(t, s.duration)
	}
	s.end = t
}

// ApplyStartInput parses a text-entered start time and applies it when
// valid. It reports false for non-numeric input or an out-of-order value,
// in which case the state is unchanged and the caller reverts the displayed
// text to the last valid value.
func (s *Selector) ApplyStartInput(input string) bool {
	v, ok := ParseTimeInput(input)
	if !ok || v < 0 {
		return false
	}
	if s.duration > 0 && v >= s.duration {
		return false
	}
	if s.end > 0 && v >= s.end {
		return false
	}
	s.start = v
	return true
}

// ApplyEndInput is the end-handle counterpart of ApplyStartInput.
func (s *Selector) ApplyEndInput(input string) bool {
	v, ok := ParseTimeInput(input)
	if !ok || v <= s.start {
		return false
	}
	if s.duration > 0 && v > s.duration {
		return false
	}
	s.end = v
	return true
}

// BeginDrag enters the dragging state for the given handle. Mouse and touch
// gestures both funnel through here; the selector only sees track fractions.
func (s *Selector) BeginDrag(h Handle) {
	if h == HandleStart || h == HandleEnd {
		s.dragging = h
	}
}

// DragTo applies a pointer position expressed as a fraction of the timeline
// track width. A no-op unless a drag is active and the duration is known.
func (s *Selector) DragTo(fraction float64) {
	if s.dragging == HandleNone || s.duration <= 0 {
		return
	}
	fraction = min(max(fraction, 0), 1)
	t := fraction * s.duration
	switch s.dragging {
	case HandleStart:
		s.SetStartTime(t)
	case HandleEnd:
		s.SetEndTime(t)
	}
}

// EndDrag leaves the dragging state. Pointer-up and leaving the window both
// map here.
func (s *Selector) EndDrag() {
	s.dragging = HandleNone
}
