package debug

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Fixed messages returned by the renderers.
const (
	ExportTitle          = "Commerce Event Bridge - Debug Session Export"
	ExportFooter         = "End of Debug Session Export"
	DisabledMessage      = "Debug logging is not enabled. Please enable debugging to export logs."
	NoEventsMessage      = "No debug events recorded in this session."
	EmptyHistoryMessage  = "No events recorded in this session yet."
	historyHeaderPattern = "Session History (%d events):\n\n"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces the time source used to stamp events and exports.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the time zone used when printing timestamps.
func WithLocation(loc *time.Location) Option {
	return func(r *Recorder) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// Recorder is the debug session log. It is safe for concurrent use.
//
// A disabled recorder never stores anything: Record is a no-op and Export
// returns the disabled message.
type Recorder struct {
	enabled bool
	now     func() time.Time
	loc     *time.Location

	mu     sync.RWMutex
	events []Event
}

// New creates a recorder.
//
// Parameters:
//   - enabled: Whether debugging is enabled for this session.
//   - opts: Optional clock and time zone.
//
// Returns:
//   - *Recorder: The empty recorder.
func New(enabled bool, opts ...Option) *Recorder {
	r := &Recorder{
		enabled: enabled,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether the recorder stores events.
func (r *Recorder) Enabled() bool {
	return r.enabled
}

// Record appends a new event to the session log.
//
// Returns:
//   - Event: A copy of the stored record.
//   - bool: False when debugging is disabled and nothing was stored.
func (r *Recorder) Record(label string, data map[string]any) (Event, bool) {
	if !r.enabled {
		return Event{}, false
	}
	event := NewEvent(label, data, r.now())

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return event.clone(), true
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Snapshot returns a deep copy of the session log, oldest first.
func (r *Recorder) Snapshot() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	for i, e := range r.events {
		out[i] = e.clone()
	}
	return out
}

// Location returns the time zone used by the renderers.
func (r *Recorder) Location() *time.Location {
	return r.loc
}

// RenderCurrent renders a single event for the "current" view.
// It does not record anything.
func (r *Recorder) RenderCurrent(label string, data map[string]any) string {
	return fmt.Sprintf("Event: %s\n\n%s", label, PrettyJSON(copyMap(data)))
}

// RenderHistory renders the session log, newest first.
func (r *Recorder) RenderHistory() string {
	return FormatHistory(r.Snapshot(), r.loc)
}

// Export renders the session log, oldest first, in the canonical export layout.
func (r *Recorder) Export() string {
	return FormatExport(r.Snapshot(), r.enabled, r.now().In(r.loc), r.loc)
}

// FormatHistory renders events newest first.
//
// Parameters:
//   - events: The session log, oldest first.
//   - loc: The time zone used to print timestamps.
//
// Returns:
//   - string: The history text, or EmptyHistoryMessage.
func FormatHistory(events []Event, loc *time.Location) string {
	if len(events) == 0 {
		return EmptyHistoryMessage
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, historyHeaderPattern, len(events))
	rule := strings.Repeat("─", HistoryRuleWidth)
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		b.WriteString(rule + "\n")
		fmt.Fprintf(&b, "[%s] %s\n", e.Timestamp.In(loc).Format(HistoryTimeLayout), e.Label)
		fmt.Fprintf(&b, "Summary: %s\n", e.Summary())
		b.WriteString("\nPayload:\n")
		b.WriteString(PrettyJSON(e.Data))
		b.WriteString("\n\n\n")
	}
	return b.String()
}
