/*
Package debug records what the bridge sent during a session and renders it for developers.

The Recorder is an append-only, insertion-ordered, in-memory log. It lives as
long as the process and is never persisted. Rendering comes in three flavors:
the current event, the newest-first history and the oldest-first export.
*/
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Keys of the debug data that feed the one-line summary, in display order.
const (
	SummaryKeyItemsCount = "items_count"
	SummaryKeyOrderID    = "order_id"
	SummaryKeyCreativeID = "creativeId"
	SummaryKeyEventType  = "event_type"
)

// Layout constants shared by the renderers.
const (
	SummarySeparator    = " • "
	HistoryTimeLayout   = "15:04:05"
	ExportTimeLayout    = "2006-01-02 15:04:05.000"
	GeneratedTimeLayout = "2006-01-02 15:04:05"
	EventRuleWidth      = 50
	SessionRuleWidth    = 60
	HistoryRuleWidth    = 31
)

var summaryLabels = []struct {
	key   string
	label string
}{
	{SummaryKeyItemsCount, "Items"},
	{SummaryKeyOrderID, "Order"},
	{SummaryKeyCreativeID, "Creative"},
	{SummaryKeyEventType, "Type"},
}

// Event is one recorded interaction. It is immutable once built.
type Event struct {
	ID        uuid.UUID      // Unique identifier of the record.
	Label     string         // Event type label, e.g. "Product View".
	Data      map[string]any // Deep copy of the debug data.
	Timestamp time.Time      // Capture time.
}

// NewEvent builds an event from a label and its data. The data is deep-copied
// so later changes by the caller never show up in the record.
//
// Parameters:
//   - label: The event label.
//   - data: The debug data (may be nil).
//   - at: The capture time.
//
// Returns:
//   - Event: The immutable record.
func NewEvent(label string, data map[string]any, at time.Time) Event {
	return Event{
		ID:        uuid.New(),
		Label:     label,
		Data:      copyMap(data),
		Timestamp: at,
	}
}

// clone returns the event with its own copy of the data.
func (e Event) clone() Event {
	e.Data = copyMap(e.Data)
	return e
}

// ShortID returns the first eight characters of the event identifier.
func (e Event) ShortID() string {
	return e.ID.String()[:8]
}

// Summary returns the one-line digest of the event data.
//
// The known keys are reported in a fixed order when present and non-null, and
// the digest always ends with the number of top-level fields.
func (e Event) Summary() string {
	return summarize(e.Data)
}

// FormatForExport renders the event block used by the session export.
// The block ends with a 50-character rule and a newline.
//
// Parameters:
//   - loc: The time zone used to print the timestamp.
func (e Event) FormatForExport(loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", e.Timestamp.In(loc).Format(ExportTimeLayout), e.Label)
	fmt.Fprintf(&b, "Summary: %s\n", e.Summary())
	b.WriteString("Data:\n")
	b.WriteString(PrettyJSON(e.Data))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", EventRuleWidth))
	b.WriteString("\n")
	return b.String()
}

func summarize(data map[string]any) string {
	parts := make([]string, 0, len(summaryLabels)+1)
	for _, s := range summaryLabels {
		if v, ok := data[s.key]; ok && v != nil {
			parts = append(parts, fmt.Sprintf("%s: %s", s.label, scalarText(v)))
		}
	}
	parts = append(parts, fmt.Sprintf("Payload: %d fields", len(data)))
	return strings.Join(parts, SummarySeparator)
}

// scalarText prints whole floats without a fractional part, as JSON-decoded
// counts arrive as float64.
func scalarText(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

func copyMap(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, s := range t {
			m[k] = s
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = copyValue(t[i])
		}
		return s
	case []map[string]any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = copyMap(t[i])
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
