package debug

import (
	"fmt"
	"strings"
	"time"
)

// FormatExport renders the canonical session export.
//
// The output only depends on its arguments: two calls with the same events
// differ at most by the "Generated:" line.
//
// Parameters:
//   - events: The session log, oldest first.
//   - enabled: Whether debugging is enabled.
//   - generated: The export time printed in the header.
//   - loc: The time zone used to print event timestamps.
//
// Returns:
//   - string: The export text, DisabledMessage or NoEventsMessage.
func FormatExport(events []Event, enabled bool, generated time.Time, loc *time.Location) string {
	if !enabled {
		return DisabledMessage
	}
	if len(events) == 0 {
		return NoEventsMessage
	}
	if loc == nil {
		loc = time.Local
	}

	sessionRule := strings.Repeat("=", SessionRuleWidth)

	var b strings.Builder
	b.WriteString(ExportTitle + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format(GeneratedTimeLayout))
	fmt.Fprintf(&b, "Total Events: %d\n", len(events))
	b.WriteString("\n")
	b.WriteString(sessionRule + "\n")
	b.WriteString("\n")

	for i, e := range events {
		fmt.Fprintf(&b, "Event #%d\n", i+1)
		b.WriteString(e.FormatForExport(loc))
		b.WriteString("\n")
	}

	b.WriteString(sessionRule + "\n")
	b.WriteString(ExportFooter)
	return b.String()
}
