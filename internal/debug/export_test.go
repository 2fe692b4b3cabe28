package debug

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatExportLayout(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	events := []Event{
		NewEvent("Purchase", map[string]any{"items_count": 1, "order_id": "ORD-1"}, at),
	}
	generated := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	out := FormatExport(events, true, generated, time.UTC)

	expected := ExportTitle + "\n" +
		"Generated: 2024-01-02 10:00:00\n" +
		"Total Events: 1\n" +
		"\n" +
		strings.Repeat("=", 60) + "\n" +
		"\n" +
		"Event #1\n" +
		"[2024-01-02 03:04:05.006] Purchase\n" +
		"Summary: Items: 1 • Order: ORD-1 • Payload: 2 fields\n" +
		"Data:\n" +
		"{\n  \"items_count\": 1,\n  \"order_id\": \"ORD-1\"\n}\n" +
		strings.Repeat("=", 50) + "\n" +
		"\n" +
		strings.Repeat("=", 60) + "\n" +
		"End of Debug Session Export"
	assert.Equal(t, expected, out)
}

func TestFormatExportMessages(t *testing.T) {
	now := time.Now()
	events := []Event{NewEvent("E", nil, now)}

	assert.Equal(t, DisabledMessage, FormatExport(events, false, now, time.UTC))
	assert.Equal(t, NoEventsMessage, FormatExport(nil, true, now, time.UTC))
}

func TestExportIsStableExceptGeneratedLine(t *testing.T) {
	r := New(true, WithLocation(time.UTC))
	r.Record("E1", map[string]any{"a": "b"})
	r.Record("E2", map[string]any{"creativeId": "default", "type": "trigger"})

	first := dropGenerated(r.Export())
	time.Sleep(2 * time.Millisecond)
	second := dropGenerated(r.Export())

	assert.Equal(t, first, second)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{"empty", map[string]any{}, "Payload: 0 fields"},
		{"all keys", map[string]any{
			"event_type":  "quiz",
			"creativeId":  "c1",
			"order_id":    "o1",
			"items_count": float64(3),
		}, "Items: 3 • Order: o1 • Creative: c1 • Type: quiz • Payload: 4 fields"},
		{"null key skipped", map[string]any{"order_id": nil, "x": 1}, "Payload: 2 fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewEvent("E", tt.data, time.Now()).Summary())
		})
	}
}

func TestPrettyJSONFallback(t *testing.T) {
	assert.Equal(t, "null", PrettyJSON(nil))
	assert.Equal(t, "{}", PrettyJSON(map[string]any{}))

	out := PrettyJSON(map[string]any{"ch": make(chan int)})
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, "map["))
}

func dropGenerated(export string) string {
	lines := strings.Split(export, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(line, "Generated: ") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
