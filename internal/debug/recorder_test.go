package debug

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func newTestRecorder(enabled bool) *Recorder {
	start := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)
	return New(enabled, WithClock(stepClock(start)), WithLocation(time.UTC))
}

func TestRecorderDisabledIsNoOp(t *testing.T) {
	r := newTestRecorder(false)

	_, stored := r.Record("Product View", map[string]any{"items_count": 1})

	assert.False(t, stored)
	assert.False(t, r.Enabled())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot())
	assert.Equal(t, DisabledMessage, r.Export())
}

func TestRecorderEnabledEmpty(t *testing.T) {
	r := newTestRecorder(true)

	assert.Equal(t, NoEventsMessage, r.Export())
	assert.Equal(t, EmptyHistoryMessage, r.RenderHistory())
}

func TestRecorderKeepsInsertionOrder(t *testing.T) {
	r := newTestRecorder(true)
	for _, label := range []string{"E1", "E2", "E3"} {
		_, stored := r.Record(label, map[string]any{})
		require.True(t, stored)
	}

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "E1", snapshot[0].Label)
	assert.Equal(t, "E3", snapshot[2].Label)
	assert.True(t, snapshot[0].Timestamp.Before(snapshot[1].Timestamp))
	assert.NotEqual(t, snapshot[0].ID, snapshot[1].ID)
}

func TestHistoryNewestFirstExportOldestFirst(t *testing.T) {
	r := newTestRecorder(true)
	r.Record("E1", map[string]any{})
	r.Record("E2", map[string]any{})
	r.Record("E3", map[string]any{})

	history := r.RenderHistory()
	assert.True(t, strings.HasPrefix(history, "Session History (3 events):\n\n"))
	i3 := strings.Index(history, "] E3")
	i2 := strings.Index(history, "] E2")
	i1 := strings.Index(history, "] E1")
	require.True(t, i3 >= 0 && i2 >= 0 && i1 >= 0)
	assert.True(t, i3 < i2 && i2 < i1)

	export := r.Export()
	assert.Contains(t, export, "Event #1\n[2024-03-09 14:05:07.123] E1\n")
	assert.Contains(t, export, "Event #2\n[2024-03-09 14:05:08.123] E2\n")
	assert.Contains(t, export, "Event #3\n[2024-03-09 14:05:09.123] E3\n")
	assert.True(t, strings.Index(export, "Event #1") < strings.Index(export, "Event #3"))
}

func TestHistoryEntryLayout(t *testing.T) {
	r := newTestRecorder(true)
	r.Record("Add To Cart", map[string]any{"items_count": 2})

	expected := "Session History (1 events):\n\n" +
		strings.Repeat("─", 31) + "\n" +
		"[14:05:07] Add To Cart\n" +
		"Summary: Items: 2 • Payload: 1 fields\n" +
		"\n" +
		"Payload:\n" +
		"{\n  \"items_count\": 2\n}\n" +
		"\n\n"
	assert.Equal(t, expected, r.RenderHistory())
}

func TestRecordDeepCopiesData(t *testing.T) {
	r := newTestRecorder(true)
	nested := map[string]any{"productId": "p1"}
	data := map[string]any{"first_item": nested, "list": []any{"a"}}

	r.Record("Product View", data)
	data["extra"] = true
	nested["productId"] = "changed"
	data["list"].([]any)[0] = "b"

	stored := r.Snapshot()[0].Data
	assert.NotContains(t, stored, "extra")
	assert.Equal(t, "p1", stored["first_item"].(map[string]any)["productId"])
	assert.Equal(t, "a", stored["list"].([]any)[0])
}

func TestSnapshotIsACopy(t *testing.T) {
	r := newTestRecorder(true)
	r.Record("E1", nil)

	snapshot := r.Snapshot()
	snapshot[0].Label = "tampered"

	assert.Equal(t, "E1", r.Snapshot()[0].Label)
}

func TestReturnedEventsDoNotAliasTheLog(t *testing.T) {
	r := newTestRecorder(true)
	event, stored := r.Record("Purchase Event", map[string]any{
		"order_id":   "ORD-1",
		"first_item": map[string]any{"productId": "p1"},
	})
	require.True(t, stored)

	event.Data["order_id"] = "TAMPERED"
	snapshot := r.Snapshot()
	snapshot[0].Data["injected"] = true
	snapshot[0].Data["first_item"].(map[string]any)["productId"] = "changed"

	logged := r.Snapshot()[0]
	assert.Equal(t, "ORD-1", logged.Data["order_id"])
	assert.NotContains(t, logged.Data, "injected")
	assert.Equal(t, "p1", logged.Data["first_item"].(map[string]any)["productId"])
	assert.Equal(t, "Order: ORD-1 • Payload: 2 fields", logged.Summary())
	assert.Contains(t, r.Export(), `"order_id": "ORD-1"`)
	assert.Equal(t, event.ID, logged.ID)
}

func TestRenderCurrent(t *testing.T) {
	r := newTestRecorder(false)

	out := r.RenderCurrent("Custom Event", map[string]any{"event_type": "quiz", "url": "a<b>&c"})

	assert.Equal(t, "Event: Custom Event\n\n{\n  \"event_type\": \"quiz\",\n  \"url\": \"a<b>&c\"\n}", out)
	assert.Equal(t, 0, r.Len())
}

func TestRecorderConcurrentRecords(t *testing.T) {
	r := New(true)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("E", map[string]any{"n": 1})
			_ = r.RenderHistory()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Len())
}
