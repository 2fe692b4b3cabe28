package console

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder() *debug.Recorder {
	return debug.New(true, debug.WithLocation(time.UTC))
}

// TestShowSwitchesToCurrent vérifie que Show affiche l'événement dans l'onglet Current.
func TestShowSwitchesToCurrent(t *testing.T) {
	c := New(newRecorder())
	c.SelectTab(TabHistory)

	c.Show("Custom Event", map[string]any{"event_type": "quiz"})

	label, data := c.Current()
	assert.Equal(t, "Custom Event", label)
	assert.Equal(t, "quiz", data["event_type"])
	assert.Equal(t, TabCurrent, c.ActiveTab())
}

// TestUpdateUICurrentTab vérifie le rendu de l'onglet Current.
func TestUpdateUICurrentTab(t *testing.T) {
	c := New(newRecorder())
	w := CreateWidgets()

	c.UpdateUI(w)
	assert.Equal(t, WaitingMessage, w.Content.Text)
	assert.Equal(t, []string{WaitingMessage}, w.History.Rows)

	c.Show("Creative Triggered", map[string]any{"creativeId": "default"})
	c.UpdateUI(w)

	assert.Equal(t, 0, w.Tabs.ActiveTabIndex)
	assert.Equal(t, "Event: Creative Triggered\n\n{\n  \"creativeId\": \"default\"\n}", w.Content.Text)
}

// TestUpdateUIHistoryTab vérifie l'ordre de l'historique et la sélection.
func TestUpdateUIHistoryTab(t *testing.T) {
	r := newRecorder()
	r.Record("E1", map[string]any{})
	r.Record("E2", map[string]any{})
	e3, _ := r.Record("E3", map[string]any{"order_id": "o-3"})
	c := New(r)
	w := CreateWidgets()

	c.HandleKey("h")
	c.UpdateUI(w)

	require.Len(t, w.History.Rows, 3)
	assert.Contains(t, w.History.Rows[0], "E3 #"+e3.ShortID())
	assert.Contains(t, w.History.Rows[2], "E1")
	assert.Equal(t, 1, w.Tabs.ActiveTabIndex)
	assert.Contains(t, w.Content.Text, "] E3")
	assert.Contains(t, w.Content.Text, "Summary: Order: o-3 • Payload: 1 fields")
	assert.Equal(t, "3", w.Header.Rows[1][0])

	c.HandleKey("<Down>")
	c.HandleKey("<Down>")
	c.HandleKey("<Down>")
	c.UpdateUI(w)
	assert.Equal(t, 2, w.History.SelectedRow)
	assert.Contains(t, w.Content.Text, "] E1")

	c.HandleKey("k")
	assert.Equal(t, 1, c.Selected())
}

func TestHandleKeyTabsAndQuit(t *testing.T) {
	c := New(newRecorder())

	assert.False(t, c.HandleKey("<Tab>"))
	assert.Equal(t, TabHistory, c.ActiveTab())
	assert.False(t, c.HandleKey("c"))
	assert.Equal(t, TabCurrent, c.ActiveTab())
	assert.True(t, c.HandleKey("q"))
	assert.True(t, c.HandleKey("<C-c>"))
}

// TestProcessLog vérifie les compteurs et la liste des logs.
func TestProcessLog(t *testing.T) {
	c := New(newRecorder())
	w := CreateWidgets()

	c.ProcessLog(models.LogEntry{Timestamp: "2024-01-01T10:00:00Z", Level: models.LogLevelINFO, Message: "Event forwarded"})
	c.ProcessLog(models.LogEntry{Timestamp: "2024-01-01T10:00:01Z", Level: models.LogLevelERROR, Message: "Invalid event attributes", Error: "missing required field: productId"})
	c.ProcessEnvelope(models.EventEntry{EventType: models.EventTypeCustom})
	c.UpdateUI(w)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Forwarded)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(1), stats.Audited)
	assert.Equal(t, "missing required field: productId", stats.LastError)

	require.Len(t, w.Logs.Rows, 2)
	assert.True(t, strings.HasPrefix(w.Logs.Rows[0], "🔴 [10:00:01]"))
	assert.Equal(t, []string{"0", "1", "1", "1"}, w.Header.Rows[1])
}

func TestRecentLogsAreBounded(t *testing.T) {
	c := New(newRecorder())
	for i := 0; i < MaxRecentLogs+5; i++ {
		c.ProcessLog(models.LogEntry{Level: models.LogLevelINFO, Message: "x"})
	}

	w := CreateWidgets()
	c.UpdateUI(w)
	assert.Len(t, w.Logs.Rows, MaxRecentLogs)
}

func TestFormatLogRowTruncates(t *testing.T) {
	row := formatLogRow(models.LogEntry{Level: models.LogLevelWARN, Message: strings.Repeat("x", 200)})

	assert.True(t, strings.HasSuffix(row, TruncateSuffix))
	assert.LessOrEqual(t, len(row), MaxRowLength)
}

// TestExportToFile vérifie l'écriture de l'export.
func TestExportToFile(t *testing.T) {
	r := newRecorder()
	r.Record("E1", map[string]any{"a": "b"})
	path := filepath.Join(t.TempDir(), "session.txt")
	c := New(r, WithExportFile(path))

	c.HandleKey("e")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), debug.ExportTitle))
	assert.Contains(t, c.Status(), "Session exported")
}

func TestExportToFileErrors(t *testing.T) {
	c := New(newRecorder(), WithExporter(func() (string, error) { return "", errors.New("boom") }))
	_, err := c.ExportToFile()
	assert.Error(t, err)
	assert.Contains(t, c.Status(), "boom")

	c = New(newRecorder(), WithExportFile(filepath.Join(t.TempDir(), "missing", "x.txt")))
	_, err = c.ExportToFile()
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	w := CreateWidgets()
	w.Layout(90, 10)

	assert.Len(t, w.Drawables(), 6)
	assert.Equal(t, 90, w.Status.Max.X)
	assert.Equal(t, w.Logs.Max.Y, w.Status.Min.Y)
}

// TestReportReplay vérifie le message d'état après le rejeu du script.
func TestReportReplay(t *testing.T) {
	c := New(newRecorder())

	c.ReportReplay(5, 2, nil)
	assert.Equal(t, "📋 5 calls replayed, 2 failed", c.Status())

	c.ReportReplay(1, 0, assert.AnError)
	assert.Contains(t, c.Status(), "Script replay stopped after 1 calls")
	assert.Contains(t, c.Status(), assert.AnError.Error())
}
