package console

import (
	"fmt"
	"strings"

	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/pkg/models"
	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// Hauteurs fixes de la mise en page
const (
	headerHeight = 6
	tabsHeight   = 3
	statusHeight = 3
	logsHeight   = 8
)

// Widgets regroupe les widgets de la console.
type Widgets struct {
	Header  *widgets.Table
	Tabs    *widgets.TabPane
	Content *widgets.Paragraph
	History *widgets.List
	Logs    *widgets.List
	Status  *widgets.Paragraph
}

// CreateWidgets initialise tous les widgets de la console.
func CreateWidgets() *Widgets {
	header := widgets.NewTable()
	header.Rows = [][]string{
		{"Session", "Forwarded", "Rejected", "Audited"},
		{"0", "0", "0", "0"},
	}
	header.TextStyle = ui.NewStyle(ui.ColorWhite)
	header.RowStyles[0] = ui.NewStyle(ui.ColorYellow, ui.ColorClear, ui.ModifierBold)
	header.Title = "Debug Session"

	tabs := widgets.NewTabPane("Current", "History")
	tabs.Border = true
	tabs.ActiveTabStyle = ui.NewStyle(ui.ColorBlack, ui.ColorCyan, ui.ModifierBold)

	content := widgets.NewParagraph()
	content.Title = "Event"
	content.Text = WaitingMessage
	content.WrapText = true

	history := widgets.NewList()
	history.Title = "History (newest first)"
	history.Rows = []string{WaitingMessage}
	history.TextStyle = ui.NewStyle(ui.ColorWhite)
	history.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorWhite)

	logs := widgets.NewList()
	logs.Title = "Bridge log"
	logs.Rows = []string{NoLogsMessage}
	logs.TextStyle = ui.NewStyle(ui.ColorWhite)

	status := widgets.NewParagraph()
	status.Border = true
	status.TextStyle = ui.NewStyle(ui.ColorCyan)

	w := &Widgets{Header: header, Tabs: tabs, Content: content, History: history, Logs: logs, Status: status}
	w.Layout(120, 40)
	return w
}

// Layout positionne les widgets pour un terminal de width x height.
func (w *Widgets) Layout(width, height int) {
	if height < headerHeight+tabsHeight+statusHeight+logsHeight+4 {
		height = headerHeight + tabsHeight + statusHeight + logsHeight + 4
	}
	historyWidth := width / 3

	w.Header.SetRect(0, 0, width, headerHeight)
	w.Tabs.SetRect(0, headerHeight, width, headerHeight+tabsHeight)

	bodyTop := headerHeight + tabsHeight
	bodyBottom := height - statusHeight - logsHeight
	w.History.SetRect(0, bodyTop, historyWidth, bodyBottom)
	w.Content.SetRect(historyWidth, bodyTop, width, bodyBottom)
	w.Logs.SetRect(0, bodyBottom, width, height-statusHeight)
	w.Status.SetRect(0, height-statusHeight, width, height)
}

// Drawables retourne les widgets dans l'ordre de rendu.
func (w *Widgets) Drawables() []ui.Drawable {
	return []ui.Drawable{w.Header, w.Tabs, w.History, w.Content, w.Logs, w.Status}
}

// formatHistoryRow formate un événement de l'historique pour la liste.
func formatHistoryRow(e debug.Event) string {
	row := fmt.Sprintf("[%s] %s #%s", e.Timestamp.Format(debug.HistoryTimeLayout), e.Label, e.ShortID())
	return truncate(row)
}

// formatLogRow formate une entrée de log pour l'affichage.
func formatLogRow(log models.LogEntry) string {
	levelIcon := "🟢"
	switch log.Level {
	case models.LogLevelERROR:
		levelIcon = "🔴"
	case models.LogLevelWARN:
		levelIcon = "🟡"
	}

	timeStr := log.Timestamp
	if len(timeStr) > 19 {
		timeStr = timeStr[11:19]
	}

	row := fmt.Sprintf("%s [%s] %s", levelIcon, timeStr, log.Message)
	if log.Error != "" {
		row += ": " + log.Error
	}
	return truncate(row)
}

func truncate(row string) string {
	if len(row) > MaxRowLength {
		return row[:MaxRowLength-len(TruncateSuffix)] + TruncateSuffix
	}
	return row
}

// UpdateHistoryList met à jour la liste de l'historique, du plus récent au plus ancien.
func UpdateHistoryList(list *widgets.List, events []debug.Event, selected int) {
	rows := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0 && len(rows) < MaxHistoryRows; i-- {
		rows = append(rows, formatHistoryRow(events[i]))
	}
	if len(rows) == 0 {
		rows = []string{WaitingMessage}
		selected = 0
	}
	if selected >= len(rows) {
		selected = len(rows) - 1
	}
	list.Rows = rows
	list.SelectedRow = selected
}

// UpdateLogList met à jour la liste des logs récents.
func UpdateLogList(list *widgets.List, logs []models.LogEntry) {
	rows := make([]string, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		rows = append(rows, formatLogRow(logs[i]))
	}
	if len(rows) == 0 {
		rows = []string{NoLogsMessage}
	}
	list.Rows = rows
}

// UpdateUI rafraîchit tous les widgets avec l'état courant de la console.
func (c *Console) UpdateUI(w *Widgets) {
	events := c.recorder.Snapshot()

	c.mu.RLock()
	defer c.mu.RUnlock()

	w.Header.Rows[1] = []string{
		fmt.Sprintf("%d", len(events)),
		fmt.Sprintf("%d", c.stats.Forwarded),
		fmt.Sprintf("%d", c.stats.Rejected),
		fmt.Sprintf("%d", c.stats.Audited),
	}
	if c.stats.Rejected > 0 {
		w.Header.RowStyles[1] = ui.NewStyle(ui.ColorRed)
	}

	w.Tabs.ActiveTabIndex = int(c.tab)
	UpdateHistoryList(w.History, events, c.selected)
	UpdateLogList(w.Logs, c.recentLogs)
	w.Status.Text = c.status

	switch c.tab {
	case TabCurrent:
		w.Content.Title = "Current event"
		if c.currentLabel == "" {
			w.Content.Text = WaitingMessage
		} else {
			w.Content.Text = c.recorder.RenderCurrent(c.currentLabel, c.currentData)
		}
	case TabHistory:
		w.Content.Title = "Selected event"
		if len(events) == 0 {
			w.Content.Text = debug.EmptyHistoryMessage
		} else {
			idx := len(events) - 1 - c.selected
			if idx < 0 {
				idx = 0
			}
			w.Content.Text = strings.TrimSuffix(events[idx].FormatForExport(c.recorder.Location()), "\n")
		}
	}
}
