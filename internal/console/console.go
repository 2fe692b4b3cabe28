/*
Package console fournit la console de débogage TUI du pont d'événements commerce.

La console affiche l'événement courant et l'historique de la session de débogage
(onglets Current / History), suit le log structuré et la piste d'audit, et
exporte la session vers un fichier à la demande.
*/
package console

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/pkg/models"
)

// Tab identifie l'onglet affiché.
type Tab int

const (
	TabCurrent Tab = iota // Événement courant.
	TabHistory            // Historique de la session.
)

// Alias locaux pour la lisibilité
const (
	MaxRecentLogs   = 20
	MaxHistoryRows  = config.ConsoleMaxHistoryRows
	MaxRowLength    = config.ConsoleMaxRowLength
	TruncateSuffix  = config.ConsoleTruncateSuffix
	WaitingMessage  = "Waiting for events..."
	NoLogsMessage   = "Waiting for logs..."
	exportFilePerms = 0644
)

// Stats agrège les compteurs affichés dans l'en-tête.
type Stats struct {
	Forwarded int64     // Enveloppes transmises au collaborateur.
	Rejected  int64     // Appels en erreur.
	Audited   int64     // Lignes de la piste d'audit.
	LastError string    // Dernier message d'erreur.
	LastSeen  time.Time // Dernière activité.
}

// Option configure une Console.
type Option func(*Console)

// WithExporter remplace la source de l'export (par défaut recorder.Export).
func WithExporter(export func() (string, error)) Option {
	return func(c *Console) { c.export = export }
}

// WithExportFile définit le fichier de destination de l'export.
func WithExportFile(path string) Option {
	return func(c *Console) { c.exportFile = path }
}

// Console encapsule l'état de la console de débogage.
// Elle implémente bridge.Presenter.
type Console struct {
	recorder   *debug.Recorder
	export     func() (string, error)
	exportFile string

	mu           sync.RWMutex
	tab          Tab
	currentLabel string
	currentData  map[string]any
	selected     int // Index dans l'historique, du plus récent au plus ancien.
	recentLogs   []models.LogEntry
	stats        Stats
	status       string
}

// New crée une console pour recorder.
func New(recorder *debug.Recorder, opts ...Option) *Console {
	c := &Console{
		recorder:   recorder,
		exportFile: config.DebugExportFile,
		recentLogs: make([]models.LogEntry, 0, MaxRecentLogs),
		status:     "c: current  h: history  ↑/↓: select  e: export  q: quit",
	}
	c.export = func() (string, error) { return recorder.Export(), nil }
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show affiche un événement dans l'onglet Current.
func (c *Console) Show(label string, data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentLabel = label
	c.currentData = data
	c.tab = TabCurrent
	c.selected = 0
	c.stats.LastSeen = time.Now()
}

// Current retourne le libellé et les données de l'événement courant.
func (c *Console) Current() (string, map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentLabel, c.currentData
}

// SelectTab change l'onglet affiché.
func (c *Console) SelectTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = tab
}

// ActiveTab retourne l'onglet affiché.
func (c *Console) ActiveTab() Tab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tab
}

// MoveSelection déplace la sélection dans l'historique, bornée à la session.
func (c *Console) MoveSelection(delta int) {
	n := c.recorder.Len()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected += delta
	if c.selected >= n {
		c.selected = n - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
}

// Selected retourne l'index sélectionné dans l'historique (0 = plus récent).
func (c *Console) Selected() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// ProcessLog traite une entrée du log structuré.
func (c *Console) ProcessLog(entry models.LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recentLogs = append(c.recentLogs, entry)
	if len(c.recentLogs) > MaxRecentLogs {
		c.recentLogs = c.recentLogs[1:]
	}

	switch {
	case entry.Level == models.LogLevelERROR:
		c.stats.Rejected++
		c.stats.LastError = entry.Error
	case entry.Message == "Event forwarded":
		c.stats.Forwarded++
	}
	c.stats.LastSeen = time.Now()
}

// ProcessEnvelope traite une entrée de la piste d'audit.
func (c *Console) ProcessEnvelope(entry models.EventEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Audited++
	if entry.Error != "" {
		c.stats.LastError = entry.Error
	}
	c.stats.LastSeen = time.Now()
}

// Stats retourne une copie des compteurs.
func (c *Console) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Status retourne le message de la barre d'état.
func (c *Console) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// ReportReplay affiche le résultat du rejeu du script dans la barre d'état.
func (c *Console) ReportReplay(calls, failed int, err error) {
	if err != nil {
		c.setStatus(fmt.Sprintf("❌ Script replay stopped after %d calls: %v", calls, err))
		return
	}
	c.setStatus(fmt.Sprintf("📋 %d calls replayed, %d failed", calls, failed))
}

func (c *Console) setStatus(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = msg
}

// ExportToFile écrit l'export de la session dans le fichier configuré.
//
// Returns:
//   - string: Le chemin du fichier écrit.
//   - error: Une erreur si l'export ou l'écriture échoue.
func (c *Console) ExportToFile() (string, error) {
	text, err := c.export()
	if err != nil {
		c.setStatus(fmt.Sprintf("❌ Export failed: %v", err))
		return "", err
	}
	if err := os.WriteFile(c.exportFile, []byte(text), exportFilePerms); err != nil {
		err = fmt.Errorf("unable to write export to %s: %w", c.exportFile, err)
		c.setStatus(fmt.Sprintf("❌ %v", err))
		return "", err
	}
	c.setStatus(fmt.Sprintf("✅ Session exported to %s", c.exportFile))
	return c.exportFile, nil
}

// HandleKey applique une touche à l'état de la console.
//
// Returns:
//   - bool: true si la console doit se fermer.
func (c *Console) HandleKey(id string) bool {
	switch id {
	case "q", "<C-c>":
		return true
	case "c":
		c.SelectTab(TabCurrent)
	case "h":
		c.SelectTab(TabHistory)
	case "<Tab>", "<Right>", "<Left>":
		if c.ActiveTab() == TabCurrent {
			c.SelectTab(TabHistory)
		} else {
			c.SelectTab(TabCurrent)
		}
	case "j", "<Down>":
		c.MoveSelection(1)
	case "k", "<Up>":
		c.MoveSelection(-1)
	case "e":
		_, _ = c.ExportToFile()
	}
	return false
}
