/*
Point d'entrée de la console de débogage.

Ce binaire rejoue un script d'appels à travers le module bridge avec le débogage
activé, puis ouvre la console TUI (onglets Current / History, export avec 'e').
Construction: go build -o console ./cmd/console
Utilisation: console script.jsonl
*/
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agbruneau/EventBridge/internal/bridge"
	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/internal/console"
	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/internal/sink"
	ui "github.com/gizak/termui/v3"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Utilisation: console script.jsonl")
		os.Exit(1)
	}

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Erreur lors du chargement de la configuration: %v\n", err)
		os.Exit(1)
	}
	// Le terminal appartient à la TUI: le log va dans un fichier.
	if cfg.App.LogFile == "" {
		cfg.App.LogFile = config.BridgeLogFile
	}

	logger, err := bridge.NewLogger(cfg.App.LogFile, cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Erreur lors de l'ouverture du log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	tracker, err := sink.Open(cfg)
	if err != nil {
		fmt.Printf("Erreur lors de l'initialisation du sink: %v\n", err)
		os.Exit(1)
	}
	defer tracker.Close()

	// La console est le présentateur du module et exporte via celui-ci.
	recorder := debug.New(cfg.DebuggerEnabled())
	var module *bridge.Module
	con := console.New(recorder,
		console.WithExporter(func() (string, error) { return module.ExportDebugLogs() }),
		console.WithExportFile(cfg.Debug.ExportFile))
	module = bridge.New(tracker, logger, bridge.WithRecorder(recorder), bridge.WithPresenter(con))
	if err := module.Initialize(bridge.OptionsFromConfig(cfg)); err != nil {
		fmt.Printf("Erreur lors de l'initialisation du module: %v\n", err)
		os.Exit(1)
	}

	script, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Impossible d'ouvrir le script %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer script.Close()

	if err := ui.Init(); err != nil {
		fmt.Printf("Erreur lors de l'initialisation de l'UI: %v\n", err)
		os.Exit(1)
	}
	defer ui.Close()

	// Suivre le log et la piste d'audit
	stop := make(chan struct{})
	defer close(stop)
	go console.FollowFile(cfg.App.LogFile, console.LogLineHandler(con), stop)
	if cfg.Sink.Kind == config.SinkFile {
		go console.FollowFile(cfg.Sink.EventsFile, console.EnvelopeLineHandler(con), stop)
	}

	go replay(module, con, script)

	w := console.CreateWidgets()
	termWidth, termHeight := ui.TerminalDimensions()
	w.Layout(termWidth, termHeight)
	ui.Render(w.Drawables()...)

	uiEvents := ui.PollEvents()
	ticker := time.NewTicker(cfg.GetUIUpdateInterval())
	defer ticker.Stop()

	for {
		select {
		case e := <-uiEvents:
			if e.ID == "<Resize>" {
				payload := e.Payload.(ui.Resize)
				w.Layout(payload.Width, payload.Height)
				ui.Clear()
			} else if con.HandleKey(e.ID) {
				return
			}
			con.UpdateUI(w)
			ui.Render(w.Drawables()...)
		case <-ticker.C:
			con.UpdateUI(w)
			ui.Render(w.Drawables()...)
		}
	}
}

// replay rejoue le script et affiche le bilan dans la barre d'état.
// Le détail des appels rejetés est visible dans le log.
func replay(module *bridge.Module, con *console.Console, script io.Reader) {
	results, err := bridge.NewDispatcher(module, nil).Run(script)
	con.ReportReplay(len(results), len(bridge.Failed(results)), err)
}
