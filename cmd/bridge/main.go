/*
Point d'entrée du pont d'événements commerce.

Ce binaire rejoue un script d'appels (JSON-lines) à travers le module bridge,
transmet les événements au sink configuré et écrit l'export de la session de débogage.
Construction: go build -o bridge ./cmd/bridge
Utilisation: bridge [script.jsonl]   (lit l'entrée standard sans argument)
*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/agbruneau/EventBridge/internal/bridge"
	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/internal/sink"
)

// configFile retourne le chemin du fichier de configuration (CONFIG_FILE, sinon config.yaml).
func configFile() string {
	if v := os.Getenv("CONFIG_FILE"); v != "" {
		return v
	}
	return "config.yaml"
}

func main() {
	cfg, err := config.Load(configFile())
	if err != nil {
		log.Fatalf("Erreur fatale lors du chargement de la configuration: %v", err)
	}

	logger, err := bridge.NewLogger(cfg.App.LogFile, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Erreur fatale lors de l'ouverture du log: %v", err)
	}
	defer logger.Close()

	tracker, err := sink.Open(cfg)
	if err != nil {
		log.Fatalf("Erreur fatale lors de l'initialisation du sink: %v", err)
	}
	defer tracker.Close()

	recorder := debug.New(cfg.DebuggerEnabled())
	module := bridge.New(tracker, logger, bridge.WithRecorder(recorder))
	if err := module.Initialize(bridge.OptionsFromConfig(cfg)); err != nil {
		log.Fatalf("Erreur fatale lors de l'initialisation du module: %v", err)
	}

	var script io.Reader = os.Stdin
	if len(os.Args) > 1 {
		file, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatalf("Impossible d'ouvrir le script %s: %v", os.Args[1], err)
		}
		defer file.Close()
		script = file
	}

	fmt.Printf("🟢 Bridge ready (domain %q, mode %s, sink %s, debugging %v)\n",
		cfg.Tracker.Domain, cfg.Tracker.Mode, cfg.Sink.Kind, module.DebuggingEnabled())

	dispatcher := bridge.NewDispatcher(module, func(export string) {
		writeExport(cfg.Debug.ExportFile, export)
	})
	results, err := dispatcher.Run(script)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
	}

	for _, r := range bridge.Failed(results) {
		fmt.Printf("⚠️  line %d (%s): %v\n", r.Line, r.Method, r.Err)
	}
	fmt.Printf("📋 %d calls replayed, %d failed\n", len(results), len(bridge.Failed(results)))

	if module.DebuggingEnabled() {
		export, err := module.ExportDebugLogs()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			return
		}
		writeExport(cfg.Debug.ExportFile, export)
	}
	fmt.Println("🔴 Bridge stopped.")
}

// writeExport écrit l'export de la session dans path.
func writeExport(path, export string) {
	if err := os.WriteFile(path, []byte(export), 0644); err != nil {
		fmt.Printf("❌ Unable to write debug export: %v\n", err)
		return
	}
	fmt.Printf("📝 Debug session exported to %s\n", path)
}
