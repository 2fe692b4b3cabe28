package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the main configuration structure for the application.
// It aggregates configurations for all subsystems.
type AppConfig struct {
	App     AppSettings   `yaml:"app"`     // General application configuration.
	Tracker TrackerConfig `yaml:"tracker"` // Tracking module configuration.
	Sink    SinkConfig    `yaml:"sink"`    // Tracking collaborator selection.
	Kafka   KafkaConfig   `yaml:"kafka"`   // Kafka configuration.
	Debug   DebugConfig   `yaml:"debug"`   // Debug session configuration.
	Console ConsoleConfig `yaml:"console"` // Debug console configuration.
}

// AppSettings contains general application settings.
type AppSettings struct {
	Env      string `yaml:"env"`       // Execution environment (e.g., development, production).
	LogLevel string `yaml:"log_level"` // Logging level.
	LogFile  string `yaml:"log_file"`  // Path to the structured log file ("" writes to stderr).
}

// TrackerConfig mirrors the options the host passes to Initialize.
type TrackerConfig struct {
	Domain                 string `yaml:"domain"`                    // Vendor account domain.
	Mode                   string `yaml:"mode"`                      // "production" or "debug".
	SkipFatigueOnCreatives bool   `yaml:"skip_fatigue_on_creatives"` // Show creatives regardless of fatigue rules.
	EnableDebugger         bool   `yaml:"enable_debugger"`           // Requests the debug recorder.
}

// SinkConfig selects the tracking collaborator.
type SinkConfig struct {
	Kind       string `yaml:"kind"`        // "kafka" or "file".
	EventsFile string `yaml:"events_file"` // Audit file used by the file sink.
}

// KafkaConfig contains Kafka connection settings.
type KafkaConfig struct {
	Broker         string `yaml:"broker"`           // Kafka broker address.
	Topic          string `yaml:"topic"`            // Topic receiving the envelopes.
	FlushTimeoutMs int    `yaml:"flush_timeout_ms"` // Wait timeout for pending messages on close.
}

// DebugConfig contains debug session settings.
type DebugConfig struct {
	ExportFile string `yaml:"export_file"` // Destination of the exported session.
}

// ConsoleConfig contains debug console settings.
type ConsoleConfig struct {
	UIUpdateMs     int `yaml:"ui_update_ms"`     // UI refresh frequency in milliseconds.
	MaxHistoryRows int `yaml:"max_history_rows"` // Max rows in the history list.
}

// DefaultConfig returns a configuration with default values.
// These values are used if no external configuration is provided.
//
// Returns:
//   - *AppConfig: A pointer to the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		App: AppSettings{
			Env:      EnvDevelopment,
			LogLevel: "info",
		},
		Tracker: TrackerConfig{
			Domain: DefaultDomain,
			Mode:   DefaultMode,
		},
		Sink: SinkConfig{
			Kind:       SinkFile,
			EventsFile: BridgeEventsFile,
		},
		Kafka: KafkaConfig{
			Broker:         DefaultKafkaBroker,
			Topic:          DefaultTopic,
			FlushTimeoutMs: FlushTimeoutMs,
		},
		Debug: DebugConfig{
			ExportFile: DebugExportFile,
		},
		Console: ConsoleConfig{
			UIUpdateMs:     int(ConsoleUIUpdateInterval / time.Millisecond),
			MaxHistoryRows: ConsoleMaxHistoryRows,
		},
	}
}

// Load loads the configuration from a YAML file, utilizing default values if necessary.
// Environment variables override values from the YAML file.
//
// Parameters:
//   - configPath: Path to the YAML configuration file (optional).
//
// Returns:
//   - *AppConfig: The loaded configuration.
//   - error: An error if loading fails.
func Load(configPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	// Try to load from YAML file
	if configPath != "" {
		if err := loadFromYAML(configPath, cfg); err != nil {
			// Not found file is acceptable, use defaults
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("error loading config file: %w", err)
			}
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	return cfg, nil
}

// loadFromYAML loads configuration from a YAML file.
//
// Parameters:
//   - path: The file path.
//   - cfg: The configuration structure to fill.
//
// Returns:
//   - error: An error if reading or parsing fails.
func loadFromYAML(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}

	return nil
}

// loadFromEnv overrides the configuration with environment variables.
// Unparsable values are ignored.
//
// Parameters:
//   - cfg: The configuration structure to update.
func loadFromEnv(cfg *AppConfig) {
	// App Parameters
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.App.LogFile = v
	}

	// Tracker Parameters
	if v := os.Getenv("ATTENTIVE_DOMAIN"); v != "" {
		cfg.Tracker.Domain = v
	}
	if v := os.Getenv("ATTENTIVE_MODE"); v == ModeProduction || v == ModeDebug {
		cfg.Tracker.Mode = v
	}
	if v := os.Getenv("ENABLE_DEBUGGER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracker.EnableDebugger = b
		}
	}

	// Sink Parameters
	if v := os.Getenv("SINK_KIND"); v == SinkKafka || v == SinkFile {
		cfg.Sink.Kind = v
	}
	if v := os.Getenv("SINK_EVENTS_FILE"); v != "" {
		cfg.Sink.EventsFile = v
	}

	// Kafka Parameters
	if v := os.Getenv("KAFKA_BROKER"); v != "" {
		cfg.Kafka.Broker = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("KAFKA_FLUSH_TIMEOUT_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Kafka.FlushTimeoutMs = i
		}
	}

	// Debug Parameters
	if v := os.Getenv("DEBUG_EXPORT_FILE"); v != "" {
		cfg.Debug.ExportFile = v
	}

	// Console Parameters
	if v := os.Getenv("CONSOLE_UI_UPDATE_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.Console.UIUpdateMs = i
		}
	}
}

// DebuggerEnabled reports whether the debug recorder should be active.
// The debugger is never enabled in a production environment, whatever the host asked for.
//
// Returns:
//   - bool: True if debugging is enabled.
func (c *AppConfig) DebuggerEnabled() bool {
	return c.Tracker.EnableDebugger && c.App.Env != EnvProduction
}

// GetFlushTimeout returns the Kafka flush timeout as a duration.
//
// Returns:
//   - time.Duration: The timeout.
func (c *AppConfig) GetFlushTimeout() time.Duration {
	return time.Duration(c.Kafka.FlushTimeoutMs) * time.Millisecond
}

// GetUIUpdateInterval returns the console refresh interval as a duration.
//
// Returns:
//   - time.Duration: The interval.
func (c *AppConfig) GetUIUpdateInterval() time.Duration {
	return time.Duration(c.Console.UIUpdateMs) * time.Millisecond
}
