package models

import "encoding/json"

// LogLevel defines the severity levels of structured logs.
type LogLevel string

const (
	// LogLevelINFO is an informational log level.
	LogLevelINFO LogLevel = "INFO"
	// LogLevelWARN flags a call that completed in a degraded way.
	LogLevelWARN LogLevel = "WARN"
	// LogLevelERROR is an error log level.
	LogLevelERROR LogLevel = "ERROR"
)

// LogEntry is one line of the bridge's structured log.
// Every bridge call produces at least one entry; failures carry the error text.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`          // RFC3339 timestamp.
	Level     LogLevel       `json:"level"`              // Severity (INFO, WARN, ERROR).
	Message   string         `json:"message"`            // Main message.
	Service   string         `json:"service"`            // Emitting service.
	Error     string         `json:"error,omitempty"`    // Error text, if any.
	Metadata  map[string]any `json:"metadata,omitempty"` // Contextual data.
}

// EventEntry is one line of the audit trail written by the file sink.
// It keeps a faithful copy of every envelope handed to the collaborator.
type EventEntry struct {
	Timestamp     string          `json:"timestamp"`          // Write timestamp (RFC3339).
	EventType     string          `json:"event_type"`         // Envelope event type.
	CorrelationID string          `json:"correlation_id"`     // Envelope correlation id.
	Domain        string          `json:"domain,omitempty"`   // Vendor account domain.
	MessageSize   int             `json:"message_size"`       // Size of the encoded envelope in bytes.
	Error         string          `json:"error,omitempty"`    // Encoding error, if any.
	Envelope      json.RawMessage `json:"envelope,omitempty"` // The encoded envelope.
}
