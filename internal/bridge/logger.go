package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
)

var levelRank = map[models.LogLevel]int{
	models.LogLevelINFO:  0,
	models.LogLevelWARN:  1,
	models.LogLevelERROR: 2,
}

// Logger manages concurrent and safe writing of structured log entries.
// Entries below the configured minimum level are dropped.
type Logger struct {
	w        io.Writer
	closer   io.Closer
	encoder  *json.Encoder
	minLevel models.LogLevel
	mu       sync.Mutex
}

// NewLogger initializes a Logger appending to filename.
// An empty filename writes to stderr.
//
// Parameters:
//   - filename: The log file path.
//   - level: The minimum level ("info", "warn", "error"); unknown values mean "info".
//
// Returns:
//   - *Logger: The logger.
//   - error: An error if the file cannot be opened.
func NewLogger(filename, level string) (*Logger, error) {
	if filename == "" {
		return NewWriterLogger(os.Stderr, level), nil
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %s: %v", filename, err)
	}
	l := NewWriterLogger(file, level)
	l.closer = file
	return l, nil
}

// NewWriterLogger creates a Logger writing to w. Close does not close w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return &Logger{
		w:        w,
		encoder:  json.NewEncoder(w),
		minLevel: ParseLevel(level),
	}
}

// ParseLevel maps a configuration level to a LogLevel.
func ParseLevel(level string) models.LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARN", "WARNING":
		return models.LogLevelWARN
	case "ERROR":
		return models.LogLevelERROR
	default:
		return models.LogLevelINFO
	}
}

// Log writes a structured entry.
func (l *Logger) Log(level models.LogLevel, message string, metadata map[string]any) {
	l.write(models.LogEntry{Level: level, Message: message, Metadata: metadata})
}

// LogError is a shortcut to write an error entry.
func (l *Logger) LogError(message string, err error, metadata map[string]any) {
	entry := models.LogEntry{Level: models.LogLevelERROR, Message: message, Metadata: metadata}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

func (l *Logger) write(entry models.LogEntry) {
	if l == nil || levelRank[entry.Level] < levelRank[l.minLevel] {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	entry.Service = config.BridgeServiceName
	if err := l.encoder.Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Log encoding error: %v\n", err)
	}
}

// Close properly closes the log file.
func (l *Logger) Close() {
	if l != nil && l.closer != nil {
		if err := l.closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
		}
	}
}
