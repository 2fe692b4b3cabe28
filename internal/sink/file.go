package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/agbruneau/EventBridge/pkg/models"
)

// FileSink appends every envelope to a JSON-lines audit trail.
// Each line is a models.EventEntry keeping a faithful copy of the envelope.
type FileSink struct {
	w       io.WriteCloser
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewFileSink opens (or creates) the audit file in append mode.
func NewFileSink(filename string) (*FileSink, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %s: %v", filename, err)
	}
	return NewWriterSink(file), nil
}

// NewWriterSink writes the audit trail to an arbitrary writer.
func NewWriterSink(w io.WriteCloser) *FileSink {
	return &FileSink{w: w, encoder: json.NewEncoder(w)}
}

// Record writes one EventEntry for the envelope.
// An envelope that cannot be encoded is still written, with the error text.
func (s *FileSink) Record(envelope models.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.EventEntry{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EventType:     envelope.Metadata.EventType,
		CorrelationID: envelope.Metadata.CorrelationID,
		Domain:        envelope.Metadata.Domain,
	}

	raw, marshalErr := json.Marshal(envelope)
	if marshalErr != nil {
		entry.Error = marshalErr.Error()
	} else {
		entry.Envelope = json.RawMessage(raw)
		entry.MessageSize = len(raw)
	}

	if err := s.encoder.Encode(entry); err != nil {
		return fmt.Errorf("event encoding error: %w", err)
	}
	return marshalErr
}

// Close closes the underlying file.
func (s *FileSink) Close() {
	if s == nil || s.w == nil {
		return
	}
	if err := s.w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing events file: %v\n", err)
	}
}
