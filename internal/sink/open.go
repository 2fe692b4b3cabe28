/*
Package sink provides the tracking collaborators that receive the bridge's envelopes.

Two collaborators are available: KafkaSink publishes every envelope to a topic,
FileSink appends it to a JSON-lines audit file. Both do a single synchronous
hand-off per envelope and never retry. KafkaSink is only compiled with the
kafka build tag; without it Open offers the file sink only.
*/
package sink

import (
	"fmt"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
)

// Tracker is the contract shared by every sink.
type Tracker interface {
	Record(envelope models.Envelope) error
	Close()
}

// Open builds the sink selected by cfg.Sink.Kind.
//
// Parameters:
//   - cfg: The loaded application configuration.
//
// Returns:
//   - Tracker: The ready-to-use sink.
//   - error: An error if the sink cannot be opened or the kind is unknown.
func Open(cfg *config.AppConfig) (Tracker, error) {
	switch cfg.Sink.Kind {
	case config.SinkKafka:
		return openKafka(cfg)
	case config.SinkFile, "":
		return NewFileSink(cfg.Sink.EventsFile)
	default:
		return nil, fmt.Errorf("unknown sink kind %q", cfg.Sink.Kind)
	}
}
