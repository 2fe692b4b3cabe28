//go:build !kafka
// +build !kafka

package sink

import (
	"errors"

	"github.com/agbruneau/EventBridge/internal/config"
)

// ErrKafkaUnavailable est retournée quand le binaire est construit sans le tag kafka.
var ErrKafkaUnavailable = errors.New("kafka sink not available: rebuild with -tags kafka")

// openKafka refuse le sink Kafka; seul le sink fichier est disponible.
func openKafka(cfg *config.AppConfig) (Tracker, error) {
	return nil, ErrKafkaUnavailable
}
