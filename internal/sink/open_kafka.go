//go:build kafka
// +build kafka

package sink

import "github.com/agbruneau/EventBridge/internal/config"

// openKafka crée et initialise le sink Kafka.
func openKafka(cfg *config.AppConfig) (Tracker, error) {
	s := NewKafkaSink(NewKafkaConfig(cfg))
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}
