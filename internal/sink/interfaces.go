//go:build kafka
// +build kafka

package sink

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Publisher est le sous-ensemble du producteur Kafka utilisé par KafkaSink.
// *kafka.Producer le satisfait directement; les tests injectent un mock.
type Publisher interface {
	// Produce remet un message au client; le rapport arrive sur deliveryChan.
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error

	// Flush attend la livraison jusqu'au délai (ms) et retourne le nombre de messages restants.
	Flush(timeoutMs int) int

	Close()
}

var _ Publisher = (*kafka.Producer)(nil)
