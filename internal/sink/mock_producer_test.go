//go:build kafka
// +build kafka

package sink

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/mock"
)

// MockPublisher est un mock de Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	args := m.Called(msg, deliveryChan)
	// Simuler l'envoi d'un événement de livraison si deliveryChan n'est pas nil
	if deliveryChan != nil {
		go func() {
			deliveryChan <- &kafka.Message{
				TopicPartition: kafka.TopicPartition{
					Topic:     msg.TopicPartition.Topic,
					Partition: 0,
					Offset:    0,
				},
			}
		}()
	}
	return args.Error(0)
}

func (m *MockPublisher) Flush(timeoutMs int) int {
	args := m.Called(timeoutMs)
	return args.Int(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}
