//go:build kafka
// +build kafka

package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaConfig contains the Kafka sink configuration.
type KafkaConfig struct {
	Broker       string // Kafka broker address.
	Topic        string // Topic receiving the envelopes.
	FlushTimeout int    // Timeout in ms for the final flush.
}

// NewKafkaConfig builds the sink configuration from the application configuration.
//
// Parameters:
//   - cfg: The loaded application configuration.
//
// Returns:
//   - KafkaConfig: The sink configuration.
func NewKafkaConfig(cfg *config.AppConfig) KafkaConfig {
	return KafkaConfig{
		Broker:       cfg.Kafka.Broker,
		Topic:        cfg.Kafka.Topic,
		FlushTimeout: cfg.Kafka.FlushTimeoutMs,
	}
}

// KafkaSink publishes envelopes to a Kafka topic.
// Messages are keyed by account domain so one domain keeps its ordering on a partition.
type KafkaSink struct {
	config       KafkaConfig
	producer     Publisher
	deliveryChan chan kafka.Event
	reportsDone  chan struct{} // Closed when the report handler returns.
	closeOnce    sync.Once
	out          io.Writer // Destination of delivery reports.
}

// NewKafkaSink creates a Kafka sink. Initialize must be called before Record.
func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	return &KafkaSink{config: cfg, out: os.Stdout}
}

// Initialize creates the connection to the broker and starts the report handler.
//
// Returns:
//   - error: An error if the producer cannot be created.
func (s *KafkaSink) Initialize() error {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": s.config.Broker,
	})
	if err != nil {
		return fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	s.producer = producer
	s.startDeliveryReports()
	return nil
}

// startDeliveryReports crée le canal de rapports et lance son gestionnaire.
func (s *KafkaSink) startDeliveryReports() {
	s.deliveryChan = make(chan kafka.Event, config.SinkDeliveryQueueSize)
	s.reportsDone = make(chan struct{})
	go func() {
		defer close(s.reportsDone)
		s.handleDeliveryReports()
	}()
}

// handleDeliveryReports prints the outcome of every produced message.
func (s *KafkaSink) handleDeliveryReports() {
	for e := range s.deliveryChan {
		m, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if m.TopicPartition.Error != nil {
			fmt.Fprintf(s.out, "❌ Envelope delivery failed: %v\n", m.TopicPartition.Error)
		} else {
			fmt.Fprintf(s.out, "✅ Envelope delivered to topic %s (partition %d) at offset %d\n",
				*m.TopicPartition.Topic,
				m.TopicPartition.Partition,
				m.TopicPartition.Offset)
		}
	}
}

// Record encodes the envelope and hands it to the producer once.
//
// Parameters:
//   - envelope: The envelope to publish.
//
// Returns:
//   - error: An encoding or production error.
func (s *KafkaSink) Record(envelope models.Envelope) error {
	if s.producer == nil {
		return fmt.Errorf("kafka sink: %w", models.ErrNotInitialized)
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("JSON marshaling error: %w", err)
	}

	topic := s.config.Topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(envelope.Metadata.EventType)},
			{Key: "correlation_id", Value: []byte(envelope.Metadata.CorrelationID)},
		},
	}
	if envelope.Metadata.Domain != "" {
		msg.Key = []byte(envelope.Metadata.Domain)
	}

	if err := s.producer.Produce(msg, s.deliveryChan); err != nil {
		return fmt.Errorf("error producing envelope: %w", err)
	}
	return nil
}

// Close flushes pending messages, closes the producer and waits for the
// remaining delivery reports. Calling it more than once is a no-op.
func (s *KafkaSink) Close() {
	if s.producer == nil {
		return
	}
	s.closeOnce.Do(func() {
		remaining := s.producer.Flush(s.config.FlushTimeout)
		if remaining > 0 {
			fmt.Fprintf(s.out, "⚠️  %d envelopes could not be sent.\n", remaining)
		}
		s.producer.Close()

		if s.deliveryChan != nil {
			close(s.deliveryChan)
			<-s.reportsDone
		}
	})
}
