//go:build kafka
// +build kafka

package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockedSink(t *testing.T) (*KafkaSink, *MockPublisher, *bytes.Buffer) {
	t.Helper()
	cfg := NewKafkaConfig(config.DefaultConfig())
	s := NewKafkaSink(cfg)
	mockProducer := new(MockPublisher)
	s.producer = mockProducer
	out := &bytes.Buffer{}
	s.out = out
	return s, mockProducer, out
}

// TestRecordPublishesEnvelope vérifie que Record publie l'enveloppe encodée une seule fois.
func TestRecordPublishesEnvelope(t *testing.T) {
	s, mockProducer, _ := newMockedSink(t)
	envelope := testEnvelope()

	mockProducer.On("Produce", mock.MatchedBy(func(msg *kafka.Message) bool {
		if *msg.TopicPartition.Topic != config.DefaultTopic {
			return false
		}
		if string(msg.Key) != "mystore" {
			return false
		}
		var decoded map[string]any
		if err := json.Unmarshal(msg.Value, &decoded); err != nil {
			return false
		}
		metadata := decoded["metadata"].(map[string]any)
		return metadata["event_type"] == models.EventTypeCustom &&
			metadata["correlation_id"] == envelope.Metadata.CorrelationID
	}), mock.Anything).Return(nil).Once()

	err := s.Record(envelope)

	assert.NoError(t, err)
	mockProducer.AssertExpectations(t)
	mockProducer.AssertNumberOfCalls(t, "Produce", 1)
}

// TestRecordHeaders vérifie les en-têtes ajoutés au message.
func TestRecordHeaders(t *testing.T) {
	s, mockProducer, _ := newMockedSink(t)
	var captured *kafka.Message
	mockProducer.On("Produce", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(0).(*kafka.Message) }).
		Return(nil)

	require.NoError(t, s.Record(testEnvelope()))

	require.NotNil(t, captured)
	require.Len(t, captured.Headers, 2)
	assert.Equal(t, "event_type", captured.Headers[0].Key)
	assert.Equal(t, models.EventTypeCustom, string(captured.Headers[0].Value))
}

// TestRecordWithoutDomainHasNoKey vérifie qu'une enveloppe sans domaine n'a pas de clé.
func TestRecordWithoutDomainHasNoKey(t *testing.T) {
	s, mockProducer, _ := newMockedSink(t)
	envelope := models.NewEnvelope(models.EventTypeClearUser, nil, config.BridgeServiceName, "", config.ModeProduction)
	mockProducer.On("Produce", mock.MatchedBy(func(msg *kafka.Message) bool {
		return msg.Key == nil
	}), mock.Anything).Return(nil)

	assert.NoError(t, s.Record(envelope))
	mockProducer.AssertExpectations(t)
}

// TestRecordErrorIsNotRetried vérifie qu'une erreur de production est remontée sans nouvel essai.
func TestRecordErrorIsNotRetried(t *testing.T) {
	s, mockProducer, _ := newMockedSink(t)
	mockProducer.On("Produce", mock.Anything, mock.Anything).Return(assert.AnError)

	err := s.Record(testEnvelope())

	assert.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	mockProducer.AssertNumberOfCalls(t, "Produce", 1)
}

func TestRecordBeforeInitialize(t *testing.T) {
	s := NewKafkaSink(KafkaConfig{Topic: "t"})

	err := s.Record(testEnvelope())

	assert.ErrorIs(t, err, models.ErrNotInitialized)
}

// TestCloseFlushes vérifie que Close vide la file et signale les messages restants.
func TestCloseFlushes(t *testing.T) {
	s, mockProducer, out := newMockedSink(t)
	mockProducer.On("Flush", config.FlushTimeoutMs).Return(2)
	mockProducer.On("Close").Return()

	s.Close()

	mockProducer.AssertExpectations(t)
	assert.Contains(t, out.String(), "2 envelopes could not be sent")
}

// TestCloseStopsDeliveryReports vérifie que Close attend les derniers rapports
// et arrête le gestionnaire, y compris sur un second appel.
func TestCloseStopsDeliveryReports(t *testing.T) {
	s, mockProducer, out := newMockedSink(t)
	s.startDeliveryReports()
	mockProducer.On("Flush", config.FlushTimeoutMs).Return(0).Once()
	mockProducer.On("Close").Return().Once()

	topic := config.DefaultTopic
	s.deliveryChan <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 3, Offset: 7}}

	s.Close()

	select {
	case <-s.reportsDone:
	default:
		t.Fatal("delivery report handler still running after Close")
	}
	assert.Contains(t, out.String(), "offset 7")

	assert.NotPanics(t, s.Close)
	mockProducer.AssertExpectations(t)
}

func TestCloseWithoutProducer(t *testing.T) {
	s := NewKafkaSink(KafkaConfig{})
	assert.NotPanics(t, s.Close)
}

// TestDeliveryReports vérifie l'affichage des rapports de livraison.
func TestDeliveryReports(t *testing.T) {
	s, _, out := newMockedSink(t)
	s.deliveryChan = make(chan kafka.Event, 2)
	topic := config.DefaultTopic

	s.deliveryChan <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 1, Offset: 42}}
	s.deliveryChan <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Error: assert.AnError}}
	close(s.deliveryChan)

	done := make(chan struct{})
	go func() {
		s.handleDeliveryReports()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delivery report handler did not return")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "partition 1")
	assert.Contains(t, lines[0], "offset 42")
	assert.Contains(t, lines[1], "delivery failed")
}
