package bridge

import (
	"sync"

	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockEventTracker est un mock pour l'interface EventTracker.
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Record(envelope models.Envelope) error {
	args := m.Called(envelope)
	return args.Error(0)
}

func (m *MockEventTracker) Close() {
	m.Called()
}

// recordedEnvelopes returns the envelopes passed to Record, in call order.
func (m *MockEventTracker) recordedEnvelopes() []models.Envelope {
	var envelopes []models.Envelope
	for _, call := range m.Calls {
		if call.Method == "Record" {
			envelopes = append(envelopes, call.Arguments.Get(0).(models.Envelope))
		}
	}
	return envelopes
}

// fakePresenter keeps what it was asked to show.
type fakePresenter struct {
	mu     sync.Mutex
	labels []string
	data   []map[string]any
}

func (p *fakePresenter) Show(label string, data map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, label)
	p.data = append(p.data, data)
}
