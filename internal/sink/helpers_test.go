package sink

import (
	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/pkg/models"
)

func testEnvelope() models.Envelope {
	return models.NewEnvelope(models.EventTypeCustom,
		&models.CustomEvent{Type: "quiz", Properties: map[string]string{"score": "10"}},
		config.BridgeServiceName, "mystore", config.ModeDebug)
}
