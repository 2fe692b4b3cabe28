package models

// CreativeTrigger asks the collaborator to display a creative.
// An empty CreativeID selects the default creative.
type CreativeTrigger struct {
	CreativeID string `json:"creativeId,omitempty"`
}

// DeviceToken is a push token registration.
type DeviceToken struct {
	Token               string `json:"token"`               // Hex-encoded device token.
	AuthorizationStatus string `json:"authorizationStatus"` // e.g. "authorized", "denied".
}

// PushOpen records that a push notification was opened or received.
type PushOpen struct {
	UserInfo            map[string]any `json:"userInfo,omitempty"`
	ApplicationState    string         `json:"applicationState,omitempty"`
	AuthorizationStatus string         `json:"authorizationStatus,omitempty"`
}

// Known push authorization statuses.
var AuthorizationStatuses = []string{"authorized", "denied", "notDetermined", "provisional", "ephemeral"}

// NormalizeAuthorizationStatus maps an unknown status to "notDetermined".
func NormalizeAuthorizationStatus(status string) string {
	for _, s := range AuthorizationStatuses {
		if s == status {
			return s
		}
	}
	return "notDetermined"
}
