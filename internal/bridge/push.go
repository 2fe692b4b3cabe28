package bridge

import (
	"fmt"
	"strings"

	"github.com/agbruneau/EventBridge/pkg/models"
)

// Push debug labels.
const (
	LabelPushRegistration = "Push Registration Requested"
	LabelDeviceToken      = "Device Token Registered"
	LabelRegularOpen      = "Regular Open Event"
	LabelPushOpened       = "Push Opened (Limited)"
	LabelForegroundPush   = "Foreground Notification"
)

const (
	tokenPreviewLength = 16
	limitedPushWarning = "push payloads forwarded from the host carry no notification response; open attribution is limited"
)

// RegisterForPushNotifications notes that the host asked the user for push permission.
// Nothing is forwarded to the collaborator.
func (m *Module) RegisterForPushNotifications() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.notInitialized(models.EventTypePushRegistered)
	}
	m.logger.Log(models.LogLevelINFO, "Push registration requested", nil)
	m.show(LabelPushRegistration, map[string]any{"action": "registerForPushNotifications"})
	return nil
}

// RegisterDeviceToken registers the push device token.
//
// Parameters:
//   - token: The hex-encoded token; spaces and angle brackets are ignored.
//   - status: The push authorization status; unknown values become "notDetermined".
//
// Returns:
//   - error: ErrInvalidDeviceToken if the token is empty or not hexadecimal.
func (m *Module) RegisterDeviceToken(token, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized, err := NormalizeDeviceToken(token)
	if err != nil {
		return m.rejected(models.EventTypePushRegistered, err)
	}
	status = models.NormalizeAuthorizationStatus(status)
	if err := m.forward(models.EventTypePushRegistered, &models.DeviceToken{Token: normalized, AuthorizationStatus: status}); err != nil {
		return err
	}
	m.show(LabelDeviceToken, map[string]any{
		"token":               TokenPreview(normalized),
		"authorizationStatus": status,
	})
	return nil
}

// HandleRegularOpen records a direct app open.
func (m *Module) HandleRegularOpen(status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	status = models.NormalizeAuthorizationStatus(status)
	if err := m.forward(models.EventTypeRegularOpen, &models.PushOpen{AuthorizationStatus: status}); err != nil {
		return err
	}
	m.show(LabelRegularOpen, map[string]any{"authorizationStatus": status})
	return nil
}

// HandlePushOpened records that the user opened a push notification.
func (m *Module) HandlePushOpened(userInfo map[string]any, applicationState, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	status = models.NormalizeAuthorizationStatus(status)
	open := &models.PushOpen{UserInfo: userInfo, ApplicationState: applicationState, AuthorizationStatus: status}
	if err := m.forward(models.EventTypePushOpened, open); err != nil {
		return err
	}
	m.show(LabelPushOpened, map[string]any{
		"applicationState":    applicationState,
		"authorizationStatus": status,
		"userInfo":            userInfo,
		"warning":             limitedPushWarning,
	})
	return nil
}

// HandleForegroundNotification records a notification received while the app is in the foreground.
func (m *Module) HandleForegroundNotification(userInfo map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.forward(models.EventTypeForegroundPush, &models.PushOpen{UserInfo: userInfo}); err != nil {
		return err
	}
	m.show(LabelForegroundPush, map[string]any{
		"userInfo": userInfo,
		"warning":  limitedPushWarning,
	})
	return nil
}

// NormalizeDeviceToken strips spaces and angle brackets and checks the token is hexadecimal.
func NormalizeDeviceToken(token string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "<", "", ">", "").Replace(token)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty token", models.ErrInvalidDeviceToken)
	}
	for _, r := range cleaned {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: %q", models.ErrInvalidDeviceToken, token)
		}
	}
	return strings.ToLower(cleaned), nil
}

// TokenPreview keeps the first 16 characters of a token for display.
func TokenPreview(token string) string {
	if len(token) <= tokenPreviewLength {
		return token + "..."
	}
	return token[:tokenPreviewLength] + "..."
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
