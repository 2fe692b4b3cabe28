package bridge

import "github.com/agbruneau/EventBridge/pkg/models"

// EventTracker is the vendor tracking collaborator.
// Record is called once per envelope; the bridge never retries it.
type EventTracker interface {
	// Record hands one envelope to the collaborator.
	//
	// Parameters:
	//   - envelope: The envelope to forward.
	//
	// Returns:
	//   - error: An error if the hand-off fails.
	Record(envelope models.Envelope) error

	// Close releases the collaborator's resources.
	Close()
}

// Presenter displays debug information to the developer.
type Presenter interface {
	// Show displays the current event, with the session history available alongside.
	Show(label string, data map[string]any)
}
