package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried in envelope metadata.
const (
	EventTypeProductView     = "product.viewed"
	EventTypeAddToCart       = "cart.item_added"
	EventTypePurchase        = "order.purchased"
	EventTypeCustom          = "custom.event"
	EventTypeIdentify        = "user.identified"
	EventTypeClearUser       = "user.cleared"
	EventTypeCreative        = "creative.triggered"
	EventTypePushRegistered  = "push.token_registered"
	EventTypePushOpened      = "push.opened"
	EventTypeRegularOpen     = "app.opened"
	EventTypeForegroundPush  = "push.foreground"
	EventTypeDomainUpdated   = "config.domain_updated"
	EventTypeCreativeDestroy = "creative.destroyed"
)

// EnvelopeVersion is the version of the envelope schema.
const EnvelopeVersion = "1.0"

// Event is implemented by every typed payload handed to the tracking collaborator.
type Event interface {
	// EventType returns the envelope event type for the payload.
	EventType() string
	// Validate checks the payload invariants.
	Validate() error
}

// ProductViewEvent records that the user browsed one or more items.
type ProductViewEvent struct {
	Items    []Item `json:"items"`
	Deeplink string `json:"deeplink,omitempty"`
}

func (e *ProductViewEvent) EventType() string { return EventTypeProductView }

// Validate checks every item of the event.
func (e *ProductViewEvent) Validate() error { return validateItems(e.Items) }

// AddToCartEvent records that the user added one or more items to the cart.
type AddToCartEvent struct {
	Items    []Item `json:"items"`
	Deeplink string `json:"deeplink,omitempty"`
}

func (e *AddToCartEvent) EventType() string { return EventTypeAddToCart }

// Validate checks every item of the event.
func (e *AddToCartEvent) Validate() error { return validateItems(e.Items) }

// PurchaseEvent records a completed purchase.
type PurchaseEvent struct {
	Items      []Item `json:"items"`
	Order      Order  `json:"order"`
	CartID     string `json:"cartId,omitempty"`
	CartCoupon string `json:"cartCoupon,omitempty"`
}

func (e *PurchaseEvent) EventType() string { return EventTypePurchase }

// Validate checks the order reference and every item of the event.
func (e *PurchaseEvent) Validate() error {
	if err := e.Order.Validate(); err != nil {
		return err
	}
	return validateItems(e.Items)
}

// CustomEvent is an arbitrary named event with string properties.
type CustomEvent struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

func (e *CustomEvent) EventType() string { return EventTypeCustom }

// Validate checks that the event has a type and a properties map.
func (e *CustomEvent) Validate() error {
	if e.Type == "" {
		return MissingField("type")
	}
	if e.Properties == nil {
		return MissingField("properties")
	}
	return nil
}

// UserIdentifiers is an identity merge record. Every field is optional and an
// empty record is accepted.
type UserIdentifiers struct {
	Phone             string            `json:"phone,omitempty"`
	Email             string            `json:"email,omitempty"`
	KlaviyoID         string            `json:"klaviyoId,omitempty"`
	ShopifyID         string            `json:"shopifyId,omitempty"`
	ClientUserID      string            `json:"clientUserId,omitempty"`
	CustomIdentifiers map[string]string `json:"customIdentifiers,omitempty"`
}

func (u *UserIdentifiers) EventType() string { return EventTypeIdentify }

// Validate always succeeds: the record may legitimately carry no identifier.
func (u *UserIdentifiers) Validate() error { return nil }

// IsEmpty reports whether the record carries no identifier at all.
func (u *UserIdentifiers) IsEmpty() bool {
	return u.Phone == "" && u.Email == "" && u.KlaviyoID == "" && u.ShopifyID == "" &&
		u.ClientUserID == "" && len(u.CustomIdentifiers) == 0
}

// EnvelopeMetadata contains the technical metadata of a forwarded event.
type EnvelopeMetadata struct {
	Timestamp     string `json:"timestamp"`      // Creation timestamp (RFC3339).
	Version       string `json:"version"`        // Envelope schema version.
	EventType     string `json:"event_type"`     // Event type (e.g. "order.purchased").
	Source        string `json:"source"`         // Emitting service.
	CorrelationID string `json:"correlation_id"` // Unique identifier of this hand-off.
	Domain        string `json:"domain"`         // Vendor account domain.
	Mode          string `json:"mode"`           // "production" or "debug".
}

// Envelope is what the bridge hands to the tracking collaborator.
// Payload is nil for control events such as user.cleared.
type Envelope struct {
	Metadata EnvelopeMetadata `json:"metadata"`
	Payload  any              `json:"payload,omitempty"`
}

// NewEnvelope wraps a payload with fresh metadata.
//
// Parameters:
//   - eventType: The envelope event type.
//   - payload: The typed payload (may be nil).
//   - source: The emitting service name.
//   - domain: The vendor account domain.
//   - mode: The tracking mode.
//
// Returns:
//   - Envelope: The envelope with a new correlation id.
func NewEnvelope(eventType string, payload any, source, domain, mode string) Envelope {
	return Envelope{
		Metadata: EnvelopeMetadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Version:       EnvelopeVersion,
			EventType:     eventType,
			Source:        source,
			CorrelationID: uuid.New().String(),
			Domain:        domain,
			Mode:          mode,
		},
		Payload: payload,
	}
}
