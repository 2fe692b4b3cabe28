/*
Package bridge exposes the host-facing entry points of the commerce event bridge.

Each call converts the host's attribute bag into a typed event, hands it to the
EventTracker collaborator and, when debugging is enabled, records what was sent
in the debug session. Every call is logged.
*/
package bridge

import (
	"fmt"
	"sync"

	"github.com/agbruneau/EventBridge/internal/builder"
	"github.com/agbruneau/EventBridge/internal/config"
	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/pkg/models"
)

// Debug labels.
const (
	LabelProductView     = "Product View Event"
	LabelAddToCart       = "Add To Cart Event"
	LabelPurchase        = "Purchase Event"
	LabelCustom          = "Custom Event"
	LabelCreative        = "Creative Triggered"
	LabelManualDebugView = "Manual Debug View"
)

// DefaultCreativeID is reported when a creative is triggered without an id.
const DefaultCreativeID = "default"

// Options are the settings the host passes to Initialize.
type Options struct {
	Domain                 string // Vendor account domain.
	Mode                   string // "production" or "debug".
	SkipFatigueOnCreatives bool   // Show creatives regardless of fatigue rules.
	EnableDebugger         bool   // Requests the debug recorder.
}

// OptionsFromConfig reads the Initialize options from the application configuration.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		Domain:                 cfg.Tracker.Domain,
		Mode:                   cfg.Tracker.Mode,
		SkipFatigueOnCreatives: cfg.Tracker.SkipFatigueOnCreatives,
		EnableDebugger:         cfg.Tracker.EnableDebugger,
	}
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithRecorder injects the debug session recorder.
// Debugging stays off unless the recorder itself is enabled.
func WithRecorder(r *debug.Recorder) ModuleOption {
	return func(m *Module) { m.recorder = r }
}

// WithPresenter injects the component that displays debug information.
func WithPresenter(p Presenter) ModuleOption {
	return func(m *Module) { m.presenter = p }
}

// Module is the bridge between the host application and the tracking collaborator.
// Calls are serialized: one bridge call runs at a time.
type Module struct {
	tracker   EventTracker
	logger    *Logger
	recorder  *debug.Recorder
	presenter Presenter

	mu          sync.Mutex
	options     Options
	initialized bool
	debugging   bool
	creative    string // Id of the displayed creative, "" when none.
}

// New creates a Module. Initialize must be called before any event is recorded.
//
// Parameters:
//   - tracker: The tracking collaborator.
//   - logger: The structured logger (may be nil).
//   - opts: Optional recorder and presenter.
//
// Returns:
//   - *Module: The module.
func New(tracker EventTracker, logger *Logger, opts ...ModuleOption) *Module {
	m := &Module{tracker: tracker, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize configures the module.
//
// Returns:
//   - error: ErrInvalidMode if the mode is neither "production" nor "debug".
func (m *Module) Initialize(opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Mode != config.ModeProduction && opts.Mode != config.ModeDebug {
		err := fmt.Errorf("%w: %q", models.ErrInvalidMode, opts.Mode)
		m.logger.LogError("Initialization rejected", err, nil)
		return err
	}

	m.options = opts
	m.initialized = true
	m.debugging = opts.EnableDebugger && m.recorder != nil && m.recorder.Enabled()

	m.logger.Log(models.LogLevelINFO, "Bridge initialized", map[string]any{
		"domain":                    opts.Domain,
		"mode":                      opts.Mode,
		"skip_fatigue_on_creatives": opts.SkipFatigueOnCreatives,
		"debugging":                 m.debugging,
	})
	return nil
}

// DebuggingEnabled reports whether calls are recorded in the debug session.
func (m *Module) DebuggingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.debugging
}

// Options returns the current settings.
func (m *Module) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options
}

// RecordProductViewEvent records that the user viewed one or more items.
func (m *Module) RecordProductViewEvent(attrs map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := builder.BuildProductView(attrs)
	if err != nil {
		return m.rejected(models.EventTypeProductView, err)
	}
	if err := m.forward(event.EventType(), event); err != nil {
		return err
	}
	m.show(LabelProductView, itemsDebugData(event.Items, attrs, map[string]any{
		"deeplink": event.Deeplink,
	}))
	return nil
}

// RecordAddToCartEvent records that the user added one or more items to the cart.
func (m *Module) RecordAddToCartEvent(attrs map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := builder.BuildAddToCart(attrs)
	if err != nil {
		return m.rejected(models.EventTypeAddToCart, err)
	}
	if err := m.forward(event.EventType(), event); err != nil {
		return err
	}
	m.show(LabelAddToCart, itemsDebugData(event.Items, attrs, map[string]any{
		"deeplink": event.Deeplink,
	}))
	return nil
}

// RecordPurchaseEvent records a completed purchase.
func (m *Module) RecordPurchaseEvent(attrs map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := builder.BuildPurchase(attrs)
	if err != nil {
		return m.rejected(models.EventTypePurchase, err)
	}
	if err := m.forward(event.EventType(), event); err != nil {
		return err
	}
	extra := map[string]any{debug.SummaryKeyOrderID: event.Order.OrderID}
	if event.CartID != "" {
		extra["cart_id"] = event.CartID
	}
	if event.CartCoupon != "" {
		extra["cart_coupon"] = event.CartCoupon
	}
	m.show(LabelPurchase, itemsDebugData(event.Items, attrs, extra))
	return nil
}

// RecordCustomEvent records a custom event.
func (m *Module) RecordCustomEvent(attrs map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := builder.BuildCustomEvent(attrs)
	if err != nil {
		return m.rejected(models.EventTypeCustom, err)
	}
	if err := m.forward(event.EventType(), event); err != nil {
		return err
	}
	m.show(LabelCustom, map[string]any{
		debug.SummaryKeyEventType: event.Type,
		"properties_count":        len(event.Properties),
		"payload":                 attrs,
	})
	return nil
}

// Identify merges the given identifiers into the current user.
// A record with no identifier at all is forwarded as well.
func (m *Module) Identify(attrs map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := builder.BuildUserIdentifiers(attrs)
	if err != nil {
		return m.rejected(models.EventTypeIdentify, err)
	}
	if ids.IsEmpty() {
		m.logger.Log(models.LogLevelWARN, "Identify called without identifiers", nil)
	}
	return m.forward(ids.EventType(), ids)
}

// ClearUser forgets the current user.
func (m *Module) ClearUser() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forward(models.EventTypeClearUser, nil)
}

// UpdateDomain switches the vendor account domain for subsequent events.
func (m *Module) UpdateDomain(domain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return m.notInitialized(models.EventTypeDomainUpdated)
	}
	if domain == "" {
		return m.rejected(models.EventTypeDomainUpdated, models.MissingField("domain"))
	}
	previous := m.options.Domain
	m.options.Domain = domain
	return m.forward(models.EventTypeDomainUpdated, map[string]string{"previous": previous, "domain": domain})
}

// TriggerCreative asks the collaborator to display a creative.
// An empty id selects the default creative.
func (m *Module) TriggerCreative(creativeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.forward(models.EventTypeCreative, &models.CreativeTrigger{CreativeID: creativeID}); err != nil {
		return err
	}
	shown := creativeID
	if shown == "" {
		shown = DefaultCreativeID
	}
	m.creative = shown
	m.show(LabelCreative, map[string]any{
		"type":                     "trigger",
		debug.SummaryKeyCreativeID: shown,
	})
	return nil
}

// DestroyCreative removes the displayed creative. It does nothing when none is shown.
func (m *Module) DestroyCreative() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.creative == "" {
		return nil
	}
	if err := m.forward(models.EventTypeCreativeDestroy, &models.CreativeTrigger{CreativeID: m.creative}); err != nil {
		return err
	}
	m.creative = ""
	return nil
}

// InvokeDebugHelper shows the debug view on demand. The call itself is not recorded.
func (m *Module) InvokeDebugHelper() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.debugging || m.presenter == nil {
		return
	}
	m.presenter.Show(LabelManualDebugView, map[string]any{
		"action":         "manual_debug_call",
		"session_events": m.recorder.Len(),
	})
}

// ExportDebugLogs returns the debug session export.
//
// Returns:
//   - string: The export text, or the fixed disabled message.
//   - error: ErrExportFailed if the export could not be produced.
func (m *Module) ExportDebugLogs() (export string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.debugging {
		return debug.DisabledMessage, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", models.ErrExportFailed, r)
			export = ""
			m.logger.LogError("Debug export failed", err, nil)
		}
	}()
	export = m.recorder.Export()
	m.logger.Log(models.LogLevelINFO, "Debug session exported", map[string]any{
		"events": m.recorder.Len(),
		"bytes":  len(export),
	})
	return export, nil
}

// forward wraps the payload in an envelope and hands it to the tracker once.
func (m *Module) forward(eventType string, payload any) error {
	if !m.initialized {
		return m.notInitialized(eventType)
	}

	envelope := models.NewEnvelope(eventType, payload, config.BridgeServiceName, m.options.Domain, m.options.Mode)
	if err := m.tracker.Record(envelope); err != nil {
		err = fmt.Errorf("tracker rejected %s: %w", eventType, err)
		m.logger.LogError("Event hand-off failed", err, map[string]any{
			"event_type":     eventType,
			"correlation_id": envelope.Metadata.CorrelationID,
		})
		return err
	}

	m.logger.Log(models.LogLevelINFO, "Event forwarded", map[string]any{
		"event_type":     eventType,
		"correlation_id": envelope.Metadata.CorrelationID,
		"domain":         envelope.Metadata.Domain,
	})
	return nil
}

// show records the debug data and displays it. It does nothing when debugging is off.
func (m *Module) show(label string, data map[string]any) {
	if !m.debugging {
		return
	}
	m.recorder.Record(label, data)
	if m.presenter != nil {
		m.presenter.Show(label, data)
	}
}

func (m *Module) rejected(eventType string, err error) error {
	m.logger.LogError("Invalid event attributes", err, map[string]any{"event_type": eventType})
	return err
}

func (m *Module) notInitialized(eventType string) error {
	m.logger.LogError("Call before Initialize", models.ErrNotInitialized, map[string]any{"event_type": eventType})
	return models.ErrNotInitialized
}
