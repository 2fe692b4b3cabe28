package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agbruneau/EventBridge/internal/attrs"
)

// Call is one line of a call script: a module method and its arguments.
type Call struct {
	Method string         `json:"method"`
	Args   map[string]any `json:"args"`
}

// CallResult is the outcome of one dispatched call.
type CallResult struct {
	Line   int    // Line number in the script (1-based).
	Method string // Method name.
	Err    error  // Error returned by the module, if any.
}

// ErrUnknownMethod is returned for a call naming no module method.
var ErrUnknownMethod = errors.New("unknown bridge method")

// Dispatcher replays host calls against a Module.
type Dispatcher struct {
	module   *Module
	onExport func(string) // Receives the result of exportDebugLogs calls.
}

// NewDispatcher creates a dispatcher. onExport may be nil.
func NewDispatcher(module *Module, onExport func(string)) *Dispatcher {
	return &Dispatcher{module: module, onExport: onExport}
}

// Run reads a JSON-lines call script and dispatches every call in order.
// A failing call does not stop the script; blank lines and lines starting with '#' are skipped.
//
// Parameters:
//   - r: The script.
//
// Returns:
//   - []CallResult: One result per dispatched call.
//   - error: A read error.
func (d *Dispatcher) Run(r io.Reader) ([]CallResult, error) {
	var results []CallResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var call Call
		if err := json.Unmarshal([]byte(text), &call); err != nil {
			results = append(results, CallResult{Line: line, Err: fmt.Errorf("invalid call: %w", err)})
			continue
		}
		results = append(results, CallResult{Line: line, Method: call.Method, Err: d.Dispatch(call)})
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("error reading call script: %w", err)
	}
	return results, nil
}

// Dispatch runs a single call.
func (d *Dispatcher) Dispatch(call Call) error {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	m := d.module

	switch call.Method {
	case "initialize":
		opts, err := initializeOptions(args)
		if err != nil {
			return err
		}
		return m.Initialize(opts)
	case "recordProductViewEvent":
		return m.RecordProductViewEvent(args)
	case "recordAddToCartEvent":
		return m.RecordAddToCartEvent(args)
	case "recordPurchaseEvent":
		return m.RecordPurchaseEvent(args)
	case "recordCustomEvent":
		return m.RecordCustomEvent(args)
	case "identify":
		return m.Identify(args)
	case "clearUser":
		return m.ClearUser()
	case "updateDomain":
		domain, err := attrs.RequireNonEmptyString(args, "domain")
		if err != nil {
			return err
		}
		return m.UpdateDomain(domain)
	case "triggerCreative":
		id, err := attrs.OptionalString(args, "creativeId")
		if err != nil {
			return err
		}
		return m.TriggerCreative(id)
	case "destroyCreative":
		return m.DestroyCreative()
	case "invokeDebugHelper":
		m.InvokeDebugHelper()
		return nil
	case "exportDebugLogs":
		export, err := m.ExportDebugLogs()
		if err != nil {
			return err
		}
		if d.onExport != nil {
			d.onExport(export)
		}
		return nil
	case "registerForPushNotifications":
		return m.RegisterForPushNotifications()
	case "registerDeviceToken":
		token, err := attrs.OptionalString(args, "token")
		if err != nil {
			return err
		}
		status, err := attrs.OptionalString(args, "authorizationStatus")
		if err != nil {
			return err
		}
		return m.RegisterDeviceToken(token, status)
	case "handleRegularOpen":
		status, err := attrs.OptionalString(args, "authorizationStatus")
		if err != nil {
			return err
		}
		return m.HandleRegularOpen(status)
	case "handlePushOpened":
		userInfo, _, err := attrs.OptionalBag(args, "userInfo")
		if err != nil {
			return err
		}
		state, err := attrs.OptionalString(args, "applicationState")
		if err != nil {
			return err
		}
		status, err := attrs.OptionalString(args, "authorizationStatus")
		if err != nil {
			return err
		}
		return m.HandlePushOpened(userInfo, state, status)
	case "handleForegroundNotification":
		userInfo, _, err := attrs.OptionalBag(args, "userInfo")
		if err != nil {
			return err
		}
		return m.HandleForegroundNotification(userInfo)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, call.Method)
	}
}

// initializeOptions reads the Initialize arguments. The domain may be given
// as "attentiveDomain" or "domain".
func initializeOptions(args map[string]any) (Options, error) {
	var opts Options
	var err error

	domainKey := "attentiveDomain"
	if _, ok := args[domainKey]; !ok {
		domainKey = "domain"
	}
	if opts.Domain, err = attrs.RequireNonEmptyString(args, domainKey); err != nil {
		return Options{}, err
	}
	if opts.Mode, err = attrs.RequireNonEmptyString(args, "mode"); err != nil {
		return Options{}, err
	}
	if opts.SkipFatigueOnCreatives, err = attrs.OptionalBool(args, "skipFatigueOnCreatives", false); err != nil {
		return Options{}, err
	}
	if opts.EnableDebugger, err = attrs.OptionalBool(args, "enableDebugger", false); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Failed returns the results that carry an error.
func Failed(results []CallResult) []CallResult {
	var failed []CallResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
