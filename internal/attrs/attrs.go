/*
Package attrs turns loosely-typed attribute bags into validated scalar values.

An attribute bag is a map[string]any as decoded from JSON: values are strings,
numbers (float64 or json.Number), booleans, nested bags, arrays or nil. The
functions here are pure and never panic on unexpected shapes; they return a
typed error from pkg/models instead.
*/
package attrs

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agbruneau/EventBridge/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Bag is a raw attribute bag supplied by the host application.
type Bag = map[string]any

// ParseMoney parses an exact decimal amount and resolves an ISO 4217 currency code.
//
// Parameters:
//   - amountText: The amount as text (e.g. "19.99"). No float conversion takes place.
//   - currencyCode: The ISO 4217 code (e.g. "USD").
//
// Returns:
//   - models.Money: The parsed value.
//   - error: ErrInvalidAmount or ErrUnknownCurrency, wrapped with the offending input.
func ParseMoney(amountText, currencyCode string) (models.Money, error) {
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return models.Money{}, fmt.Errorf("%w: %q", models.ErrInvalidAmount, amountText)
	}
	// ISO 4217 codes are upper case only.
	if currencyCode != strings.ToUpper(currencyCode) {
		return models.Money{}, fmt.Errorf("%w: %q", models.ErrUnknownCurrency, currencyCode)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return models.Money{}, fmt.Errorf("%w: %q", models.ErrUnknownCurrency, currencyCode)
	}
	return models.Money{Amount: amount, Currency: unit}, nil
}

// RequireNonEmptyString returns the string stored under field.
//
// Returns:
//   - string: The value.
//   - error: *MissingRequiredFieldError if the key is absent, null or empty,
//     *FieldTypeError if the value is not a string.
func RequireNonEmptyString(bag Bag, field string) (string, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return "", models.MissingField(field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeError(field, "string", raw)
	}
	if s == "" {
		return "", models.MissingField(field)
	}
	return s, nil
}

// OptionalString returns the string stored under field, or "" when absent or null.
func OptionalString(bag Bag, field string) (string, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeError(field, "string", raw)
	}
	return s, nil
}

// OptionalBool returns the boolean stored under field, or def when absent or null.
func OptionalBool(bag Bag, field string, def bool) (bool, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, typeError(field, "boolean", raw)
	}
	return b, nil
}

// OptionalInt returns the integer stored under field.
// Fractional numbers are truncated toward zero.
//
// Returns:
//   - int: The value, or def when absent or null.
//   - error: *FieldTypeError if the value is not a number.
func OptionalInt(bag Bag, field string, def int) (int, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float32:
		return int(math.Trunc(float64(v))), nil
	case float64:
		return int(math.Trunc(v)), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(math.Trunc(f)), nil
		}
	}
	return 0, typeError(field, "number", raw)
}

// OptionalBag returns the nested bag stored under field.
//
// Returns:
//   - Bag: The nested bag, or nil when absent or null.
//   - bool: True if a bag was present.
//   - error: *FieldTypeError if the value is not an object.
func OptionalBag(bag Bag, field string) (Bag, bool, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return nil, false, nil
	}
	nested, ok := raw.(map[string]any)
	if !ok {
		return nil, false, typeError(field, "object", raw)
	}
	return nested, true, nil
}

// RequireBag returns the nested bag stored under field, failing when it is absent or null.
func RequireBag(bag Bag, field string) (Bag, error) {
	nested, ok, err := OptionalBag(bag, field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.MissingField(field)
	}
	return nested, nil
}

// RequireList returns the array stored under field, failing when it is absent or null.
// An empty array is accepted.
func RequireList(bag Bag, field string) ([]any, error) {
	raw, ok := bag[field]
	if !ok || raw == nil {
		return nil, models.MissingField(field)
	}
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		list := make([]any, len(v))
		for i := range v {
			list[i] = v[i]
		}
		return list, nil
	}
	return nil, typeError(field, "array", raw)
}

// ToStringMap converts a raw property map into a string map.
//
// Keys are visited in ascending lexical order so that the reported key is
// deterministic. A nil value fails with *NonStringPropertyValueError; a value
// that is present but not a string is silently left out of the result.
//
// Parameters:
//   - raw: The raw map.
//
// Returns:
//   - map[string]string: The string-valued entries (never nil on success).
//   - error: *NonStringPropertyValueError for the first null value.
func ToStringMap(raw map[string]any) (map[string]string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, k := range keys {
		v := raw[k]
		if v == nil {
			return nil, &models.NonStringPropertyValueError{Key: k}
		}
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

// StringValues keeps only the non-nil string values of raw. Unlike ToStringMap
// it never fails; null values are dropped like any other non-string value.
func StringValues(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func typeError(field, want string, got any) error {
	return &models.FieldTypeError{Field: field, Want: want, Got: kindOf(got)}
}

// kindOf names the JSON kind of a decoded value.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, int, int32, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
