package models

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrUnknownCurrency        = errors.New("unknown currency")
	ErrNonStringPropertyValue = errors.New("property value is null")
	ErrInvalidFieldType       = errors.New("invalid field type")
	ErrInvalidDeviceToken     = errors.New("invalid device token")
)

// Bridge errors
var (
	ErrNotInitialized = errors.New("bridge module is not initialized")
	ErrInvalidMode    = errors.New("invalid tracking mode")
	ErrExportFailed   = errors.New("failed to export debug logs")
)

// MissingRequiredFieldError reports a required field that was absent, null or empty.
type MissingRequiredFieldError struct {
	Field string // Name of the attribute, as supplied by the caller (e.g. "productId").
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

// Is lets errors.Is match the ErrMissingRequiredField sentinel.
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// MissingField is a shortcut for building a *MissingRequiredFieldError.
func MissingField(field string) error {
	return &MissingRequiredFieldError{Field: field}
}

// NonStringPropertyValueError reports a custom-event property whose value was explicitly null.
type NonStringPropertyValueError struct {
	Key string
}

func (e *NonStringPropertyValueError) Error() string {
	return fmt.Sprintf("the key '%s' has a null value", e.Key)
}

// Is lets errors.Is match the ErrNonStringPropertyValue sentinel.
func (e *NonStringPropertyValueError) Is(target error) bool {
	return target == ErrNonStringPropertyValue
}

// FieldTypeError reports a present, non-null field whose value has the wrong type.
type FieldTypeError struct {
	Field string // Name of the attribute.
	Want  string // Expected type ("string", "number", "object", "array").
	Got   string // Dynamic type that was received.
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s: %s must be a %s, got %s", ErrInvalidFieldType, e.Field, e.Want, e.Got)
}

// Is lets errors.Is match the ErrInvalidFieldType sentinel.
func (e *FieldTypeError) Is(target error) bool {
	return target == ErrInvalidFieldType
}
