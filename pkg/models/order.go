/*
Package models defines the commerce domain values shared by the bridge.

This package contains Money, Item and Order, the building blocks of every
tracked commerce event. Values are transient: they are built from a caller's
attribute bag, handed to the tracking collaborator and then discarded.
*/
package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultItemQuantity is the quantity assigned to an item when the caller omits it.
const DefaultItemQuantity = 1

// Money is a priced amount in a given ISO 4217 currency.
// The amount is an exact decimal; it never goes through a float.
type Money struct {
	Amount   decimal.Decimal // Exact amount, as parsed from the caller's text.
	Currency currency.Unit   // ISO 4217 currency.
}

// AmountText returns the amount with the same number of fractional digits it was parsed with.
//
// Returns:
//   - string: The decimal representation (e.g. "10.50" stays "10.50").
func (m Money) AmountText() string {
	if exp := m.Amount.Exponent(); exp < 0 {
		return m.Amount.StringFixed(-exp)
	}
	return m.Amount.String()
}

// String returns the amount followed by the currency code.
func (m Money) String() string {
	return m.AmountText() + " " + m.Currency.String()
}

// Equal reports whether both values have the same numeric amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.Currency == other.Currency
}

type moneyJSON struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes Money as {"price": "<amount>", "currency": "<code>"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Price: m.AmountText(), Currency: m.Currency.String()})
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, raw.Price)
	}
	unit, err := currency.ParseISO(raw.Currency)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, raw.Currency)
	}
	m.Amount = amount
	m.Currency = unit
	return nil
}

// Item represents a sellable unit referenced by a commerce event.
type Item struct {
	ProductID        string `json:"productId"`              // Product identifier (required).
	ProductVariantID string `json:"productVariantId"`       // Variant identifier (required).
	Price            Money  `json:"price"`                  // Unit price (required).
	ProductImage     string `json:"productImage,omitempty"` // Optional image URL.
	Name             string `json:"name,omitempty"`         // Optional display name.
	Quantity         int    `json:"quantity"`               // Quantity, DefaultItemQuantity when omitted.
	Category         string `json:"category,omitempty"`     // Optional category.
}

// Validate checks that an item carries its required identifiers.
//
// Returns:
//   - error: A *MissingRequiredFieldError naming the first missing field.
func (item *Item) Validate() error {
	if item.ProductID == "" {
		return MissingField("productId")
	}
	if item.ProductVariantID == "" {
		return MissingField("productVariantId")
	}
	return nil
}

// Order is a reference to a completed transaction.
type Order struct {
	OrderID string `json:"orderId"`
}

// Validate checks that the order id is present.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return MissingField("orderId")
	}
	return nil
}

// validateItems validates every item of an event, prefixing errors with the item position.
func validateItems(items []Item) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}
