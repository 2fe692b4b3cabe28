/*
Package builder converts raw attribute bags into typed commerce events.

Every builder is a pure function: the same bag always yields the same event or
the same error, and no builder has side effects. Builders report the first
violated invariant with a typed error from pkg/models.
*/
package builder

import (
	"fmt"

	"github.com/agbruneau/EventBridge/internal/attrs"
	"github.com/agbruneau/EventBridge/pkg/models"
)

// Attribute keys accepted in item bags.
const (
	KeyProductID        = "productId"
	KeyProductVariantID = "productVariantId"
	KeyPrice            = "price"
	KeyCurrency         = "currency"
	KeyProductImage     = "productImage"
	KeyName             = "name"
	KeyQuantity         = "quantity"
	KeyCategory         = "category"
)

// Attribute keys accepted in event bags.
const (
	KeyItems             = "items"
	KeyDeeplink          = "deeplink"
	KeyOrder             = "order"
	KeyOrderID           = "orderId"
	KeyLegacyOrderID     = "id"
	KeyCartID            = "cartId"
	KeyCartCoupon        = "cartCoupon"
	KeyType              = "type"
	KeyProperties        = "properties"
	KeyPhone             = "phone"
	KeyEmail             = "email"
	KeyKlaviyoID         = "klaviyoId"
	KeyShopifyID         = "shopifyId"
	KeyClientUserID      = "clientUserId"
	KeyCustomIdentifiers = "customIdentifiers"
)

// BuildMoney reads a price from an item bag.
//
// Two shapes are accepted: the flattened one ({"price": "9.99", "currency": "USD"})
// and the nested one ({"price": {"price": "9.99", "currency": "USD"}}).
//
// Returns:
//   - models.Money: The parsed price.
//   - error: A missing field, type, amount or currency error.
func BuildMoney(bag attrs.Bag) (models.Money, error) {
	source := bag
	if nested, ok := bag[KeyPrice].(map[string]any); ok {
		source = nested
	}

	amount, err := attrs.RequireNonEmptyString(source, KeyPrice)
	if err != nil {
		return models.Money{}, err
	}
	code, err := attrs.RequireNonEmptyString(source, KeyCurrency)
	if err != nil {
		return models.Money{}, err
	}
	return attrs.ParseMoney(amount, code)
}

// BuildItem builds an item from its attribute bag.
// productId, productVariantId and the price are required; every other field is optional.
func BuildItem(bag attrs.Bag) (models.Item, error) {
	productID, err := attrs.RequireNonEmptyString(bag, KeyProductID)
	if err != nil {
		return models.Item{}, err
	}
	variantID, err := attrs.RequireNonEmptyString(bag, KeyProductVariantID)
	if err != nil {
		return models.Item{}, err
	}
	price, err := BuildMoney(bag)
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		ProductID:        productID,
		ProductVariantID: variantID,
		Price:            price,
	}
	if item.ProductImage, err = attrs.OptionalString(bag, KeyProductImage); err != nil {
		return models.Item{}, err
	}
	if item.Name, err = attrs.OptionalString(bag, KeyName); err != nil {
		return models.Item{}, err
	}
	if item.Quantity, err = attrs.OptionalInt(bag, KeyQuantity, models.DefaultItemQuantity); err != nil {
		return models.Item{}, err
	}
	if item.Category, err = attrs.OptionalString(bag, KeyCategory); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// BuildItems builds the ordered item list stored under "items".
// An empty list is legal; the position of a failing item is added to the error.
func BuildItems(bag attrs.Bag) ([]models.Item, error) {
	rawItems, err := attrs.RequireList(bag, KeyItems)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(rawItems))
	for i, raw := range rawItems {
		itemBag, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: %w", i+1, &models.FieldTypeError{Field: KeyItems, Want: "object", Got: fmt.Sprintf("%T", raw)})
		}
		item, err := BuildItem(itemBag)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// BuildOrder reads the order reference of a purchase bag.
// The id is looked up in "order.orderId", then "order.id", then the flattened "orderId".
func BuildOrder(bag attrs.Bag) (models.Order, error) {
	orderBag, ok, err := attrs.OptionalBag(bag, KeyOrder)
	if err != nil {
		return models.Order{}, err
	}
	if ok {
		key := KeyOrderID
		if _, has := orderBag[KeyOrderID]; !has {
			if _, has := orderBag[KeyLegacyOrderID]; has {
				key = KeyLegacyOrderID
			}
		}
		id, err := attrs.RequireNonEmptyString(orderBag, key)
		if err != nil {
			return models.Order{}, err
		}
		return models.Order{OrderID: id}, nil
	}

	id, err := attrs.RequireNonEmptyString(bag, KeyOrderID)
	if err != nil {
		return models.Order{}, err
	}
	return models.Order{OrderID: id}, nil
}

// BuildProductView builds a product view event. The deeplink is kept verbatim.
func BuildProductView(bag attrs.Bag) (*models.ProductViewEvent, error) {
	items, err := BuildItems(bag)
	if err != nil {
		return nil, err
	}
	deeplink, err := attrs.OptionalString(bag, KeyDeeplink)
	if err != nil {
		return nil, err
	}
	return &models.ProductViewEvent{Items: items, Deeplink: deeplink}, nil
}

// BuildAddToCart builds an add-to-cart event. The deeplink is kept verbatim.
func BuildAddToCart(bag attrs.Bag) (*models.AddToCartEvent, error) {
	items, err := BuildItems(bag)
	if err != nil {
		return nil, err
	}
	deeplink, err := attrs.OptionalString(bag, KeyDeeplink)
	if err != nil {
		return nil, err
	}
	return &models.AddToCartEvent{Items: items, Deeplink: deeplink}, nil
}

// BuildPurchase builds a purchase event. Cart id and coupon pass through unvalidated.
func BuildPurchase(bag attrs.Bag) (*models.PurchaseEvent, error) {
	items, err := BuildItems(bag)
	if err != nil {
		return nil, err
	}
	order, err := BuildOrder(bag)
	if err != nil {
		return nil, err
	}

	event := &models.PurchaseEvent{Items: items, Order: order}
	if event.CartID, err = attrs.OptionalString(bag, KeyCartID); err != nil {
		return nil, err
	}
	if event.CartCoupon, err = attrs.OptionalString(bag, KeyCartCoupon); err != nil {
		return nil, err
	}
	return event, nil
}

// BuildCustomEvent builds a custom event.
//
// The properties bag itself is required and checked before its entries: an
// absent or null "properties" fails with MissingRequiredField("properties").
// Entries then go through attrs.ToStringMap.
func BuildCustomEvent(bag attrs.Bag) (*models.CustomEvent, error) {
	eventType, err := attrs.RequireNonEmptyString(bag, KeyType)
	if err != nil {
		return nil, err
	}
	rawProperties, err := attrs.RequireBag(bag, KeyProperties)
	if err != nil {
		return nil, err
	}
	properties, err := attrs.ToStringMap(rawProperties)
	if err != nil {
		return nil, err
	}
	return &models.CustomEvent{Type: eventType, Properties: properties}, nil
}

// BuildUserIdentifiers builds an identity record.
// Fields are copied only when they hold a non-empty string; nothing is required.
func BuildUserIdentifiers(bag attrs.Bag) (*models.UserIdentifiers, error) {
	ids := &models.UserIdentifiers{}
	fields := []struct {
		key string
		dst *string
	}{
		{KeyPhone, &ids.Phone},
		{KeyEmail, &ids.Email},
		{KeyKlaviyoID, &ids.KlaviyoID},
		{KeyShopifyID, &ids.ShopifyID},
		{KeyClientUserID, &ids.ClientUserID},
	}
	for _, f := range fields {
		v, err := attrs.OptionalString(bag, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	custom, ok, err := attrs.OptionalBag(bag, KeyCustomIdentifiers)
	if err != nil {
		return nil, err
	}
	if ok {
		values := attrs.StringValues(custom)
		for k, v := range values {
			if v == "" {
				delete(values, k)
			}
		}
		if len(values) > 0 {
			ids.CustomIdentifiers = values
		}
	}
	return ids, nil
}
