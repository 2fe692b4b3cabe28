package bridge

import (
	"github.com/agbruneau/EventBridge/internal/debug"
	"github.com/agbruneau/EventBridge/pkg/models"
)

// itemsDebugData builds the debug data of an item-carrying event: the item
// count, the raw payload, the details of the first item and the extra keys.
func itemsDebugData(items []models.Item, attrs map[string]any, extra map[string]any) map[string]any {
	data := map[string]any{
		debug.SummaryKeyItemsCount: len(items),
		"payload":                  attrs,
	}
	for k, v := range extra {
		data[k] = v
	}
	if len(items) > 0 {
		data["first_item"] = itemDetails(items[0])
	}
	return data
}

func itemDetails(item models.Item) map[string]any {
	details := map[string]any{
		"productId":        item.ProductID,
		"productVariantId": item.ProductVariantID,
		"price":            item.Price.AmountText(),
		"currency":         item.Price.Currency.String(),
		"quantity":         item.Quantity,
	}
	if item.Name != "" {
		details["name"] = item.Name
	}
	if item.ProductImage != "" {
		details["productImage"] = item.ProductImage
	}
	if item.Category != "" {
		details["category"] = item.Category
	}
	return details
}
