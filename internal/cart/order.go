package cart

import (
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// BuildOrder собирает заказ из корзины
// размер и цена позиции в заказ не попадают, только id вкусов
func BuildOrder(items model.Cart, at time.Time) model.Order {
	lineItems := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, model.LineItem{
			OrderID: model.DefaultOrderID,
			Flavor:  model.FlavorSelection{FlavorIDs: item.FlavorIDs()},
		})
	}

	return model.Order{
		CustomerID: model.DefaultCustomerID,
		OrderDate:  at.UTC(),
		Status:     model.StatusPending,
		Total:      items.Total(),
		LineItems:  lineItems,
	}
}
