package models

import "github.com/shopspring/decimal"

// StagedItem - строка корзины, ещё не ставшая позицией заказа.
// Subtotal считается один раз при добавлении и дальше не пересчитывается.
type StagedItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewStagedItem фиксирует текущую цену товара
func NewStagedItem(product *Product, quantity int) StagedItem {
	return StagedItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Cart - корзина одной сессии
type Cart struct {
	SessionID string
	Items     []StagedItem
}

// Total возвращает сумму подытогов всех строк корзины
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
