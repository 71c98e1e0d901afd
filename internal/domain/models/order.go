package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет оформленный заказ вместе с позициями
type Order struct {
	ID         int64
	CustomerID int64
	Items      []OrderItem // в порядке добавления
	CreatedAt  time.Time
}

// Total возвращает сумму всех позиций заказа
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderItem - позиция заказа
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal // цена, зафиксированная в момент добавления в корзину
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
