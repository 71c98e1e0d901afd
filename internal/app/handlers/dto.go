package handlers

import (
	"time"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/shopspring/decimal"
)

// деньги отдаём строкой с двумя знаками, чтобы клиент не терял точность
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type CustomerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

func toCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Active: c.Active}
}

func toCustomerList(customers []*models.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

type ProductResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Active bool   `json:"active"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: money(p.Price), Active: p.Active}
}

func toProductList(products []*models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type OrderItemResponse struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customer_id"`
	CreatedAt  time.Time           `json:"created_at"`
	Total      string              `json:"total"`
	Items      []OrderItemResponse `json:"items"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Subtotal:  money(item.Subtotal()),
		})
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		CreatedAt:  o.CreatedAt,
		Total:      money(o.Total()),
		Items:      items,
	}
}

func toOrderList(orders []*models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

type CartItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type CartResponse struct {
	SessionID string             `json:"session_id"`
	Items     []CartItemResponse `json:"items"`
	Total     string             `json:"total"`
}

func toCartResponse(c *models.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   money(item.UnitPrice),
			Quantity:    item.Quantity,
			Subtotal:    money(item.Subtotal),
		})
	}
	return CartResponse{SessionID: c.SessionID, Items: items, Total: money(c.Total())}
}
