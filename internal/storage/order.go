package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/lib/pq"
)

// OrderStorage описывает методы для работы с заказами и их позициями.
type OrderStorage interface {
	// CreateOrder вставляет шапку заказа в рамках транзакции и возвращает присвоенный id.
	CreateOrder(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error)
	// CreateOrderItem вставляет одну позицию заказа в рамках той же транзакции.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item models.StagedItem) (*models.OrderItem, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error)
	// ListOrdersByProductID возвращает заказы, в которых есть хотя бы одна позиция с товаром.
	ListOrdersByProductID(ctx context.Context, productID int64) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error) {
	order := &models.Order{CustomerID: customerID}
	err := tx.QueryRowContext(ctx,
		"INSERT INTO orders (customer_id) VALUES ($1) RETURNING id, created_at", customerID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item models.StagedItem) (*models.OrderItem, error) {
	orderItem := &models.OrderItem{
		OrderID:   orderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		orderID, item.ProductID, item.Quantity, item.UnitPrice,
	).Scan(&orderItem.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return orderItem, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx, "SELECT id, customer_id, created_at FROM orders WHERE id = $1", id)
	if err := row.Scan(&order.ID, &order.CustomerID, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return r.listOrders(ctx, "SELECT id, customer_id, created_at FROM orders ORDER BY id")
}

func (r *orderRepository) ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error) {
	return r.listOrders(ctx,
		"SELECT id, customer_id, created_at FROM orders WHERE customer_id = $1 ORDER BY id", customerID)
}

func (r *orderRepository) ListOrdersByProductID(ctx context.Context, productID int64) ([]*models.Order, error) {
	return r.listOrders(ctx, `
		SELECT o.id, o.customer_id, o.created_at
		FROM orders o
		WHERE EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.product_id = $1)
		ORDER BY o.id`, productID)
}

// listOrders читает шапки заказов, затем одним запросом подтягивает их позиции
func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = []models.OrderItem{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
