package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnat1923/ecommerce/internal/cart"
	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
)

// OrderLine - позиция запроса на заказ в обход корзины
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// OrderService оформляет заказы и отдаёт их на чтение.
type OrderService interface {
	// Commit атомарно пишет шапку заказа и все позиции: либо всё, либо ничего.
	Commit(ctx context.Context, customerID int64, items []models.StagedItem) (*models.Order, error)
	// Checkout оформляет корзину сессии и очищает её только после успешного коммита.
	Checkout(ctx context.Context, sessionID string, customerID int64) (*models.Order, error)
	// PlaceOrder проверяет строки по тем же правилам, что и корзина, и оформляет заказ.
	PlaceOrder(ctx context.Context, customerID int64, lines []OrderLine) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	ListOrdersForCustomer(ctx context.Context, customerID int64) ([]*models.Order, error)
	ListOrdersForProduct(ctx context.Context, productID int64) ([]*models.Order, error)
}

type orderService struct {
	log          *slog.Logger
	db           *sql.DB
	customerRepo storage.CustomerStorage
	productRepo  storage.ProductStorage
	orderRepo    storage.OrderStorage
	carts        cart.Store
}

func NewOrderService(
	log *slog.Logger,
	db *sql.DB,
	customerRepo storage.CustomerStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	carts cart.Store,
) OrderService {
	return &orderService{
		log:          log,
		db:           db,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		carts:        carts,
	}
}

// Commit создаёт шапку заказа, получает её id и пишет позиции в той же транзакции.
// Любая ошибка после BeginTx откатывает всё.
func (s *orderService) Commit(ctx context.Context, customerID int64, items []models.StagedItem) (*models.Order, error) {
	const op = "service.OrderService.Commit"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("customerID", customerID),
		slog.Int("lines", len(items)),
	)

	if len(items) == 0 {
		logger.Warn("empty order rejected")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%s: %w: quantity must be at least 1", op, ErrValidation)
		}
	}

	logger.Info("starting order transaction")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	customer, err := s.customerRepo.LockCustomerByIDTx(ctx, tx, customerID)
	if err != nil {
		rollback(tx, logger)
		if errors.Is(err, storage.ErrCustomerNotFound) {
			logger.Warn("customer not found")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
		logger.Error("failed to get customer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}
	if !customer.Active {
		rollback(tx, logger)
		logger.Warn("customer is inactive")
		return nil, fmt.Errorf("%s: %w: customer %d is inactive", op, ErrValidation, customerID)
	}

	order, err := s.orderRepo.CreateOrder(ctx, tx, customerID)
	if err != nil {
		rollback(tx, logger)
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	order.Items = make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItem, err := s.orderRepo.CreateOrderItem(ctx, tx, order.ID, item)
		if err != nil {
			rollback(tx, logger)
			if storage.IsForeignKeyViolation(err) {
				logger.Error("order item references a missing row", slog.Int64("productID", item.ProductID))
			} else {
				logger.Error("failed to create order item", slog.Any("error", err))
			}
			return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
		}
		order.Items = append(order.Items, *orderItem)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	logger.Info("order committed", slog.Int64("orderID", order.ID), slog.String("total", order.Total().String()))
	return order, nil
}

func (s *orderService) Checkout(ctx context.Context, sessionID string, customerID int64) (*models.Order, error) {
	const op = "service.OrderService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.String("sessionID", sessionID))

	items, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.Commit(ctx, customerID, items)
	if err != nil {
		// корзина остаётся как была, пользователь может повторить
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// заказ уже зафиксирован, поэтому не откатываем его из-за корзины
		logger.Error("order committed but cart was not cleared", slog.Int64("orderID", order.ID), slog.Any("error", err))
	}
	return order, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, customerID int64, lines []OrderLine) (*models.Order, error) {
	const op = "service.OrderService.PlaceOrder"

	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}

	items := make([]models.StagedItem, 0, len(lines))
	for _, line := range lines {
		item, err := stageItem(ctx, s.productRepo, line.ProductID, line.Quantity)
		if err != nil {
			s.log.Warn("order line rejected", slog.String("op", op), slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	return s.Commit(ctx, customerID, items)
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(op, err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ListOrdersForCustomer отличает неизвестного покупателя (ErrNotFound) от покупателя без заказов.
func (s *orderService) ListOrdersForCustomer(ctx context.Context, customerID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrdersForCustomer"
	if _, err := s.customerRepo.GetCustomerByID(ctx, customerID); err != nil {
		return nil, wrapLookupErr(op, err)
	}
	orders, err := s.orderRepo.ListOrdersByCustomerID(ctx, customerID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListOrdersForProduct(ctx context.Context, productID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrdersForProduct"
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, wrapLookupErr(op, err)
	}
	orders, err := s.orderRepo.ListOrdersByProductID(ctx, productID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
