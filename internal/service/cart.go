package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnat1923/ecommerce/internal/cart"
	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
)

// CartService накапливает позиции будущего заказа в корзине сессии.
type CartService interface {
	// AddItem всегда добавляет новую строку, даже если товар уже есть в корзине.
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error)
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	log         *slog.Logger
	carts       cart.Store
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, carts cart.Store, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		carts:       carts,
		productRepo: productRepo,
	}
}

// AddItem фиксирует цену товара в момент добавления; при оформлении заказа цена
// повторно не проверяется.
func (s *cartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("sessionID", sessionID),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	item, err := stageItem(ctx, s.productRepo, productID, quantity)
	if err != nil {
		logger.Warn("item rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.carts.Append(ctx, sessionID, item)
	if err != nil {
		logger.Error("failed to store cart item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("item added to cart", slog.Int("lines", len(items)))
	return &models.Cart{SessionID: sessionID, Items: items}, nil
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	const op = "service.CartService.Get"
	items, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		s.log.Error("failed to load cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Cart{SessionID: sessionID, Items: items}, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	const op = "service.CartService.Clear"
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.log.Error("failed to clear cart", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("cart cleared", slog.String("op", op), slog.String("sessionID", sessionID))
	return nil
}
