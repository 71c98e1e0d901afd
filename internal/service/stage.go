package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
)

// stageItem проверяет количество и товар и фиксирует его текущую цену.
// Неизвестный и неактивный товар одинаково считаются ошибкой валидации.
func stageItem(ctx context.Context, products storage.ProductStorage, productID int64, quantity int) (models.StagedItem, error) {
	if quantity < 1 {
		return models.StagedItem{}, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrValidation, quantity)
	}
	// order_items.quantity - INTEGER
	if quantity > math.MaxInt32 {
		return models.StagedItem{}, fmt.Errorf("%w: quantity must be at most %d, got %d", ErrValidation, math.MaxInt32, quantity)
	}

	product, err := products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return models.StagedItem{}, fmt.Errorf("%w: product %d not found", ErrValidation, productID)
		}
		return models.StagedItem{}, fmt.Errorf("failed to get product: %w", err)
	}
	if !product.Active {
		return models.StagedItem{}, fmt.Errorf("%w: product %d is not available", ErrValidation, productID)
	}

	return models.NewStagedItem(product, quantity), nil
}
