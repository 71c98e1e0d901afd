// Package cart хранит корзины сессий до оформления заказа.
// Корзина живёт, пока жива сессия: после перезапуска процесса (memory) или по TTL (redis)
// она может исчезнуть.
package cart

import (
	"context"

	"github.com/gnat1923/ecommerce/internal/domain/models"
)

// Store - хранилище строк корзины по идентификатору сессии.
type Store interface {
	// Load возвращает строки корзины; для неизвестной сессии - пустой срез.
	Load(ctx context.Context, sessionID string) ([]models.StagedItem, error)
	// Append добавляет строку в конец и возвращает корзину целиком.
	Append(ctx context.Context, sessionID string, item models.StagedItem) ([]models.StagedItem, error)
	Clear(ctx context.Context, sessionID string) error
}
