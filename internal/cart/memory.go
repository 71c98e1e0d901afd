package cart

import (
	"context"
	"sync"
	"time"

	"github.com/gnat1923/ecommerce/internal/domain/models"
)

type memoryEntry struct {
	items     []models.StagedItem
	touchedAt time.Time
}

// MemoryStore держит корзины в памяти процесса. Корзины, к которым не обращались дольше ttl,
// считаются брошенными и удаляются при следующем обращении к ним.
type MemoryStore struct {
	mu      sync.Mutex
	carts   map[string]*memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts:   make(map[string]*memoryEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// entry возвращает живую запись; вызывается под mu
func (s *MemoryStore) entry(sessionID string) *memoryEntry {
	e, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.nowFunc().Sub(e.touchedAt) > s.ttl {
		delete(s.carts, sessionID)
		return nil
	}
	return e
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]models.StagedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID)
	if e == nil {
		return []models.StagedItem{}, nil
	}
	e.touchedAt = s.nowFunc()
	return copyItems(e.items), nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, item models.StagedItem) ([]models.StagedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(sessionID)
	if e == nil {
		e = &memoryEntry{}
		s.carts[sessionID] = e
	}
	e.items = append(e.items, item)
	e.touchedAt = s.nowFunc()
	return copyItems(e.items), nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// вызывающий не должен менять внутреннее состояние через возвращённый срез
func copyItems(items []models.StagedItem) []models.StagedItem {
	out := make([]models.StagedItem, len(items))
	copy(out, items)
	return out
}
