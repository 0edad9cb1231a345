package memory

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartStore はプロセス内のカート明細ストア
// (user_id, product_id) の一意性はインデックスで守る。
type CartStore struct {
	mu     sync.RWMutex
	lines  map[string]model.CartLine
	byPair map[string]string
}

func NewCartStore() *CartStore {
	return &CartStore{
		lines:  make(map[string]model.CartLine),
		byPair: make(map[string]string),
	}
}

func pairKey(userID, productID string) string {
	return userID + "/" + productID
}

func (s *CartStore) Insert(_ context.Context, line model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(line.UserID, line.ProductID)
	if _, ok := s.byPair[key]; ok {
		return repo.ErrDuplicate
	}
	if _, ok := s.lines[line.ID]; ok {
		return repo.ErrDuplicate
	}
	s.lines[line.ID] = line
	s.byPair[key] = line.ID
	return nil
}

func (s *CartStore) UpdateQuantity(_ context.Context, lineID string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[lineID]
	if !ok {
		return repo.ErrNotFound
	}
	line.Quantity = qty
	s.lines[lineID] = line
	return nil
}

func (s *CartStore) DeleteByID(_ context.Context, userID string, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[lineID]
	if !ok || line.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.lines, lineID)
	delete(s.byPair, pairKey(line.UserID, line.ProductID))
	return nil
}

func (s *CartStore) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, line := range s.lines {
		if line.UserID != userID {
			continue
		}
		delete(s.lines, id)
		delete(s.byPair, pairKey(line.UserID, line.ProductID))
		n++
	}
	return n, nil
}

func (s *CartStore) FindByUserAndProduct(_ context.Context, userID string, productID string) (model.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[pairKey(userID, productID)]
	if !ok {
		return model.CartLine{}, repo.ErrNotFound
	}
	return s.lines[id], nil
}

func (s *CartStore) FindByID(_ context.Context, userID string, lineID string) (model.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[lineID]
	if !ok || line.UserID != userID {
		return model.CartLine{}, repo.ErrNotFound
	}
	return line, nil
}

func (s *CartStore) ListByUser(_ context.Context, userID string) ([]model.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]model.CartLine, 0)
	for _, line := range s.lines {
		if line.UserID == userID {
			lines = append(lines, line)
		}
	}

	// 新しい順（同時刻はID降順）
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].ID > lines[j].ID
		}
		return lines[i].CreatedAt.After(lines[j].CreatedAt)
	})
	return lines, nil
}
