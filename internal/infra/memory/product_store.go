package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]model.Product)}
}

// Put は商品を追加または上書きする
func (s *ProductStore) Put(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// SetStock は在庫数だけ差し替える（カタログ側の在庫変動）
func (s *ProductStore) SetStock(productID string, stock int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return false
	}
	p.Stock = stock
	s.products[productID] = p
	return true
}

func (s *ProductStore) Delete(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, productID)
}

func (s *ProductStore) matches(p model.Product, q repo.ProductListQuery) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

func (s *ProductStore) List(_ context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]model.Product, 0)
	for _, p := range s.products {
		if s.matches(p, q) {
			hits = append(hits, p)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].ID > hits[j].ID
		}
		return hits[i].CreatedAt.After(hits[j].CreatedAt)
	})

	total := int64(len(hits))
	start := (q.Page - 1) * q.Limit
	if start < 0 || start >= len(hits) {
		return []model.Product{}, total, nil
	}
	end := start + q.Limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end], total, nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (s *ProductStore) FindByIDs(_ context.Context, ids []string) (map[string]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *ProductStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *ProductStore) CategoryStats(_ context.Context) ([]model.CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[string]*model.CategoryStat)
	for _, p := range s.products {
		st, ok := byCategory[p.Category]
		if !ok {
			byCategory[p.Category] = &model.CategoryStat{
				Category: p.Category,
				Count:    1,
				MinPrice: p.Price,
				MaxPrice: p.Price,
			}
			continue
		}
		st.Count++
		if p.Price.LessThan(st.MinPrice) {
			st.MinPrice = p.Price
		}
		if p.Price.GreaterThan(st.MaxPrice) {
			st.MaxPrice = p.Price
		}
	}

	stats := make([]model.CategoryStat, 0, len(byCategory))
	for _, st := range byCategory {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}

func (s *ProductStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *ProductStore) CreateBulk(_ context.Context, products []model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		if _, ok := s.products[p.ID]; ok {
			return repo.ErrDuplicate
		}
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return nil
}
