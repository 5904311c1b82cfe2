package catalog

import (
	"context"
	"sync"
)

// Ensure Memory implements the port at compile time.
var _ Repository = (*Memory)(nil)

// Memory is an arena of products indexed by id.
type Memory struct {
	mu       sync.RWMutex
	products map[int64]*Product
	order    []int64
}

// NewMemory builds an arena seeded with the given products.
func NewMemory(products ...Product) *Memory {
	m := &Memory{
		products: make(map[int64]*Product, len(products)),
	}
	for _, p := range products {
		m.Put(p)
	}
	return m
}

// Put loads a product. A second Put with the same id replaces the record but
// keeps its original listing position.
func (m *Memory) Put(p Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	product := p
	m.products[p.ID] = &product
}

func (m *Memory) FindByID(_ context.Context, id int64) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return Product{}, ErrProductNotFound
	}
	return *product, nil
}

func (m *Memory) List(_ context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Product, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.products[id])
	}
	return result, nil
}

func (m *Memory) AdjustStock(_ context.Context, id int64, newStock int) {
	if newStock < 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if product, exists := m.products[id]; exists {
		product.Stock = newStock
	}
}

// Len returns the number of loaded products.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
