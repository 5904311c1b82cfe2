package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repository = (*MemoryStore)(nil)

// MemoryStore implements Repository with in-memory storage.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	order []string

	newID func() string
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*Cart),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.create().Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.carts[id]
	if !exists {
		return nil, ErrCartNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		s.create()
	}

	result := make([]*Cart, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.carts[id].Clone())
	}
	return result, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func (s *MemoryStore) Save(_ context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[c.ID]; !exists {
		return ErrCartNotFound
	}
	s.carts[c.ID] = c.Clone()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[id]; !exists {
		return ErrCartNotFound
	}
	delete(s.carts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// create must be called with the write lock held.
func (s *MemoryStore) create() *Cart {
	c := New(s.newID(), s.now())
	s.carts[c.ID] = c
	s.order = append(s.order, c.ID)
	return c
}
