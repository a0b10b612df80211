// Package repository owns the product catalog behind the inventory service.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/chaoslab/commerce/pkg/apierr"
)

// Product is one catalog entry.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Stock int     `json:"stock"`
	Price float64 `json:"price"`
}

// ProductStore is the catalog abstraction the service depends on. Reads are
// idempotent; Reserve checks availability without consuming stock (the
// harness simulates reservations, it does not fulfil them).
type ProductStore interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	// Reserve validates a reservation. On insufficient stock (or an unknown
	// product, treated as zero stock) it returns the current availability
	// together with apierr.ErrInsufficientStock.
	Reserve(ctx context.Context, id string, quantity int) (available int, err error)
}

// MemoryStore is the in-process ProductStore used by default.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]*Product)}
}

// NewSeededStore creates a store with the demo catalog.
func NewSeededStore() *MemoryStore {
	s := NewMemoryStore()
	for _, p := range []*Product{
		{ID: "1", Name: "Laptop", Stock: 50, Price: 15000},
		{ID: "2", Name: "Phone", Stock: 100, Price: 8000},
		{ID: "3", Name: "Tablet", Stock: 30, Price: 5000},
		{ID: "4", Name: "Headset", Stock: 200, Price: 500},
		{ID: "5", Name: "Charger", Stock: 500, Price: 150},
	} {
		s.Put(p)
	}
	return s
}

// Put inserts or replaces a product.
func (s *MemoryStore) Put(p *Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apierr.Newf(apierr.CodeNotFound, "product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Reserve(_ context.Context, id string, quantity int) (int, error) {
	if quantity < 1 {
		return 0, apierr.ErrInvalidParam
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		// unknown product counts as zero stock
		return 0, apierr.ErrInsufficientStock
	}
	if p.Stock < quantity {
		return p.Stock, apierr.ErrInsufficientStock
	}
	return p.Stock, nil
}
