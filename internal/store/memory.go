// Package store provides the adapters behind the inventory.Store boundary:
// the REST client for the hosted product API, a Postgres-backed store for
// self-hosted deployments, and a memory store for development and tests.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
)

// Memory is a mutex-guarded in-process store. It validates payloads with the
// same rules as the real stores so the dev experience matches production.
type Memory struct {
	mu       sync.RWMutex
	order    []string
	products map[string]inventory.Product
}

// NewMemory creates a memory store seeded with the given products.
func NewMemory(seed ...inventory.Product) *Memory {
	m := &Memory{products: make(map[string]inventory.Product, len(seed))}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		m.order = append(m.order, p.ID)
		m.products[p.ID] = p
	}
	return m
}

// List returns the products in insertion order.
func (m *Memory) List(ctx context.Context) ([]inventory.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]inventory.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

// Create validates the payload and stores it under a fresh id.
func (m *Memory) Create(ctx context.Context, in inventory.ProductInput) (inventory.Product, error) {
	if err := inventory.ValidateInput(in); err != nil {
		return inventory.Product{}, err
	}
	p := inventory.Product{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Price:    in.Price,
		Stock:    in.Stock,
		Category: in.Category,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, p.ID)
	m.products[p.ID] = p
	return p, nil
}

// Update replaces every field of the product; there are no partial patches.
func (m *Memory) Update(ctx context.Context, id string, in inventory.ProductInput) (inventory.Product, error) {
	if err := inventory.ValidateInput(in); err != nil {
		return inventory.Product{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return inventory.Product{}, &inventory.NotFoundError{ID: id}
	}
	p := inventory.Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category}
	m.products[id] = p
	return p, nil
}

// Delete removes the product.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return &inventory.NotFoundError{ID: id}
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// BulkImport parses and validates the CSV and replaces the whole collection
// with the imported rows, matching the hosted API's import semantics.
func (m *Memory) BulkImport(ctx context.Context, fileName string, data []byte) error {
	rows, err := ParseProductsCSV(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = m.order[:0]
	m.products = make(map[string]inventory.Product, len(rows))
	for _, in := range rows {
		p := inventory.Product{
			ID:       uuid.New().String(),
			Name:     in.Name,
			Price:    in.Price,
			Stock:    in.Stock,
			Category: in.Category,
		}
		m.order = append(m.order, p.ID)
		m.products[p.ID] = p
	}
	return nil
}
