package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
)

// Postgres backs the store with a products table for self-hosted
// deployments, mirroring the hosted API's semantics: full-replace updates
// and a bulk import that leaves the table holding exactly the imported rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates the adapter over an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is the DDL for the products table, applied by EnsureSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id       text PRIMARY KEY,
	name     text NOT NULL,
	price    double precision NOT NULL,
	stock    integer NOT NULL,
	category text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
)`

// EnsureSchema creates the products table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return &inventory.TransportError{Op: "ensureSchema", Err: err}
	}
	return nil
}

// List returns all products in insertion order.
func (s *Postgres) List(ctx context.Context) ([]inventory.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price, stock, category FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, &inventory.TransportError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []inventory.Product
	for rows.Next() {
		var p inventory.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category); err != nil {
			return nil, &inventory.TransportError{Op: "list", Err: fmt.Errorf("scan row: %w", err)}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &inventory.TransportError{Op: "list", Err: err}
	}
	return out, nil
}

// Create validates and inserts a product under a fresh id.
func (s *Postgres) Create(ctx context.Context, in inventory.ProductInput) (inventory.Product, error) {
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
	_, err := s.pool.Exec(ctx,
		`INSERT INTO products (id, name, price, stock, category) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Price, p.Stock, p.Category)
	if err != nil {
		return inventory.Product{}, &inventory.TransportError{Op: "create", Err: err}
	}
	return p, nil
}

// Update replaces every field of the product.
func (s *Postgres) Update(ctx context.Context, id string, in inventory.ProductInput) (inventory.Product, error) {
	if err := inventory.ValidateInput(in); err != nil {
		return inventory.Product{}, err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, stock = $4, category = $5 WHERE id = $1`,
		id, in.Name, in.Price, in.Stock, in.Category)
	if err != nil {
		return inventory.Product{}, &inventory.TransportError{Op: "update", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return inventory.Product{}, &inventory.NotFoundError{ID: id}
	}
	return inventory.Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category}, nil
}

// Delete removes the product.
func (s *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return &inventory.TransportError{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &inventory.NotFoundError{ID: id}
	}
	return nil
}

// BulkImport parses and validates the CSV, then replaces the table contents
// in one transaction using the COPY protocol for the inserts. A failure at
// any point rolls the whole import back, leaving the previous rows in place.
func (s *Postgres) BulkImport(ctx context.Context, fileName string, data []byte) error {
	rows, err := ParseProductsCSV(data)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}

	copyRows := make([][]any, len(rows))
	for i, in := range rows {
		copyRows[i] = []any{uuid.New().String(), in.Name, in.Price, in.Stock, in.Category}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"id", "name", "price", "stock", "category"},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: fmt.Errorf("copy %d rows from %s: %w", len(rows), fileName, err)}
	}

	if err := tx.Commit(ctx); err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}
	return nil
}
