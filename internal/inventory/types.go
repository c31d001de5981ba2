// Package inventory provides the in-memory query pipeline and edit-state
// engine for the product browser: filter composition, stable multi-key
// sorting, category aggregation, pagination windowing, and the single-item
// edit coordinator. This package has no transport or UI dependencies and can
// be driven by any frontend.
package inventory

import "context"

// Product is a record owned by the remote store, cached locally as a
// read-mostly snapshot. The snapshot is never the source of truth: after any
// mutation the view discards its copy and re-fetches the authoritative list.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

// ProductInput is the payload for create and update operations.
// Updates are full replaces; there are no partial-field patches.
type ProductInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

// Store is the boundary to the authoritative product collection.
// Implementations live in internal/store (REST, Postgres, memory).
// All operations may fail with TransportError; Update and Delete may fail
// with NotFoundError; Create, Update and BulkImport may fail with
// validation errors (FieldErrors or a server-side ValidationError).
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, in ProductInput) (Product, error)
	Update(ctx context.Context, id string, in ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error

	// BulkImport accepts a tabular file (columns: name, price, stock,
	// category). After it succeeds the whole collection is expected to
	// reflect the imported rows on the next List.
	BulkImport(ctx context.Context, fileName string, data []byte) error
}

// SuggestedCategories is the fixed checklist vocabulary offered by the filter
// UI. It is a suggestion, not a constraint: Product.Category is free-form and
// the aggregated category list always comes from the live collection.
var SuggestedCategories = []string{
	"Electronics", "Groceries", "Books", "Home Goods", "Fitness", "Clothing",
	"Accessories", "Kitchen", "Footwear", "Stationery", "Furniture", "Health",
}

// StockStatus classifies a stock level for display.
type StockStatus string

const (
	StockOut    StockStatus = "out"
	StockLow    StockStatus = "low"
	StockMedium StockStatus = "medium"
	StockHigh   StockStatus = "high"
)

// StatusForStock maps a stock level to its display status.
// lowBelow is the exclusive upper bound for "low" (configured, typically 10).
func StatusForStock(stock, lowBelow int) StockStatus {
	switch {
	case stock == 0:
		return StockOut
	case stock < lowBelow:
		return StockLow
	case stock <= 2*lowBelow:
		return StockMedium
	default:
		return StockHigh
	}
}
