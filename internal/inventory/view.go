package inventory

import (
	"context"
	"sync"
)

// ViewConfig carries the constants the pipeline must accept as configuration
// rather than hard-code: page size, page-number window size, and the
// exclusive low-stock threshold.
type ViewConfig struct {
	ItemsPerPage  int
	PageWindow    int
	LowStockBelow int
}

// Defaults observed in the shipped UI.
const (
	DefaultItemsPerPage  = 9
	DefaultPageWindow    = 5
	DefaultLowStockBelow = 10
)

func (c ViewConfig) withDefaults() ViewConfig {
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = DefaultItemsPerPage
	}
	if c.PageWindow <= 0 {
		c.PageWindow = DefaultPageWindow
	}
	if c.LowStockBelow <= 0 {
		c.LowStockBelow = DefaultLowStockBelow
	}
	return c
}

// Item is a product annotated for rendering: its stock badge classification
// and whether it currently holds the edit draft. The annotation is derived by
// id comparison against the coordinator, never written into the cache.
type Item struct {
	Product
	Status    StockStatus `json:"status"`
	IsEditing bool        `json:"isEditing"`
}

// Snapshot is the fully-composed render model for the current page.
type Snapshot struct {
	Items         []Item   `json:"items"`
	TotalProducts int      `json:"totalProducts"`
	TotalFiltered int      `json:"totalFiltered"`
	Page          Page     `json:"page"`
	Categories    []string `json:"categories"`

	// SuggestedCategories is the fixed checklist vocabulary; Categories is
	// what the live collection actually contains.
	SuggestedCategories []string `json:"suggestedCategories"`

	Criteria Criteria `json:"criteria"`
	SortKey  SortKey  `json:"sortKey"`

	EditPhase   string      `json:"editPhase"`
	EditingID   string      `json:"editingId,omitempty"`
	Draft       *Draft      `json:"draft,omitempty"`
	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`

	// LoadError is the surfaced message from a failed List; the collection
	// is treated as empty until a reload succeeds.
	LoadError string `json:"loadError,omitempty"`
}

// View orchestrates the pipeline: it owns the cached snapshot, the current
// criteria, sort key and page, and recomputes filter -> sort -> page on every
// change. A criteria or sort-key change resets the page to 1 in the same
// critical section, so no render can observe a stale page with new criteria.
//
// All methods are safe for concurrent use; operations are serialized, which
// also gives the coordinator its single-outstanding-save guarantee.
type View struct {
	mu    sync.Mutex
	store Store
	cfg   ViewConfig

	products []Product
	criteria Criteria
	sortKey  SortKey
	page     int
	loadErr  error

	editor *Editor
}

// NewView creates an orchestrator over the given store. The initial state is
// an empty snapshot on page 1 with no criteria; call Reload to populate it.
func NewView(store Store, cfg ViewConfig) *View {
	v := &View{
		store: store,
		cfg:   cfg.withDefaults(),
		page:  1,
	}
	v.editor = NewEditor(store, v.lookupLocked, v.reloadLocked)
	return v
}

// Config returns the effective configuration after defaulting.
func (v *View) Config() ViewConfig { return v.cfg }

// lookupLocked resolves an id against the cached snapshot. Callers hold v.mu.
func (v *View) lookupLocked(id string) (Product, bool) {
	for _, p := range v.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// reloadLocked re-fetches the authoritative collection. A transport failure
// degrades to an empty snapshot plus a surfaced error; prior filter, sort and
// edit state are left intact. Callers hold v.mu.
func (v *View) reloadLocked(ctx context.Context) error {
	products, err := v.store.List(ctx)
	if err != nil {
		v.products = nil
		v.loadErr = err
		return err
	}
	v.products = products
	v.loadErr = nil
	return nil
}

// Reload discards the local snapshot and re-fetches the authoritative list.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloadLocked(ctx)
}

// SetCriteria replaces the filter criteria and resets the page to 1.
func (v *View) SetCriteria(c Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = c
	v.page = 1
}

// SetSortKey replaces the sort key and resets the page to 1.
// Unrecognized keys fall back to SortNone.
func (v *View) SetSortKey(k SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !k.Valid() {
		k = SortNone
	}
	v.sortKey = k
	v.page = 1
}

// ResetFilters clears criteria and sort key and returns to page 1.
func (v *View) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = Criteria{}
	v.sortKey = SortNone
	v.page = 1
}

// SetPage moves to the requested 1-based page, clamped to the valid range
// for the current filtered collection. Changing pages never resets filters.
func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	total := len(ApplyFilter(v.products, v.criteria, v.cfg.LowStockBelow))
	v.page = ClampPage(page, total, v.cfg.ItemsPerPage)
}

// Render composes filter -> sort -> edit annotation -> pagination and returns
// the page model. The category list always comes from the unfiltered
// snapshot, so narrowing the view never shrinks the checklist.
func (v *View) Render() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := ApplyFilter(v.products, v.criteria, v.cfg.LowStockBelow)
	ordered := SortProducts(filtered, v.sortKey)

	page := ClampPage(v.page, len(ordered), v.cfg.ItemsPerPage)
	pg := Paginate(len(ordered), v.cfg.ItemsPerPage, page, v.cfg.PageWindow)

	items := make([]Item, 0, pg.End-pg.Start)
	for _, p := range ordered[pg.Start:pg.End] {
		items = append(items, Item{
			Product:   p,
			Status:    StatusForStock(p.Stock, v.cfg.LowStockBelow),
			IsEditing: v.editor.IsEditing(p.ID),
		})
	}

	snap := Snapshot{
		Items:               items,
		TotalProducts:       len(v.products),
		TotalFiltered:       len(ordered),
		Page:                pg,
		Categories:          Categories(v.products),
		SuggestedCategories: SuggestedCategories,
		Criteria:            v.criteria,
		SortKey:             v.sortKey,
		EditPhase:           v.editor.Phase().String(),
	}
	if id, ok := v.editor.EditingID(); ok {
		snap.EditingID = id
		d := v.editor.Draft()
		snap.Draft = &d
		snap.FieldErrors = v.editor.FieldErrors()
	}
	if v.loadErr != nil {
		snap.LoadError = v.loadErr.Error()
	}
	return snap
}

// CreateProduct validates the payload, creates it in the store and reloads
// the collection. The local snapshot is never patched optimistically.
func (v *View) CreateProduct(ctx context.Context, in ProductInput) error {
	if err := ValidateInput(in); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, err := v.store.Create(ctx, in); err != nil {
		return err
	}
	return v.reloadLocked(ctx)
}

// DeleteProduct removes the product from the store and reloads. If the
// deleted product was being edited the coordinator returns to Viewing.
func (v *View) DeleteProduct(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.store.Delete(ctx, id); err != nil {
		return err
	}
	v.editor.ProductDeleted(id)
	return v.reloadLocked(ctx)
}

// BulkImport sends a tabular file to the store and reloads; on success the
// whole collection reflects the imported rows.
func (v *View) BulkImport(ctx context.Context, fileName string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.store.BulkImport(ctx, fileName, data); err != nil {
		return err
	}
	return v.reloadLocked(ctx)
}

// BeginEdit enters edit mode for the given product, implicitly discarding
// any other product's draft.
func (v *View) BeginEdit(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editor.BeginEdit(id)
}

// CancelEdit discards the draft for id without saving.
func (v *View) CancelEdit(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editor.CancelEdit(id)
}

// UpdateDraftField applies a keystroke to the active draft.
func (v *View) UpdateDraftField(field, raw string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editor.UpdateDraftField(field, raw)
}

// SaveEdit validates and persists the active draft, then reloads.
func (v *View) SaveEdit(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editor.ValidateAndSave(ctx, id)
}

// Editor exposes the coordinator for direct inspection in tests.
func (v *View) Editor() *Editor { return v.editor }
