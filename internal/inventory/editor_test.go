package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
)

// fakeStore is an in-package test double for the Store boundary.
type fakeStore struct {
	mu       sync.Mutex
	products []Product

	listErr   error
	updateErr error
	createErr error
	deleteErr error
	importErr error

	updates []ProductInput
	lists   int
}

func newFakeStore(products ...Product) *fakeStore {
	return &fakeStore{products: products}
}

func (f *fakeStore) List(ctx context.Context) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, in ProductInput) (Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return Product{}, f.createErr
	}
	p := Product{ID: strconv.Itoa(len(f.products) + 1), Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return Product{}, f.updateErr
	}
	f.updates = append(f.updates, in)
	for i, p := range f.products {
		if p.ID == id {
			f.products[i] = Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock, Category: in.Category}
			return f.products[i], nil
		}
	}
	return Product{}, &NotFoundError{ID: id}
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

func (f *fakeStore) BulkImport(ctx context.Context, fileName string, data []byte) error {
	return f.importErr
}

func newTestEditor(store *fakeStore) (*Editor, *int) {
	reloads := 0
	var ed *Editor
	lookup := func(id string) (Product, bool) {
		for _, p := range store.products {
			if p.ID == id {
				return p, true
			}
		}
		return Product{}, false
	}
	ed = NewEditor(store, lookup, func(ctx context.Context) error {
		reloads++
		return nil
	})
	return ed, &reloads
}

func TestEditor_BeginEdit_SeedsDraft(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	if err := ed.BeginEdit("2"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	if ed.Phase() != PhaseEditing {
		t.Errorf("phase = %v, want editing", ed.Phase())
	}
	d := ed.Draft()
	if d.Name != "Notebook" || d.Price != "20" || d.Stock != "5" || d.Category != "B" {
		t.Errorf("draft not seeded from snapshot: %+v", d)
	}
}

func TestEditor_BeginEdit_UnknownID(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	err := ed.BeginEdit("missing")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if ed.Phase() != PhaseViewing {
		t.Errorf("phase = %v, want viewing", ed.Phase())
	}
}

// Entering edit mode for product 2 while product 1 is being edited must
// discard product 1's draft without saving it: at most one product is ever
// in Editing or Saving state.
func TestEditor_AtMostOneEdit(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	if err := ed.BeginEdit("1"); err != nil {
		t.Fatal(err)
	}
	ed.UpdateDraftField("name", "changed but never saved")

	if err := ed.BeginEdit("2"); err != nil {
		t.Fatal(err)
	}

	id, ok := ed.EditingID()
	if !ok || id != "2" {
		t.Fatalf("editing id = %q, want 2", id)
	}
	if ed.Draft().Name != "Notebook" {
		t.Errorf("draft = %+v, want fresh seed from product 2", ed.Draft())
	}
	if len(store.updates) != 0 {
		t.Errorf("implicit save issued: %v", store.updates)
	}
}

func TestEditor_CancelEdit(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	ed.BeginEdit("1")
	ed.UpdateDraftField("name", "draft change")
	ed.CancelEdit("1")

	if ed.Phase() != PhaseViewing {
		t.Errorf("phase = %v, want viewing", ed.Phase())
	}
	if len(store.updates) != 0 {
		t.Error("cancel must have no network effect")
	}
	// The snapshot itself was never touched.
	if store.products[0].Name != "Desk Lamp" {
		t.Errorf("snapshot mutated: %+v", store.products[0])
	}
}

func TestEditor_CancelEdit_WrongID_NoOp(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	ed.BeginEdit("1")
	ed.CancelEdit("2")

	if ed.Phase() != PhaseEditing {
		t.Errorf("cancel of a different id ended the session")
	}
}

func TestEditor_UpdateDraftField_NumericCoercion(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)
	ed.BeginEdit("1")

	tests := []struct {
		field, raw, want string
	}{
		{"price", "12.5", "12.5"},
		{"price", "-3", "0"},     // clamped to >= 0
		{"price", "", ""},        // cleared, not snapped to zero
		{"stock", "abc", ""},     // invalid held as empty sentinel
		{"stock", " 7 ", "7"},
		{"price", "1e2", "100"},
	}
	for _, tt := range tests {
		ed.UpdateDraftField(tt.field, tt.raw)
		d := ed.Draft()
		got := d.Price
		if tt.field == "stock" {
			got = d.Stock
		}
		if got != tt.want {
			t.Errorf("UpdateDraftField(%q, %q): got %q, want %q", tt.field, tt.raw, got, tt.want)
		}
	}
}

func TestEditor_Save_ValidationErrorsAllSurfaced(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)
	ed.BeginEdit("1")

	ed.UpdateDraftField("name", "  ")
	ed.UpdateDraftField("price", "")
	ed.UpdateDraftField("stock", "")
	ed.UpdateDraftField("category", "")

	err := ed.ValidateAndSave(context.Background(), "1")
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fe) != 4 {
		t.Fatalf("expected all 4 fields to fail together, got %d: %v", len(fe), fe)
	}
	for _, field := range []string{"name", "price", "stock", "category"} {
		if fe.ByField(field) == "" {
			t.Errorf("field %q missing from errors", field)
		}
	}

	// Still editing with the draft intact.
	if ed.Phase() != PhaseEditing {
		t.Errorf("phase = %v, want editing", ed.Phase())
	}
	if len(store.updates) != 0 {
		t.Error("invalid draft must not reach the store")
	}
}

func TestEditor_Save_PriceMustBePositive(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)
	ed.BeginEdit("1")
	ed.UpdateDraftField("price", "0")

	err := ed.ValidateAndSave(context.Background(), "1")
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fe.ByField("price") == "" {
		t.Error("price 0 should fail the > 0 rule")
	}
}

func TestEditor_Save_Success(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, reloads := newTestEditor(store)
	ed.BeginEdit("2")
	ed.UpdateDraftField("name", "Renamed")
	ed.UpdateDraftField("price", "42.5")

	if err := ed.ValidateAndSave(context.Background(), "2"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if ed.Phase() != PhaseViewing {
		t.Errorf("phase = %v, want viewing after save", ed.Phase())
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(store.updates))
	}
	got := store.updates[0]
	if got.Name != "Renamed" || got.Price != 42.5 || got.Stock != 5 || got.Category != "B" {
		t.Errorf("update payload = %+v", got)
	}
	if *reloads != 1 {
		t.Errorf("expected full reload after save, got %d reloads", *reloads)
	}
}

func TestEditor_Save_StoreFailureKeepsDraft(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	store.updateErr = fmt.Errorf("boom")
	ed, reloads := newTestEditor(store)
	ed.BeginEdit("1")
	ed.UpdateDraftField("name", "Edited")

	err := ed.ValidateAndSave(context.Background(), "1")
	if err == nil {
		t.Fatal("expected error")
	}

	// Back in Editing(id) with the draft and the error surfaced, so the
	// user can retry instead of losing the edit.
	if ed.Phase() != PhaseEditing {
		t.Errorf("phase = %v, want editing", ed.Phase())
	}
	if ed.Draft().Name != "Edited" {
		t.Errorf("draft lost: %+v", ed.Draft())
	}
	if ed.SaveError() == nil {
		t.Error("save error not surfaced")
	}
	if *reloads != 0 {
		t.Error("failed save must not reload")
	}
}

func TestEditor_Save_NewAttemptClearsStaleStoreError(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	store.updateErr = fmt.Errorf("boom")
	ed, _ := newTestEditor(store)
	ed.BeginEdit("1")
	ed.UpdateDraftField("name", "Edited")

	if err := ed.ValidateAndSave(context.Background(), "1"); err == nil {
		t.Fatal("expected store failure")
	}
	if ed.SaveError() == nil {
		t.Fatal("setup: store error not surfaced")
	}

	// The next attempt fails validation instead; the old store error must
	// not linger next to the fresh field errors.
	ed.UpdateDraftField("name", "")
	if err := ed.ValidateAndSave(context.Background(), "1"); err == nil {
		t.Fatal("expected validation failure")
	}
	if ed.FieldErrors().ByField("name") == "" {
		t.Error("name failure not surfaced")
	}
	if ed.SaveError() != nil {
		t.Errorf("stale store error surfaced: %v", ed.SaveError())
	}
}

func TestEditor_Save_NotEditing(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	if err := ed.ValidateAndSave(context.Background(), "1"); err == nil {
		t.Error("save without an active edit should fail")
	}

	ed.BeginEdit("1")
	if err := ed.ValidateAndSave(context.Background(), "2"); err == nil {
		t.Error("save for a different id should fail")
	}
}

func TestEditor_ProductDeleted_EndsEdit(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)
	ed.BeginEdit("3")

	ed.ProductDeleted("3")

	if ed.Phase() != PhaseViewing {
		t.Errorf("phase = %v, want viewing once the edited entity is gone", ed.Phase())
	}
}

func TestEditor_ProductDeleted_OtherID_KeepsEdit(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)
	ed.BeginEdit("3")

	ed.ProductDeleted("1")

	if !ed.IsEditing("3") {
		t.Error("deleting another product ended the edit session")
	}
}

// TestEditor_AtMostOneInvariant drives a random-ish sequence of transitions
// and checks that at most one product is in Editing/Saving state throughout.
func TestEditor_AtMostOneInvariant(t *testing.T) {
	store := newFakeStore(sampleProducts()...)
	ed, _ := newTestEditor(store)

	sequence := []string{"1", "2", "2", "3", "1", "3"}
	for _, id := range sequence {
		if err := ed.BeginEdit(id); err != nil {
			t.Fatalf("BeginEdit(%s): %v", id, err)
		}

		editing := 0
		for _, p := range store.products {
			if ed.IsEditing(p.ID) {
				editing++
			}
		}
		if editing != 1 {
			t.Fatalf("after BeginEdit(%s): %d products editing, want 1", id, editing)
		}
	}
}
