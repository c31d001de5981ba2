package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Karthik-guddanti/product-client/internal/config"
	"github.com/Karthik-guddanti/product-client/internal/inventory"
	"github.com/Karthik-guddanti/product-client/internal/store"
)

// ============================================================
// Test helpers
// ============================================================

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mem := store.NewMemory(
		inventory.Product{ID: "1", Name: "Monitor", Price: 120, Stock: 5, Category: "Electronics"},
		inventory.Product{ID: "2", Name: "Desk", Price: 300, Stock: 0, Category: "Furniture"},
		inventory.Product{ID: "3", Name: "Cable", Price: 8, Stock: 40, Category: "Electronics"},
	)
	view := inventory.NewView(mem, inventory.ViewConfig{ItemsPerPage: 2, PageWindow: 5, LowStockBelow: 10})
	if err := view.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload: %v", err)
	}
	return NewServer(view, &config.Config{})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) inventory.Snapshot {
	t.Helper()
	var snap inventory.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

// ============================================================
// Render model
// ============================================================

func TestHandleView(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/view", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	snap := decodeSnapshot(t, rec)
	if snap.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3", snap.TotalProducts)
	}
	if len(snap.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2 (page size)", len(snap.Items))
	}
	if snap.Page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", snap.Page.TotalPages)
	}
	if snap.EditPhase != "viewing" {
		t.Errorf("EditPhase = %q, want %q", snap.EditPhase, "viewing")
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q, want it to contain %q", rec.Body.String(), "ok")
	}
}

// ============================================================
// Browsing state
// ============================================================

func TestHandleSetCriteria_ResetsPage(t *testing.T) {
	s := newTestServer(t)

	// Move to page 2 first
	rec := doJSON(t, s, http.MethodPut, "/api/view/page", map[string]int{"page": 2})
	if snap := decodeSnapshot(t, rec); snap.Page.Current != 2 {
		t.Fatalf("Page.Current = %d, want 2", snap.Page.Current)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/view/criteria", inventory.Criteria{Categories: []string{"Electronics"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	snap := decodeSnapshot(t, rec)
	if snap.Page.Current != 1 {
		t.Errorf("Page.Current = %d, want 1 after criteria change", snap.Page.Current)
	}
	if snap.TotalFiltered != 2 {
		t.Errorf("TotalFiltered = %d, want 2", snap.TotalFiltered)
	}
}

func TestHandleSetSort(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/view/sort", map[string]string{"sortKey": "price-asc"})
	snap := decodeSnapshot(t, rec)
	if snap.SortKey != inventory.SortPriceAsc {
		t.Errorf("SortKey = %q, want %q", snap.SortKey, inventory.SortPriceAsc)
	}
	if len(snap.Items) == 0 || snap.Items[0].Name != "Cable" {
		t.Errorf("first item = %+v, want Cable first under price-asc", snap.Items)
	}
}

func TestHandleSetPage_Clamped(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/view/page", map[string]int{"page": 99})
	snap := decodeSnapshot(t, rec)
	if snap.Page.Current != 2 {
		t.Errorf("Page.Current = %d, want 2 (clamped to last page)", snap.Page.Current)
	}
}

func TestHandleResetFilters(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPut, "/api/view/criteria", inventory.Criteria{MinPrice: "100"})
	doJSON(t, s, http.MethodPut, "/api/view/sort", map[string]string{"sortKey": "name-desc"})

	rec := doJSON(t, s, http.MethodPost, "/api/view/reset", nil)
	snap := decodeSnapshot(t, rec)
	if !snap.Criteria.IsZero() {
		t.Errorf("Criteria = %+v, want zero after reset", snap.Criteria)
	}
	if snap.SortKey != inventory.SortNone {
		t.Errorf("SortKey = %q, want none after reset", snap.SortKey)
	}
	if snap.TotalFiltered != 3 {
		t.Errorf("TotalFiltered = %d, want 3", snap.TotalFiltered)
	}
}

func TestHandleSetCriteria_BadPayload(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/view/criteria", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// ============================================================
// Product mutations
// ============================================================

func TestHandleCreateProduct(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/products", inventory.ProductInput{
		Name: "Lamp", Price: 25, Stock: 7, Category: "Furniture",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec)
	if snap.TotalProducts != 4 {
		t.Errorf("TotalProducts = %d, want 4", snap.TotalProducts)
	}
}

func TestHandleCreateProduct_Invalid(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/products", inventory.ProductInput{Stock: -1})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if len(resp.Fields) != 4 {
		t.Errorf("len(Fields) = %d, want 4 (all failed checks surfaced together)", len(resp.Fields))
	}
}

func TestHandleDeleteProduct(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodDelete, "/api/products/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	snap := decodeSnapshot(t, rec)
	if snap.TotalProducts != 2 {
		t.Errorf("TotalProducts = %d, want 2", snap.TotalProducts)
	}
}

func TestHandleDeleteProduct_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodDelete, "/api/products/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// ============================================================
// Edit session
// ============================================================

func TestEditSession_Flow(t *testing.T) {
	s := newTestServer(t)

	// Begin: draft seeded from the product
	rec := doJSON(t, s, http.MethodPost, "/api/products/1/edit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("begin edit status = %d: %s", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec)
	if snap.EditPhase != "editing" || snap.EditingID != "1" {
		t.Fatalf("EditPhase = %q, EditingID = %q, want editing/1", snap.EditPhase, snap.EditingID)
	}
	if snap.Draft == nil || snap.Draft.Name != "Monitor" {
		t.Fatalf("Draft = %+v, want seeded from Monitor", snap.Draft)
	}

	// Draft edits: numeric coercion clamps negatives to zero
	doJSON(t, s, http.MethodPost, "/api/products/1/draft", map[string]string{"field": "name", "value": "Monitor XL"})
	rec = doJSON(t, s, http.MethodPost, "/api/products/1/draft", map[string]string{"field": "price", "value": "-50"})
	snap = decodeSnapshot(t, rec)
	if snap.Draft == nil || snap.Draft.Price != "0" {
		t.Errorf("Draft.Price = %+v, want %q", snap.Draft, "0")
	}

	// Save fails validation while price is zero
	rec = doJSON(t, s, http.MethodPost, "/api/products/1/save", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("save status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	// Session survives the failed save
	rec = doJSON(t, s, http.MethodGet, "/api/view", nil)
	snap = decodeSnapshot(t, rec)
	if snap.EditPhase != "editing" {
		t.Fatalf("EditPhase = %q after failed save, want editing", snap.EditPhase)
	}
	if len(snap.FieldErrors) == 0 {
		t.Error("FieldErrors empty after failed save")
	}

	// Fix the price and save
	doJSON(t, s, http.MethodPost, "/api/products/1/draft", map[string]string{"field": "price", "value": "150"})
	rec = doJSON(t, s, http.MethodPost, "/api/products/1/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	snap = decodeSnapshot(t, rec)
	if snap.EditPhase != "viewing" {
		t.Errorf("EditPhase = %q after save, want viewing", snap.EditPhase)
	}
	for _, it := range snap.Items {
		if it.ID == "1" && it.Name != "Monitor XL" {
			t.Errorf("saved name = %q, want %q", it.Name, "Monitor XL")
		}
	}
}

func TestHandleBeginEdit_UnknownID(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/products/ghost/edit", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleCancelEdit(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/products/1/edit", nil)
	rec := doJSON(t, s, http.MethodPost, "/api/products/1/cancel", nil)
	snap := decodeSnapshot(t, rec)
	if snap.EditPhase != "viewing" {
		t.Errorf("EditPhase = %q after cancel, want viewing", snap.EditPhase)
	}
}

// ============================================================
// CSV upload
// ============================================================

func TestHandleUpload(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("name,price,stock,category\nChair,49.99,12,Furniture\nMouse,19.50,30,Electronics\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec)
	if snap.TotalProducts != 2 {
		t.Errorf("TotalProducts = %d, want 2 (import replaces the collection)", snap.TotalProducts)
	}
}

func TestHandleUpload_NoFile(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleUpload_BadCSV(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "products.csv")
	fw.Write([]byte("wrong,header,row\n1,2,3\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	// Collection untouched on failed import
	rec = doJSON(t, s, http.MethodGet, "/api/view", nil)
	snap := decodeSnapshot(t, rec)
	if snap.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3 (failed import must not replace)", snap.TotalProducts)
	}
}
