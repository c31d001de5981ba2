package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
)

// REST talks to the hosted product API: JSON bodies, an x-api-key header on
// mutating calls, and a multipart upload endpoint for bulk import.
type REST struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// RESTOption customizes the REST adapter.
type RESTOption func(*REST)

// WithHTTPClient overrides the underlying HTTP client (used by tests).
func WithHTTPClient(c *http.Client) RESTOption {
	return func(r *REST) { r.client = c }
}

// NewREST creates an adapter for the API at baseURL
// (e.g. "https://product-server.example.com/api/products").
func NewREST(baseURL, apiKey string, timeout time.Duration, opts ...RESTOption) *REST {
	r := &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List fetches the authoritative collection.
func (r *REST) List(ctx context.Context) ([]inventory.Product, error) {
	var out []inventory.Product
	if err := r.do(ctx, "list", http.MethodGet, r.baseURL, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a product.
func (r *REST) Create(ctx context.Context, in inventory.ProductInput) (inventory.Product, error) {
	if err := inventory.ValidateInput(in); err != nil {
		return inventory.Product{}, err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return inventory.Product{}, &inventory.TransportError{Op: "create", Err: err}
	}
	var out inventory.Product
	if err := r.do(ctx, "create", http.MethodPost, r.baseURL, bytes.NewReader(body), "application/json", &out); err != nil {
		return inventory.Product{}, err
	}
	return out, nil
}

// Update replaces every field of the product.
func (r *REST) Update(ctx context.Context, id string, in inventory.ProductInput) (inventory.Product, error) {
	if err := inventory.ValidateInput(in); err != nil {
		return inventory.Product{}, err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return inventory.Product{}, &inventory.TransportError{Op: "update", Err: err}
	}
	var out inventory.Product
	if err := r.doWithID(ctx, "update", http.MethodPut, id, bytes.NewReader(body), "application/json", &out); err != nil {
		return inventory.Product{}, err
	}
	return out, nil
}

// Delete removes the product.
func (r *REST) Delete(ctx context.Context, id string) error {
	return r.doWithID(ctx, "delete", http.MethodDelete, id, nil, "", nil)
}

// BulkImport uploads the file as multipart form data to the upload endpoint.
func (r *REST) BulkImport(ctx context.Context, fileName string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}
	if err := mw.Close(); err != nil {
		return &inventory.TransportError{Op: "bulkImport", Err: err}
	}

	return r.do(ctx, "bulkImport", http.MethodPost, r.baseURL+"/upload", &buf, mw.FormDataContentType(), nil)
}

func (r *REST) doWithID(ctx context.Context, op, method, id string, body io.Reader, contentType string, out any) error {
	return r.do(ctx, op, method, r.baseURL+"/"+id, body, contentType, out)
}

// do issues one request and maps the response onto the error taxonomy:
// 404 becomes NotFoundError, 400/422 a ValidationError carrying the server's
// message, and everything else that fails becomes a TransportError.
func (r *REST) do(ctx context.Context, op, method, url string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &inventory.TransportError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.apiKey != "" {
		req.Header.Set("x-api-key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return &inventory.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return r.mapFailure(op, url, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &inventory.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (r *REST) mapFailure(op, url string, resp *http.Response) error {
	msg := serverMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &inventory.NotFoundError{ID: strings.TrimPrefix(url, r.baseURL+"/")}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "request rejected by server"
		}
		return inventory.ValidationError{Message: msg}
	default:
		if msg == "" {
			msg = resp.Status
		}
		return &inventory.TransportError{Op: op, Err: fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)}
	}
}

// serverMessage pulls a human-readable message out of an error body, which
// the API sends as {"error": "..."} or {"message": "..."}.
func serverMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
