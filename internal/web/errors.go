package web

// errors.go maps the inventory error taxonomy onto HTTP responses:
//
//   - FieldErrors / ValidationError -> 422 with the per-field list, so the
//     client can surface every failed check next to its control
//   - NotFoundError                 -> 404
//   - TransportError                -> 502 (the upstream store failed)
//   - anything else                 -> 500
//
// The technical error is logged with the chi request ID for correlation;
// the client receives the message plus the field breakdown when present.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
	"github.com/Karthik-guddanti/product-client/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string                      `json:"error"`
	Fields []inventory.ValidationError `json:"fields,omitempty"`
}

// respondError logs err with request context and writes the mapped response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logger := logging.FromContext(r.Context())
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logger.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
	)

	resp := ErrorResponse{Error: err.Error()}
	var fes inventory.FieldErrors
	var fe inventory.ValidationError
	if errors.As(err, &fes) {
		resp.Fields = fes
	} else if errors.As(err, &fe) {
		resp.Fields = inventory.FieldErrors{fe}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case inventory.IsValidation(err):
		return http.StatusUnprocessableEntity
	case inventory.IsNotFound(err):
		return http.StatusNotFound
	default:
		var te *inventory.TransportError
		if errors.As(err, &te) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// badRequest writes a 400 with a plain message for malformed payloads.
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	logging.FromContext(r.Context()).Warn("bad request",
		"path", r.URL.Path,
		"method", r.Method,
		"error", message,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
