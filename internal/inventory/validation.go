package inventory

import (
	"math"
	"strconv"
	"strings"
)

// validation.go holds the field checks shared by the edit coordinator, the
// add-product form and the CSV import path. Each check produces a
// field-scoped error; all failing fields are reported together so the UI can
// mark every offending control at once.

// Draft is the locally-held, unsaved edit of a product's fields. Numeric
// fields are kept as raw widget strings: the empty string is a deliberate
// sentinel meaning "cleared", never coerced to zero, so the user can empty a
// field without it snapping to 0.
type Draft struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    string `json:"stock"`
	Category string `json:"category"`
}

// DraftFromProduct seeds a draft from the current authoritative snapshot.
func DraftFromProduct(p Product) Draft {
	return Draft{
		Name:     p.Name,
		Price:    strconv.FormatFloat(p.Price, 'f', -1, 64),
		Stock:    strconv.Itoa(p.Stock),
		Category: p.Category,
	}
}

// CoerceNumericField normalizes a numeric widget value on every keystroke:
// parseable input is clamped to >= 0, anything else collapses to the
// empty-string sentinel.
func CoerceNumericField(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate checks the draft against the persistence rules: name non-empty,
// price > 0, stock >= 0 (integer), category non-empty. All failures are
// returned together as FieldErrors; a nil error means the draft converts
// cleanly via Input().
func (d Draft) Validate() error {
	var errs FieldErrors

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if d.Price == "" || err != nil || price <= 0 {
		errs = append(errs, ValidationError{Field: "price", Value: d.Price, Message: "price must be > 0"})
	}

	stock, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if d.Stock == "" || err != nil || stock < 0 {
		errs = append(errs, ValidationError{Field: "stock", Value: d.Stock, Message: "stock must be >= 0"})
	}

	if strings.TrimSpace(d.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Message: "category is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Input converts a validated draft to the store payload.
// Call Validate first; Input on an invalid draft yields zero values.
func (d Draft) Input() ProductInput {
	price, _ := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	stock, _ := strconv.Atoi(strings.TrimSpace(d.Stock))
	return ProductInput{
		Name:     strings.TrimSpace(d.Name),
		Price:    price,
		Stock:    stock,
		Category: strings.TrimSpace(d.Category),
	}
}

// ValidateInput applies the same persistence rules to an already-typed
// payload. Used by the store adapters to reject bad rows and by the
// add-product path.
func ValidateInput(in ProductInput) error {
	var errs FieldErrors

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if in.Price <= 0 {
		errs = append(errs, ValidationError{Field: "price", Value: strconv.FormatFloat(in.Price, 'f', -1, 64), Message: "price must be > 0"})
	}
	if in.Stock < 0 {
		errs = append(errs, ValidationError{Field: "stock", Value: strconv.Itoa(in.Stock), Message: "stock must be >= 0"})
	}
	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Message: "category is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
