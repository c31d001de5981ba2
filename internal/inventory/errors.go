package inventory

import (
	"errors"
	"fmt"
)

// errors.go defines the error taxonomy shared by the store adapters and the
// edit coordinator:
//
//   - ValidationError / FieldErrors: field-scoped, recoverable, surfaced
//     inline next to the offending control
//   - TransportError: network or serialization failure, recoverable by retry
//   - NotFoundError: the target vanished between view and action,
//     recoverable by reload
//
// Pipeline functions (filter, sort, categories, paginate) are total over
// well-formed input and never produce errors; malformed numeric input is
// defused by coercion before it reaches them.

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FieldErrors collects every failed field check so the UI can surface all of
// them at once. Multiple fields may fail simultaneously and all are reported.
type FieldErrors []ValidationError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msg := e[0].Error()
	if len(e) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(e)-1)
	}
	return msg
}

// ByField returns the message for the named field, or "" if it passed.
func (e FieldErrors) ByField(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// TransportError wraps a network or serialization failure from the store.
type TransportError struct {
	Op  string // the store operation that failed: "list", "update", ...
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError indicates the target entity no longer exists in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s no longer exists", e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err carries field-scoped validation failures.
func IsValidation(err error) bool {
	var fe FieldErrors
	var ve ValidationError
	return errors.As(err, &fe) || errors.As(err, &ve)
}
