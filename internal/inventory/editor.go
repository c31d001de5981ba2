package inventory

import (
	"context"
	"fmt"
)

// EditPhase is the coordinator's position in its state machine.
type EditPhase int

const (
	// PhaseViewing means no product is in edit mode.
	PhaseViewing EditPhase = iota
	// PhaseEditing means exactly one product holds a local draft.
	PhaseEditing
	// PhaseSaving means a save request for the edited product is in flight.
	PhaseSaving
)

func (p EditPhase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSaving:
		return "saving"
	default:
		return "viewing"
	}
}

// Editor coordinates the single-item edit session. At most one product is in
// Editing or Saving state at any time: entering edit mode for another product
// implicitly discards the previous draft without saving it.
//
// The edited product is tracked as one optional id decoupled from the cached
// collection; any per-item "is this one being edited" view is derived by id
// comparison, never by mutating cached entities. That keeps the session
// intact when the cache is reloaded mid-edit.
//
// Editor is not safe for concurrent use; the owning View serializes access.
type Editor struct {
	store     Store
	lookup    func(id string) (Product, bool)
	afterSave func(ctx context.Context) error

	phase EditPhase
	id    string
	draft Draft

	fieldErrs FieldErrors
	saveErr   error
}

// NewEditor creates a coordinator bound to the given store. lookup resolves
// an id against the current authoritative snapshot; afterSave triggers the
// full collection reload that follows a successful save.
func NewEditor(store Store, lookup func(id string) (Product, bool), afterSave func(ctx context.Context) error) *Editor {
	return &Editor{
		store:     store,
		lookup:    lookup,
		afterSave: afterSave,
	}
}

// Phase returns the current state of the coordinator.
func (e *Editor) Phase() EditPhase { return e.phase }

// EditingID returns the id of the product in Editing or Saving state.
func (e *Editor) EditingID() (string, bool) {
	if e.phase == PhaseViewing {
		return "", false
	}
	return e.id, true
}

// IsEditing reports whether the product with the given id holds the draft.
func (e *Editor) IsEditing(id string) bool {
	return e.phase != PhaseViewing && e.id == id
}

// Draft returns the current local draft. Meaningful only while editing.
func (e *Editor) Draft() Draft { return e.draft }

// FieldErrors returns the field-scoped failures from the last save attempt.
func (e *Editor) FieldErrors() FieldErrors { return e.fieldErrs }

// SaveError returns the store failure from the last save attempt, if any.
func (e *Editor) SaveError() error { return e.saveErr }

// BeginEdit moves the coordinator to Editing(id), seeding the draft from the
// current snapshot of that product. Any edit of another product is discarded
// without an implicit save. A save in flight cannot be preempted.
func (e *Editor) BeginEdit(id string) error {
	if e.phase == PhaseSaving {
		return fmt.Errorf("save in progress for product %s", e.id)
	}
	p, ok := e.lookup(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	e.phase = PhaseEditing
	e.id = id
	e.draft = DraftFromProduct(p)
	e.fieldErrs = nil
	e.saveErr = nil
	return nil
}

// CancelEdit discards the draft for id and returns to Viewing. It has no
// network effect. Cancelling a product that is not being edited is a no-op.
func (e *Editor) CancelEdit(id string) {
	if e.phase != PhaseEditing || e.id != id {
		return
	}
	e.reset()
}

// UpdateDraftField applies a single keystroke to the draft. Numeric fields
// are coerced and clamped to >= 0 on every change; invalid or cleared input
// is held as the empty-string sentinel rather than snapping to zero.
// Field names outside the draft are ignored.
func (e *Editor) UpdateDraftField(field, raw string) {
	if e.phase != PhaseEditing {
		return
	}
	switch field {
	case "name":
		e.draft.Name = raw
	case "category":
		e.draft.Category = raw
	case "price":
		e.draft.Price = CoerceNumericField(raw)
	case "stock":
		e.draft.Stock = CoerceNumericField(raw)
	}
}

// ValidateAndSave validates the draft and, if it passes, issues the update to
// the store. While the request is in flight the coordinator sits in
// Saving(id), which blocks a second save for the same product. On store
// failure the coordinator returns to Editing(id) with the draft intact and
// the error surfaced; on success it returns to Viewing and triggers a full
// collection reload.
func (e *Editor) ValidateAndSave(ctx context.Context, id string) error {
	if e.phase == PhaseSaving {
		return fmt.Errorf("save already in progress for product %s", e.id)
	}
	if e.phase != PhaseEditing || e.id != id {
		return fmt.Errorf("product %s is not being edited", id)
	}

	// Each attempt replaces the previous attempt's outcome entirely, so a
	// stale store error never sits next to fresh field errors.
	e.saveErr = nil

	if err := e.draft.Validate(); err != nil {
		if fe, ok := err.(FieldErrors); ok {
			e.fieldErrs = fe
		}
		return err
	}
	e.fieldErrs = nil

	e.phase = PhaseSaving
	_, err := e.store.Update(ctx, id, e.draft.Input())
	if err != nil {
		e.phase = PhaseEditing
		e.saveErr = err
		return err
	}

	e.reset()
	if e.afterSave != nil {
		return e.afterSave(ctx)
	}
	return nil
}

// ProductDeleted tells the coordinator the product with the given id is gone.
// If that product was being edited the session returns to Viewing: the edited
// entity no longer exists.
func (e *Editor) ProductDeleted(id string) {
	if e.phase != PhaseViewing && e.id == id {
		e.reset()
	}
}

func (e *Editor) reset() {
	e.phase = PhaseViewing
	e.id = ""
	e.draft = Draft{}
	e.fieldErrs = nil
	e.saveErr = nil
}
