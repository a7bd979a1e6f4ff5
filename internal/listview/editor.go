package listview

import (
	"context"
	"fmt"
	"strings"
)

// OpenEditor copies the record into a pending edit with its current field
// values as the draft. Any previous pending edit is discarded.
func (v *View[T, C]) OpenEditor(id string) (Pending[T], error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(v.source, id)
	if i < 0 {
		return Pending[T]{}, fmt.Errorf("%s %s: %w", v.cfg.Resource, id, ErrNotFound)
	}
	rec := v.source[i]
	draft := make(map[string]string, len(v.cfg.Fields))
	for _, f := range v.cfg.Fields {
		draft[f.Name] = FieldValue(rec, f.Name)
	}
	v.pending = &Pending[T]{ID: id, Record: rec, Draft: draft}
	return v.pending.clone(), nil
}

// CloseEditor discards the pending edit.
func (v *View[T, C]) CloseEditor() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = nil
}

// Editor returns a copy of the pending edit, if any.
func (v *View[T, C]) Editor() (Pending[T], bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.pending == nil {
		return Pending[T]{}, false
	}
	return v.pending.clone(), true
}

// SetDraft updates one draft value. Fields outside the editable set are
// ignored.
func (v *View[T, C]) SetDraft(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return ErrNoPendingEdit
	}
	if _, ok := v.field(field); ok {
		v.pending.Draft[field] = value
	}
	return nil
}

// SetDrafts updates several draft values at once, as posted by the editor form.
func (v *View[T, C]) SetDrafts(values map[string]string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return ErrNoPendingEdit
	}
	for k, val := range values {
		if _, ok := v.field(k); ok {
			v.pending.Draft[k] = val
		}
	}
	return nil
}

// CommitEditor validates the draft, sends it through MutateRow and closes
// the editor on success. On any failure the editor stays open.
func (v *View[T, C]) CommitEditor(ctx context.Context) error {
	v.mu.RLock()
	if v.pending == nil {
		v.mu.RUnlock()
		return ErrNoPendingEdit
	}
	id := v.pending.ID
	patch, verr := BuildPatch(v.cfg.Fields, v.pending.Draft)
	v.mu.RUnlock()

	if verr != nil {
		return verr
	}
	if err := v.MutateRow(ctx, id, patch); err != nil {
		return err
	}

	v.mu.Lock()
	if v.pending != nil && v.pending.ID == id {
		v.pending = nil
	}
	v.mu.Unlock()
	return nil
}

// BuildPatch validates draft values against fields and converts them to a
// typed patch. Blank optional fields other than text are left out. The
// returned error is a *ValidationError.
func BuildPatch(fields []FieldSpec, draft map[string]string) (Patch, error) {
	verr := &ValidationError{}
	patch := make(Patch, len(fields))
	for _, f := range fields {
		raw, present := draft[f.Name]
		if !present {
			continue
		}
		if f.Required && strings.TrimSpace(raw) == "" {
			verr.add(f.Name, "required")
			continue
		}
		val, err := f.Convert(raw)
		if err != nil {
			verr.add(f.Name, err.Error())
			continue
		}
		// A blank optional non-text field means "unchanged".
		if val == nil {
			continue
		}
		patch[f.Name] = val
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return patch, nil
}

// ValidateRequired checks that every required field has a non-empty value
// in values, including fields that are absent.
func ValidateRequired(fields []FieldSpec, values map[string]string) error {
	verr := &ValidationError{}
	for _, f := range fields {
		if f.Required && strings.TrimSpace(values[f.Name]) == "" {
			verr.add(f.Name, "required")
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (v *View[T, C]) field(name string) (FieldSpec, bool) {
	for _, f := range v.cfg.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (p *Pending[T]) clone() Pending[T] {
	draft := make(map[string]string, len(p.Draft))
	for k, val := range p.Draft {
		draft[k] = val
	}
	return Pending[T]{ID: p.ID, Record: p.Record, Draft: draft}
}
