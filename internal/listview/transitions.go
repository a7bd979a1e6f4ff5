package listview

import (
	"context"
	"fmt"
)

// Transition is a row action moving a record From one state To another.
// Without Perform the action is a plain MutateRow with Patch. Perform
// handles actions that need other backend calls and returns the patch to
// apply locally once they succeed.
type Transition[T any] struct {
	Name    string
	Label   string
	From    string
	To      string
	Patch   Patch
	Perform func(ctx context.Context, rec T) (Patch, error)
}

// StateOf reports the record's current state name.
func (v *View[T, C]) StateOf(rec T) string {
	if v.cfg.State == nil {
		return ""
	}
	return v.cfg.State(rec)
}

// Actions lists the transitions allowed from the record's current state.
func (v *View[T, C]) Actions(rec T) []Transition[T] {
	state := v.StateOf(rec)
	var out []Transition[T]
	for _, t := range v.cfg.Transitions {
		if t.From == state {
			out = append(out, t)
		}
	}
	return out
}

// Transition fires the named action on record id. The state check uses the
// local copy; there is no pending state, so repeated calls issue repeated
// requests while the first is in flight.
func (v *View[T, C]) Transition(ctx context.Context, id, name string) error {
	rec, ok := v.Get(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", v.cfg.Resource, id, ErrNotFound)
	}

	var tr *Transition[T]
	for i := range v.cfg.Transitions {
		if v.cfg.Transitions[i].Name == name {
			tr = &v.cfg.Transitions[i]
			break
		}
	}
	if tr == nil {
		return fmt.Errorf("%s: %w: %s", v.cfg.Resource, ErrUnknownTransition, name)
	}
	if state := v.StateOf(rec); state != tr.From {
		return fmt.Errorf("%s %s: %s from %q: %w", v.cfg.Resource, id, name, state, ErrTransitionNotAllowed)
	}

	if tr.Perform == nil {
		return v.MutateRow(ctx, id, tr.Patch)
	}
	patch, err := tr.Perform(ctx, rec)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", name, v.cfg.Resource, id, err)
	}
	return v.applyLocal(id, patch)
}
