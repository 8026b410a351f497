// Package binding implements the lookup table that maps key/button
// triggers to action sequences, the non-destructive default-merge, and
// the grab-combination logic that accounts for lock-state modifiers.
package binding

import (
	"github.com/DevByProxy/fensterchef/internal/action"
)

// Kind distinguishes key bindings from button bindings.
type Kind uint8

const (
	KindKey Kind = iota
	KindButton
)

// Flag marks whether a binding fires on press, release, or while held.
type Flag uint8

const (
	FlagPress Flag = 1 << iota
	FlagRelease
	FlagWhileHeld
)

// Binding is one trigger-to-action-sequence mapping.
type Binding struct {
	Kind      Kind
	Modifiers uint16
	// Trigger is a keysym value for KindKey or a button number for
	// KindButton.
	Trigger uint32
	Flags   Flag
	Actions []action.Step
}

func (b Binding) key() bindingKey {
	return bindingKey{kind: b.Kind, modifiers: b.Modifiers, trigger: b.Trigger, flags: b.Flags}
}

type bindingKey struct {
	kind      Kind
	modifiers uint16
	trigger   uint32
	flags     Flag
}

// Table is an ordered set of bindings, user bindings first.
type Table struct {
	Bindings []Binding
}

// Lookup computes effective = rawModifiers &^ ignoreModifiers and
// returns the first binding matching (effective, trigger, kind) whose
// Flags includes flag, or nil.
func (t *Table) Lookup(rawModifiers uint16, ignoreModifiers uint16, trigger uint32, kind Kind, flag Flag) *Binding {
	effective := rawModifiers &^ ignoreModifiers
	for i := range t.Bindings {
		b := &t.Bindings[i]
		if b.Kind != kind || b.Trigger != trigger || b.Modifiers != effective {
			continue
		}
		if b.Flags&flag != 0 {
			return b
		}
	}
	return nil
}

// Merge appends every binding from defaults whose (Modifiers, Trigger,
// Flags) is not already present among user's bindings, preserving
// user's order and appending defaults in table order. Every action
// parameter is deep-copied via action.DataValue.Clone so the default
// table itself is never aliased into a live Table.
func Merge(user []Binding, defaults []Binding) []Binding {
	present := make(map[bindingKey]bool, len(user)+len(defaults))
	merged := make([]Binding, len(user))
	copy(merged, user)
	for _, b := range user {
		present[b.key()] = true
	}

	for _, d := range defaults {
		if present[d.key()] {
			continue
		}
		merged = append(merged, cloneBinding(d))
		present[d.key()] = true
	}
	return merged
}

func cloneBinding(b Binding) Binding {
	actions := make([]action.Step, len(b.Actions))
	for i, step := range b.Actions {
		actions[i] = action.Step{Code: step.Code, Value: step.Value.Clone()}
	}
	b.Actions = actions
	return b
}
