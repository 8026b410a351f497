package binding

import (
	"testing"

	"github.com/DevByProxy/fensterchef/internal/action"
	"github.com/DevByProxy/fensterchef/internal/keysym"
)

func TestLookupMasksIgnoreModifiers(t *testing.T) {
	table := &Table{Bindings: []Binding{
		key(mod4, keysym.Letter('q'), step(action.CloseWindow)),
	}}

	// raw modifiers include Lock (bit 1), which ignoreModifiers masks off.
	got := table.Lookup(mod4|2, 2, uint32(keysym.Letter('q')), KindKey, FlagPress)
	if got == nil {
		t.Fatalf("lookup should match after masking ignore_modifiers")
	}
	if got.Actions[0].Code != action.CloseWindow {
		t.Fatalf("lookup returned the wrong binding")
	}
}

func TestLookupNoMatch(t *testing.T) {
	table := &Table{Bindings: []Binding{
		key(mod4, keysym.Letter('q'), step(action.CloseWindow)),
	}}
	if got := table.Lookup(mod4, 0, uint32(keysym.Letter('x')), KindKey, FlagPress); got != nil {
		t.Fatalf("lookup should not match an unbound trigger")
	}
}

func TestMergeIsNonDestructive(t *testing.T) {
	user := []Binding{
		key(mod4, keysym.Letter('q'), step(action.Quit)), // user remaps Mod4+q away from close_window
	}
	defaults := DefaultBindings()

	merged := Merge(user, defaults)

	if merged[0].Actions[0].Code != action.Quit {
		t.Fatalf("user's binding must win over the default for the same (modifiers, trigger, flags)")
	}

	var closeCount int
	for _, b := range merged {
		if b.Kind == KindKey && b.Trigger == uint32(keysym.Letter('q')) && b.Modifiers == mod4 {
			closeCount++
		}
	}
	if closeCount != 1 {
		t.Fatalf("merge should not duplicate the (modifiers, trigger, flags) the user already bound, got %d", closeCount)
	}
}

func TestMergeDeepCopiesActionParameters(t *testing.T) {
	defaults := DefaultBindings()
	merged := Merge(nil, defaults)

	merged[0].Actions[0].Value.Integer = 99

	if defaults[0].Actions[0].Value.Integer == 99 {
		t.Fatalf("mutating a merged binding's action value must not alias the default table")
	}
}

func TestModifierSubsetsIncludesAllCombinations(t *testing.T) {
	subsets := modifierSubsets(mod4, modShift|modCtrl)
	want := map[uint16]bool{
		mod4:                   true,
		mod4 | modShift:        true,
		mod4 | modCtrl:         true,
		mod4 | modShift | modCtrl: true,
	}
	if len(subsets) != len(want) {
		t.Fatalf("got %d subsets, want %d", len(subsets), len(want))
	}
	for _, s := range subsets {
		if !want[s] {
			t.Fatalf("unexpected subset %d", s)
		}
	}
}
