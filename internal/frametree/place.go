package frametree

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Place assigns windowID a frame slot: prefer the first empty leaf
// found in pre-order starting from the focused monitor's tree; if none
// is empty, fall back to the focused leaf itself, in which case its
// previous occupant is displaced (returned so the caller can move it to
// the hidden state; see DESIGN.md).
func (t *Tree) Place(windowID xproto.Window, focused *Frame) (assigned *Frame, displaced xproto.Window) {
	if empty := t.Find(func(f *Frame) bool { return f.Empty() }); empty != nil {
		empty.windowID = windowID
		return empty, 0
	}

	target := focused
	if target == nil || !target.isLeaf {
		leaves := t.PreOrderLeaves()
		if len(leaves) == 0 {
			return nil, 0
		}
		target = leaves[0]
	}

	displaced = target.windowID
	target.windowID = windowID
	return target, displaced
}

// Vacate clears the window occupied by leaf, leaving it empty, and
// optionally collapses it according to auto_remove_void.
func (t *Tree) Vacate(leaf *Frame, autoRemoveVoid bool) error {
	if !leaf.isLeaf {
		return nil
	}
	leaf.windowID = 0
	if autoRemoveVoid && leaf.parent != nil {
		return t.Remove(leaf, autoRemoveVoid)
	}
	return nil
}

// Assign directly sets the window occupied by leaf, displacing any
// prior occupant (returned).
func (t *Tree) Assign(leaf *Frame, windowID xproto.Window) (displaced xproto.Window) {
	displaced = leaf.windowID
	leaf.windowID = windowID
	return displaced
}
