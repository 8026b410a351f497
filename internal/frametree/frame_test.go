package frametree

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/geom"
)

func monitorRect() geom.Rect {
	return geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
}

func TestNewTreeSingleLeafCoversRect(t *testing.T) {
	tr := New(monitorRect())
	if !tr.Root().IsLeaf() {
		t.Fatalf("new tree root should be a leaf")
	}
	if tr.Root().Rect() != monitorRect() {
		t.Fatalf("root rect = %+v, want %+v", tr.Root().Rect(), monitorRect())
	}
}

func TestSplitPartitionsExactly(t *testing.T) {
	tr := New(monitorRect())
	root := tr.Root()
	first, second, err := tr.Split(root, Horizontal)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if first.Rect().Width+second.Rect().Width != monitorRect().Width {
		t.Fatalf("widths %d + %d != %d", first.Rect().Width, second.Rect().Width, monitorRect().Width)
	}
	if first.Rect().Height != monitorRect().Height || second.Rect().Height != monitorRect().Height {
		t.Fatalf("split should not change height")
	}
	if first.Rect().X != 0 || second.Rect().X != int32(first.Rect().Width) {
		t.Fatalf("second frame does not start where first ends")
	}
}

func TestSplitMovesWindowToFirstChild(t *testing.T) {
	tr := New(monitorRect())
	root := tr.Root()
	root.windowID = xproto.Window(42)

	first, second, err := tr.Split(root, Vertical)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if first.WindowID() != 42 {
		t.Fatalf("window should move to first child, got %d", first.WindowID())
	}
	if second.WindowID() != 0 {
		t.Fatalf("second child should be empty, got %d", second.WindowID())
	}
	if root.IsLeaf() {
		t.Fatalf("split root should no longer be a leaf")
	}
}

func TestSplitRejectsInnerNode(t *testing.T) {
	tr := New(monitorRect())
	_, _, _ = tr.Split(tr.Root(), Horizontal)
	if _, _, err := tr.Split(tr.Root(), Horizontal); err == nil {
		t.Fatalf("splitting an inner node should fail")
	}
}

func TestRemoveCollapsesSibling(t *testing.T) {
	tr := New(monitorRect())
	root := tr.Root()
	first, second, _ := tr.Split(root, Horizontal)
	second.windowID = xproto.Window(7)

	if err := tr.Remove(first, false); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tr.Root() != second {
		t.Fatalf("remaining sibling should become the new root")
	}
	if tr.Root().Rect() != monitorRect() {
		t.Fatalf("collapsed sibling should inherit the parent's rect, got %+v", tr.Root().Rect())
	}
	if tr.Root().WindowID() != 7 {
		t.Fatalf("collapsed sibling should keep its window")
	}
}

func TestRemoveCascadesWhenAutoRemoveVoid(t *testing.T) {
	tr := New(monitorRect())
	root := tr.Root()
	a, b, _ := tr.Split(root, Horizontal)
	_, c, _ := tr.Split(b, Vertical)
	// a and the b/c split's first child are both empty; removing c with
	// auto_remove_void should collapse all the way back to a single leaf.
	_ = a
	if err := tr.Remove(c, true); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !tr.Root().IsLeaf() {
		t.Fatalf("cascading remove should leave a single leaf, tree has an inner root")
	}
}

func TestRemoveRootFails(t *testing.T) {
	tr := New(monitorRect())
	if err := tr.Remove(tr.Root(), false); err == nil {
		t.Fatalf("removing the root leaf should fail")
	}
}

func TestFocusCardinalDirections(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)

	got, err := tr.Focus(left, DirRight)
	if err != nil {
		t.Fatalf("focus right: %v", err)
	}
	if got != right {
		t.Fatalf("focus right from the left leaf should land on the right leaf")
	}

	got, err = tr.Focus(right, DirLeft)
	if err != nil {
		t.Fatalf("focus left: %v", err)
	}
	if got != left {
		t.Fatalf("focus left from the right leaf should land on the left leaf")
	}

	if _, err := tr.Focus(left, DirLeft); err == nil {
		t.Fatalf("there is nothing further left of the leftmost leaf")
	}
}

func TestFocusStructural(t *testing.T) {
	tr := New(monitorRect())
	root := tr.Root()
	first, _, _ := tr.Split(root, Horizontal)

	got, err := tr.Focus(first, DirParent)
	if err != nil || got != root {
		t.Fatalf("focus parent from a child should reach the root, err=%v", err)
	}
	got, err = tr.Focus(root, DirChild)
	if err != nil || got != first {
		t.Fatalf("focus child from the root should reach its first child, err=%v", err)
	}
	if _, err := tr.Focus(root, DirParent); err == nil {
		t.Fatalf("the root has no parent")
	}
}

func TestExchangeSwapsWindowsOnly(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)
	left.windowID = 1
	right.windowID = 2
	leftRectBefore := left.Rect()

	if err := tr.Exchange(left, right); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if left.WindowID() != 2 || right.WindowID() != 1 {
		t.Fatalf("exchange should swap window ids, got left=%d right=%d", left.WindowID(), right.WindowID())
	}
	if left.Rect() != leftRectBefore {
		t.Fatalf("exchange should not move rectangles")
	}
}

func TestResizeByShrinksSiblingAndPropagatesRatio(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)

	if err := tr.ResizeBy(right, geom.Quad{Left: 100}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if right.Rect().Width <= monitorRect().Width/2 {
		t.Fatalf("growing the right leaf's left edge should widen it, got %d", right.Rect().Width)
	}
	if left.Rect().Width+right.Rect().Width != monitorRect().Width {
		t.Fatalf("resize should keep the partition exact: %d + %d != %d",
			left.Rect().Width, right.Rect().Width, monitorRect().Width)
	}
}

func TestResizeByRejectsBelowMinimum(t *testing.T) {
	tr := New(monitorRect())
	left, _, _ := tr.Split(tr.Root(), Horizontal)

	err := tr.ResizeBy(left, geom.Quad{Right: -int32(monitorRect().Width)})
	if err == nil {
		t.Fatalf("resizing below the minimum leaf size should fail")
	}
}

func TestResizeByOnRootLeafFails(t *testing.T) {
	tr := New(monitorRect())
	if err := tr.ResizeBy(tr.Root(), geom.Quad{Left: 10}); err == nil {
		t.Fatalf("a lone root leaf has no interior boundary to resize")
	}
}

func TestPlaceFillsEmptyLeafBeforeDisplacing(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)
	left.windowID = 1

	assigned, displaced := tr.Place(xproto.Window(2), right)
	if assigned != right || displaced != 0 {
		t.Fatalf("placement should fill the empty leaf without displacing, got assigned=%v displaced=%d", assigned, displaced)
	}
}

func TestPlaceDisplacesFocusedWhenFull(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)
	left.windowID = 1
	right.windowID = 2

	assigned, displaced := tr.Place(xproto.Window(3), right)
	if assigned != right {
		t.Fatalf("with no empty leaf, placement should fall back to the focused leaf")
	}
	if displaced != 2 {
		t.Fatalf("placement should report the displaced window, got %d", displaced)
	}
	if right.WindowID() != 3 {
		t.Fatalf("the focused leaf should now hold the new window")
	}
}

func TestVacateClearsAndCascades(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)
	left.windowID = 1
	right.windowID = 2

	if err := tr.Vacate(right, true); err != nil {
		t.Fatalf("vacate: %v", err)
	}
	if !tr.Root().IsLeaf() {
		t.Fatalf("vacating the last occupant with auto_remove_void should collapse the tree")
	}
	if tr.Root().WindowID() != 1 {
		t.Fatalf("surviving leaf should keep its window")
	}
}

func TestFindByWindowAndByID(t *testing.T) {
	tr := New(monitorRect())
	left, right, _ := tr.Split(tr.Root(), Horizontal)
	right.windowID = 9

	if got := tr.FindByWindow(9); got != right {
		t.Fatalf("FindByWindow should locate the leaf holding window 9")
	}
	if got := tr.FindByID(left.ID()); got != left {
		t.Fatalf("FindByID should locate the frame by its own id")
	}
	if got := tr.FindByWindow(999); got != nil {
		t.Fatalf("FindByWindow should return nil for an unmanaged window")
	}
}
