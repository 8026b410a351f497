package wm

import (
	"testing"

	"github.com/DevByProxy/fensterchef/internal/action"
	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/geom"
	"github.com/DevByProxy/fensterchef/internal/monitor"
)

func newTestContext(rect geom.Rect) *Context {
	mon := &monitor.Monitor{Rect: rect, Tree: frametree.New(rect)}
	return &Context{currentMonitor: mon, currentFrame: mon.Tree.Root()}
}

// TestSplitVerticallyYieldsSideBySideColumns pins scenario #2: a
// 1920x1080 monitor split_vertically produces two side-by-side leaves,
// not a stacked top/bottom pair.
func TestSplitVerticallyYieldsSideBySideColumns(t *testing.T) {
	c := newTestContext(geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	if err := c.actionSplit(frametree.Horizontal); err != nil {
		t.Fatalf("split: %v", err)
	}

	leaves := c.currentMonitor.Tree.PreOrderLeaves()
	if len(leaves) != 2 {
		t.Fatalf("want 2 leaves after split, got %d", len(leaves))
	}
	first, second := leaves[0], leaves[1]

	want1 := geom.Rect{X: 0, Y: 0, Width: 960, Height: 1080}
	want2 := geom.Rect{X: 960, Y: 0, Width: 960, Height: 1080}
	if first.Rect() != want1 || second.Rect() != want2 {
		t.Fatalf("split_vertically = %+v, %+v, want %+v, %+v", first.Rect(), second.Rect(), want1, want2)
	}
}

// TestExecuteSequenceSplitVerticallyMatchesScenario2 drives the same
// case through the action dispatcher, as ACTION_SPLIT_VERTICALLY would
// arrive from a key binding.
func TestExecuteSequenceSplitVerticallyMatchesScenario2(t *testing.T) {
	c := newTestContext(geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	if err := c.ExecuteSequence([]action.Step{{Code: action.SplitVertically}}); err != nil {
		t.Fatalf("execute split_vertically: %v", err)
	}

	leaves := c.currentMonitor.Tree.PreOrderLeaves()
	if len(leaves) != 2 {
		t.Fatalf("want 2 leaves after split_vertically, got %d", len(leaves))
	}
	if leaves[0].Rect().X != 0 || leaves[1].Rect().X != 960 || leaves[0].Rect().Y != 0 || leaves[1].Rect().Y != 0 {
		t.Fatalf("split_vertically should divide along x, got %+v and %+v", leaves[0].Rect(), leaves[1].Rect())
	}
}

// TestResizeByAfterSplitVerticallyMatchesScenario3 pins scenario #3:
// resizing W1's leaf by (-100) on the right edge shrinks W1 and grows
// W2 by the same amount, the pair still tiling the monitor exactly.
func TestResizeByAfterSplitVerticallyMatchesScenario3(t *testing.T) {
	c := newTestContext(geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	if err := c.actionSplit(frametree.Horizontal); err != nil {
		t.Fatalf("split: %v", err)
	}
	leaves := c.currentMonitor.Tree.PreOrderLeaves()
	w1, w2 := leaves[0], leaves[1]

	c.currentFrame = w1
	if err := c.actionResizeBy(action.DataValue{Kind: action.KindQuad, Quad: geom.Quad{Right: -100}}); err != nil {
		t.Fatalf("resize: %v", err)
	}

	want1 := geom.Rect{X: 0, Y: 0, Width: 860, Height: 1080}
	want2 := geom.Rect{X: 860, Y: 0, Width: 1060, Height: 1080}
	if w1.Rect() != want1 || w2.Rect() != want2 {
		t.Fatalf("resize_by(right=-100) = %+v, %+v, want %+v, %+v", w1.Rect(), w2.Rect(), want1, want2)
	}
}

// TestExchangeRightAfterSplitVerticallyMatchesScenario4 pins the geometry
// half of scenario #4: exchange_right leaves both rectangles where they
// were. The window swap itself is checked by frametree's
// TestExchangeSwapsWindowsOnly.
func TestExchangeRightAfterSplitVerticallyMatchesScenario4(t *testing.T) {
	c := newTestContext(geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	if err := c.actionSplit(frametree.Horizontal); err != nil {
		t.Fatalf("split: %v", err)
	}
	leaves := c.currentMonitor.Tree.PreOrderLeaves()
	w1, w2 := leaves[0], leaves[1]
	w1Rect, w2Rect := w1.Rect(), w2.Rect()

	// actionSplit leaves currentFrame on the first child (W1's leaf).
	if err := c.actionExchange(frametree.DirRight); err != nil {
		t.Fatalf("exchange_right: %v", err)
	}

	if w1.Rect() != w1Rect || w2.Rect() != w2Rect {
		t.Fatalf("exchange should not move rectangles, got %+v and %+v", w1.Rect(), w2.Rect())
	}
}
