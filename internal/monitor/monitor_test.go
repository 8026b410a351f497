package monitor

import (
	"testing"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/geom"
)

func newTestMonitor(output randr.Output, primary bool, rect geom.Rect) *Monitor {
	return &Monitor{
		Output:  output,
		Name:    "test",
		Primary: primary,
		Rect:    rect,
		Tree:    frametree.New(rect),
	}
}

func TestSetPrimaryFallsBackToFirst(t *testing.T) {
	a := newTestMonitor(1, false, geom.Rect{Width: 1920, Height: 1080})
	b := newTestMonitor(2, false, geom.Rect{X: 1920, Width: 1920, Height: 1080})
	s := &Set{monitors: []*Monitor{a, b}}

	if got := s.Primary(); got != a {
		t.Fatalf("with no monitor marked primary, Primary() should return the first one")
	}
}

func TestSetPrimaryHonorsFlag(t *testing.T) {
	a := newTestMonitor(1, false, geom.Rect{Width: 1920, Height: 1080})
	b := newTestMonitor(2, true, geom.Rect{X: 1920, Width: 1920, Height: 1080})
	s := &Set{monitors: []*Monitor{a, b}}

	if got := s.Primary(); got != b {
		t.Fatalf("Primary() should return the monitor marked primary")
	}
}

func TestSetAtPoint(t *testing.T) {
	a := newTestMonitor(1, true, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	b := newTestMonitor(2, false, geom.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080})
	s := &Set{monitors: []*Monitor{a, b}}

	if got := s.AtPoint(100, 100); got != a {
		t.Fatalf("point inside the first monitor should resolve to it")
	}
	if got := s.AtPoint(2000, 100); got != b {
		t.Fatalf("point inside the second monitor should resolve to it")
	}
	if got := s.AtPoint(-10, -10); got != a {
		t.Fatalf("point outside every monitor should fall back to the primary")
	}
}

func TestMigrateWindowsPrefersEmptyLeaf(t *testing.T) {
	removed := newTestMonitor(1, false, geom.Rect{Width: 1920, Height: 1080})
	left, _, _ := removed.Tree.Split(removed.Tree.Root(), frametree.Horizontal)
	removed.Tree.Assign(left, xproto.Window(5))

	target := newTestMonitor(2, true, geom.Rect{Width: 1920, Height: 1080})
	target.Tree.Split(target.Tree.Root(), frametree.Horizontal)

	plan := MigrationPlan{Removed: removed, Target: target}
	result := MigrateWindows(plan)

	if got, ok := result[xproto.Window(5)]; !ok || got == nil {
		t.Fatalf("migrated window should be assigned a frame in the target tree")
	}
	if target.Tree.FindByWindow(5) == nil {
		t.Fatalf("migrated window should be findable in the target's tree")
	}
}
