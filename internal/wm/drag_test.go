package wm

import (
	"testing"

	"github.com/DevByProxy/fensterchef/internal/geom"
)

func TestApplyDragDeltaMoveTranslatesOrigin(t *testing.T) {
	start := geom.Rect{X: 100, Y: 200, Width: 300, Height: 400}
	got := applyDragDelta(dragMove, start, 10, -20)
	want := geom.Rect{X: 110, Y: 180, Width: 300, Height: 400}
	if got != want {
		t.Fatalf("applyDragDelta(move) = %+v, want %+v", got, want)
	}
}

func TestApplyDragDeltaResizeGrowsSize(t *testing.T) {
	start := geom.Rect{X: 0, Y: 0, Width: 300, Height: 400}
	got := applyDragDelta(dragResize, start, 50, -30)
	want := geom.Rect{X: 0, Y: 0, Width: 350, Height: 370}
	if got != want {
		t.Fatalf("applyDragDelta(resize) = %+v, want %+v", got, want)
	}
}

func TestApplyDragDeltaResizeRejectsNonPositive(t *testing.T) {
	start := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	got := applyDragDelta(dragResize, start, -200, -200)
	if got.Width != start.Width || got.Height != start.Height {
		t.Fatalf("a delta that would make the window non-positive should be ignored, got %+v", got)
	}
}
