package frametree

import (
	"fmt"

	"github.com/DevByProxy/fensterchef/internal/geom"
)

// edgeAdjustment is a validated ratio change to apply to one ancestor
// inner node, computed for a single edge of ResizeBy's quad.
type edgeAdjustment struct {
	node     *Frame
	newRatio float64
}

// ResizeBy grows or shrinks leaf by the four edge deltas in quad. Each
// nonzero edge walks up the tree to the nearest
// ancestor whose split that edge belongs to and adjusts its ratio;
// growing leaf always shrinks its sibling on that edge, and the
// adjustment is rejected in full (no partial application) if it would
// take any leaf below MinLeafSize.
func (t *Tree) ResizeBy(leaf *Frame, quad geom.Quad) error {
	if !leaf.isLeaf {
		return fmt.Errorf("resize: frame %d is not a leaf", leaf.id)
	}

	var adjustments []edgeAdjustment

	for _, e := range []struct {
		delta      int32
		axis       Axis
		wantSecond bool
	}{
		{quad.Left, Horizontal, true},
		{quad.Right, Horizontal, false},
		{quad.Top, Vertical, true},
		{quad.Bottom, Vertical, false},
	} {
		if e.delta == 0 {
			continue
		}
		adj, err := t.planEdge(leaf, e.axis, e.wantSecond, e.delta)
		if err != nil {
			return err
		}
		adjustments = append(adjustments, adj)
	}

	for _, adj := range adjustments {
		adj.node.ratio = adj.newRatio
	}
	for _, adj := range adjustments {
		t.recompute(adj.node)
	}
	return nil
}

// planEdge walks up from leaf to the nearest ancestor splitting on axis
// where leaf's side of the split matches wantSecond, and computes the
// ratio change that moves that boundary by deltaPixels. wantSecond is
// true for the Left/Top edges (leaf is the second, i.e. right/bottom,
// child) and false for Right/Bottom (leaf is the first child).
func (t *Tree) planEdge(leaf *Frame, axis Axis, wantSecond bool, deltaPixels int32) (edgeAdjustment, error) {
	node := leaf
	for {
		parent := node.parent
		if parent == nil {
			return edgeAdjustment{}, fmt.Errorf("resize: frame %d has no interior boundary on that edge", leaf.id)
		}
		if parent.axis == axis {
			isSecond := parent.second == node
			if isSecond == wantSecond {
				return computeRatioDelta(parent, axis, wantSecond, deltaPixels)
			}
		}
		node = parent
	}
}

func computeRatioDelta(parent *Frame, axis Axis, wantSecond bool, deltaPixels int32) (edgeAdjustment, error) {
	var total float64
	if axis == Horizontal {
		total = float64(parent.rect.Width)
	} else {
		total = float64(parent.rect.Height)
	}
	if total <= 0 {
		return edgeAdjustment{}, fmt.Errorf("resize: frame %d has zero extent on its split axis", parent.id)
	}

	// Growing the second child (Left/Top edges) moves the split boundary
	// toward the first child, shrinking the first child's ratio share.
	sign := 1.0
	if wantSecond {
		sign = -1.0
	}
	deltaRatio := sign * float64(deltaPixels) / total
	newRatio := parent.ratio + deltaRatio

	firstSize := newRatio * total
	secondSize := total - firstSize
	if newRatio <= 0 || newRatio >= 1 || firstSize < MinLeafSize || secondSize < MinLeafSize {
		return edgeAdjustment{}, ErrMinimumSize
	}
	return edgeAdjustment{node: parent, newRatio: newRatio}, nil
}
