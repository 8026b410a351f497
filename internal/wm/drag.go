package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/action"
	"github.com/DevByProxy/fensterchef/internal/binding"
	"github.com/DevByProxy/fensterchef/internal/geom"
	"github.com/DevByProxy/fensterchef/internal/registry"
)

type dragOperation uint8

const (
	dragMove dragOperation = iota
	dragResize
)

// dragState is the process-wide in-progress pointer drag, alive from
// button-press until button-release or an Escape cancel.
type dragState struct {
	operation     dragOperation
	target        *registry.Window
	startRect     geom.Rect
	startPointerX int16
	startPointerY int16
}

// applyDragDelta computes the rectangle a drag in progress should move
// to, given the pointer's total displacement since the drag began. Pure
// arithmetic, factored out of motionDrag so it is testable without a
// live X connection.
func applyDragDelta(op dragOperation, start geom.Rect, dx, dy int32) geom.Rect {
	r := start
	switch op {
	case dragMove:
		r.X += dx
		r.Y += dy
	case dragResize:
		if w := int32(r.Width) + dx; w > 0 {
			r.Width = uint32(w)
		}
		if h := int32(r.Height) + dy; h > 0 {
			r.Height = uint32(h)
		}
	}
	return r
}

// beginDrag grabs the pointer and records the drag state, covering both
// the move drag the default Mod4+Button3 binding starts and the resize
// drag Mod4+Button1 starts. At most one drag may be active at a time.
func (c *Context) beginDrag(win xproto.Window, op dragOperation, pointerX, pointerY int16) {
	if c.drag != nil {
		return
	}
	w := c.Registry.Lookup(win)
	if w == nil {
		return
	}
	if err := c.Client.GrabPointerForDrag(); err != nil {
		c.log.Println(err)
		return
	}
	c.drag = &dragState{
		operation:     op,
		target:        w,
		startRect:     w.Geometry,
		startPointerX: pointerX,
		startPointerY: pointerY,
	}
}

// motionDrag translates or resizes the drag target by the pointer delta
// accumulated since the drag began. Only popups are moved/resized this
// way; a tiling window's geometry is owned by its frame.
func (c *Context) motionDrag(pointerX, pointerY int16) {
	if c.drag == nil {
		return
	}
	dx := int32(pointerX - c.drag.startPointerX)
	dy := int32(pointerY - c.drag.startPointerY)
	r := applyDragDelta(c.drag.operation, c.drag.startRect, dx, dy)

	w := c.drag.target
	if w.State != registry.StatePopup {
		return
	}
	if err := c.Client.Configure(w.ID, r); err != nil {
		c.log.Println(err)
		return
	}
	w.PopupRect = r
	w.Geometry = r
}

// endDrag releases the pointer grab.
func (c *Context) endDrag() {
	if c.drag == nil {
		return
	}
	if err := c.Client.UngrabPointer(); err != nil {
		c.log.Println(err)
	}
	c.drag = nil
}

// cancelDrag restores the drag target's start position and releases the
// grab -- the only cancelable operation in the whole system.
func (c *Context) cancelDrag() {
	if c.drag == nil {
		return
	}
	w := c.drag.target
	if w.State == registry.StatePopup {
		if err := c.Client.Configure(w.ID, c.drag.startRect); err != nil {
			c.log.Println(err)
		}
		w.PopupRect = c.drag.startRect
		w.Geometry = c.drag.startRect
	}
	c.endDrag()
}

func (c *Context) handleButtonPress(e xproto.ButtonPressEvent) {
	b := c.Bindings.Lookup(uint16(e.State), c.Config.Mouse.IgnoreModifiers, uint32(e.Detail), binding.KindButton, binding.FlagPress)
	if b == nil {
		return
	}
	for _, step := range b.Actions {
		switch step.Code {
		case action.BeginMoveDrag:
			c.beginDrag(e.Child, dragMove, e.RootX, e.RootY)
		case action.BeginResizeDrag:
			c.beginDrag(e.Child, dragResize, e.RootX, e.RootY)
		default:
			if err := c.execute(step); err != nil {
				c.actionLog.Println(err)
			}
		}
	}
}

func (c *Context) handleButtonRelease(e xproto.ButtonReleaseEvent) {
	if c.drag != nil {
		c.endDrag()
	}
}

func (c *Context) handleMotionNotify(e xproto.MotionNotifyEvent) {
	c.motionDrag(e.RootX, e.RootY)
}
