package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/monitor"
	"github.com/DevByProxy/fensterchef/internal/registry"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// manageWindow folds Registry.Create, initial-state classification and
// the frame-tree placement rule into the one call made for a newly
// seen window.
func (c *Context) manageWindow(xid xproto.Window) error {
	w, err := c.Registry.Create(xid)
	if err != nil {
		return fmt.Errorf("manage window %d: %w", xid, err)
	}

	mon := c.currentMonitor
	if mon == nil {
		mon = c.Monitors.Primary()
	}
	if mon == nil {
		return fmt.Errorf("manage window %d: no monitor to place it on", xid)
	}

	w.State = registry.Classify(w.Properties, mon.Rect)

	switch w.State {
	case registry.StateTiling:
		assigned, displaced := mon.Tree.Place(xid, c.currentFrame)
		if assigned == nil {
			return fmt.Errorf("manage window %d: monitor has no frames", xid)
		}
		w.FrameID = assigned.ID()
		c.currentMonitor = mon
		c.currentFrame = assigned
		if displaced != 0 {
			if dw := c.Registry.Lookup(displaced); dw != nil {
				dw.FrameID = 0
				if err := c.hideWindow(dw); err != nil {
					c.frameLog.Println(err)
				}
			}
		}
	default: // popup, including override-redirect windows
		w.PopupRect = w.Geometry
	}

	if err := c.applyWindowGeometry(mon, w); err != nil {
		c.frameLog.Println(err)
	}
	if err := c.Client.Map(xid); err != nil {
		return fmt.Errorf("manage window %d: map: %w", xid, err)
	}
	w.Mapped = true

	if c.Config.Border.Size > 0 {
		if err := c.Client.SetBorderWidth(xid, c.Config.Border.Size); err != nil {
			c.log.Println(err)
		}
	}

	if !w.Properties.OverrideRedirect {
		if err := c.setFocusWindow(w); err != nil {
			c.log.Println(err)
		}
	}
	return nil
}

// applyWindowGeometry computes the rectangle w should occupy --
// its leaf's rectangle inset by the configured inner gap for tiling
// windows, its stored popup rectangle otherwise -- and pushes it through
// registry.Window.ApplyGeometry's idempotence check.
func (c *Context) applyWindowGeometry(mon *monitor.Monitor, w *registry.Window) error {
	frameRect := w.Geometry
	if w.InTiling() {
		leaf := mon.Tree.FindByID(w.FrameID)
		if leaf == nil {
			return fmt.Errorf("apply geometry: window %d has a dangling frame id", w.ID)
		}
		frameRect = leaf.Rect().Inset(c.Config.Gaps.Inner.ToGeom())
	}
	return w.ApplyGeometry(c.Client, frameRect, mon.Rect)
}

// applyMonitorGeometry reapplies geometry to every window tiled on mon,
// used after any frame-tree mutation (split, remove, resize, exchange).
func (c *Context) applyMonitorGeometry(mon *monitor.Monitor) error {
	if mon == nil {
		return nil
	}
	for _, leaf := range mon.Tree.PreOrderLeaves() {
		win := leaf.WindowID()
		if win == 0 {
			continue
		}
		w := c.Registry.Lookup(win)
		if w == nil {
			continue
		}
		if err := c.applyWindowGeometry(mon, w); err != nil {
			c.frameLog.Println(err)
		}
	}
	return nil
}

// monitorOf returns the monitor whose tree currently holds w's frame
// slot, or the last-focused monitor as a fallback for popups and hidden
// windows which have no frame slot to search by.
func (c *Context) monitorOf(w *registry.Window) *monitor.Monitor {
	if w.InTiling() {
		for _, m := range c.Monitors.Monitors() {
			if leaf := m.Tree.FindByID(w.FrameID); leaf != nil && leaf.WindowID() == w.ID {
				return m
			}
		}
	}
	return c.currentMonitor
}

// frameAlive reports whether f is still reachable in mon's tree, used
// after a removal/collapse to tell whether a previously-current frame
// survived it.
func (c *Context) frameAlive(mon *monitor.Monitor, f *frametree.Frame) bool {
	if mon == nil || f == nil {
		return false
	}
	return mon.Tree.FindByID(f.ID()) != nil
}

// vacateAndHide releases w's frame slot (if any) and transitions it to
// hidden, without issuing any X request -- the part of the transition
// shared by both the UnmapNotify handler (the client already unmapped
// itself) and action-initiated hides.
func (c *Context) vacateAndHide(w *registry.Window) {
	if w.InTiling() {
		if mon := c.monitorOf(w); mon != nil {
			if leaf := mon.Tree.FindByID(w.FrameID); leaf != nil {
				if err := mon.Tree.Vacate(leaf, c.Config.Tiling.AutoRemoveVoid); err != nil {
					c.frameLog.Println(err)
				}
				if !c.frameAlive(mon, c.currentFrame) {
					c.currentFrame = mon.Tree.Root()
				}
			}
		}
		w.FrameID = 0
	}
	w.ToHidden()
	w.Mapped = false
	if c.Registry.Focus() == w {
		c.Registry.SetFocus(0)
	}
}

// hideWindow performs an action-initiated hide (minimize, remove_frame
// on an occupied leaf): unlike vacateAndHide it also issues the
// UnmapWindow request itself, since the client has not already done so.
func (c *Context) hideWindow(w *registry.Window) error {
	if w.State == registry.StateHidden {
		return nil
	}
	wasMapped := w.Mapped
	c.vacateAndHide(w)
	if wasMapped {
		return c.Client.Unmap(w.ID)
	}
	return nil
}

// toPopup transitions w out of the tiling tree into the popup state,
// used both by ACTION_TOGGLE_TILING and by the PropertyNotify
// reclassification path.
func (c *Context) toPopup(w *registry.Window, mon *monitor.Monitor) {
	if w.InTiling() {
		if leaf := mon.Tree.FindByID(w.FrameID); leaf != nil {
			if err := mon.Tree.Vacate(leaf, c.Config.Tiling.AutoRemoveVoid); err != nil {
				c.frameLog.Println(err)
			}
			if !c.frameAlive(mon, c.currentFrame) {
				c.currentFrame = mon.Tree.Root()
			}
		}
		w.FrameID = 0
	}
	w.PopupRect = w.Geometry
	w.State = registry.StatePopup
	if err := c.applyWindowGeometry(mon, w); err != nil {
		c.frameLog.Println(err)
	}
}

// toTiling transitions w into the tiling tree via the placement rule,
// used by ACTION_TOGGLE_TILING and reclassification.
func (c *Context) toTiling(w *registry.Window, mon *monitor.Monitor) {
	assigned, displaced := mon.Tree.Place(w.ID, c.currentFrame)
	if assigned == nil {
		return
	}
	w.FrameID = assigned.ID()
	w.State = registry.StateTiling
	if displaced != 0 {
		if dw := c.Registry.Lookup(displaced); dw != nil {
			dw.FrameID = 0
			if err := c.hideWindow(dw); err != nil {
				c.frameLog.Println(err)
			}
		}
	}
	if err := c.applyWindowGeometry(mon, w); err != nil {
		c.frameLog.Println(err)
	}
}

func configureValues(e xproto.ConfigureRequestEvent) []uint32 {
	var values []uint32
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(e.X)))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(e.Y)))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(e.Width))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(e.Height))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(e.BorderWidth))
	}
	if e.ValueMask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(e.Sibling))
	}
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(e.StackMode))
	}
	return values
}

func (c *Context) handleMapRequest(e xproto.MapRequestEvent) {
	if c.Registry.Lookup(e.Window) != nil {
		return
	}
	if attrs, err := c.Client.WindowAttributes(e.Window); err == nil && attrs != nil && attrs.OverrideRedirect {
		return // override-redirect windows map themselves; nothing to decide
	}
	if err := c.manageWindow(e.Window); err != nil {
		c.log.Println(err)
	}
}

// handleConfigureRequest implements a three-way split: unmanaged
// windows are honored verbatim, tiling windows ignore the request
// outright (tiling geometry always wins), popups honor position and
// clamp size to their hints.
func (c *Context) handleConfigureRequest(e xproto.ConfigureRequestEvent) {
	w := c.Registry.Lookup(e.Window)
	if w == nil {
		if err := c.Client.ConfigureRaw(e.Window, uint16(e.ValueMask), configureValues(e)); err != nil {
			c.log.Println(err)
		}
		return
	}

	switch w.State {
	case registry.StateTiling:
		if err := c.Client.SendConfigureNotify(w.ID, w.Geometry, uint16(c.Config.Border.Size)); err != nil {
			c.log.Println(err)
		}
	default:
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			w.PopupRect.X = int32(e.X)
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			w.PopupRect.Y = int32(e.Y)
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			w.PopupRect.Width = uint32(e.Width)
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			w.PopupRect.Height = uint32(e.Height)
		}
		mon := c.monitorOf(w)
		if mon == nil {
			mon = c.Monitors.Primary()
		}
		if mon != nil {
			if err := c.applyWindowGeometry(mon, w); err != nil {
				c.log.Println(err)
			}
		}
	}
}

func (c *Context) handleUnmapNotify(e xproto.UnmapNotifyEvent) {
	w := c.Registry.Lookup(e.Window)
	if w == nil || w.State == registry.StateHidden {
		return
	}
	c.vacateAndHide(w)
}

func (c *Context) handleDestroyNotify(e xproto.DestroyNotifyEvent) {
	w := c.Registry.Lookup(e.Window)
	if w == nil {
		return
	}
	if w.InTiling() {
		if mon := c.monitorOf(w); mon != nil {
			if leaf := mon.Tree.FindByID(w.FrameID); leaf != nil {
				if err := mon.Tree.Vacate(leaf, c.Config.Tiling.AutoRemoveVoid); err != nil {
					c.frameLog.Println(err)
				}
			}
			if !c.frameAlive(mon, c.currentFrame) {
				c.currentFrame = mon.Tree.Root()
			}
		}
	}
	if c.popupFocus == w.ID {
		c.popupFocus = 0
	}
	if c.drag != nil && c.drag.target == w {
		c.drag = nil
	}
	c.Registry.Destroy(w)
}

// handlePropertyNotify refreshes the cached property snapshot for the
// property that changed and recomputes the window's predicted state,
// transitioning it if the prediction changed.
func (c *Context) handlePropertyNotify(e xproto.PropertyNotifyEvent) {
	w := c.Registry.Lookup(e.Window)
	if w == nil {
		return
	}
	switch e.Atom {
	case c.Client.MustAtom(x11.AtomWMName), c.Client.MustAtom(x11.AtomNetWMName):
		c.Registry.RefreshTitle(w)
		return
	case c.Client.MustAtom(x11.AtomWMHints):
		c.Registry.RefreshWMHints(w)
	case c.Client.MustAtom(x11.AtomWMNormalHints):
		c.Registry.RefreshSizeHints(w)
	default:
		return
	}

	if w.State == registry.StateFullscreen || w.State == registry.StateHidden {
		return
	}
	mon := c.monitorOf(w)
	if mon == nil {
		mon = c.Monitors.Primary()
	}
	if mon == nil {
		return
	}
	predicted := registry.Classify(w.Properties, mon.Rect)
	if predicted == w.State {
		return
	}
	switch predicted {
	case registry.StateTiling:
		c.toTiling(w, mon)
	case registry.StatePopup:
		c.toPopup(w, mon)
	}
}
