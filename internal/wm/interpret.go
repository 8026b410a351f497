package wm

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/action"
	"github.com/DevByProxy/fensterchef/internal/config"
	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/registry"
)

// errFatal marks an error that should stop a binding's action sequence
// early: actions run in order, a failing action is logged and execution
// continues unless the failure is fatal. Only errors produced by the X
// connection itself are fatal; a frame-tree rejection (e.g. minimum
// size) is not.
var errFatal = errors.New("fatal action error")

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errFatal, err)
}

func isFatal(err error) bool { return errors.Is(err, errFatal) }

// ExecuteSequence runs every step in order, stopping at the first fatal
// error. Every error is logged here; only a fatal one is returned, so the
// caller only needs to react to that.
func (c *Context) ExecuteSequence(steps []action.Step) error {
	for _, step := range steps {
		if err := c.execute(step); err != nil {
			c.actionLog.Println(err)
			if isFatal(err) {
				return err
			}
		}
	}
	return nil
}

func (c *Context) execute(step action.Step) error {
	switch step.Code {
	case action.FocusLeft:
		return c.focusDirection(frametree.DirLeft)
	case action.FocusRight:
		return c.focusDirection(frametree.DirRight)
	case action.FocusUp:
		return c.focusDirection(frametree.DirUp)
	case action.FocusDown:
		return c.focusDirection(frametree.DirDown)
	case action.ParentFrame:
		return c.focusDirection(frametree.DirParent)
	case action.ChildFrame:
		return c.focusDirection(frametree.DirChild)
	case action.RootFrame:
		return c.focusDirection(frametree.DirRoot)
	case action.NextWindow:
		return c.cycleWindow(1)
	case action.PreviousWindow:
		return c.cycleWindow(-1)
	case action.ToggleFocus:
		return c.toggleFocus()
	// split_horizontally stacks the new frame above/below the current one
	// (a horizontal dividing line), which is frametree.Vertical; split_vertically
	// places it side by side (a vertical dividing line), which is
	// frametree.Horizontal.
	case action.SplitHorizontally:
		return c.actionSplit(frametree.Vertical)
	case action.SplitVertically:
		return c.actionSplit(frametree.Horizontal)
	case action.RemoveFrame:
		return c.actionRemoveFrame()
	case action.ExchangeLeft:
		return c.actionExchange(frametree.DirLeft)
	case action.ExchangeRight:
		return c.actionExchange(frametree.DirRight)
	case action.ExchangeUp:
		return c.actionExchange(frametree.DirUp)
	case action.ExchangeDown:
		return c.actionExchange(frametree.DirDown)
	case action.ResizeBy:
		return c.actionResizeBy(step.Value)
	case action.MinimizeWindow:
		return c.actionMinimizeWindow()
	case action.CloseWindow:
		return c.actionCloseWindow()
	case action.BeginMoveDrag, action.BeginResizeDrag:
		// only meaningful as a button binding; handled in handleButtonPress.
		return nil
	case action.ToggleTiling:
		return c.actionToggleTiling()
	case action.ToggleFullscreen:
		return c.actionToggleFullscreen()
	case action.ReloadConfiguration:
		return c.actionReloadConfiguration()
	case action.ShowWindowList:
		return nil // notification overlay is out of scope
	case action.Run:
		return c.actionRun(step.Value)
	case action.Quit:
		c.Quit()
		return nil
	default:
		return fmt.Errorf("execute: unknown action %v", step.Code)
	}
}

// focusDirection moves c.currentFrame in the given direction and, if
// the new frame holds a window, also moves keyboard focus to it.
func (c *Context) focusDirection(dir frametree.Direction) error {
	if c.currentMonitor == nil || c.currentFrame == nil {
		return nil
	}
	next, err := c.currentMonitor.Tree.Focus(c.currentFrame, dir)
	if err != nil {
		return err
	}
	c.currentFrame = next
	if next.IsLeaf() && next.WindowID() != 0 {
		if w := c.Registry.Lookup(next.WindowID()); w != nil {
			return fatal(c.setFocusWindow(w))
		}
	}
	return nil
}

// cycleWindow moves focus to the next/previous tiling window in
// pre-order on the current monitor, wrapping around.
func (c *Context) cycleWindow(step int) error {
	if c.currentMonitor == nil {
		return nil
	}
	leaves := c.currentMonitor.Tree.PreOrderLeaves()
	var occupied []*frametree.Frame
	for _, l := range leaves {
		if l.WindowID() != 0 {
			occupied = append(occupied, l)
		}
	}
	if len(occupied) == 0 {
		return nil
	}
	idx := 0
	for i, l := range occupied {
		if c.currentFrame != nil && l.ID() == c.currentFrame.ID() {
			idx = i
			break
		}
	}
	idx = (idx + step + len(occupied)) % len(occupied)
	next := occupied[idx]
	c.currentFrame = next
	if w := c.Registry.Lookup(next.WindowID()); w != nil {
		return fatal(c.setFocusWindow(w))
	}
	return nil
}

// toggleFocus swaps keyboard focus between the current tiling window and
// the last-focused popup.
func (c *Context) toggleFocus() error {
	focused := c.Registry.Focus()
	if focused != nil && focused.State == registry.StatePopup {
		c.popupFocus = focused.ID
		if c.currentFrame != nil && c.currentFrame.WindowID() != 0 {
			if w := c.Registry.Lookup(c.currentFrame.WindowID()); w != nil {
				return fatal(c.setFocusWindow(w))
			}
		}
		return nil
	}
	if c.popupFocus != 0 {
		if w := c.Registry.Lookup(c.popupFocus); w != nil && w.State == registry.StatePopup {
			return fatal(c.setFocusWindow(w))
		}
	}
	return nil
}

func (c *Context) actionSplit(axis frametree.Axis) error {
	if c.currentFrame == nil || c.currentMonitor == nil {
		return nil
	}
	first, _, err := c.currentMonitor.Tree.Split(c.currentFrame, axis)
	if err != nil {
		return err
	}
	c.currentFrame = first
	if err := c.applyMonitorGeometry(c.currentMonitor); err != nil {
		return err
	}
	return nil
}

func (c *Context) actionRemoveFrame() error {
	if c.currentFrame == nil || c.currentMonitor == nil {
		return nil
	}
	leaf := c.currentFrame
	if win := leaf.WindowID(); win != 0 {
		if w := c.Registry.Lookup(win); w != nil {
			if err := c.hideWindow(w); err != nil {
				c.frameLog.Println(err)
			}
		}
	}
	parent := leaf.Parent()
	if parent == nil {
		return nil // the root frame cannot be removed
	}
	first, second := parent.Children()
	sibling := first
	if sibling == leaf {
		sibling = second
	}

	if err := c.currentMonitor.Tree.Remove(leaf, c.Config.Tiling.AutoRemoveVoid); err != nil {
		return err
	}
	if c.frameAlive(c.currentMonitor, sibling) {
		c.currentFrame = sibling
	} else {
		c.currentFrame = c.currentMonitor.Tree.Root()
	}
	return c.applyMonitorGeometry(c.currentMonitor)
}

func (c *Context) actionExchange(dir frametree.Direction) error {
	if c.currentFrame == nil || c.currentMonitor == nil {
		return nil
	}
	other, err := c.currentMonitor.Tree.Focus(c.currentFrame, dir)
	if err != nil {
		return err
	}
	if err := c.currentMonitor.Tree.Exchange(c.currentFrame, other); err != nil {
		return err
	}
	return c.applyMonitorGeometry(c.currentMonitor)
}

func (c *Context) actionResizeBy(v action.DataValue) error {
	if c.currentFrame == nil || c.currentMonitor == nil || v.Kind != action.KindQuad {
		return nil
	}
	if err := c.currentMonitor.Tree.ResizeBy(c.currentFrame, v.Quad); err != nil {
		return err // ErrMinimumSize is a user-facing rejection, not fatal
	}
	return c.applyMonitorGeometry(c.currentMonitor)
}

func (c *Context) actionMinimizeWindow() error {
	focused := c.Registry.Focus()
	if focused == nil {
		return nil
	}
	return fatal(c.hideWindow(focused))
}

// actionCloseWindow sends WM_DELETE_WINDOW if the client supports it,
// otherwise forcibly kills the connection.
func (c *Context) actionCloseWindow() error {
	focused := c.Registry.Focus()
	if focused == nil {
		return nil
	}
	if focused.Properties.SupportsDelete {
		return fatal(c.Client.SendDeleteWindow(focused.ID))
	}
	return fatal(c.Client.KillClient(focused.ID))
}

func (c *Context) actionToggleTiling() error {
	focused := c.Registry.Focus()
	if focused == nil {
		return nil
	}
	mon := c.monitorOf(focused)
	if mon == nil {
		mon = c.Monitors.Primary()
	}
	if mon == nil {
		return nil
	}
	switch focused.State {
	case registry.StateTiling:
		c.toPopup(focused, mon)
	case registry.StatePopup:
		c.toTiling(focused, mon)
	}
	return nil
}

// actionToggleFullscreen raises the window above the stack on entry and
// restores its previous geometry on exit.
func (c *Context) actionToggleFullscreen() error {
	focused := c.Registry.Focus()
	if focused == nil {
		return nil
	}
	mon := c.monitorOf(focused)
	if mon == nil {
		mon = c.Monitors.Primary()
	}
	if mon == nil {
		return nil
	}
	if focused.State == registry.StateFullscreen {
		focused.FromFullscreen()
	} else {
		focused.ToFullscreen()
		if err := c.Client.Raise(focused.ID); err != nil {
			c.log.Println(err)
		}
	}
	return fatal(c.applyWindowGeometry(mon, focused))
}

// actionReloadConfiguration re-reads the configuration file, keeping the
// prior configuration active on a decode error.
func (c *Context) actionReloadConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err // not fatal: the old configuration stays live
	}
	c.Config = cfg
	return nil
}

// actionRun launches $TERMINAL, falling back to xterm, detached from
// fensterchef so it survives a later Quit.
func (c *Context) actionRun(v action.DataValue) error {
	command := v.String
	if command == "" {
		command = os.Getenv("TERMINAL")
	}
	if command == "" {
		command = "xterm"
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("run %q: %w", command, err)
	}
	go cmd.Wait()
	return nil
}

// setFocusWindow moves both the registry's notion of focus and the X
// server's input focus to w.
func (c *Context) setFocusWindow(w *registry.Window) error {
	if w.State == registry.StateHidden {
		return nil
	}
	c.Registry.SetFocus(w.ID)
	if w.State == registry.StatePopup {
		c.popupFocus = w.ID
	}
	return c.Client.SetInputFocus(w.ID, xproto.TimeCurrentTime)
}
