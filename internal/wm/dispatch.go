package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/binding"
	"github.com/DevByProxy/fensterchef/internal/keysym"
	"github.com/DevByProxy/fensterchef/internal/registry"
)

// Run is fensterchef's X event loop: it blocks on the single file
// descriptor the display client owns, routes each event, then flushes
// before blocking again so replies are never delayed.
func (c *Context) Run() error {
	for !c.quitting {
		ev, err := c.Client.Conn.WaitForEvent()
		if err != nil {
			c.log.Println(err)
			continue
		}
		c.dispatch(ev)
		c.Client.Flush()
	}
	return nil
}

func (c *Context) dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	// Requests: fensterchef decides and replies.
	case xproto.MapRequestEvent:
		c.handleMapRequest(e)
	case xproto.ConfigureRequestEvent:
		c.handleConfigureRequest(e)

	// Notifications: the state already changed server-side.
	case xproto.UnmapNotifyEvent:
		c.handleUnmapNotify(e)
	case xproto.DestroyNotifyEvent:
		c.handleDestroyNotify(e)
	case xproto.PropertyNotifyEvent:
		c.handlePropertyNotify(e)
	case xproto.EnterNotifyEvent:
		c.handleEnterNotify(e)
	case xproto.KeyPressEvent:
		c.handleKeyPress(e)
	case xproto.KeyReleaseEvent:
		c.handleKeyRelease(e)
	case xproto.ButtonPressEvent:
		c.handleButtonPress(e)
	case xproto.ButtonReleaseEvent:
		c.handleButtonRelease(e)
	case xproto.MotionNotifyEvent:
		c.handleMotionNotify(e)
	case randr.ScreenChangeNotifyEvent:
		c.handleScreenChange(e)
	}
}

func (c *Context) handleKeyPress(e xproto.KeyPressEvent) {
	sym := c.Keymap.Lookup(e.Detail)
	if c.drag != nil && sym == keysym.XKEscape {
		c.cancelDrag()
		return
	}
	b := c.Bindings.Lookup(uint16(e.State), c.Config.Keyboard.IgnoreModifiers, uint32(sym), binding.KindKey, binding.FlagPress)
	if b == nil {
		return
	}
	if err := c.ExecuteSequence(b.Actions); err != nil {
		c.actionLog.Println(err)
	}
}

func (c *Context) handleKeyRelease(e xproto.KeyReleaseEvent) {
	sym := c.Keymap.Lookup(e.Detail)
	b := c.Bindings.Lookup(uint16(e.State), c.Config.Keyboard.IgnoreModifiers, uint32(sym), binding.KindKey, binding.FlagRelease)
	if b == nil {
		return
	}
	if err := c.ExecuteSequence(b.Actions); err != nil {
		c.actionLog.Println(err)
	}
}

// handleEnterNotify implements sloppy focus-follows-mouse on
// EnterNotify; FocusIn/FocusOut themselves are left unhandled (see
// DESIGN.md).
func (c *Context) handleEnterNotify(e xproto.EnterNotifyEvent) {
	w := c.Registry.Lookup(e.Event)
	if w == nil || w.State == registry.StateHidden {
		return
	}
	if w.InTiling() {
		if mon := c.monitorOf(w); mon != nil {
			if leaf := mon.Tree.FindByID(w.FrameID); leaf != nil {
				c.currentMonitor = mon
				c.currentFrame = leaf
			}
		}
	}
	if err := c.setFocusWindow(w); err != nil {
		c.log.Println(err)
	}
}
