package wm

import (
	"github.com/BurntSushi/xgb/randr"

	"github.com/DevByProxy/fensterchef/internal/monitor"
)

// handleScreenChange reconciles the monitor set against the new RandR
// configuration and migrates any window orphaned by a removed output
// onto the primary monitor. ScreenChangeNotify is the only RandR event
// subscribed to (see DESIGN.md).
func (c *Context) handleScreenChange(e randr.ScreenChangeNotifyEvent) {
	plans, err := c.Monitors.Refresh()
	if err != nil {
		c.log.Println(err)
		return
	}

	for _, plan := range plans {
		moved := monitor.MigrateWindows(plan)
		for xid, frame := range moved {
			w := c.Registry.Lookup(xid)
			if w == nil {
				continue
			}
			if frame == nil {
				w.FrameID = 0
				if err := c.hideWindow(w); err != nil {
					c.frameLog.Println(err)
				}
				continue
			}
			w.FrameID = frame.ID()
			if err := c.applyWindowGeometry(plan.Target, w); err != nil {
				c.frameLog.Println(err)
			}
		}
	}

	if !c.monitorAlive(c.currentMonitor) {
		c.currentMonitor = c.Monitors.Primary()
		if c.currentMonitor != nil {
			c.currentFrame = c.currentMonitor.Tree.Root()
		} else {
			c.currentFrame = nil
		}
	}
}

// monitorAlive reports whether mon is still present in the current
// monitor set, used after a screen-change reconciliation that may have
// dropped the monitor the current frame lived on.
func (c *Context) monitorAlive(mon *monitor.Monitor) bool {
	if mon == nil {
		return false
	}
	for _, m := range c.Monitors.Monitors() {
		if m == mon {
			return true
		}
	}
	return false
}
