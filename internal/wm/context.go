// Package wm wires together the display client, window registry,
// monitor set, binding table and action interpreter into the single
// event loop that makes fensterchef a window manager. Context is a
// single root record constructed at startup and passed explicitly,
// rather than a collection of package-level globals.
package wm

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/binding"
	"github.com/DevByProxy/fensterchef/internal/config"
	"github.com/DevByProxy/fensterchef/internal/frametree"
	"github.com/DevByProxy/fensterchef/internal/keysym"
	"github.com/DevByProxy/fensterchef/internal/monitor"
	"github.com/DevByProxy/fensterchef/internal/registry"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// Context is fensterchef's root object: one of everything, threaded
// explicitly through every event handler and action. There is exactly
// one consumer of the X connection and one mutator of the frame tree,
// window registry and binding tables, so Context needs no locking.
type Context struct {
	Client   *x11.Client
	Registry *registry.Registry
	Monitors *monitor.Set
	Bindings *binding.Table
	Keymap   keysym.Keymap
	Config   config.Configuration

	configPath string

	log        *log.Logger
	frameLog   *log.Logger
	bindingLog *log.Logger
	actionLog  *log.Logger

	// currentMonitor/currentFrame track the frame tree's notion of
	// "focused leaf" independently of which window (if any) holds
	// keyboard focus -- splitting, resizing and placement all act
	// relative to this leaf.
	currentMonitor *monitor.Monitor
	currentFrame   *frametree.Frame

	// popupFocus remembers the last-focused popup window so
	// ACTION_TOGGLE_FOCUS can swap back to it.
	popupFocus xproto.Window

	// drag is the in-progress pointer drag state, nil when no drag is
	// active.
	drag *dragState

	quitting bool
}

// New connects to the X server, becomes the window manager, loads
// configuration and the keyboard mapping, and builds the initial
// monitor set and binding table.
func New(configPath string) (*Context, error) {
	c := &Context{
		configPath: configPath,
		log:        log.New(os.Stderr, "wm: ", log.LstdFlags),
		frameLog:   log.New(os.Stderr, "frame: ", log.LstdFlags),
		bindingLog: log.New(os.Stderr, "binding: ", log.LstdFlags),
		actionLog:  log.New(os.Stderr, "action: ", log.LstdFlags),
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		c.log.Printf("using built-in configuration (%v)", err)
		cfg = config.Default()
	}
	c.Config = cfg

	client, err := x11.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to create WM: %w", err)
	}
	c.Client = client

	if err := client.BecomeWindowManager(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not become WM, possibly another WM is already running: %w", err)
	}
	if err := client.SetWMName(client.Root, "fensterchef"); err != nil {
		c.log.Println(err)
	}

	keymap, err := keysym.LoadKeyMapping(client.Conn)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to load key mapping: %w", err)
	}
	c.Keymap = keymap

	c.Registry = registry.New(client)
	c.Monitors = monitor.New(client, cfg.Gaps.Outer.ToGeom())
	if err := monitor.EnableRandR(client); err != nil {
		c.log.Println(err) // no RandR is tolerable on a single fixed-geometry screen
	}
	if _, err := c.Monitors.Refresh(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	if prim := c.Monitors.Primary(); prim != nil {
		c.currentMonitor = prim
		c.currentFrame = prim.Tree.Root()
	}

	c.Bindings = &binding.Table{Bindings: binding.Merge(c.userBindings(), binding.DefaultBindings())}
	if err := c.Bindings.Grab(client, keymap, cfg.Keyboard.IgnoreModifiers); err != nil {
		c.bindingLog.Println(err)
	}

	if err := c.adoptExistingWindows(); err != nil {
		c.log.Println(err)
	}

	return c, nil
}

// userBindings returns the bindings contributed by the loaded
// configuration. Parsing cfg.Keyboard.Keys/cfg.Mouse.Buttons (raw
// strings) into Binding records would require a binding-description
// grammar that is out of scope here, so the user table is empty and
// DefaultBindings fills it entirely; internal/binding.Merge is still
// exercised, and a config that did parse user bindings would plug in
// here without changing anything downstream.
func (c *Context) userBindings() []binding.Binding { return nil }

// adoptExistingWindows manages any top-level window already mapped when
// fensterchef starts (e.g. a restart after a crash), querying the root's
// children once at startup rather than assuming the tree is empty.
func (c *Context) adoptExistingWindows() error {
	children, err := c.Client.QueryTree(c.Client.Root)
	if err != nil {
		return fmt.Errorf("adopt existing windows: %w", err)
	}
	for _, child := range children {
		attrs, err := c.Client.WindowAttributes(child)
		if err != nil || attrs == nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		if err := c.manageWindow(child); err != nil {
			c.log.Println(err)
		}
	}
	return nil
}

// Quit requests the event loop stop after its current iteration and
// wakes a blocked WaitForEvent with a harmless synthetic event so an
// external signal (SIGTERM/SIGINT) takes effect promptly.
func (c *Context) Quit() {
	c.quitting = true
	ev := xproto.ClientMessageEvent{Format: 32, Window: c.Client.Root}
	xproto.SendEvent(c.Client.Conn, false, c.Client.Root, xproto.EventMaskSubstructureNotify, string(ev.Bytes()))
}

// Close releases the X connection, ungrabbing input first so the
// session remains usable after fensterchef exits.
func (c *Context) Close() {
	if c.Client == nil {
		return
	}
	xproto.UngrabKeyChecked(c.Client.Conn, xproto.GrabAny, c.Client.Root, xproto.ModMaskAny).Check()
	c.Client.UngrabPointer()
	c.Client.Close()
}
