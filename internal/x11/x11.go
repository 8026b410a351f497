// Package x11 is the thin transport layer between fensterchef and the X
// server: connection setup, atom interning, and the request/reply
// wrappers every other package builds on. It deliberately knows nothing
// about frames, windows states or bindings -- callers translate.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/geom"
)

// Client wraps an xgb connection together with the handful of values
// every request needs: the root window, the default screen and an atom
// cache. A single Client is shared by the whole process; there is
// exactly one consumer of the connection.
type Client struct {
	Conn   *xgb.Conn
	Screen *xproto.ScreenInfo
	Root   xproto.Window

	atomsMu sync.Mutex
	atoms   map[string]xproto.Atom
}

// Well-known atom names read or written by the core.
const (
	AtomWMProtocols        = "WM_PROTOCOLS"
	AtomWMDeleteWindow     = "WM_DELETE_WINDOW"
	AtomWMState            = "WM_STATE"
	AtomWMName             = "WM_NAME"
	AtomNetWMName          = "_NET_WM_NAME"
	AtomNetWMState         = "_NET_WM_STATE"
	AtomNetWMStateFullscrn = "_NET_WM_STATE_FULLSCREEN"
	AtomWMNormalHints      = "WM_NORMAL_HINTS"
	AtomWMHints            = "WM_HINTS"
	AtomWMTransientFor     = "WM_TRANSIENT_FOR"
)

// Connect opens a new connection to the X server named by the DISPLAY
// environment variable.
func Connect() (*Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the X server: %w", err)
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	c := &Client{
		Conn:   conn,
		Screen: screen,
		Root:   screen.Root,
		atoms:  make(map[string]xproto.Atom),
	}
	return c, nil
}

// Close releases the connection.
func (c *Client) Close() {
	if c.Conn != nil {
		c.Conn.Close()
	}
}

// Flush issues a round trip so that batched requests are sent before the
// event loop blocks again.
func (c *Client) Flush() {
	c.Conn.Sync()
}

// Atom interns name, caching the result. The cache means repeated
// lookups of the same well-known atom never hit the wire twice.
func (c *Client) Atom(name string) (xproto.Atom, error) {
	c.atomsMu.Lock()
	if a, ok := c.atoms[name]; ok {
		c.atomsMu.Unlock()
		return a, nil
	}
	c.atomsMu.Unlock()

	reply, err := xproto.InternAtom(c.Conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %q: %w", name, err)
	}
	c.atomsMu.Lock()
	c.atoms[name] = reply.Atom
	c.atomsMu.Unlock()
	return reply.Atom, nil
}

// MustAtom interns name like Atom, but returns 0 instead of an error on
// failure.
func (c *Client) MustAtom(name string) xproto.Atom {
	a, err := c.Atom(name)
	if err != nil {
		return 0
	}
	return a
}

// BecomeWindowManager asks the X server for substructure redirection on
// the root window -- the single request by which a client becomes THE
// window manager. Fails with an X AccessError if another WM already
// holds it.
func (c *Client) BecomeWindowManager() error {
	mask := uint32(
		xproto.EventMaskKeyPress |
			xproto.EventMaskKeyRelease |
			xproto.EventMaskButtonPress |
			xproto.EventMaskButtonRelease |
			xproto.EventMaskPropertyChange |
			xproto.EventMaskFocusChange |
			xproto.EventMaskStructureNotify |
			xproto.EventMaskSubstructureNotify |
			xproto.EventMaskSubstructureRedirect,
	)
	return xproto.ChangeWindowAttributesChecked(c.Conn, c.Root, xproto.CwEventMask, []uint32{mask}).Check()
}

// ManageSubstructure subscribes to the events the dispatcher needs on an
// arbitrary managed window (map/unmap/destroy/property notifications
// plus enter-window and focus-change events).
func (c *Client) ManageSubstructure(win xproto.Window) error {
	mask := uint32(
		xproto.EventMaskStructureNotify |
			xproto.EventMaskPropertyChange |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskFocusChange,
	)
	return xproto.ChangeWindowAttributesChecked(c.Conn, win, xproto.CwEventMask, []uint32{mask}).Check()
}

// Geometry queries the current geometry of win.
func (c *Client) Geometry(win xproto.Window) (geom.Rect, error) {
	reply, err := xproto.GetGeometry(c.Conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get geometry: %w", err)
	}
	return geom.Rect{
		X:      int32(reply.X),
		Y:      int32(reply.Y),
		Width:  uint32(reply.Width),
		Height: uint32(reply.Height),
	}, nil
}

// Configure applies r to win via ConfigureWindow, the single point
// through which the state machine in internal/registry pushes geometry.
func (c *Client) Configure(win xproto.Window, r geom.Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(r.X), uint32(r.Y), r.Width, r.Height}
	return xproto.ConfigureWindowChecked(c.Conn, win, mask, values).Check()
}

// ConfigureRaw issues a ConfigureWindow request with mask/values exactly
// as given, used to honor a ConfigureRequest from an unmanaged window
// verbatim.
func (c *Client) ConfigureRaw(win xproto.Window, mask uint16, values []uint32) error {
	return xproto.ConfigureWindowChecked(c.Conn, win, mask, values).Check()
}

// SetBorderWidth sets win's border width.
func (c *Client) SetBorderWidth(win xproto.Window, width uint32) error {
	return xproto.ConfigureWindowChecked(c.Conn, win, xproto.ConfigWindowBorderWidth, []uint32{width}).Check()
}

// Raise stacks win above its siblings, used when a window enters
// fullscreen.
func (c *Client) Raise(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(c.Conn, win, xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeAbove)}).Check()
}

// SendConfigureNotify synthesizes a ConfigureNotify so that clients
// whose ConfigureRequest was not honored verbatim (tiling windows, or
// map requests that land the window somewhere other than where it
// asked) still learn their real geometry.
func (c *Client) SendConfigureNotify(win xproto.Window, r geom.Rect, borderWidth uint16) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     0,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      borderWidth,
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(c.Conn, false, win, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

// Map maps win.
func (c *Client) Map(win xproto.Window) error {
	return xproto.MapWindowChecked(c.Conn, win).Check()
}

// Unmap unmaps win.
func (c *Client) Unmap(win xproto.Window) error {
	return xproto.UnmapWindowChecked(c.Conn, win).Check()
}

// AddToSaveSet inserts win into the client's save-set, so that if
// fensterchef terminates unexpectedly X maps the window back onto the
// root instead of leaving it orphaned.
func (c *Client) AddToSaveSet(win xproto.Window) error {
	return xproto.ChangeSaveSetChecked(c.Conn, xfixes.SaveSetModeInsert, win).Check()
}

// KillClient forcibly destroys a client connection for win, used by
// ACTION_CLOSE_WINDOW when the window does not support WM_DELETE_WINDOW.
func (c *Client) KillClient(win xproto.Window) error {
	return xproto.KillClientChecked(c.Conn, uint32(win)).Check()
}

// SendDeleteWindow asks win to close itself via the WM_PROTOCOLS /
// WM_DELETE_WINDOW client message, the polite half of ACTION_CLOSE_WINDOW.
func (c *Client) SendDeleteWindow(win xproto.Window) error {
	protocols, err := c.Atom(AtomWMProtocols)
	if err != nil {
		return err
	}
	deleteWindow, err := c.Atom(AtomWMDeleteWindow)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.Conn, false, win, 0, string(ev.Bytes())).Check()
}

// SupportsProtocol reports whether win's WM_PROTOCOLS property lists atom.
func (c *Client) SupportsProtocol(win xproto.Window, atom xproto.Atom) bool {
	reply, err := xproto.GetProperty(c.Conn, false, win, c.MustAtom(AtomWMProtocols), xproto.AtomAtom, 0, 64).Reply()
	if err != nil || reply == nil {
		return false
	}
	for v := reply.Value; len(v) >= 4; v = v[4:] {
		got := xproto.Atom(uint32(v[0]) | uint32(v[1])<<8 | uint32(v[2])<<16 | uint32(v[3])<<24)
		if got == atom {
			return true
		}
	}
	return false
}

// SetInputFocus focuses win.
func (c *Client) SetInputFocus(win xproto.Window, t xproto.Timestamp) error {
	return xproto.SetInputFocusChecked(c.Conn, xproto.InputFocusPointerRoot, win, t).Check()
}

// GrabKey grabs a single (modifiers, keycode) combination on the root
// window, asynchronously for both keyboard and pointer.
func (c *Client) GrabKey(modifiers uint16, code xproto.Keycode) error {
	return xproto.GrabKeyChecked(c.Conn, false, c.Root, modifiers, code, xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
}

// UngrabKey releases a previously grabbed key combination.
func (c *Client) UngrabKey(modifiers uint16, code xproto.Keycode) error {
	return xproto.UngrabKeyChecked(c.Conn, code, c.Root, modifiers).Check()
}

// GrabButton grabs a single (modifiers, button) combination on the root
// window.
func (c *Client) GrabButton(modifiers uint16, button xproto.Button) error {
	const mask = uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	return xproto.GrabButtonChecked(
		c.Conn, false, c.Root, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone,
		button, modifiers,
	).Check()
}

// UngrabButton releases a previously grabbed button combination.
func (c *Client) UngrabButton(modifiers uint16, button xproto.Button) error {
	return xproto.UngrabButtonChecked(c.Conn, button, c.Root, modifiers).Check()
}

// GrabPointerForDrag grabs the pointer confined to nothing in
// particular, for the duration of a popup move/resize drag.
func (c *Client) GrabPointerForDrag() error {
	const mask = uint16(xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	reply, err := xproto.GrabPointer(
		c.Conn, false, c.Root, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d", reply.Status)
	}
	return nil
}

// UngrabPointer releases the pointer grab.
func (c *Client) UngrabPointer() error {
	return xproto.UngrabPointerChecked(c.Conn, xproto.TimeCurrentTime).Check()
}

// QueryTree lists win's children, used once at startup to adopt
// pre-existing top-level windows.
func (c *Client) QueryTree(win xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(c.Conn, win).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	return reply.Children, nil
}

// WindowAttributes fetches win's attributes, used to test override-redirect.
func (c *Client) WindowAttributes(win xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	return xproto.GetWindowAttributes(c.Conn, win).Reply()
}
