package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Size hint flag bits, in WM_NORMAL_HINTS order.
const (
	SizeHintUSPosition = 1 << iota
	SizeHintUSSize
	SizeHintPPosition
	SizeHintPSize
	SizeHintPMinSize
	SizeHintPMaxSize
	SizeHintPResizeInc
	SizeHintPAspect
	SizeHintPBaseSize
	SizeHintPWinGravity
)

// WM hint flag bits, in WM_HINTS order.
const (
	HintInput = 1 << iota
	HintState
	HintIconPixmap
	HintIconWindow
	HintIconPosition
	HintIconMask
	HintWindowGroup
	HintMessage
	HintUrgency
)

// SizeHints is the decoded WM_NORMAL_HINTS property: min/max/base size,
// increment, and aspect.
type SizeHints struct {
	Flags                                                   uint32
	X, Y                                                     int32
	Width, Height, MinWidth, MinHeight, MaxWidth, MaxHeight  uint32
	WidthInc, HeightInc                                      uint32
	MinAspectNum, MinAspectDen, MaxAspectNum, MaxAspectDen   uint32
	BaseWidth, BaseHeight                                    uint32
	WinGravity                                               uint32
}

// Has reports whether flag is set.
func (h SizeHints) Has(flag uint32) bool { return h.Flags&flag != 0 }

// WMHints is the decoded WM_HINTS property: input model and urgency.
type WMHints struct {
	Flags        uint32
	Input        uint32
	InitialState uint32
}

// Has reports whether flag is set.
func (h WMHints) Has(flag uint32) bool { return h.Flags&flag != 0 }

// Urgent reports the urgency hint bit.
func (h WMHints) Urgent() bool { return h.Has(HintUrgency) }

func (c *Client) getPropertyNums(win xproto.Window, name string, count uint32) ([]uint32, error) {
	atom, err := c.Atom(name)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.Conn, false, win, atom, xproto.AtomAny, 0, count).Reply()
	if err != nil {
		return nil, fmt.Errorf("get property %q: %w", name, err)
	}
	if reply.Format == 0 {
		return nil, nil // property not set on win
	}
	if reply.Format != 32 {
		return nil, fmt.Errorf("get property %q: unexpected format %d", name, reply.Format)
	}
	n := len(reply.Value) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		b := reply.Value[i*4 : i*4+4]
		out[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return out, nil
}

// SizeHintsGet decodes win's WM_NORMAL_HINTS, tolerating the property's
// absence (returns a zero-value SizeHints, no flags set).
func (c *Client) SizeHintsGet(win xproto.Window) (SizeHints, error) {
	raw, err := c.getPropertyNums(win, AtomWMNormalHints, 18)
	if err != nil {
		return SizeHints{}, err
	}
	if len(raw) < 18 {
		return SizeHints{}, nil
	}
	return SizeHints{
		Flags:        raw[0],
		X:            int32(raw[1]),
		Y:            int32(raw[2]),
		Width:        raw[3],
		Height:       raw[4],
		MinWidth:     raw[5],
		MinHeight:    raw[6],
		MaxWidth:     raw[7],
		MaxHeight:    raw[8],
		WidthInc:     raw[9],
		HeightInc:    raw[10],
		MinAspectNum: raw[11],
		MinAspectDen: raw[12],
		MaxAspectNum: raw[13],
		MaxAspectDen: raw[14],
		BaseWidth:    raw[15],
		BaseHeight:   raw[16],
		WinGravity:   raw[17],
	}, nil
}

// WMHintsGet decodes win's WM_HINTS, tolerating absence.
func (c *Client) WMHintsGet(win xproto.Window) (WMHints, error) {
	raw, err := c.getPropertyNums(win, AtomWMHints, 9)
	if err != nil {
		return WMHints{}, err
	}
	if len(raw) < 3 {
		return WMHints{}, nil
	}
	return WMHints{Flags: raw[0], Input: raw[1], InitialState: raw[2]}, nil
}

// TransientFor decodes WM_TRANSIENT_FOR, returning 0 if unset.
func (c *Client) TransientFor(win xproto.Window) (xproto.Window, error) {
	raw, err := c.getPropertyNums(win, AtomWMTransientFor, 1)
	if err != nil {
		return 0, err
	}
	if len(raw) < 1 {
		return 0, nil
	}
	return xproto.Window(raw[0]), nil
}

// GetWindowTitle reads _NET_WM_NAME, falling back to WM_NAME.
func (c *Client) GetWindowTitle(win xproto.Window) (string, error) {
	if name, err := c.getPropertyString(win, AtomNetWMName); err == nil && name != "" {
		return name, nil
	}
	return c.getPropertyString(win, AtomWMName)
}

func (c *Client) getPropertyString(win xproto.Window, name string) (string, error) {
	atom, err := c.Atom(name)
	if err != nil {
		return "", err
	}
	reply, err := xproto.GetProperty(c.Conn, false, win, atom, xproto.AtomAny, 0, 1024).Reply()
	if err != nil {
		return "", fmt.Errorf("get property %q: %w", name, err)
	}
	return string(reply.Value), nil
}

// SetWMName sets _NET_WM_NAME and WM_NAME on win, used once at startup to
// identify fensterchef to EWMH-aware tools.
func (c *Client) SetWMName(win xproto.Window, name string) error {
	utf8, err := c.Atom("UTF8_STRING")
	if err != nil {
		return err
	}
	netName, err := c.Atom(AtomNetWMName)
	if err != nil {
		return err
	}
	if err := xproto.ChangePropertyChecked(c.Conn, xproto.PropModeReplace, win, netName, utf8, 8, uint32(len(name)), []byte(name)).Check(); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	wmName, err := c.Atom(AtomWMName)
	if err != nil {
		return err
	}
	if err := xproto.ChangePropertyChecked(c.Conn, xproto.PropModeReplace, win, wmName, xproto.AtomString, 8, uint32(len(name)), []byte(name)).Check(); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	return nil
}

// NetWMStateHas reports whether _NET_WM_STATE on win contains atom.
func (c *Client) NetWMStateHas(win xproto.Window, atom xproto.Atom) (bool, error) {
	raw, err := c.getPropertyNums(win, AtomNetWMState, 64)
	if err != nil {
		return false, err
	}
	for _, v := range raw {
		if xproto.Atom(v) == atom {
			return true, nil
		}
	}
	return false, nil
}
