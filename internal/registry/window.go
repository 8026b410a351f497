// Package registry owns the Window records for every managed X window:
// their lifecycle (create/lookup/destroy/iterate) and the state machine
// that moves a window between {tiling, popup, fullscreen, hidden}.
package registry

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/geom"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// State is one of the four window states.
type State uint8

const (
	StateTiling State = iota
	StatePopup
	StateFullscreen
	StateHidden
)

func (s State) String() string {
	switch s {
	case StateTiling:
		return "tiling"
	case StatePopup:
		return "popup"
	case StateFullscreen:
		return "fullscreen"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Properties is the snapshot of window properties relevant to placement
// and geometry decisions.
type Properties struct {
	Title            string
	SizeHints        x11.SizeHints
	WMHints          x11.WMHints
	SupportsDelete   bool // WM_DELETE_WINDOW listed in WM_PROTOCOLS
	TransientFor     xproto.Window
	OverrideRedirect bool
}

// Window is the internal record for every managed X window.
type Window struct {
	ID xproto.Window

	Geometry geom.Rect
	// lastAppliedGeometry is what was last sent to the X server, used by
	// ApplyGeometry to make geometry application idempotent.
	lastAppliedGeometry geom.Rect
	hasAppliedGeometry  bool

	State         State
	PreviousState State

	Properties Properties

	// PopupRect is the rectangle a popup window should be restored to
	// when it is not fullscreen; for tiling windows the frame supplies
	// the rectangle instead.
	PopupRect geom.Rect

	// FrameID is an opaque identifier into the frame tree leaf currently
	// holding this window, or 0 if the window has no frame slot (popup,
	// or hidden after losing its slot). Using an id instead of a pointer
	// avoids a Window<->Frame reference cycle.
	FrameID uint64

	Mapped bool
}

// InTiling reports whether w currently occupies a frame slot.
func (w *Window) InTiling() bool { return w.FrameID != 0 }
