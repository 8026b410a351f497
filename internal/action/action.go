// Package action defines the set of fensterchef actions and their
// tagged-union parameter type. Interpreting an action against the live
// window manager state happens in internal/wm, which is the only
// package holding all the collaborators (registry, frame tree, monitor
// set) an action needs; this package only names and parameterizes
// actions so the binding engine can carry them without depending on
// internal/wm.
package action

import "github.com/DevByProxy/fensterchef/internal/geom"

// Code identifies one action: a navigation move, a tree/window
// mutation, a state toggle, or a meta command.
type Code uint8

const (
	// Navigation
	FocusLeft Code = iota
	FocusRight
	FocusUp
	FocusDown
	ParentFrame
	ChildFrame
	RootFrame
	NextWindow
	PreviousWindow
	ToggleFocus

	// Mutation
	SplitHorizontally
	SplitVertically
	RemoveFrame
	ExchangeLeft
	ExchangeRight
	ExchangeUp
	ExchangeDown
	ResizeBy
	MinimizeWindow
	CloseWindow

	// BeginMoveDrag and BeginResizeDrag start the pointer-driven drag
	// state; they never appear mid-sequence and are intercepted by the
	// dispatcher's button-press handler rather than executed like the
	// other mutation codes.
	BeginMoveDrag
	BeginResizeDrag

	// State toggles
	ToggleTiling
	ToggleFullscreen

	// Meta
	ReloadConfiguration
	ShowWindowList
	Run
	Quit
)

func (c Code) String() string {
	switch c {
	case FocusLeft:
		return "focus_left"
	case FocusRight:
		return "focus_right"
	case FocusUp:
		return "focus_up"
	case FocusDown:
		return "focus_down"
	case ParentFrame:
		return "parent_frame"
	case ChildFrame:
		return "child_frame"
	case RootFrame:
		return "root_frame"
	case NextWindow:
		return "next_window"
	case PreviousWindow:
		return "previous_window"
	case ToggleFocus:
		return "toggle_focus"
	case SplitHorizontally:
		return "split_horizontally"
	case SplitVertically:
		return "split_vertically"
	case RemoveFrame:
		return "remove_frame"
	case ExchangeLeft:
		return "exchange_left"
	case ExchangeRight:
		return "exchange_right"
	case ExchangeUp:
		return "exchange_up"
	case ExchangeDown:
		return "exchange_down"
	case ResizeBy:
		return "resize_by"
	case MinimizeWindow:
		return "minimize_window"
	case CloseWindow:
		return "close_window"
	case BeginMoveDrag:
		return "begin_move_drag"
	case BeginResizeDrag:
		return "begin_resize_drag"
	case ToggleTiling:
		return "toggle_tiling"
	case ToggleFullscreen:
		return "toggle_fullscreen"
	case ReloadConfiguration:
		return "reload_configuration"
	case ShowWindowList:
		return "show_window_list"
	case Run:
		return "run"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// ValueKind tags the payload a DataValue carries. Action parameters are
// a closed set of shapes, not an open interface, so dispatch is a
// switch over Kind rather than a type assertion.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindInteger
	KindQuad
	KindString
)

// DataValue is the single parameter type every action accepts; unused
// fields for the value's Kind are simply left zero.
type DataValue struct {
	Kind    ValueKind
	Integer int64
	Quad    geom.Quad
	String  string
}

// Clone returns a value-identical copy of v. DataValue has no pointer or
// slice fields so a plain copy already satisfies the binding engine's
// deep-copy requirement; Clone exists so callers don't need to know
// that.
func (v DataValue) Clone() DataValue { return v }

// Step is one action and its parameter in a binding's action sequence.
type Step struct {
	Code  Code
	Value DataValue
}
