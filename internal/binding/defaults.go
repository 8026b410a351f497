package binding

import (
	"github.com/DevByProxy/fensterchef/internal/action"
	"github.com/DevByProxy/fensterchef/internal/keysym"
)

// mod4 and friends name the modifier bits used below; they mirror
// internal/config's Mod* constants without importing config, since
// config imports nothing from binding and the values are the fixed X11
// modifier layout, not configuration.
const (
	modShift = 1 << 0
	mod4     = 1 << 6
)

func key(mods uint16, sym keysym.Keysym, steps ...action.Step) Binding {
	return Binding{Kind: KindKey, Modifiers: mods, Trigger: uint32(sym), Flags: FlagPress, Actions: steps}
}

func button(mods uint16, index uint32, flags Flag, steps ...action.Step) Binding {
	return Binding{Kind: KindButton, Modifiers: mods, Trigger: index, Flags: flags, Actions: steps}
}

func step(code action.Code) action.Step { return action.Step{Code: code} }

// Default buttons, matching X11's standard 1/2/3 = left/middle/right.
const (
	buttonLeft   = 1
	buttonMiddle = 2
	buttonRight  = 3
)

// DefaultBindings returns the built-in key and button bindings merged
// over any user configuration. Run's command string is resolved at
// execution time from $TERMINAL by internal/wm rather than the binding
// itself carrying a fallback string.
func DefaultBindings() []Binding {
	return []Binding{
		key(mod4, keysym.XKReturn, step(action.Run)),
		key(mod4, keysym.Letter('q'), step(action.CloseWindow)),
		key(mod4, keysym.Letter('v'), step(action.SplitHorizontally)),
		key(mod4, keysym.Letter('s'), step(action.SplitVertically)),
		key(mod4, keysym.Letter('h'), step(action.FocusLeft)),
		key(mod4, keysym.Letter('j'), step(action.FocusDown)),
		key(mod4, keysym.Letter('k'), step(action.FocusUp)),
		key(mod4, keysym.Letter('l'), step(action.FocusRight)),
		key(mod4|modShift, keysym.Letter('h'), step(action.ExchangeLeft)),
		key(mod4|modShift, keysym.Letter('j'), step(action.ExchangeDown)),
		key(mod4|modShift, keysym.Letter('k'), step(action.ExchangeUp)),
		key(mod4|modShift, keysym.Letter('l'), step(action.ExchangeRight)),
		key(mod4|modShift, keysym.Letter('r'), step(action.ReloadConfiguration)),
		key(mod4|modCtrl|modShift, keysym.Letter('e'), step(action.Quit)),
		key(mod4, keysym.Letter('f'), step(action.ToggleFullscreen)),
		key(mod4, keysym.XKSpace, step(action.ToggleFocus)),
		key(mod4|modShift, keysym.XKSpace, step(action.ToggleTiling)),

		button(mod4, buttonLeft, FlagPress, step(action.BeginResizeDrag)),
		button(mod4, buttonMiddle, FlagPress, step(action.MinimizeWindow)),
		button(mod4, buttonRight, FlagPress, step(action.BeginMoveDrag)),
	}
}

const modCtrl = 1 << 2
