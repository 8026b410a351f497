package binding

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/DevByProxy/fensterchef/internal/keysym"
	"github.com/DevByProxy/fensterchef/internal/x11"
)

// modifierSubsets returns every modifier mask obtainable by OR-ing
// modifiers with some subset of the individual bits set in
// ignoreModifiers, so that lock-state modifiers (Num Lock, Caps Lock)
// don't suppress a grab.
func modifierSubsets(modifiers, ignoreModifiers uint16) []uint16 {
	var bits []uint16
	for bit := uint16(1); bit != 0; bit <<= 1 {
		if ignoreModifiers&bit != 0 {
			bits = append(bits, bit)
		}
	}
	subsets := []uint16{modifiers}
	for _, bit := range bits {
		n := len(subsets)
		for i := 0; i < n; i++ {
			subsets = append(subsets, subsets[i]|bit)
		}
	}
	return subsets
}

// Grab re-grabs every key and button binding in t on client's root
// window, across all ignore-modifier subsets, issuing one grab request
// per combination and stopping on the first Check() error. keymap
// resolves a key binding's keysym trigger to the keycode(s) GrabKey
// needs.
func (t *Table) Grab(client *x11.Client, keymap keysym.Keymap, ignoreModifiers uint16) error {
	if err := ungrabAll(client); err != nil {
		return fmt.Errorf("grab bindings: %w", err)
	}

	for _, b := range t.Bindings {
		for _, mods := range modifierSubsets(b.Modifiers, ignoreModifiers) {
			switch b.Kind {
			case KindKey:
				code, ok := keymap.KeycodeFor(keysym.Keysym(b.Trigger))
				if !ok {
					continue
				}
				if err := client.GrabKey(mods, code); err != nil {
					return fmt.Errorf("grab key %d mods %d: %w", code, mods, err)
				}
			case KindButton:
				if err := client.GrabButton(mods, xproto.Button(b.Trigger)); err != nil {
					return fmt.Errorf("grab button %d mods %d: %w", b.Trigger, mods, err)
				}
			}
		}
	}
	return nil
}

func ungrabAll(client *x11.Client) error {
	if err := client.UngrabKey(xproto.ModMaskAny, xproto.GrabAny); err != nil {
		return err
	}
	return client.UngrabButton(xproto.ModMaskAny, xproto.ButtonIndexAny)
}
