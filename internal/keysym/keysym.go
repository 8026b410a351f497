// Package keysym loads the X server's keyboard mapping and exposes the
// symbolic keysym constants the default binding table is written
// against.
package keysym

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Keysym is an X11 keysym value.
type Keysym uint32

// A representative subset of the keysyms the default binding table
// requires. X assigns keysyms for printable Latin-1 and digit
// characters their ASCII code point, which is why 'a'..'z' and '0'..'9'
// below are simply cast.
const (
	XKReturn    Keysym = 0xff0d
	XKEscape    Keysym = 0xff1b
	XKSpace     Keysym = 0x0020
	XKTab       Keysym = 0xff09
	XKBackspace Keysym = 0xff08
)

// Letter returns the keysym for a lowercase ASCII letter, e.g. Letter('q').
func Letter(c byte) Keysym { return Keysym(c) }

// Digit returns the keysym for an ASCII digit, e.g. Digit('1').
func Digit(c byte) Keysym { return Keysym(c) }

// Keymap maps a keycode to the list of keysyms bound to it across
// keyboard groups/shift levels.
type Keymap map[xproto.Keycode][]Keysym

// LoadKeyMapping queries the X server's keyboard mapping for the whole
// valid keycode range and builds a Keymap.
func LoadKeyMapping(conn *xgb.Conn) (Keymap, error) {
	setup := xproto.Setup(conn)
	minCode := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(conn, minCode, count).Reply()
	if err != nil {
		return nil, fmt.Errorf("get keyboard mapping: %w", err)
	}
	perKeycode := int(reply.KeysymsPerKeycode)
	if perKeycode == 0 {
		return nil, fmt.Errorf("get keyboard mapping: server reported zero keysyms per keycode")
	}

	km := make(Keymap, int(count))
	for i := 0; i < int(count); i++ {
		code := xproto.Keycode(int(minCode) + i)
		syms := make([]Keysym, 0, perKeycode)
		for j := 0; j < perKeycode; j++ {
			idx := i*perKeycode + j
			if idx >= len(reply.Keysyms) {
				break
			}
			sym := Keysym(reply.Keysyms[idx])
			if sym != 0 {
				syms = append(syms, sym)
			}
		}
		if len(syms) == 0 {
			syms = []Keysym{0}
		}
		km[code] = syms
	}
	return km, nil
}

// Lookup returns the keycode's primary (unshifted, group 1) keysym.
func (km Keymap) Lookup(code xproto.Keycode) Keysym {
	syms := km[code]
	if len(syms) == 0 {
		return 0
	}
	return syms[0]
}

// KeycodeFor returns the first keycode whose primary keysym is sym, and
// whether one was found. Used by the binding engine to turn a
// configured keysym trigger into the keycode GrabKey needs.
func (km Keymap) KeycodeFor(sym Keysym) (xproto.Keycode, bool) {
	var best xproto.Keycode
	found := false
	for code, syms := range km {
		if len(syms) > 0 && syms[0] == sym && (!found || code < best) {
			best, found = code, true
		}
	}
	return best, found
}
