// Package config defines fensterchef's Configuration record and loads
// it from a TOML file via github.com/BurntSushi/toml. Parsing itself
// stays a thin boundary: file-format details live here, everything
// downstream only ever sees the decoded Configuration struct.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/DevByProxy/fensterchef/internal/geom"
)

// General holds options that do not fit a more specific section.
type General struct {
	// OverlapPercentage is the threshold (0-100) for associating a popup
	// with the frame it overlaps most.
	OverlapPercentage int `toml:"overlap_percentage"`
}

// Tiling controls frame tree removal/placement behavior.
type Tiling struct {
	AutoRemoveVoid bool `toml:"auto_remove_void"`
	AutoFillVoid   bool `toml:"auto_fill_void"`
}

// Font names the font used by the notification overlay. The overlay
// itself renders elsewhere; only the option is carried here.
type Font struct {
	Name string `toml:"name"`
}

// Border controls the per-window border width.
type Border struct {
	Size uint32 `toml:"size"`
}

// Gaps controls the inset between windows and between the frame tree
// and the monitor edge.
type Gaps struct {
	Inner Quad `toml:"inner"`
	Outer Quad `toml:"outer"`
}

// Quad is a (left, top, right, bottom) pixel quad, the shape the gaps
// and resize options share.
type Quad struct {
	Left, Top, Right, Bottom int32
}

// ToGeom converts q to the geometry package's equivalent type, the one
// point where the TOML-facing configuration type meets the frame
// tree's own arithmetic type.
func (q Quad) ToGeom() geom.Quad {
	return geom.Quad{Left: q.Left, Top: q.Top, Right: q.Right, Bottom: q.Bottom}
}

// Notification controls the notification overlay's styling. The
// overlay's rendering lives elsewhere; only the styling record is
// carried so the binding/action layers can pass it through.
type Notification struct {
	DurationSeconds float64 `toml:"duration"`
	Padding         uint32  `toml:"padding"`
	BorderColor     uint32  `toml:"border_color"`
	BorderSize      uint32  `toml:"border_size"`
	Foreground      uint32  `toml:"foreground"`
	Background      uint32  `toml:"background"`
}

// Mouse controls pointer-driven bindings.
type Mouse struct {
	ResizeTolerance uint32   `toml:"resize_tolerance"`
	Modifiers       uint16   `toml:"modifiers"`
	IgnoreModifiers uint16   `toml:"ignore_modifiers"`
	Buttons         []string `toml:"buttons"`
}

// Keyboard controls key-driven bindings.
type Keyboard struct {
	Modifiers       uint16   `toml:"modifiers"`
	IgnoreModifiers uint16   `toml:"ignore_modifiers"`
	Keys            []string `toml:"keys"`
}

// Configuration is the flat top-level record. It is created from
// defaults plus a user file, and replaced atomically on reload --
// never mutated in place by the event loop.
type Configuration struct {
	General      General      `toml:"general"`
	Tiling       Tiling       `toml:"tiling"`
	Font         Font         `toml:"font"`
	Border       Border       `toml:"border"`
	Gaps         Gaps         `toml:"gaps"`
	Notification Notification `toml:"notification"`
	Mouse        Mouse        `toml:"mouse"`
	Keyboard     Keyboard     `toml:"keyboard"`
}

// Default returns fensterchef's built-in configuration.
func Default() Configuration {
	return Configuration{
		General: General{OverlapPercentage: 50},
		Tiling: Tiling{
			AutoRemoveVoid: true,
			AutoFillVoid:   true,
		},
		Font:   Font{Name: "monospace:size=10"},
		Border: Border{Size: 1},
		Gaps: Gaps{
			Inner: Quad{4, 4, 4, 4},
			Outer: Quad{0, 0, 0, 0},
		},
		Notification: Notification{
			DurationSeconds: 2,
			Padding:         6,
			BorderSize:      1,
			Foreground:      0xffffff,
			Background:      0x000000,
			BorderColor:     0x888888,
		},
		Mouse: Mouse{
			ResizeTolerance: 8,
			Modifiers:       ModMod4,
			IgnoreModifiers: ModLock | ModMod2,
		},
		Keyboard: Keyboard{
			Modifiers:       ModMod4,
			IgnoreModifiers: ModLock | ModMod2,
		},
	}
}

// Modifier bit values, matching the X11 modifier mask layout.
const (
	ModShift = 1 << 0
	ModLock  = 1 << 1
	ModCtrl  = 1 << 2
	ModMod1  = 1 << 3
	ModMod2  = 1 << 4
	ModMod3  = 1 << 5
	ModMod4  = 1 << 6
	ModMod5  = 1 << 7
)

// Load reads path as TOML into a copy of Default(), so that any section
// or option the user's file omits keeps its built-in value. A decode
// error is returned to the caller so the reload action can reject it
// and keep the prior configuration active.
func Load(path string) (Configuration, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("load configuration %q: %w", path, err)
	}
	return cfg, nil
}

// Save encodes cfg as TOML and writes it to path.
func Save(path string, cfg Configuration) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&cfg); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write configuration %q: %w", path, err)
	}
	return nil
}
