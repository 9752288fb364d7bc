// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/theme.go
// Summary: Terminal color themes and the color resolver.
// Usage: Consumed by the screen performer to turn SGR color references
// into concrete display colors, and by the renderer for chrome colors.

package theme

import (
	"log"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a concrete display color. A zero alpha means fully
// transparent, which is how an unset background is represented.
type Color struct {
	R, G, B, A uint8
}

var (
	// Transparent is the background of a cell nothing has painted.
	Transparent = Color{}
	// White and Black are handy fallbacks for malformed theme input.
	White = RGB(255, 255, 255)
	Black = RGB(0, 0, 0)
)

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA builds a color with an explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex parses "#RRGGBB" (with or without the leading '#') into a Color.
// Malformed input falls back to white rather than failing: themes are
// user-supplied and a bad value must not take the session down.
func Hex(s string) Color {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		log.Printf("Theme: Bad hex color %q: %v", s, err)
		return White
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b)
}

// Mode classifies a color reference carried in SGR pen state.
type Mode int

const (
	// ModeDefault means no color was selected; resolves to the theme
	// default foreground (or a transparent background).
	ModeDefault Mode = iota
	// ModeIndexed is one of the 16 base ANSI colors (0-15).
	ModeIndexed
	// Mode256 is an index into the fixed xterm 256-color palette.
	Mode256
	// ModeRGB is a 24-bit truecolor triple passed through unchanged.
	ModeRGB
)

// Ref is an abstract color reference as parsed from an SGR sequence.
// It stays abstract until the performer resolves it against a theme.
type Ref struct {
	Mode    Mode
	Index   uint8 // Indexed (0-15) and 256-palette (0-255) value
	R, G, B uint8 // ModeRGB components
}

// Indexed returns a reference to one of the 16 base colors.
func Indexed(n uint8) Ref { return Ref{Mode: ModeIndexed, Index: n} }

// Palette256 returns a reference into the 256-color palette.
func Palette256(n uint8) Ref { return Ref{Mode: Mode256, Index: n} }

// TrueColor returns a direct 24-bit reference.
func TrueColor(r, g, b uint8) Ref { return Ref{Mode: ModeRGB, R: r, G: g, B: b} }

// Theme is a named set of 16 base colors plus the surrounding chrome
// colors. Themes are immutable for the duration of a render pass and
// swapped wholesale between passes.
type Theme struct {
	Name string

	Foreground Color
	Background Color
	Cursor     Color
	Selection  Color

	// ANSI holds the 8 standard colors followed by their 8 bright
	// variants, in the usual black..white order.
	ANSI [16]Color

	FontSize    float64
	LineHeight  float64
	CursorBlink bool
}

// Default returns the theme used when nothing is configured.
func Default() *Theme { return Dark() }

// Dark is the stock dark theme.
func Dark() *Theme {
	return &Theme{
		Name:       "dark",
		Foreground: White,
		Background: RGB(15, 15, 15),
		Cursor:     White,
		Selection:  RGBA(100, 149, 237, 180),
		ANSI: [16]Color{
			RGB(0, 0, 0),       // black
			RGB(205, 49, 49),   // red
			RGB(13, 188, 121),  // green
			RGB(229, 229, 16),  // yellow
			RGB(36, 114, 200),  // blue
			RGB(188, 63, 188),  // magenta
			RGB(17, 168, 205),  // cyan
			RGB(229, 229, 229), // white
			RGB(102, 102, 102), // bright black
			RGB(241, 76, 76),   // bright red
			RGB(35, 209, 139),  // bright green
			RGB(245, 245, 67),  // bright yellow
			RGB(59, 142, 234),  // bright blue
			RGB(214, 112, 214), // bright magenta
			RGB(41, 184, 219),  // bright cyan
			RGB(229, 229, 229), // bright white
		},
		FontSize:    14,
		LineHeight:  1.2,
		CursorBlink: true,
	}
}

// Light is the stock light theme.
func Light() *Theme {
	return &Theme{
		Name:       "light",
		Foreground: Black,
		Background: White,
		Cursor:     Black,
		Selection:  RGBA(173, 216, 230, 180),
		ANSI: [16]Color{
			RGB(0, 0, 0),
			RGB(160, 32, 32),
			RGB(0, 128, 0),
			RGB(128, 128, 0),
			RGB(0, 0, 160),
			RGB(128, 0, 128),
			RGB(0, 128, 128),
			RGB(192, 192, 192),
			RGB(128, 128, 128),
			RGB(255, 0, 0),
			RGB(0, 255, 0),
			RGB(255, 255, 0),
			RGB(0, 0, 255),
			RGB(255, 0, 255),
			RGB(0, 255, 255),
			RGB(255, 255, 255),
		},
		FontSize:    14,
		LineHeight:  1.2,
		CursorBlink: true,
	}
}

// ByName looks up a built-in theme, defaulting to dark for unknown
// names so a stale config entry still yields a usable terminal.
func ByName(name string) *Theme {
	switch name {
	case "light":
		return Light()
	case "dark", "":
		return Dark()
	default:
		log.Printf("Theme: Unknown theme %q, using dark", name)
		return Dark()
	}
}

// ResolveFG maps a foreground reference to a concrete color. For the
// 16-color set, bold promotes indices 0-7 to their bright variant;
// indices 8-15 already designate a bright color regardless of bold.
func (t *Theme) ResolveFG(ref Ref, bold bool) Color {
	switch ref.Mode {
	case ModeIndexed:
		return t.indexed(ref.Index, bold)
	case Mode256:
		return t.palette256(ref.Index)
	case ModeRGB:
		return RGB(ref.R, ref.G, ref.B)
	default:
		return t.Foreground
	}
}

// ResolveBG maps a background reference to a concrete color. Bold
// never brightens a background, and the unset background resolves to
// transparent so the renderer can paint the theme background beneath.
func (t *Theme) ResolveBG(ref Ref) Color {
	switch ref.Mode {
	case ModeIndexed:
		return t.indexed(ref.Index, false)
	case Mode256:
		return t.palette256(ref.Index)
	case ModeRGB:
		return RGB(ref.R, ref.G, ref.B)
	default:
		return Transparent
	}
}

func (t *Theme) indexed(n uint8, bold bool) Color {
	if n > 15 {
		return t.Foreground
	}
	if bold && n < 8 {
		n += 8
	}
	return t.ANSI[n]
}

// palette256 resolves an index into the fixed xterm palette. The first
// 16 entries defer to the theme's own base colors; the rest are the
// standard 6x6x6 cube and the 24-step grayscale ramp.
func (t *Theme) palette256(n uint8) Color {
	if n < 16 {
		return t.ANSI[n]
	}
	return colorCube[n]
}

// colorCube holds entries 16-255 of the xterm palette (entries 0-15
// are theme-defined and never read from here).
var colorCube [256]Color

func init() {
	// 6x6x6 cube, component levels 0,95,135,175,215,255.
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	for i := 0; i < 216; i++ {
		colorCube[16+i] = RGB(levels[i/36], levels[i/6%6], levels[i%6])
	}
	// 24-step grayscale ramp from 8 to 238.
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		colorCube[232+i] = RGB(v, v, v)
	}
}
