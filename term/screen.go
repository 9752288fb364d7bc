// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/screen.go
// Summary: The screen performer: interprets parser actions against the
// buffer, resolving SGR attributes through the active theme.

package term

import (
	"log"

	"github.com/mattn/go-runewidth"

	"github.com/jikangbetter/termlink/theme"
)

// Screen applies parser actions to a Buffer. It owns the transient
// SGR pen state (color references plus style flags) and resolves that
// state to concrete colors at print time, so a later theme swap
// recolors new output only.
type Screen struct {
	buf *Buffer
	th  *theme.Theme

	// Pen state, mutated only by SGR sequences.
	fg, bg    theme.Ref
	bold      bool
	italic    bool
	underline bool

	onTitle func(string)
	onBell  func()
	onRaw   func(byte)
}

// NewScreen creates a performer over buf resolving colors against th.
func NewScreen(buf *Buffer, th *theme.Theme) *Screen {
	return &Screen{buf: buf, th: th}
}

// SetTheme swaps the theme consulted for future attribute resolution
// and updates the buffer's blank cell to the new defaults.
func (s *Screen) SetTheme(th *theme.Theme) {
	s.th = th
	s.buf.SetBlank(DefaultCell(th))
}

// Theme returns the active theme.
func (s *Screen) Theme() *theme.Theme { return s.th }

// Print writes one rune at the cursor with the pen's resolved
// attributes. Double-width runes occupy two columns, the second
// marked as a continuation. Overflowing the row wraps: column zero,
// then an implicit line feed.
func (s *Screen) Print(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and other zero-width input have no cell of
		// their own; drop them rather than corrupt the grid.
		return
	}

	row, col := s.buf.Cursor()

	// A wide rune at the last column cannot fit: the skipped trailing
	// cell becomes a continuation (it must never render on its own)
	// and the rune wraps to the next row.
	if w == 2 && col == s.buf.Cols()-1 {
		skip := s.buf.Blank()
		skip.Continuation = true
		s.buf.SetCell(row, col, skip)
		s.buf.CarriageReturn()
		s.buf.LineFeed()
		row, col = s.buf.Cursor()
	}

	cell := Cell{
		Rune:      r,
		FG:        s.th.ResolveFG(s.fg, s.bold),
		BG:        s.th.ResolveBG(s.bg),
		Bold:      s.bold,
		Italic:    s.italic,
		Underline: s.underline,
	}
	s.buf.SetCell(row, col, cell)

	if w == 2 {
		cont := s.buf.Blank()
		cont.BG = cell.BG
		cont.Continuation = true
		s.buf.SetCell(row, col+1, cont)
	}

	if col+w < s.buf.Cols() {
		s.buf.SetCursor(row, col+w)
	} else {
		s.buf.CarriageReturn()
		s.buf.LineFeed()
	}
}

// Execute handles a C0 control byte. Anything without a buffer effect
// is forwarded as a raw output event.
func (s *Screen) Execute(b byte) {
	switch b {
	case 0x08, 0x7f:
		s.buf.Backspace()
	case 0x0a:
		s.buf.LineFeed()
	case 0x0d:
		s.buf.CarriageReturn()
	case 0x07:
		if s.onBell != nil {
			s.onBell()
			return
		}
		s.raw(b)
	default:
		s.raw(b)
	}
}

func (s *Screen) raw(b byte) {
	if s.onRaw != nil {
		s.onRaw(b)
	}
}

// CsiDispatch applies a complete CSI sequence.
func (s *Screen) CsiDispatch(params []int, private bool, final byte) {
	if private {
		// DEC private modes (cursor visibility, alternate screen,
		// bracketed paste, ...) are not part of this engine's grid
		// model yet.
		log.Printf("Screen: Ignoring private CSI ?%v %q", params, final)
		return
	}

	// Missing or zero parameters default per sequence.
	param := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return def
	}

	row, col := s.buf.Cursor()

	switch final {
	case 'H', 'f':
		s.buf.SetCursor(param(0, 1)-1, param(1, 1)-1)
	case 'A':
		s.buf.SetCursor(row-param(0, 1), col)
	case 'B':
		s.buf.SetCursor(row+param(0, 1), col)
	case 'C':
		s.buf.SetCursor(row, col+param(0, 1))
	case 'D':
		s.buf.SetCursor(row, col-param(0, 1))
	case 'K':
		s.eraseLine(firstParam(params))
	case 'J':
		s.eraseDisplay(firstParam(params))
	case 'm':
		s.applySGR(params)
	default:
		log.Printf("Screen: Ignoring CSI %v %q", params, final)
	}
}

func firstParam(params []int) int {
	if len(params) > 0 {
		return params[0]
	}
	return 0
}

// eraseLine clears part of the cursor row: 0 cursor to end, 1 start
// to cursor, 2 the whole line.
func (s *Screen) eraseLine(mode int) {
	row, col := s.buf.Cursor()
	start, end := 0, s.buf.Cols()-1
	switch mode {
	case 0:
		start = col
	case 1:
		end = col
	case 2:
		// full line
	default:
		return
	}
	blank := s.buf.Blank()
	for c := start; c <= end; c++ {
		s.buf.SetCell(row, c, blank)
	}
}

// eraseDisplay clears part of the screen: 0 cursor to end of screen,
// 1 start of screen to cursor, 2/3 everything plus cursor home.
func (s *Screen) eraseDisplay(mode int) {
	blank := s.buf.Blank()
	row, _ := s.buf.Cursor()
	switch mode {
	case 0:
		s.eraseLine(0)
		for r := row + 1; r < s.buf.Rows(); r++ {
			for c := 0; c < s.buf.Cols(); c++ {
				s.buf.SetCell(r, c, blank)
			}
		}
	case 1:
		s.eraseLine(1)
		for r := 0; r < row; r++ {
			for c := 0; c < s.buf.Cols(); c++ {
				s.buf.SetCell(r, c, blank)
			}
		}
	case 2, 3:
		s.buf.Clear()
	}
}

// applySGR folds a parameter list into the pen state. 38/48 consume
// their extended-color arguments (5;n or 2;r;g;b).
func (s *Screen) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.fg, s.bg = theme.Ref{}, theme.Ref{}
			s.bold, s.italic, s.underline = false, false, false
		case p == 1:
			s.bold = true
		case p == 3:
			s.italic = true
		case p == 4:
			s.underline = true
		case p == 22:
			s.bold = false
		case p == 23:
			s.italic = false
		case p == 24:
			s.underline = false
		case p >= 30 && p <= 37:
			s.fg = theme.Indexed(uint8(p - 30))
		case p == 39:
			s.fg = theme.Ref{}
		case p >= 40 && p <= 47:
			s.bg = theme.Indexed(uint8(p - 40))
		case p == 49:
			s.bg = theme.Ref{}
		case p >= 90 && p <= 97:
			s.fg = theme.Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			s.bg = theme.Indexed(uint8(p - 100 + 8))
		case p == 38 || p == 48:
			ref, consumed := extendedColor(params[i+1:])
			if consumed == 0 {
				return // malformed; drop the rest of the sequence
			}
			if p == 38 {
				s.fg = ref
			} else {
				s.bg = ref
			}
			i += consumed
		}
	}
}

// extendedColor parses the arguments following SGR 38/48 and returns
// how many parameters it consumed (0 when malformed).
func extendedColor(rest []int) (theme.Ref, int) {
	if len(rest) >= 2 && rest[0] == 5 {
		return theme.Palette256(uint8(rest[1])), 2
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return theme.TrueColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3])), 4
	}
	return theme.Ref{}, 0
}

// OscDispatch recognizes window-title updates (OSC 0 and 2); all
// other payloads are ignored.
func (s *Screen) OscDispatch(params [][]byte) {
	if len(params) < 2 {
		return
	}
	cmd := string(params[0])
	if cmd != "0" && cmd != "2" {
		return
	}
	if s.onTitle != nil {
		s.onTitle(string(params[1]))
	}
}
