// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/renderer.go
// Summary: Paints engine snapshots onto a screen driver, translating
// resolved cell colors into tcell styles.

package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/jikangbetter/termlink/term"
	"github.com/jikangbetter/termlink/theme"
)

// Renderer draws buffer snapshots onto a screen driver.
type Renderer struct {
	drv ScreenDriver
}

// NewRenderer creates a renderer over the given driver.
func NewRenderer(drv ScreenDriver) *Renderer {
	return &Renderer{drv: drv}
}

// Draw paints the snapshot's viewport and places the cursor.
func (r *Renderer) Draw(snap *term.Buffer, th *theme.Theme) {
	for row := 0; row < snap.Rows(); row++ {
		for col := 0; col < snap.Cols(); col++ {
			cell := snap.Cell(row, col)
			if cell.Continuation {
				continue
			}
			r.drv.SetContent(col, row, cell.Rune, nil, styleFor(cell, th))
		}
	}
	curRow, curCol := snap.Cursor()
	r.drv.ShowCursor(curCol, curRow)
	r.drv.Show()
}

// styleFor translates a cell's resolved colors and attributes into a
// tcell style. Transparent backgrounds fall back to the theme
// background; selected cells get the selection color composited over
// their background.
func styleFor(cell term.Cell, th *theme.Theme) tcell.Style {
	bg := cell.BG
	if bg.A == 0 {
		bg = th.Background
	}
	if cell.Selected {
		bg = blend(th.Selection, bg)
	}

	style := tcell.StyleDefault.
		Foreground(toTcell(cell.FG)).
		Background(toTcell(bg))
	if cell.Bold {
		style = style.Bold(true)
	}
	if cell.Italic {
		style = style.Italic(true)
	}
	if cell.Underline {
		style = style.Underline(true)
	}
	return style
}

func toTcell(c theme.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// blend composites src over dst using src's alpha.
func blend(src, dst theme.Color) theme.Color {
	a := uint16(src.A)
	inv := 255 - a
	return theme.Color{
		R: uint8((uint16(src.R)*a + uint16(dst.R)*inv) / 255),
		G: uint8((uint16(src.G)*a + uint16(dst.G)*inv) / 255),
		B: uint8((uint16(src.B)*a + uint16(dst.B)*inv) / 255),
		A: 255,
	}
}
