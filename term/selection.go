// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/selection.go
// Summary: Selection lifecycle and pointer-to-buffer coordinate
// mapping for mouse/keyboard text selection.

package term

import (
	"math"

	"github.com/atotto/clipboard"
)

// SelectionState is the lifecycle of a pointer-driven selection.
type SelectionState int

const (
	// SelectionNone means no selection is active.
	SelectionNone SelectionState = iota
	// SelectionActive means the pointer is dragging.
	SelectionActive
	// SelectionDone means the drag finished and the range stands.
	SelectionDone
)

// Metrics describes the glyph geometry of the rendering surface, used
// to translate pointer positions into cell coordinates.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
	LineHeight float64 // multiplier applied to CellHeight
}

// Selector drives the emulator's selection surface from pointer
// events given in coordinates relative to the rendering surface.
type Selector struct {
	emu     Emulator
	metrics Metrics
	state   SelectionState
}

// NewSelector creates a selector over emu with the given geometry.
func NewSelector(emu Emulator, m Metrics) *Selector {
	if m.LineHeight <= 0 {
		m.LineHeight = 1
	}
	return &Selector{emu: emu, metrics: m}
}

// SetMetrics updates the glyph geometry (font size changes).
func (s *Selector) SetMetrics(m Metrics) {
	if m.LineHeight <= 0 {
		m.LineHeight = 1
	}
	s.metrics = m
}

// State returns the current lifecycle state.
func (s *Selector) State() SelectionState { return s.state }

// Start anchors a selection at the given pointer position. Positions
// that map outside the buffer are ignored.
func (s *Selector) Start(x, y float64) {
	row, col, ok := s.mapCoords(x, y)
	if !ok {
		return
	}
	s.state = SelectionActive
	s.emu.ClearSelection()
	s.emu.StartSelection(row, col)
}

// Update moves the floating end during a drag. Valid only while a
// selection is active; out-of-bounds positions are ignored.
func (s *Selector) Update(x, y float64) {
	if s.state != SelectionActive {
		return
	}
	row, col, ok := s.mapCoords(x, y)
	if !ok {
		return
	}
	s.emu.UpdateSelection(row, col)
}

// End completes the drag without altering the range.
func (s *Selector) End() {
	if s.state != SelectionActive {
		return
	}
	s.state = SelectionDone
	s.emu.EndSelection()
}

// Cancel drops the selection and clears the highlight.
func (s *Selector) Cancel() {
	s.state = SelectionNone
	s.emu.ClearSelection()
}

// SelectAll selects the whole unified space: every scrollback row
// plus the full viewport.
func (s *Selector) SelectAll() {
	snap := s.emu.Snapshot()
	total := snap.TotalRows()
	if total == 0 || snap.Cols() == 0 {
		return
	}
	s.emu.ClearSelection()
	s.emu.StartSelection(0, 0)
	s.emu.UpdateSelection(total-1, snap.Cols()-1)
	s.state = SelectionDone
}

// Text returns the selected text, ok=false when nothing is selected.
func (s *Selector) Text() (string, bool) {
	return s.emu.SelectedText()
}

// Copy places the selected text on the system clipboard. Returns
// false when nothing is selected or the clipboard is unavailable.
func (s *Selector) Copy() bool {
	text, ok := s.emu.SelectedText()
	if !ok {
		return false
	}
	return clipboard.WriteAll(text) == nil
}

// Paste fetches the clipboard contents for sending to the session.
func (s *Selector) Paste() (string, error) {
	return clipboard.ReadAll()
}

// mapCoords translates a pointer position into unified buffer
// coordinates: scrollback rows first, then viewport rows. Positions
// outside the populated area yield no mapping.
func (s *Selector) mapCoords(x, y float64) (row, col int, ok bool) {
	if x < 0 || y < 0 || s.metrics.CellWidth <= 0 || s.metrics.CellHeight <= 0 {
		return 0, 0, false
	}
	row = int(math.Floor(y / (s.metrics.CellHeight * s.metrics.LineHeight)))
	col = int(math.Floor(x / s.metrics.CellWidth))

	snap := s.emu.Snapshot()
	if row >= snap.TotalRows() || col >= snap.Cols() {
		return 0, 0, false
	}
	return row, col, true
}
