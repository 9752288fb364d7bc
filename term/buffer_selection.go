// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/buffer_selection.go
// Summary: Selection range bookkeeping and text extraction over the
// unified scrollback + viewport coordinate space.

package term

import "strings"

// clampUnified forces a unified coordinate into the populated area.
// Like cursor motion, selection input clamps instead of panicking.
func (b *Buffer) clampUnified(row, col int) (int, int) {
	return clamp(row, 0, b.TotalRows()-1), clamp(col, 0, b.cols-1)
}

// StartSelection records a selection anchor in unified coordinates
// and highlights the (single-cell) range. Out-of-range coordinates
// are clamped.
func (b *Buffer) StartSelection(row, col int) {
	row, col = b.clampUnified(row, col)
	b.selection = &SelectionRange{
		StartRow: row, StartCol: col,
		EndRow: row, EndCol: col,
	}
	b.applySelectionDisplay()
}

// UpdateSelection moves the floating end of the selection, clamping
// like StartSelection. Safe to call on every pointer-move event: the
// highlight pass is idempotent.
func (b *Buffer) UpdateSelection(row, col int) {
	if b.selection == nil {
		return
	}
	b.selection.EndRow, b.selection.EndCol = b.clampUnified(row, col)
	b.applySelectionDisplay()
}

// ClearSelection drops the range and clears every highlight flag in
// both the viewport and the scrollback.
func (b *Buffer) ClearSelection() {
	b.selection = nil
	b.clearSelectionDisplay()
}

// applySelectionDisplay rewrites the per-cell Selected flags from the
// normalized range: full rows between the endpoints, partial rows at
// the two boundary rows. Previous flags are cleared first.
func (b *Buffer) applySelectionDisplay() {
	b.clearSelectionDisplay()
	if b.selection == nil {
		return
	}
	sel := b.selection.Normalized()
	histLen := len(b.history)

	for r := sel.StartRow; r <= sel.EndRow; r++ {
		colStart := 0
		if r == sel.StartRow {
			colStart = sel.StartCol
		}
		colEnd := b.UnifiedRowWidth(r) - 1
		if r == sel.EndRow && sel.EndCol < colEnd {
			colEnd = sel.EndCol
		}

		if r < histLen {
			line := b.history[r]
			for c := colStart; c <= colEnd && c < len(line); c++ {
				line[c].Selected = true
			}
			continue
		}
		row := r - histLen
		if row >= b.rows {
			break
		}
		for c := colStart; c <= colEnd && c < b.cols; c++ {
			b.cells[row*b.cols+c].Selected = true
		}
	}
}

func (b *Buffer) clearSelectionDisplay() {
	for i := range b.cells {
		b.cells[i].Selected = false
	}
	for _, line := range b.history {
		for i := range line {
			line[i].Selected = false
		}
	}
}

// SelectedText extracts the selected text row by row, inserting a
// line break between rows but not after the final one. Continuation
// cells are skipped so a double-width rune is emitted once, and the
// trailing run of blank cells on each row is dropped the way terminal
// copy does. Returns ok=false only when no selection exists or it
// covers zero cells; a deliberate selection over blank rows reports
// ok=true with the bare line breaks.
func (b *Buffer) SelectedText() (string, bool) {
	if b.selection == nil {
		return "", false
	}
	sel := b.selection.Normalized()
	if sel.Empty() {
		return "", false
	}

	var sb strings.Builder
	for r := sel.StartRow; r <= sel.EndRow; r++ {
		if r > sel.StartRow {
			sb.WriteByte('\n')
		}
		colStart := 0
		if r == sel.StartRow {
			colStart = sel.StartCol
		}
		colEnd := b.UnifiedRowWidth(r) - 1
		if r == sel.EndRow && sel.EndCol < colEnd {
			colEnd = sel.EndCol
		}
		var row strings.Builder
		for c := colStart; c <= colEnd; c++ {
			cell := b.UnifiedCell(r, c)
			if cell.Continuation || cell.Rune == 0 {
				continue
			}
			row.WriteRune(cell.Rune)
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
	}
	return sb.String(), true
}
