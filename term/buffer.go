// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/buffer.go
// Summary: The screen grid with cursor, scrollback ring and selection
// range bookkeeping.
// Notes: All coordinate access clamps instead of erroring; cursor math
// driven by a long-running remote session must never panic.

package term

// DefaultMaxHistory caps the scrollback ring when the caller does not
// configure one.
const DefaultMaxHistory = 1000

// SelectionRange is a selection in unified coordinates: row 0 is the
// oldest scrollback row, rows at and beyond the scrollback length
// index into the live viewport. The range may be inverted (anchor
// after end); Normalized() orders it.
type SelectionRange struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Normalized returns the range ordered so that start <= end, with
// columns swapped alongside rows, and compared only when the rows are
// equal.
func (s SelectionRange) Normalized() SelectionRange {
	if s.StartRow > s.EndRow || (s.StartRow == s.EndRow && s.StartCol > s.EndCol) {
		return SelectionRange{
			StartRow: s.EndRow, StartCol: s.EndCol,
			EndRow: s.StartRow, EndCol: s.StartCol,
		}
	}
	return s
}

// Empty reports whether the range covers zero cells.
func (s SelectionRange) Empty() bool {
	return s.StartRow == s.EndRow && s.StartCol == s.EndCol
}

// Buffer owns the rows*cols cell grid, the cursor, and the bounded
// scrollback. It is a plain data structure: mutual exclusion is the
// engine's job.
type Buffer struct {
	rows, cols int
	cells      []Cell

	cursorRow, cursorCol int

	history    [][]Cell
	maxHistory int

	selection *SelectionRange

	// blank is the cell used for clearing and for newly exposed
	// space. It tracks the active theme's defaults.
	blank Cell
}

// NewBuffer creates a cleared buffer. Dimensions below 1x1 are raised
// to 1x1. maxHistory <= 0 selects DefaultMaxHistory.
func NewBuffer(rows, cols int, blank Cell, maxHistory int) *Buffer {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	b := &Buffer{
		rows:       rows,
		cols:       cols,
		cells:      make([]Cell, rows*cols),
		maxHistory: maxHistory,
		blank:      blank,
	}
	for i := range b.cells {
		b.cells[i] = blank
	}
	return b
}

// Rows returns the viewport height.
func (b *Buffer) Rows() int { return b.rows }

// Cols returns the viewport width.
func (b *Buffer) Cols() int { return b.cols }

// Cursor returns the cursor position, always within bounds.
func (b *Buffer) Cursor() (row, col int) { return b.cursorRow, b.cursorCol }

// HistoryLen returns the number of scrollback rows.
func (b *Buffer) HistoryLen() int { return len(b.history) }

// TotalRows is the unified row count: scrollback plus viewport.
func (b *Buffer) TotalRows() int { return len(b.history) + b.rows }

// Blank returns the cell used for cleared positions.
func (b *Buffer) Blank() Cell { return b.blank }

// SetBlank changes the clearing cell. Existing content keeps the
// colors it was painted with.
func (b *Buffer) SetBlank(c Cell) { b.blank = c }

// Selection returns the current selection range, or nil.
func (b *Buffer) Selection() *SelectionRange {
	if b.selection == nil {
		return nil
	}
	s := *b.selection
	return &s
}

// Cell returns the viewport cell at (row, col). Out-of-range reads
// yield the blank cell.
func (b *Buffer) Cell(row, col int) Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return b.blank
	}
	return b.cells[row*b.cols+col]
}

// SetCell writes the viewport cell at (row, col); out-of-range writes
// are dropped.
func (b *Buffer) SetCell(row, col int, c Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return
	}
	b.cells[row*b.cols+col] = c
}

// HistoryCell returns the cell at the given scrollback row. Columns
// beyond the row's width at push time read as blank: scrollback rows
// are never resized.
func (b *Buffer) HistoryCell(row, col int) Cell {
	if row < 0 || row >= len(b.history) || col < 0 {
		return b.blank
	}
	line := b.history[row]
	if col >= len(line) {
		return b.blank
	}
	return line[col]
}

// UnifiedCell reads a cell in unified coordinates: scrollback rows
// first, then the live viewport.
func (b *Buffer) UnifiedCell(row, col int) Cell {
	if row < len(b.history) {
		return b.HistoryCell(row, col)
	}
	return b.Cell(row-len(b.history), col)
}

// UnifiedRowWidth returns the column count of a unified row, which
// for scrollback rows is their width at push time.
func (b *Buffer) UnifiedRowWidth(row int) int {
	if row < 0 || row >= b.TotalRows() {
		return 0
	}
	if row < len(b.history) {
		return len(b.history[row])
	}
	return b.cols
}

// SetCursor moves the cursor, clamping into bounds.
func (b *Buffer) SetCursor(row, col int) {
	b.cursorRow = clamp(row, 0, b.rows-1)
	b.cursorCol = clamp(col, 0, b.cols-1)
}

// CarriageReturn resets the cursor column to 0.
func (b *Buffer) CarriageReturn() { b.cursorCol = 0 }

// Backspace moves the cursor left one column without erasing.
func (b *Buffer) Backspace() {
	if b.cursorCol > 0 {
		b.cursorCol--
	}
}

// LineFeed advances the cursor one row, scrolling when it already sits
// on the last row: the top row is pushed into scrollback (evicting the
// oldest row at capacity), the rest shift up, and the exposed bottom
// row is cleared. The column is left untouched; carriage return is an
// independent event.
func (b *Buffer) LineFeed() {
	if b.cursorRow < b.rows-1 {
		b.cursorRow++
		return
	}
	b.pushHistory(b.rowCopy(0))
	copy(b.cells, b.cells[b.cols:])
	bottom := b.cells[(b.rows-1)*b.cols:]
	for i := range bottom {
		bottom[i] = b.blank
	}
}

func (b *Buffer) rowCopy(row int) []Cell {
	line := make([]Cell, b.cols)
	copy(line, b.cells[row*b.cols:(row+1)*b.cols])
	return line
}

func (b *Buffer) pushHistory(line []Cell) {
	b.history = append(b.history, line)
	if len(b.history) > b.maxHistory {
		// FIFO eviction. Reslice-and-copy keeps the backing array
		// from growing without bound.
		n := copy(b.history, b.history[1:])
		b.history[n] = nil
		b.history = b.history[:n]
	}
}

// Clear resets every viewport cell to blank and homes the cursor.
// Scrollback is retained.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = b.blank
	}
	b.cursorRow, b.cursorCol = 0, 0
}

// Resize reallocates the grid to the new dimensions, copying the
// overlapping rectangle and clamping the cursor. There is no reflow:
// cells outside the overlap are discarded, new cells start blank.
// Scrollback rows keep the width they were pushed with. A resize to
// the current dimensions is a no-op.
func (b *Buffer) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == b.rows && cols == b.cols {
		return
	}

	next := make([]Cell, rows*cols)
	for i := range next {
		next[i] = b.blank
	}
	copyRows := min(rows, b.rows)
	copyCols := min(cols, b.cols)
	for r := 0; r < copyRows; r++ {
		copy(next[r*cols:r*cols+copyCols], b.cells[r*b.cols:r*b.cols+copyCols])
	}

	b.cells = next
	b.rows = rows
	b.cols = cols
	b.cursorRow = clamp(b.cursorRow, 0, rows-1)
	b.cursorCol = clamp(b.cursorCol, 0, cols-1)
}

// Clone returns an owned deep copy of the buffer for rendering: grid,
// cursor, scrollback and selection, sharing no memory with the live
// buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		rows:       b.rows,
		cols:       b.cols,
		cells:      append([]Cell(nil), b.cells...),
		cursorRow:  b.cursorRow,
		cursorCol:  b.cursorCol,
		maxHistory: b.maxHistory,
		blank:      b.blank,
	}
	if len(b.history) > 0 {
		c.history = make([][]Cell, len(b.history))
		for i, line := range b.history {
			c.history[i] = append([]Cell(nil), line...)
		}
	}
	if b.selection != nil {
		s := *b.selection
		c.selection = &s
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
