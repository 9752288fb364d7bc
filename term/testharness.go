// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/testharness.go
// Summary: Test harness feeding escape sequences through the real
// parser into the real engine and asserting buffer state.
// Usage: Used by test files across the package.

package term

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jikangbetter/termlink/theme"
)

// TestHarness wraps an Engine for control sequence testing and
// records every event the engine emits.
type TestHarness struct {
	Engine *Engine

	Titles  []string
	Resizes [][2]int
	Bells   int
	Raw     []byte
}

// NewTestHarness creates a harness with the given terminal size and
// the default dark theme.
func NewTestHarness(rows, cols int, opts ...Option) *TestHarness {
	h := &TestHarness{}
	opts = append([]Option{
		WithTitleHandler(func(title string) { h.Titles = append(h.Titles, title) }),
		WithResizeHandler(func(r, c int) { h.Resizes = append(h.Resizes, [2]int{r, c}) }),
		WithBellHandler(func() { h.Bells++ }),
		WithRawHandler(func(b byte) { h.Raw = append(h.Raw, b) }),
	}, opts...)
	h.Engine = NewEngine(rows, cols, opts...)
	return h
}

// Send feeds a string (text and/or escape sequences) to the engine.
func (h *TestHarness) Send(seq string) {
	if err := h.Engine.Process([]byte(seq)); err != nil {
		panic(fmt.Sprintf("harness: process failed: %v", err))
	}
}

// Snap takes a buffer snapshot.
func (h *TestHarness) Snap() *Buffer { return h.Engine.Snapshot() }

// Cell returns the viewport cell at (row, col) of a fresh snapshot.
func (h *TestHarness) Cell(row, col int) Cell {
	return h.Snap().Cell(row, col)
}

// Theme returns the engine's active theme.
func (h *TestHarness) Theme() *theme.Theme { return h.Engine.Theme() }

// AssertCursor verifies the cursor position.
func (h *TestHarness) AssertCursor(t *testing.T, row, col int) {
	t.Helper()
	r, c := h.Snap().Cursor()
	if r != row || c != col {
		t.Errorf("cursor: expected (%d,%d), got (%d,%d)", row, col, r, c)
	}
}

// AssertRune verifies the rune at (row, col), ignoring style.
func (h *TestHarness) AssertRune(t *testing.T, row, col int, want rune) {
	t.Helper()
	got := h.Cell(row, col).Rune
	if got != want {
		t.Errorf("cell[%d,%d] rune: expected %q, got %q", row, col, want, got)
	}
}

// AssertText verifies a run of cells starting at (row, col).
func (h *TestHarness) AssertText(t *testing.T, row, col int, want string) {
	t.Helper()
	for i, r := range want {
		h.AssertRune(t, row, col+i, r)
	}
}

// AssertBlank verifies a cell holds the default blank.
func (h *TestHarness) AssertBlank(t *testing.T, row, col int) {
	t.Helper()
	cell := h.Cell(row, col)
	if cell.Rune != ' ' || cell.Bold || cell.Continuation {
		t.Errorf("cell[%d,%d] should be blank, got %+v", row, col, cell)
	}
}

// Dump renders the viewport for failure diagnostics.
func (h *TestHarness) Dump() string {
	snap := h.Snap()
	row, col := snap.Cursor()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Terminal %dx%d (cursor at %d,%d, %d history rows)\n",
		snap.Rows(), snap.Cols(), row, col, snap.HistoryLen())
	sb.WriteString(strings.Repeat("=", snap.Cols()) + "\n")
	for r := 0; r < snap.Rows(); r++ {
		for c := 0; c < snap.Cols(); c++ {
			cell := snap.Cell(r, c)
			switch {
			case r == row && c == col:
				sb.WriteByte('[')
			case cell.Rune == 0:
				sb.WriteByte(' ')
			default:
				sb.WriteRune(cell.Rune)
			}
		}
		fmt.Fprintf(&sb, " |%d\n", r)
	}
	sb.WriteString(strings.Repeat("=", snap.Cols()) + "\n")
	return sb.String()
}
