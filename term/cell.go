// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/cell.go
// Summary: The grid cell data model.

package term

import "github.com/jikangbetter/termlink/theme"

// Cell is one grid position: a displayable rune plus its resolved
// display attributes. Colors are concrete (already resolved against
// the theme that was active when the cell was painted); swapping the
// theme recolors future output, not history.
type Cell struct {
	Rune      rune
	FG        theme.Color
	BG        theme.Color
	Bold      bool
	Italic    bool
	Underline bool

	// Continuation marks the second column of a double-width rune.
	// Such a cell carries no independent glyph and is always paired
	// with the wide rune immediately to its left.
	Continuation bool

	// Selected is the transient selection-highlight flag, owned by
	// the selection engine.
	Selected bool
}

// DefaultCell returns the cell every position starts as: a space in
// the theme's default foreground over a transparent background.
func DefaultCell(t *theme.Theme) Cell {
	return Cell{Rune: ' ', FG: t.Foreground, BG: theme.Transparent}
}
