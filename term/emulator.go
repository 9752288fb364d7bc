// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator.go
// Summary: The emulator facade: a mutex-guarded engine combining the
// parser, the screen performer and the buffer, with snapshot reads.
// Notes: The byte supplier and the render loop may live on different
// goroutines; every public method takes the engine lock.

package term

import (
	"errors"
	"sync"

	"github.com/jikangbetter/termlink/term/parser"
	"github.com/jikangbetter/termlink/theme"
)

// ErrEngineClosed is returned by Process after Close. It is fatal to
// the attempted operation, not to the caller's session handling.
var ErrEngineClosed = errors.New("term: engine closed")

// Emulator is the backend-agnostic surface the presentation layer
// drives. Engine is the canonical implementation; alternate buffer
// strategies can slot in behind the same interface.
type Emulator interface {
	// Process feeds raw bytes from the remote shell through the
	// parser into the buffer.
	Process(data []byte) error
	// Snapshot returns an owned, independently readable copy of the
	// grid, cursor and scrollback for painting.
	Snapshot() *Buffer
	// Resize changes the grid dimensions and notifies the resize
	// sink so the session layer can adjust the remote PTY.
	Resize(rows, cols int)
	// SetTheme swaps the theme used to resolve future output.
	SetTheme(th *theme.Theme)

	// Selection surface, in unified buffer coordinates.
	StartSelection(row, col int)
	UpdateSelection(row, col int)
	EndSelection()
	ClearSelection()
	SelectedText() (string, bool)

	Close() error
}

// Engine is the terminal engine: a parser feeding a screen performer
// over a buffer, all behind one mutex so a snapshot never observes a
// half-applied mutation.
type Engine struct {
	mu     sync.Mutex
	buf    *Buffer
	screen *Screen
	parser *parser.Parser
	closed bool

	onResize func(rows, cols int)
}

var _ Emulator = (*Engine)(nil)

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	theme      *theme.Theme
	maxHistory int
	onTitle    func(string)
	onResize   func(rows, cols int)
	onBell     func()
	onRaw      func(byte)
}

// WithTheme selects the initial theme (default: theme.Default()).
func WithTheme(th *theme.Theme) Option {
	return func(c *engineConfig) { c.theme = th }
}

// WithMaxHistory caps the scrollback ring.
func WithMaxHistory(n int) Option {
	return func(c *engineConfig) { c.maxHistory = n }
}

// WithTitleHandler installs the window-title event sink, invoked
// synchronously from Process when an OSC title sequence arrives.
func WithTitleHandler(fn func(title string)) Option {
	return func(c *engineConfig) { c.onTitle = fn }
}

// WithResizeHandler installs the resize-notification sink, invoked
// synchronously from Resize so the session layer can adjust the
// remote pseudo-terminal.
func WithResizeHandler(fn func(rows, cols int)) Option {
	return func(c *engineConfig) { c.onResize = fn }
}

// WithBellHandler installs a sink for BEL.
func WithBellHandler(fn func()) Option {
	return func(c *engineConfig) { c.onBell = fn }
}

// WithRawHandler installs a sink for control bytes that have no
// buffer effect.
func WithRawHandler(fn func(b byte)) Option {
	return func(c *engineConfig) { c.onRaw = fn }
}

// NewEngine creates an engine with a cleared rows x cols buffer.
func NewEngine(rows, cols int, opts ...Option) *Engine {
	cfg := engineConfig{theme: theme.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	buf := NewBuffer(rows, cols, DefaultCell(cfg.theme), cfg.maxHistory)
	screen := NewScreen(buf, cfg.theme)
	screen.onTitle = cfg.onTitle
	screen.onBell = cfg.onBell
	screen.onRaw = cfg.onRaw

	e := &Engine{
		buf:      buf,
		screen:   screen,
		parser:   parser.New(screen),
		onResize: cfg.onResize,
	}
	return e
}

// Process feeds bytes through the parser. Parsing never fails;
// the only error is feeding a closed engine.
func (e *Engine) Process(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	e.parser.Parse(data)
	return nil
}

// Snapshot clones the buffer under the lock.
func (e *Engine) Snapshot() *Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Clone()
}

// Resize adjusts the grid and notifies the resize sink. A resize to
// the current dimensions does not notify.
func (e *Engine) Resize(rows, cols int) {
	e.mu.Lock()
	changed := rows != e.buf.Rows() || cols != e.buf.Cols()
	e.buf.Resize(rows, cols)
	sink := e.onResize
	e.mu.Unlock()

	if changed && sink != nil {
		sink(rows, cols)
	}
}

// SetTheme swaps the theme for future output.
func (e *Engine) SetTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.screen.SetTheme(th)
}

// Theme returns the active theme.
func (e *Engine) Theme() *theme.Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screen.Theme()
}

// StartSelection anchors a selection in unified coordinates.
func (e *Engine) StartSelection(row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.StartSelection(row, col)
}

// UpdateSelection moves the selection's floating end.
func (e *Engine) UpdateSelection(row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.UpdateSelection(row, col)
}

// EndSelection finishes a selection without altering the range.
func (e *Engine) EndSelection() {}

// ClearSelection drops the range and all highlight flags.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.ClearSelection()
}

// SelectedText extracts the selected text, ok=false when nothing is
// selected.
func (e *Engine) SelectedText() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.SelectedText()
}

// Close marks the engine closed; further Process calls fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
