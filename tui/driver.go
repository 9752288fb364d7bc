// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/driver.go
// Summary: Screen driver abstraction over tcell so the renderer can
// be tested against a recording fake.

package tui

import "github.com/gdamore/tcell/v2"

// ScreenDriver is the drawing surface the renderer paints on.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	ShowCursor(x, y int)
	Show()
	PollEvent() tcell.Event
	PostEvent(ev tcell.Event) error
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	EnableMouse()
}

// TcellScreenDriver adapts a tcell.Screen to the ScreenDriver interface.
type TcellScreenDriver struct {
	screen tcell.Screen
}

// NewTcellScreenDriver wraps the provided screen.
func NewTcellScreenDriver(screen tcell.Screen) *TcellScreenDriver {
	return &TcellScreenDriver{screen: screen}
}

func (d *TcellScreenDriver) Init() error {
	return d.screen.Init()
}

func (d *TcellScreenDriver) Fini() {
	d.screen.Fini()
}

func (d *TcellScreenDriver) Size() (int, int) {
	return d.screen.Size()
}

func (d *TcellScreenDriver) SetStyle(style tcell.Style) {
	d.screen.SetStyle(style)
}

func (d *TcellScreenDriver) HideCursor() {
	d.screen.HideCursor()
}

func (d *TcellScreenDriver) ShowCursor(x, y int) {
	d.screen.ShowCursor(x, y)
}

func (d *TcellScreenDriver) Show() {
	d.screen.Show()
}

func (d *TcellScreenDriver) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}

func (d *TcellScreenDriver) PostEvent(ev tcell.Event) error {
	return d.screen.PostEvent(ev)
}

func (d *TcellScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}

func (d *TcellScreenDriver) EnableMouse() {
	d.screen.EnableMouse()
}

// Underlying exposes the wrapped tcell.Screen for code paths that
// still need direct access.
func (d *TcellScreenDriver) Underlying() tcell.Screen {
	return d.screen
}
