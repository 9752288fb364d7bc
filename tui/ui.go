// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tui/ui.go
// Summary: Interactive loop binding screen events to the engine, the
// session and the selection surface.

package tui

import (
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/jikangbetter/termlink/session"
	"github.com/jikangbetter/termlink/term"
)

const redrawInterval = 33 * time.Millisecond

// UI owns the screen, routing input to the session and painting
// engine snapshots.
type UI struct {
	drv      ScreenDriver
	engine   *term.Engine
	sess     session.Session
	sel      *term.Selector
	renderer *Renderer
	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a UI over an initialized driver.
func New(drv ScreenDriver, engine *term.Engine, sess session.Session) *UI {
	// Screen cells are the surface geometry, so pointer coordinates
	// are already cell coordinates.
	sel := term.NewSelector(engine, term.Metrics{CellWidth: 1, CellHeight: 1, LineHeight: 1})
	return &UI{
		drv:      drv,
		engine:   engine,
		sess:     sess,
		sel:      sel,
		renderer: NewRenderer(drv),
		quit:     make(chan struct{}),
	}
}

// Run drives the event loop until quit (Ctrl+Q) or session exit.
func (u *UI) Run() error {
	if err := u.drv.Init(); err != nil {
		return err
	}
	defer u.drv.Fini()
	u.drv.EnableMouse()

	cols, rows := u.drv.Size()
	u.engine.Resize(rows, cols)

	go u.redrawLoop()
	go func() {
		<-u.sess.Done()
		u.shutdown()
	}()

	for {
		select {
		case <-u.quit:
			return nil
		default:
		}

		switch ev := u.drv.PollEvent().(type) {
		case *tcell.EventResize:
			w, h := ev.Size()
			u.engine.Resize(h, w)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlQ {
				u.shutdown()
				return nil
			}
			if b := encodeKey(ev); len(b) > 0 {
				if _, err := u.sess.Write(b); err != nil {
					log.Printf("UI: Session write failed: %v", err)
					return err
				}
			}
		case *tcell.EventMouse:
			u.handleMouse(ev)
		case nil:
			return nil
		}
	}
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	// Viewport row y sits below the scrollback in unified space.
	uy := float64(y + u.engine.Snapshot().HistoryLen())

	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		if u.sel.State() == term.SelectionActive {
			u.sel.Update(float64(x), uy)
		} else {
			u.sel.Start(float64(x), uy)
		}
	case ev.Buttons()&tcell.Button2 != 0:
		if text, err := u.sel.Paste(); err == nil && text != "" {
			if _, werr := u.sess.Write([]byte(text)); werr != nil {
				log.Printf("UI: Paste write failed: %v", werr)
			}
		}
	default:
		if u.sel.State() == term.SelectionActive {
			u.sel.End()
			u.sel.Copy()
		}
	}
}

// shutdown closes the quit channel once and wakes the event loop in
// case it is blocked in PollEvent.
func (u *UI) shutdown() {
	u.quitOnce.Do(func() {
		close(u.quit)
		u.drv.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

func (u *UI) redrawLoop() {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	for {
		select {
		case <-u.quit:
			return
		case <-ticker.C:
			u.renderer.Draw(u.engine.Snapshot(), u.engine.Theme())
		}
	}
}

// encodeKey translates a key event into the byte sequence a terminal
// would send.
func encodeKey(ev *tcell.EventKey) []byte {
	var out []byte
	if ev.Modifiers()&tcell.ModAlt != 0 {
		out = append(out, 0x1b)
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return append(out, []byte(string(ev.Rune()))...)
	case tcell.KeyEnter:
		return append(out, '\r')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return append(out, 0x7f)
	case tcell.KeyTab:
		return append(out, '\t')
	case tcell.KeyEscape:
		return append(out, 0x1b)
	case tcell.KeyUp:
		return append(out, 0x1b, '[', 'A')
	case tcell.KeyDown:
		return append(out, 0x1b, '[', 'B')
	case tcell.KeyRight:
		return append(out, 0x1b, '[', 'C')
	case tcell.KeyLeft:
		return append(out, 0x1b, '[', 'D')
	case tcell.KeyHome:
		return append(out, 0x1b, '[', 'H')
	case tcell.KeyEnd:
		return append(out, 0x1b, '[', 'F')
	case tcell.KeyPgUp:
		return append(out, 0x1b, '[', '5', '~')
	case tcell.KeyPgDn:
		return append(out, 0x1b, '[', '6', '~')
	case tcell.KeyDelete:
		return append(out, 0x1b, '[', '3', '~')
	default:
		// Control keys arrive as their control byte.
		if k := ev.Key(); k < 0x80 {
			return append(out, byte(k))
		}
	}
	return out
}
