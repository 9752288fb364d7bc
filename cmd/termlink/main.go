// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/termlink/main.go
// Summary: Terminal client entry point wiring config, theme, engine,
// shell session and screen together.

package main

import (
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/jikangbetter/termlink/config"
	"github.com/jikangbetter/termlink/session"
	"github.com/jikangbetter/termlink/term"
	"github.com/jikangbetter/termlink/theme"
	"github.com/jikangbetter/termlink/tui"
)

func main() {
	logFile, err := os.OpenFile("termlink.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		panic(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Main: Application starting")

	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Printf("Main: Config load problem, using defaults: %v", err)
	}

	th := theme.ByName(cfg.GetString("", "activeTheme", "dark"))
	th.FontSize = cfg.GetFloat("terminal", "font_size", th.FontSize)
	th.LineHeight = cfg.GetFloat("terminal", "line_height", th.LineHeight)
	th.CursorBlink = cfg.GetBool("terminal", "cursor_blink", th.CursorBlink)
	scrollback := cfg.GetInt("terminal", "scrollback", term.DefaultMaxHistory)

	// Grid changes propagate to the PTY through the engine's resize
	// notification.
	var sess *session.Shell
	engine := term.NewEngine(24, 80,
		term.WithTheme(th),
		term.WithMaxHistory(scrollback),
		term.WithResizeHandler(func(rows, cols int) {
			if sess != nil {
				sess.Resize(rows, cols)
			}
		}),
		term.WithTitleHandler(func(title string) {
			log.Printf("Main: Title changed to %q", title)
		}),
	)

	sess = session.NewShell(engine, session.Options{
		Command: cfg.GetString("session", "shell", ""),
		Term:    cfg.GetString("session", "term", ""),
		Rows:    24,
		Cols:    80,
	})

	if err := sess.Start(); err != nil {
		log.Fatalf("Main: Failed to start session: %v", err)
	}
	defer sess.Close()
	defer engine.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Main: Failed to create screen: %v", err)
	}

	ui := tui.New(tui.NewTcellScreenDriver(screen), engine, sess)
	if err := ui.Run(); err != nil {
		log.Fatalf("Main: Application exited with error: %v", err)
	}
	log.Println("Main: Application stopped cleanly")
}
