// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session.go
// Summary: Shell session over a pseudo-terminal, pumping PTY output
// into the terminal engine and user input back to the shell.

package session

import (
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/creack/pty"

	"github.com/jikangbetter/termlink/term"
)

// Session is a bidirectional byte channel to a running shell or
// remote host. Output flows into the engine; Write carries keyboard
// input the other way.
type Session interface {
	Start() error
	Write(p []byte) (int, error)
	Resize(rows, cols int)
	Close() error
	// Done is closed when the output pump ends (process exit or
	// read error).
	Done() <-chan struct{}
}

// Options configures a shell session.
type Options struct {
	Command string // shell binary, $SHELL when empty
	Term    string // TERM value, xterm-256color when empty
	Rows    int
	Cols    int
}

// Shell runs a local shell on a PTY and feeds its output through the
// engine.
type Shell struct {
	emu  term.Emulator
	opts Options

	mu   sync.Mutex
	cmd  *exec.Cmd
	pty  *os.File
	done chan struct{}
	stop chan struct{}
}

var _ Session = (*Shell)(nil)

// NewShell creates a session that will drive emu.
func NewShell(emu term.Emulator, opts Options) *Shell {
	if opts.Command == "" {
		opts.Command = os.Getenv("SHELL")
		if opts.Command == "" {
			opts.Command = "/bin/sh"
		}
	}
	if opts.Term == "" {
		opts.Term = "xterm-256color"
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	return &Shell{
		emu:  emu,
		opts: opts,
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}
}

// Start launches the shell on a PTY sized to the engine and starts
// the output pump.
func (s *Shell) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := exec.Command(s.opts.Command)
	cmd.Env = append(os.Environ(),
		"TERM="+s.opts.Term,
		"COLUMNS="+strconv.Itoa(s.opts.Cols),
		"LINES="+strconv.Itoa(s.opts.Rows),
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.opts.Rows),
		Cols: uint16(s.opts.Cols),
	})
	if err != nil {
		log.Printf("Session: Failed to start pty for %q: %v", s.opts.Command, err)
		return err
	}
	s.cmd = cmd
	s.pty = ptmx

	go s.pump(ptmx)
	return nil
}

// pump copies PTY output into the engine until the PTY closes or the
// engine refuses more input.
func (s *Shell) pump(r io.Reader) {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		n, err := r.Read(buf)
		if n > 0 {
			if perr := s.emu.Process(buf[:n]); perr != nil {
				log.Printf("Session: Engine rejected output: %v", perr)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("Session: PTY read ended: %v", err)
			}
			return
		}
	}
}

// Write sends keyboard input to the shell.
func (s *Shell) Write(p []byte) (int, error) {
	s.mu.Lock()
	ptmx := s.pty
	s.mu.Unlock()
	if ptmx == nil {
		return 0, os.ErrClosed
	}
	return ptmx.Write(p)
}

// Resize informs the PTY of a new window size. Wire this as the
// engine's resize handler so grid and PTY stay in step.
func (s *Shell) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Rows, s.opts.Cols = rows, cols
	if s.pty == nil {
		return
	}
	if err := pty.Setsize(s.pty, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		log.Printf("Session: Failed to resize pty: %v", err)
	}
}

// Close tears down the PTY and the shell process.
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stop:
		return nil
	default:
	}
	close(s.stop)
	if s.pty != nil {
		s.pty.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return nil
}

// Done reports pump completion.
func (s *Shell) Done() <-chan struct{} { return s.done }
