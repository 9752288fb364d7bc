// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/parser.go
// Summary: VT100/ANSI byte stream tokenizer.
// Usage: Fed raw PTY output; emits structured actions to a Performer.
// Notes: Holds no grid state, so partial buffers may split a sequence
// (or a UTF-8 rune) across two Parse calls.

package parser

import "unicode/utf8"

// Performer receives the actions the parser recognizes in the byte
// stream. The screen performer in package term is the one real
// implementation; tests substitute recorders.
type Performer interface {
	// Print delivers one fully reassembled printable rune.
	Print(r rune)
	// Execute delivers a C0 control byte (or DEL).
	Execute(b byte)
	// CsiDispatch delivers a complete CSI sequence. params always has
	// at least one entry; absent parameters arrive as zero.
	CsiDispatch(params []int, private bool, final byte)
	// OscDispatch delivers a complete OSC payload split on ';'.
	OscDispatch(params [][]byte)
}

type state int

const (
	stateGround state = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
)

const (
	maxParams = 32
	maxOSC    = 2048
)

// Parser is the escape sequence state machine. It never fails:
// malformed or unterminated sequences are dropped silently and the
// machine returns to ground, which is how real terminals survive
// noise from misbehaving remote processes.
type Parser struct {
	state        state
	performer    Performer
	params       []int
	currentParam int
	private      bool
	oscBuffer    []byte

	// Pending multi-byte UTF-8 rune, carried across Parse calls.
	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int
}

// New creates a parser delivering actions to the given performer.
func New(p Performer) *Parser {
	return &Parser{
		performer: p,
		params:    make([]int, 0, maxParams),
		oscBuffer: make([]byte, 0, 128),
	}
}

// Parse advances the state machine over an arbitrary-length slice of
// bytes. Zero-length input is a no-op.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.advance(b)
	}
}

func (p *Parser) advance(b byte) {
	// CAN and SUB abort any in-flight sequence immediately.
	if b == 0x18 || b == 0x1a {
		p.reset()
		return
	}

	switch p.state {
	case stateGround:
		p.ground(b)
	case stateEscape:
		p.escape(b)
	case stateCSI:
		p.csi(b)
	case stateOSC:
		p.osc(b)
	case stateOSCEscape:
		p.oscEscape(b)
	}
}

func (p *Parser) ground(b byte) {
	if p.utf8Need > 0 {
		p.continueUTF8(b)
		return
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20 || b == 0x7f:
		p.performer.Execute(b)
	case b < 0x80:
		p.performer.Print(rune(b))
	default:
		p.startUTF8(b)
	}
}

func (p *Parser) startUTF8(b byte) {
	switch {
	case b&0xe0 == 0xc0:
		p.utf8Need = 2
	case b&0xf0 == 0xe0:
		p.utf8Need = 3
	case b&0xf8 == 0xf0:
		p.utf8Need = 4
	default:
		// Stray continuation or invalid lead byte; drop it.
		return
	}
	p.utf8Buf[0] = b
	p.utf8Len = 1
}

func (p *Parser) continueUTF8(b byte) {
	if b&0xc0 != 0x80 {
		// Truncated rune. Drop it and reprocess the new byte from
		// ground so a following escape sequence is not lost.
		p.utf8Need, p.utf8Len = 0, 0
		p.ground(b)
		return
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len < p.utf8Need {
		return
	}
	r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	p.utf8Need, p.utf8Len = 0, 0
	if r != utf8.RuneError {
		p.performer.Print(r)
	}
}

func (p *Parser) escape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.currentParam = 0
		p.private = false
	case ']':
		p.state = stateOSC
		p.oscBuffer = p.oscBuffer[:0]
	case 0x1b:
		// ESC restarts the sequence.
	default:
		// C0 bytes still execute mid-sequence, the way terminals run
		// them from any state.
		if b < 0x20 {
			p.performer.Execute(b)
			return
		}
		// ESC sequences we do not interpret (charset selection,
		// keypad modes, ...) are absorbed without effect. Intermediate
		// bytes keep the sequence open until its final byte arrives.
		if b > 0x2f {
			p.state = stateGround
		}
	}
}

func (p *Parser) csi(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.currentParam = p.currentParam*10 + int(b-'0')
	case b == ';':
		p.pushParam()
	case b >= '<' && b <= '?':
		p.private = true
	case b >= ' ' && b <= '/':
		// Intermediate bytes are collected nowhere: none of the
		// sequences this engine answers carry them.
	case b >= '@' && b <= '~':
		p.pushParam()
		p.performer.CsiDispatch(p.params, p.private, b)
		p.state = stateGround
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20:
		// C0 inside a CSI sequence executes without disturbing it.
		p.performer.Execute(b)
	}
}

func (p *Parser) pushParam() {
	if len(p.params) < maxParams {
		p.params = append(p.params, p.currentParam)
	}
	p.currentParam = 0
}

func (p *Parser) osc(b byte) {
	switch b {
	case 0x07: // BEL terminates
		p.dispatchOSC()
		p.state = stateGround
	case 0x1b: // possibly ESC \ (ST)
		p.state = stateOSCEscape
	default:
		if len(p.oscBuffer) < maxOSC {
			p.oscBuffer = append(p.oscBuffer, b)
		}
	}
}

func (p *Parser) oscEscape(b byte) {
	if b == '\\' {
		p.dispatchOSC()
		p.state = stateGround
		return
	}
	// A lone ESC aborts the OSC string; reprocess as a new sequence.
	p.oscBuffer = p.oscBuffer[:0]
	p.state = stateEscape
	p.escape(b)
}

func (p *Parser) dispatchOSC() {
	if len(p.oscBuffer) == 0 {
		return
	}
	params := splitOSC(p.oscBuffer)
	p.performer.OscDispatch(params)
	p.oscBuffer = p.oscBuffer[:0]
}

// splitOSC splits the payload on ';' into at most two parts: the
// numeric command and the string argument, which may itself contain
// semicolons (window titles frequently do).
func splitOSC(buf []byte) [][]byte {
	for i, b := range buf {
		if b == ';' {
			return [][]byte{buf[:i], buf[i+1:]}
		}
	}
	return [][]byte{buf}
}

func (p *Parser) reset() {
	p.state = stateGround
	p.oscBuffer = p.oscBuffer[:0]
	p.utf8Need, p.utf8Len = 0, 0
}
