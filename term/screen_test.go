package term

import (
	"strings"
	"testing"

	"github.com/jikangbetter/termlink/theme"
)

func TestPrintAdvancesCursor(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("hello")
	h.AssertText(t, 0, 0, "hello")
	h.AssertCursor(t, 0, 5)
}

func TestPrintWrapsAtRowEnd(t *testing.T) {
	h := NewTestHarness(24, 10)
	h.Send(strings.Repeat("x", 25))
	// Exactly one implicit line feed per wrap boundary: two rows of
	// ten, five runes into row two.
	h.AssertText(t, 0, 0, "xxxxxxxxxx")
	h.AssertText(t, 1, 0, "xxxxxxxxxx")
	h.AssertText(t, 2, 0, "xxxxx")
	h.AssertCursor(t, 2, 5)
}

func TestPrintWrapScrollsAtBottom(t *testing.T) {
	h := NewTestHarness(2, 4)
	h.Send("aaaabbbbcc")
	snap := h.Snap()
	if snap.HistoryLen() != 1 {
		t.Fatalf("history len = %d, want 1", snap.HistoryLen())
	}
	if snap.HistoryCell(0, 0).Rune != 'a' {
		t.Error("first row should be in scrollback")
	}
	h.AssertText(t, 0, 0, "bbbb")
	h.AssertText(t, 1, 0, "cc")
	h.AssertCursor(t, 1, 2)
}

func TestCarriageReturnAndLineFeedIndependent(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("abc\rX")
	h.AssertText(t, 0, 0, "Xbc")

	// A bare line feed keeps the column.
	h = NewTestHarness(24, 80)
	h.Send("abc\ndef")
	h.AssertText(t, 1, 3, "def")
	h.AssertCursor(t, 1, 6)

	// Out-of-order CR/LF still lands at column 0 of the next row.
	h = NewTestHarness(24, 80)
	h.Send("abc\n\rdef")
	h.AssertText(t, 1, 0, "def")
}

func TestBackspaceMovesWithoutErasing(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("ab\x08")
	h.AssertCursor(t, 0, 1)
	h.AssertRune(t, 0, 1, 'b')

	// DEL behaves like backspace; at column 0 both are no-ops.
	h.Send("\x7f\x7f")
	h.AssertCursor(t, 0, 0)
}

func TestUnhandledControlForwardedRaw(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("a\x05b\x0ec")
	h.AssertText(t, 0, 0, "abc")
	if string(h.Raw) != "\x05\x0e" {
		t.Errorf("raw = %q", h.Raw)
	}
}

func TestBellEvent(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("\x07\x07")
	if h.Bells != 2 {
		t.Errorf("bells = %d, want 2", h.Bells)
	}
}

func TestCursorPositioning(t *testing.T) {
	tests := []struct {
		name     string
		seq      string
		row, col int
	}{
		{"home", "\x1b[H", 0, 0},
		{"absolute", "\x1b[5;12H", 4, 11},
		{"f alias", "\x1b[3;4f", 2, 3},
		{"zero params default to 1", "\x1b[0;0H", 0, 0},
		{"clamped to bounds", "\x1b[99;99H", 23, 79},
		{"up", "\x1b[10;10H\x1b[3A", 6, 9},
		{"down", "\x1b[10;10H\x1b[2B", 11, 9},
		{"forward", "\x1b[10;10H\x1b[5C", 9, 14},
		{"back", "\x1b[10;10H\x1b[4D", 9, 5},
		{"default count is 1", "\x1b[10;10H\x1b[A", 8, 9},
		{"relative motion clamps", "\x1b[1;1H\x1b[99A\x1b[99D", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(24, 80)
			h.Send(tt.seq)
			h.AssertCursor(t, tt.row, tt.col)
		})
	}
}

func TestEraseLineModes(t *testing.T) {
	setup := func() *TestHarness {
		h := NewTestHarness(3, 10)
		h.Send("0123456789")
		// Wrap put the cursor on row 1; go back and park mid-row.
		h.Send("\x1b[1;5H")
		return h
	}

	t.Run("mode 0 cursor to end", func(t *testing.T) {
		h := setup()
		h.Send("\x1b[K")
		h.AssertText(t, 0, 0, "0123")
		for c := 4; c < 10; c++ {
			h.AssertBlank(t, 0, c)
		}
	})
	t.Run("mode 1 start to cursor", func(t *testing.T) {
		h := setup()
		h.Send("\x1b[1K")
		for c := 0; c <= 4; c++ {
			h.AssertBlank(t, 0, c)
		}
		h.AssertText(t, 0, 5, "56789")
	})
	t.Run("mode 2 whole line", func(t *testing.T) {
		h := setup()
		h.Send("\x1b[2K")
		for c := 0; c < 10; c++ {
			h.AssertBlank(t, 0, c)
		}
	})
}

func TestEraseDisplayModes(t *testing.T) {
	fill := func() *TestHarness {
		h := NewTestHarness(4, 4)
		h.Send("aaaabbbbcccc" + "\x1b[2;3H") // cursor row 1, col 2
		return h
	}

	t.Run("mode 0 cursor to end of screen", func(t *testing.T) {
		h := fill()
		h.Send("\x1b[J")
		h.AssertText(t, 0, 0, "aaaa")
		h.AssertText(t, 1, 0, "bb")
		h.AssertBlank(t, 1, 2)
		h.AssertBlank(t, 1, 3)
		for c := 0; c < 4; c++ {
			h.AssertBlank(t, 2, c)
			h.AssertBlank(t, 3, c)
		}
	})
	t.Run("mode 1 start of screen to cursor", func(t *testing.T) {
		h := fill()
		h.Send("\x1b[1J")
		for c := 0; c < 4; c++ {
			h.AssertBlank(t, 0, c)
		}
		h.AssertBlank(t, 1, 0)
		h.AssertBlank(t, 1, 2)
		h.AssertRune(t, 1, 3, 'b')
		h.AssertText(t, 2, 0, "cccc")
	})
	t.Run("mode 2 clears all and homes cursor", func(t *testing.T) {
		h := fill()
		h.Send("\x1b[2J")
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				h.AssertBlank(t, r, c)
			}
		}
		h.AssertCursor(t, 0, 0)
	})
}

func TestSGRColors(t *testing.T) {
	h := NewTestHarness(24, 80)
	th := h.Theme()

	h.Send("\x1b[31mR\x1b[1mB\x1b[0mN")

	cellR := h.Cell(0, 0)
	if cellR.FG != th.ANSI[1] {
		t.Errorf("R fg = %+v, want red %+v", cellR.FG, th.ANSI[1])
	}
	// Bold promotes the base red to bright red at resolve time.
	cellB := h.Cell(0, 1)
	if !cellB.Bold || cellB.FG != th.ANSI[9] {
		t.Errorf("B = %+v, want bold bright red", cellB)
	}
	// SGR 0 resets everything regardless of prior state.
	cellN := h.Cell(0, 2)
	if cellN.Bold || cellN.FG != th.Foreground || cellN.BG != theme.Transparent {
		t.Errorf("N = %+v, want theme defaults", cellN)
	}
}

func TestSGRExtendedColors(t *testing.T) {
	h := NewTestHarness(24, 80)
	th := h.Theme()

	h.Send("\x1b[38;5;196mA\x1b[48;5;21mB\x1b[38;2;1;2;3mC")

	if got := h.Cell(0, 0).FG; got != th.ResolveFG(theme.Palette256(196), false) {
		t.Errorf("256-color fg = %+v", got)
	}
	if got := h.Cell(0, 1).BG; got != th.ResolveBG(theme.Palette256(21)) {
		t.Errorf("256-color bg = %+v", got)
	}
	if got := h.Cell(0, 2).FG; got != theme.RGB(1, 2, 3) {
		t.Errorf("truecolor fg = %+v", got)
	}
}

func TestSGRStyleFlags(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("\x1b[3;4mX\x1b[23mY\x1b[24mZ")
	x, y, z := h.Cell(0, 0), h.Cell(0, 1), h.Cell(0, 2)
	if !x.Italic || !x.Underline {
		t.Errorf("X = %+v, want italic+underline", x)
	}
	if y.Italic || !y.Underline {
		t.Errorf("Y = %+v, want underline only", y)
	}
	if z.Underline {
		t.Errorf("Z = %+v, want no underline", z)
	}
}

func TestOSCTitleEvent(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("\x1b]0;first\x07\x1b]2;second\x1b\\\x1b]52;ignored\x07")
	if len(h.Titles) != 2 || h.Titles[0] != "first" || h.Titles[1] != "second" {
		t.Errorf("titles = %v", h.Titles)
	}
}

func TestWideCharacterPrinting(t *testing.T) {
	h := NewTestHarness(24, 80)
	h.Send("中a")

	wide := h.Cell(0, 0)
	if wide.Rune != '中' || wide.Continuation {
		t.Errorf("wide cell = %+v", wide)
	}
	cont := h.Cell(0, 1)
	if !cont.Continuation {
		t.Error("cell after a wide rune should be a continuation")
	}
	h.AssertRune(t, 0, 2, 'a')
	h.AssertCursor(t, 0, 3)
}

func TestWideCharacterAtLastColumnWraps(t *testing.T) {
	h := NewTestHarness(24, 6)
	h.Send("abcde中")

	// The wide rune cannot fit in the single trailing column: that
	// column becomes a continuation and the rune wraps.
	skipped := h.Cell(0, 5)
	if !skipped.Continuation {
		t.Errorf("skipped trailing cell = %+v, want continuation", skipped)
	}
	if h.Cell(1, 0).Rune != '中' {
		t.Error("wide rune should start the next row")
	}
	if !h.Cell(1, 1).Continuation {
		t.Error("second column of the wrapped wide rune should be a continuation")
	}
	h.AssertCursor(t, 1, 2)
}

func TestEndToEndColoredLine(t *testing.T) {
	h := NewTestHarness(24, 80)
	th := h.Theme()

	h.Send("\x1b[31mRed\x1b[0m Normal\r\n")

	for i, r := range "Red" {
		cell := h.Cell(0, i)
		if cell.Rune != r {
			t.Errorf("cell[0,%d] = %q, want %q", i, cell.Rune, r)
		}
		if cell.FG != th.ANSI[1] {
			t.Errorf("cell[0,%d] fg = %+v, want theme red", i, cell.FG)
		}
	}
	for i, r := range " Normal" {
		cell := h.Cell(0, 3+i)
		if cell.Rune != r {
			t.Errorf("cell[0,%d] = %q, want %q", 3+i, cell.Rune, r)
		}
		if cell.FG != th.Foreground {
			t.Errorf("cell[0,%d] fg = %+v, want default", 3+i, cell.FG)
		}
	}
	h.AssertCursor(t, 1, 0)
}

func TestEndToEndClearScreen(t *testing.T) {
	h := NewTestHarness(4, 10)
	h.Send("some\r\ncontent\x1b[2J")
	snap := h.Snap()
	for r := 0; r < 4; r++ {
		for c := 0; c < 10; c++ {
			if snap.Cell(r, c) != snap.Blank() {
				t.Fatalf("cell[%d,%d] not cleared: %+v", r, c, snap.Cell(r, c))
			}
		}
	}
	h.AssertCursor(t, 0, 0)
}

func TestThemeSwapAffectsOnlyNewOutput(t *testing.T) {
	h := NewTestHarness(24, 80)
	dark := h.Theme()
	h.Send("\x1b[31ma")
	h.Engine.SetTheme(theme.Light())
	h.Send("b")

	if got := h.Cell(0, 0).FG; got != dark.ANSI[1] {
		t.Errorf("already-painted cell recolored: %+v", got)
	}
	if got := h.Cell(0, 1).FG; got != theme.Light().ANSI[1] {
		t.Errorf("new output should use the new theme: %+v", got)
	}
}

func TestMalformedSequencesSurvive(t *testing.T) {
	h := NewTestHarness(24, 80)
	// Unterminated CSI cancelled, garbage escape, then normal text.
	h.Send("\x1b[12;34\x18\x1bQok")
	h.AssertText(t, 0, 0, "ok")
}
