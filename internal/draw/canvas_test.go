package draw

import (
	"strings"
	"testing"
)

func TestShadeLevel(t *testing.T) {
	cases := []struct {
		intensity float64
		want      rune
	}{
		{-0.5, ' '},
		{0, ' '},
		{0.01, '░'},
		{0.3, '▒'},
		{0.6, '▓'},
		{0.99, '█'},
		{1, '█'},
		{2, '█'},
	}
	for _, tc := range cases {
		if got := ShadeLevel(tc.intensity); got != tc.want {
			t.Errorf("ShadeLevel(%v) = %q, want %q", tc.intensity, got, tc.want)
		}
	}
}

func TestCanvasKeepsMaxIntensity(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Set(3, 3, 0.4)
	c.Set(3, 3, 0.9)
	c.Set(3, 3, 0.2)
	if got := c.At(3, 3); got != 0.9 {
		t.Errorf("cell intensity = %v, want 0.9", got)
	}
}

func TestFilledPolygonCoversInterior(t *testing.T) {
	c := NewCanvas(20, 20)
	square := []Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}}
	c.DrawPolygon(square, 1, true)

	if got := c.At(10, 10); got != 1 {
		t.Errorf("interior cell = %v, want 1", got)
	}
	if got := c.At(2, 2); got != 0 {
		t.Errorf("exterior cell = %v, want 0", got)
	}
}

func TestScaledCanvasMapsLogicalSpace(t *testing.T) {
	// 100x100 logical space on a 50x25 terminal
	c := NewScaledCanvas(50, 25, 100, 100)
	c.Set(50, 50, 1)
	if got := c.At(25, 13); got != 1 {
		t.Errorf("scaled center cell = %v, want 1", got)
	}

	col, row := c.LogicalToTerminal(50, 50)
	if col != 26 || row != 14 {
		t.Errorf("LogicalToTerminal(50,50) = (%d,%d), want (26,14)", col, row)
	}
}

func TestRenderSkipsEmptyCells(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Set(2, 1, 1)
	c.Set(3, 1, 0.5)

	var sb strings.Builder
	cw := NewChunkWriter(&sb, 0, 0)
	c.Render(cw)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	if !strings.Contains(out, "█") {
		t.Error("render output missing solid cell")
	}
	// One cursor move for the run, not one per cell
	if got := strings.Count(out, "\033["); got != 1 {
		t.Errorf("cursor moves = %d, want 1", got)
	}
}

func TestRenderOnlyWritesChanges(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Set(2, 1, 1)

	var sb strings.Builder
	cw := NewChunkWriter(&sb, 0, 0)
	c.Render(cw)
	cw.Flush()

	// Unchanged frame renders nothing
	sb.Reset()
	c.Clear()
	c.Set(2, 1, 1)
	c.Render(cw)
	cw.Flush()
	if sb.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", sb.String())
	}

	// Removing the cell writes a space over it
	sb.Reset()
	c.Clear()
	c.Render(cw)
	cw.Flush()
	if !strings.Contains(sb.String(), " ") {
		t.Error("cleared cell was not blanked")
	}

	// Text-dirty cells are rewritten even when unchanged
	sb.Reset()
	c.MarkTextDirty(3, 2, 1)
	c.Render(cw)
	cw.Flush()
	if sb.Len() == 0 {
		t.Error("text-dirty cell was not rewritten")
	}
}

func TestChunkWriterCenteredAndOffset(t *testing.T) {
	var sb strings.Builder
	cw := NewChunkWriter(&sb, 10, 5)

	cw.WriteCentered(20, 3, "HELLO")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	// Centered on col 20 -> starts at col 18; offsets shift to (8;28)
	if got := sb.String(); got != "\033[8;28HHELLO" {
		t.Errorf("centered write = %q", got)
	}

	sb.Reset()
	cw.ClearScreen()
	cw.Flush()
	if got := sb.String(); got != "\033[H\033[2J" {
		t.Errorf("clear = %q", got)
	}
}

func TestChunkWriterSplitsLargeFrames(t *testing.T) {
	var sb strings.Builder
	cw := NewChunkWriter(&sb, 0, 0)

	frame := strings.Repeat("x", maxChunkSize*2+100)
	cw.WriteString(frame)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if sb.String() != frame {
		t.Error("chunked flush corrupted the frame")
	}
}

func TestResizeKeepsLogicalSize(t *testing.T) {
	c := NewScaledCanvas(40, 20, 100, 100)
	c.Resize(80, 40)
	if c.TerminalWidth() != 80 || c.TerminalHeight() != 40 {
		t.Fatalf("terminal size = %dx%d, want 80x40", c.TerminalWidth(), c.TerminalHeight())
	}
	if c.LogicalWidth() != 100 || c.LogicalHeight() != 100 {
		t.Error("logical size changed on resize")
	}
}
