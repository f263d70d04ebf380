package render

import (
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/font"
)

const sampleText = "the quiet reef shelters thousands of species found nowhere else on earth"

func countColored(s *Surface, match func(color.RGBA) bool) int {
	n := 0
	img := s.RGBA()
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if match(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func isHighlight(c color.RGBA) bool {
	// The karaoke fill is warm yellow; nothing else on the frame is.
	return c.R > 200 && c.G > 150 && c.B < 120
}

func isText(c color.RGBA) bool {
	return c.R > 100 || c.G > 100 || c.B > 100
}

func TestWrapTextRespectsMaxWidth(t *testing.T) {
	loadFaces()
	if subtitleFace == nil {
		t.Fatal("Font faces failed to load")
	}

	const maxWidth = 400
	lines := WrapText(subtitleFace, sampleText, maxWidth)
	if len(lines) < 2 {
		t.Fatalf("Expected the sample to wrap, got %d line(s)", len(lines))
	}
	for _, line := range lines {
		if w := font.MeasureString(subtitleFace, line).Ceil(); w > maxWidth {
			t.Errorf("Line %q is %dpx, exceeds %dpx", line, w, maxWidth)
		}
	}

	if got := strings.Join(lines, " "); got != sampleText {
		t.Errorf("Wrapping lost content: %q", got)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	loadFaces()
	if lines := WrapText(subtitleFace, "   ", 300); lines != nil {
		t.Errorf("Expected nil for blank text, got %v", lines)
	}
}

func TestDrawSubtitlesProgress(t *testing.T) {
	zero := NewSurface(720, 1280)
	DrawSubtitles(zero, sampleText, 0.0)
	if n := countColored(zero, isHighlight); n != 0 {
		t.Errorf("Progress 0: expected no highlight pixels, got %d", n)
	}
	if n := countColored(zero, isText); n == 0 {
		t.Error("Progress 0: expected the dimmed base text to be drawn")
	}

	half := NewSurface(720, 1280)
	DrawSubtitles(half, sampleText, 0.5)
	full := NewSurface(720, 1280)
	DrawSubtitles(full, sampleText, 1.0)

	nHalf := countColored(half, isHighlight)
	nFull := countColored(full, isHighlight)
	if nHalf == 0 || nFull == 0 {
		t.Fatalf("Expected highlight pixels at 0.5 (%d) and 1.0 (%d)", nHalf, nFull)
	}
	if nFull <= nHalf {
		t.Errorf("Highlight must grow with progress: half=%d full=%d", nHalf, nFull)
	}

	// Beyond-1.0 progress clamps to the fully highlighted frame.
	over := NewSurface(720, 1280)
	DrawSubtitles(over, sampleText, 1.8)
	if n := countColored(over, isHighlight); n != nFull {
		t.Errorf("Progress 1.8 should equal progress 1.0: %d vs %d", n, nFull)
	}
}

func TestDrawSubtitlesEmptyTextDrawsNothing(t *testing.T) {
	s := NewSurface(720, 1280)
	DrawSubtitles(s, "", 0.7)
	if n := countColored(s, isText); n != 0 {
		t.Errorf("Empty text painted %d pixels", n)
	}
}

func TestDrawTitleBalancedLines(t *testing.T) {
	loadFaces()
	lines := balanceTwoLines(titleFace, "Secrets of the Deep Coral Reef", 720-2*sideMargin)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 balanced lines, got %d: %v", len(lines), lines)
	}
	w0 := font.MeasureString(titleFace, lines[0]).Ceil()
	w1 := font.MeasureString(titleFace, lines[1]).Ceil()
	diff := w0 - w1
	if diff < 0 {
		diff = -diff
	}
	if diff > 250 {
		t.Errorf("Lines poorly balanced: %dpx vs %dpx", w0, w1)
	}

	short := balanceTwoLines(titleFace, "Reef", 720-2*sideMargin)
	if len(short) != 1 {
		t.Errorf("Short title must stay on one line, got %v", short)
	}
}

func TestDrawTitleFade(t *testing.T) {
	none := NewSurface(720, 1280)
	DrawTitle(none, "Coral", 0)
	if n := countColored(none, isText); n != 0 {
		t.Errorf("Alpha 0 painted %d pixels", n)
	}

	fullS := NewSurface(720, 1280)
	DrawTitle(fullS, "Coral", 1)
	if n := countColored(fullS, isText); n == 0 {
		t.Error("Alpha 1 painted nothing")
	}
}
