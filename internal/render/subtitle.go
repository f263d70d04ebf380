package render

import (
	"image"
	"image/color"
	"log"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	subtitleSize = 34
	titleSize    = 56
	messageSize  = 44

	sideMargin   = 48
	bottomMargin = 140
)

var (
	fontOnce     sync.Once
	subtitleFace font.Face
	titleFace    font.Face
	messageFace  font.Face
)

func loadFaces() {
	fontOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("[!] Font parse failed: %v", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			log.Printf("[!] Font parse failed: %v", err)
			return
		}
		face := func(f *opentype.Font, size float64) font.Face {
			ff, err := opentype.NewFace(f, &opentype.FaceOptions{
				Size: size, DPI: 72, Hinting: font.HintingFull,
			})
			if err != nil {
				log.Printf("[!] Font face failed: %v", err)
			}
			return ff
		}
		subtitleFace = face(regular, subtitleSize)
		titleFace = face(bold, titleSize)
		messageFace = face(regular, messageSize)
	})
}

// WrapText greedily wraps text into lines no wider than maxWidth pixels.
// A single word wider than maxWidth gets its own line rather than being cut.
func WrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	return append(lines, current)
}

// DrawSubtitles renders the karaoke block: a dimmed base copy of every
// wrapped line, then a highlighted prefix proportional to spokenProgress.
// Progress is linear in character count, not phoneme timing; values beyond
// 1.0 clamp, and empty text draws nothing.
func DrawSubtitles(s *Surface, text string, spokenProgress float64) {
	loadFaces()
	if strings.TrimSpace(text) == "" || subtitleFace == nil {
		return
	}
	if spokenProgress < 0 {
		spokenProgress = 0
	}
	if spokenProgress > 1 {
		spokenProgress = 1
	}

	maxWidth := s.Width() - 2*sideMargin
	lines := WrapText(subtitleFace, text, maxWidth)

	metrics := subtitleFace.Metrics()
	lineHeight := metrics.Height.Ceil() + 6
	baseY := s.Height() - bottomMargin - (len(lines)-1)*lineHeight

	total := 0
	for _, line := range lines {
		total += len([]rune(line))
	}
	highlighted := int(spokenProgress*float64(total) + 0.5)

	dst := s.RGBA()
	for i, line := range lines {
		runes := []rune(line)
		width := font.MeasureString(subtitleFace, line).Ceil()
		x := (s.Width() - width) / 2
		y := baseY + i*lineHeight

		// Base pass: shadow plus dimmed copy.
		drawString(dst, subtitleFace, line, x+2, y+2, color.NRGBA{A: 200})
		drawString(dst, subtitleFace, line, x, y, color.NRGBA{R: 215, G: 215, B: 215, A: 255})

		// Highlight pass: the spoken prefix, swept left to right through a
		// clip region so partial characters reveal gradually.
		take := highlighted
		if take > len(runes) {
			take = len(runes)
		}
		highlighted -= take
		if take == 0 {
			continue
		}

		prefixWidth := font.MeasureString(subtitleFace, string(runes[:take])).Ceil()
		ascent := metrics.Ascent.Ceil()
		descent := metrics.Descent.Ceil()
		clip := image.Rect(x, y-ascent, x+prefixWidth, y+descent)
		clipped, ok := dst.SubImage(clip.Intersect(dst.Rect)).(*image.RGBA)
		if !ok {
			continue
		}
		drawString(clipped, subtitleFace, line, x, y, color.NRGBA{R: 255, G: 206, B: 64, A: 255})
	}
}

// DrawTitle renders the intro title, word-wrapped and balanced across at
// most two lines, fading in with alpha in [0,1].
func DrawTitle(s *Surface, title string, alpha float64) {
	loadFaces()
	if strings.TrimSpace(title) == "" || titleFace == nil || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	maxWidth := s.Width() - 2*sideMargin
	lines := balanceTwoLines(titleFace, title, maxWidth)

	lineHeight := titleFace.Metrics().Height.Ceil() + 10
	startY := s.Height()/2 - (len(lines)-1)*lineHeight/2

	a := uint8(alpha * 255)
	shadow := color.NRGBA{A: uint8(float64(a) * 0.8)}
	fill := color.NRGBA{R: 255, G: 255, B: 255, A: a}

	for i, line := range lines {
		width := font.MeasureString(titleFace, line).Ceil()
		x := (s.Width() - width) / 2
		y := startY + i*lineHeight
		drawString(s.RGBA(), titleFace, line, x+3, y+3, shadow)
		drawString(s.RGBA(), titleFace, line, x, y, fill)
	}
}

// DrawMessage renders the outro message centered, fading in.
func DrawMessage(s *Surface, msg string, alpha float64) {
	loadFaces()
	if strings.TrimSpace(msg) == "" || messageFace == nil || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}

	maxWidth := s.Width() - 2*sideMargin
	lines := WrapText(messageFace, msg, maxWidth)

	lineHeight := messageFace.Metrics().Height.Ceil() + 8
	startY := s.Height()/2 - (len(lines)-1)*lineHeight/2

	a := uint8(alpha * 255)
	for i, line := range lines {
		width := font.MeasureString(messageFace, line).Ceil()
		x := (s.Width() - width) / 2
		y := startY + i*lineHeight
		drawString(s.RGBA(), messageFace, line, x+2, y+2, color.NRGBA{A: uint8(float64(a) * 0.8)})
		drawString(s.RGBA(), messageFace, line, x, y, color.NRGBA{R: 245, G: 245, B: 245, A: a})
	}
}

// balanceTwoLines splits a title near its middle so the two lines end up
// with similar widths. Titles that fit on one line stay on one line.
func balanceTwoLines(face font.Face, title string, maxWidth int) []string {
	if font.MeasureString(face, title).Ceil() <= maxWidth {
		return []string{title}
	}
	words := strings.Fields(title)
	if len(words) < 2 {
		return []string{title}
	}

	bestDiff := -1
	best := []string{title}
	for i := 1; i < len(words); i++ {
		left := strings.Join(words[:i], " ")
		right := strings.Join(words[i:], " ")
		lw := font.MeasureString(face, left).Ceil()
		rw := font.MeasureString(face, right).Ceil()
		if lw > maxWidth || rw > maxWidth {
			continue
		}
		diff := lw - rw
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = []string{left, right}
		}
	}
	if bestDiff < 0 {
		// No balanced split fits; fall back to the greedy wrap.
		return WrapText(face, title, maxWidth)
	}
	return best
}

func drawString(dst *image.RGBA, face font.Face, s string, x, y int, col color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
