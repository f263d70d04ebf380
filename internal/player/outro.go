package player

import (
	"image"
	"image/draw"
	"log"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/render"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

const (
	// darkenWindow is how long the closing frame takes to dim fully.
	darkenWindow = time.Second
	// darkenMax keeps the backdrop image faintly visible behind the text.
	darkenMax   = 0.55
	messageFade = 600 * time.Millisecond
	qrSize      = 180
)

// OutroPlayer renders the closing segment: the backdrop image dims, the
// message fades in, and the optional link shows up as a QR code.
type OutroPlayer struct {
	outro timeline.Outro
	img   image.Image
	clip  *audio.SampleBuffer
	qr    image.Image

	voice time.Duration
	total time.Duration
}

func NewOutroPlayer(cfg config.Config, out timeline.Outro, img image.Image, clip *audio.SampleBuffer) *OutroPlayer {
	p := &OutroPlayer{
		outro: out,
		img:   img,
		clip:  clip,
		voice: clip.Duration(),
	}
	p.total = p.voice + cfg.BreathingPad

	if out.Link != "" {
		q, err := qrcode.New(out.Link, qrcode.Medium)
		if err != nil {
			log.Printf("[!] QR for %q skipped: %v", out.Link, err)
		} else {
			p.qr = q.Image(qrSize)
		}
	}
	return p
}

func (p *OutroPlayer) Duration() time.Duration { return p.total }
func (p *OutroPlayer) Voice() time.Duration    { return p.voice }

func (p *OutroPlayer) Start(bus *audio.Bus) {
	bus.Play(p.clip)
}

func (p *OutroPlayer) Draw(s *render.Surface, elapsed time.Duration) {
	s.DrawCover(p.img)

	dim := darkenMax * clamp01(float64(elapsed)/float64(darkenWindow))
	s.Darken(dim)

	alpha := clamp01(float64(elapsed) / float64(messageFade))
	render.DrawMessage(s, p.outro.Message, alpha)

	if p.qr != nil && alpha >= 1 {
		p.drawQR(s)
	}
}

func (p *OutroPlayer) drawQR(s *render.Surface) {
	x := (s.Width() - qrSize) / 2
	y := s.Height()*3/4 - qrSize/2
	rect := image.Rect(x, y, x+qrSize, y+qrSize)
	draw.Draw(s.RGBA(), rect, p.qr, p.qr.Bounds().Min, draw.Over)
}

func (p *OutroPlayer) State(elapsed time.Duration) State {
	return stateAt(elapsed, p.voice, p.total)
}
