package player

import (
	"image"
	"time"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/render"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

// titleFade is how long the title takes to fade in.
const titleFade = 600 * time.Millisecond

// IntroPlayer renders the titled opening. The slot holds the screen for at
// least the configured minimum even when the narration is shorter, so a
// one-word greeting does not flash past.
type IntroPlayer struct {
	intro timeline.Intro
	img   image.Image
	clip  *audio.SampleBuffer
	drift *render.Drift

	voice time.Duration
	total time.Duration
}

func NewIntroPlayer(cfg config.Config, in timeline.Intro, img image.Image, clip *audio.SampleBuffer) *IntroPlayer {
	voice := clip.Duration()
	visible := voice
	if visible < cfg.IntroMinimum {
		visible = cfg.IntroMinimum
	}
	total := visible + cfg.BreathingPad

	drift := render.NewDrift(in.Title, cfg.ZoomSpeed, total, cfg.FPS)
	if cfg.SmartFocus {
		drift.Anchor(render.FocusPoint(img))
	}

	return &IntroPlayer{
		intro: in,
		img:   img,
		clip:  clip,
		drift: drift,
		voice: voice,
		total: total,
	}
}

func (p *IntroPlayer) Duration() time.Duration { return p.total }
func (p *IntroPlayer) Voice() time.Duration    { return p.voice }

func (p *IntroPlayer) Start(bus *audio.Bus) {
	bus.Play(p.clip)
}

func (p *IntroPlayer) Draw(s *render.Surface, elapsed time.Duration) {
	cam := p.drift.At(elapsed)
	s.DrawRegion(p.img, cam.Viewport(p.img))

	alpha := clamp01(float64(elapsed) / float64(titleFade))
	render.DrawTitle(s, p.intro.Title, alpha)
}

func (p *IntroPlayer) State(elapsed time.Duration) State {
	return stateAt(elapsed, p.voice, p.total)
}
