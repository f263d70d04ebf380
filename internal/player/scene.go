package player

import (
	"image"
	"time"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/render"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

// ScenePlayer renders one narrated still: the Ken-Burns camera drifts over
// the image for the whole slot while the karaoke subtitles track the
// narration clip.
type ScenePlayer struct {
	scene timeline.Scene
	img   image.Image
	clip  *audio.SampleBuffer
	drift *render.Drift

	voice time.Duration
	total time.Duration
}

func NewScenePlayer(cfg config.Config, sc timeline.Scene, img image.Image, clip *audio.SampleBuffer) *ScenePlayer {
	voice := clip.Duration()
	total := voice + cfg.BreathingPad

	drift := render.NewDrift(sc.NarrationText, cfg.ZoomSpeed, total, cfg.FPS)
	if cfg.SmartFocus {
		drift.Anchor(render.FocusPoint(img))
	}

	return &ScenePlayer{
		scene: sc,
		img:   img,
		clip:  clip,
		drift: drift,
		voice: voice,
		total: total,
	}
}

func (p *ScenePlayer) Duration() time.Duration { return p.total }
func (p *ScenePlayer) Voice() time.Duration    { return p.voice }

func (p *ScenePlayer) Start(bus *audio.Bus) {
	bus.Play(p.clip)
}

func (p *ScenePlayer) Draw(s *render.Surface, elapsed time.Duration) {
	cam := p.drift.At(elapsed)
	s.DrawRegion(p.img, cam.Viewport(p.img))

	// The highlight runs with the voice and stays complete through the
	// breathing pad, so slow readers can finish the line.
	progress := 1.0
	if p.voice > 0 {
		progress = clamp01(float64(elapsed) / float64(p.voice))
	}
	render.DrawSubtitles(s, p.scene.NarrationText, progress)
}

func (p *ScenePlayer) State(elapsed time.Duration) State {
	return stateAt(elapsed, p.voice, p.total)
}
