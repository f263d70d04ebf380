// Package compositor drives the whole render: it assembles the timeline,
// prefetches assets, then walks a single frame loop that advances the audio
// bus and the video sink in lockstep. The bus sample position is the only
// clock; nothing here waits on wall time.
package compositor

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/godsake999/SceneSynth/internal/assets"
	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/encode"
	"github.com/godsake999/SceneSynth/internal/player"
	"github.com/godsake999/SceneSynth/internal/render"
	"github.com/godsake999/SceneSynth/internal/synth"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

// Compositor renders one request into one artifact. The sink and the random
// source are injected so tests can capture frames and fix transition picks.
type Compositor struct {
	cfg  config.Config
	sink encode.FrameSink
	rng  *rand.Rand
}

func New(cfg config.Config, sink encode.FrameSink, rng *rand.Rand) *Compositor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Compositor{cfg: cfg, sink: sink, rng: rng}
}

// Render plays the request top to bottom and finalizes the sink. On any
// failure, cancellation included, the bus and the sink are torn down before
// the error is returned.
func (c *Compositor) Render(ctx context.Context, req timeline.RenderRequest) (*encode.Artifact, error) {
	startTime := time.Now()

	tl, err := timeline.Assemble(req)
	if err != nil {
		c.sink.Abort()
		return nil, err
	}

	// Everything is fetched and decoded before the bus opens, so a broken
	// asset fails the render before a single frame is produced.
	bundle, err := assets.Prefetch(ctx, tl)
	if err != nil {
		c.sink.Abort()
		return nil, err
	}

	segments := c.buildSegments(tl, bundle)

	fmt.Printf("[*] Timeline: %d segments | %d scenes\n", len(segments), len(tl.Scenes))
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Encoder: %s\n",
		c.cfg.Width, c.cfg.Height, c.cfg.FPS, c.cfg.VideoEncoder)

	bus := audio.NewBus()
	bed := synth.NewBed(bus)
	bed.ScheduleRamp(c.cfg.AmbientLevel, 0, c.cfg.AmbientRampUp)
	bed.Start()

	teardown := func() {
		bed.Stop()
		bus.Stop()
		c.sink.Abort()
	}

	c.scheduleBedExit(bed, segments, tl.Outro != nil)

	surface := render.NewSurface(c.cfg.Width, c.cfg.Height)
	scratch := render.NewSurface(c.cfg.Width, c.cfg.Height)
	pull := make([][2]float64, bus.FramesPerTick(c.cfg.FPS))

	totalScenes := len(tl.Scenes)
	completedScenes := 0

	for i, seg := range segments {
		var (
			prev *image.RGBA
			kind render.Kind
		)
		if i > 0 {
			prev = surface.Snapshot()
			kind = render.PickTransition(c.rng)
		}

		seg.Start(bus)

		window := c.cfg.TransitionLength
		if window > seg.Duration() {
			window = seg.Duration()
		}

		frames := c.durationToFrames(seg.Duration())
		for f := 0; f < frames; f++ {
			if err := ctx.Err(); err != nil {
				teardown()
				return nil, err
			}

			elapsed := c.frameTime(f)
			if prev != nil && elapsed < window {
				seg.Draw(scratch, elapsed)
				progress := float64(elapsed) / float64(window)
				render.Compose(surface, prev, scratch.RGBA(), kind, progress)
			} else {
				if prev != nil {
					surface.Release(prev)
					prev = nil
				}
				seg.Draw(surface, elapsed)
			}

			if err := c.tick(surface, bus, pull); err != nil {
				teardown()
				return nil, err
			}
		}
		if prev != nil {
			surface.Release(prev)
		}

		if _, ok := seg.(*player.ScenePlayer); ok {
			completedScenes++
			if req.OnProgress != nil {
				req.OnProgress(float64(completedScenes) / float64(totalScenes))
			}
		}
	}

	// Without an outro the bed fades on its own; hold the last frame while
	// the fade and its tail are captured.
	if tl.Outro == nil {
		tail := c.durationToFrames(c.cfg.AmbientRampDown + c.cfg.AmbientTail)
		for f := 0; f < tail; f++ {
			if err := ctx.Err(); err != nil {
				teardown()
				return nil, err
			}
			if err := c.tick(surface, bus, pull); err != nil {
				teardown()
				return nil, err
			}
		}
	}

	bed.Stop()

	if req.OnProgress != nil && totalScenes == 0 {
		req.OnProgress(1.0)
	}

	artifact, err := c.sink.Finalize()
	bus.Stop()
	if err != nil {
		c.sink.Abort()
		return nil, err
	}

	if c.cfg.ShowStats {
		c.reportStats(startTime, artifact, len(segments))
	}
	return artifact, nil
}

// tick captures one frame and the bus samples covering it.
func (c *Compositor) tick(surface *render.Surface, bus *audio.Bus, pull [][2]float64) error {
	if err := c.sink.WriteFrame(surface.RGBA()); err != nil {
		return err
	}
	bus.Pull(pull)
	return c.sink.WriteAudio(pull)
}

func (c *Compositor) buildSegments(tl *timeline.Timeline, bundle *assets.Bundle) []player.Segment {
	var segments []player.Segment
	if tl.Intro != nil {
		segments = append(segments, player.NewIntroPlayer(c.cfg, *tl.Intro,
			bundle.Image(tl.Intro.ImageSource), bundle.Clip(tl.Intro.AudioSource)))
	}
	for _, sc := range tl.Scenes {
		segments = append(segments, player.NewScenePlayer(c.cfg, sc,
			bundle.Image(sc.ImageSource), bundle.Clip(sc.AudioSource)))
	}
	if tl.Outro != nil {
		segments = append(segments, player.NewOutroPlayer(c.cfg, *tl.Outro,
			bundle.Image(tl.Outro.ImageSource), bundle.Clip(tl.Outro.AudioSource)))
	}
	return segments
}

// scheduleBedExit plans the bed's way out: with an outro it ducks to silence
// under the closing narration, otherwise it fades after the last segment.
func (c *Compositor) scheduleBedExit(bed *synth.Bed, segments []player.Segment, hasOutro bool) {
	var total time.Duration
	for _, seg := range segments {
		total += seg.Duration()
	}
	if hasOutro {
		last := segments[len(segments)-1]
		outroStart := total - last.Duration()
		bed.ScheduleRamp(0, outroStart, outroStart+last.Voice())
	} else {
		bed.ScheduleRamp(0, total, total+c.cfg.AmbientRampDown)
	}
}

func (c *Compositor) durationToFrames(d time.Duration) int {
	return int(math.Round(d.Seconds() * float64(c.cfg.FPS)))
}

func (c *Compositor) frameTime(f int) time.Duration {
	return time.Duration(f) * time.Second / time.Duration(c.cfg.FPS)
}

func (c *Compositor) reportStats(start time.Time, artifact *encode.Artifact, segmentCount int) {
	totalTime := time.Since(start)
	effFPS := float64(artifact.Frames) / totalTime.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Segments: %d\n"+
			"Frames: %d (%.2fs of video)\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		c.cfg.BuildVersion, totalTime.Seconds(), segmentCount,
		artifact.Frames, artifact.Duration.Seconds(), effFPS,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Segments: %d | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		c.cfg.BuildVersion, segmentCount, artifact.Frames, totalTime.Seconds(), effFPS,
	)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] benchmark.log not written: %v\n", err)
	}
}
