// Package preview auditions a storyboard's mixed audio through the default
// output device. The full composition runs against an in-memory sink, so the
// narration pacing, the ambient bed, and the ducking are heard exactly as
// the final render would capture them.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/compositor"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/encode"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

func getContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   audio.BusRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-readyChan
		}
	})
	return otoCtx, otoInitErr
}

// Play composites the request audio-only and blocks until playback ends or
// the context is cancelled.
func Play(ctx context.Context, cfg config.Config, req timeline.RenderRequest) error {
	sink := encode.NewMemorySink(cfg.FPS, audio.BusRate)
	sink.KeepAudio = true

	comp := compositor.New(cfg, sink, nil)
	if _, err := comp.Render(ctx, req); err != nil {
		return err
	}

	return playStereo16(ctx, toPCM16(sink.AudioSamples))
}

// toPCM16 packs bus frames into interleaved 16-bit signed LE PCM.
func toPCM16(frames [][2]float64) []byte {
	pcm := make([]byte, 0, len(frames)*4)
	for _, fr := range frames {
		for ch := 0; ch < 2; ch++ {
			s := fr[ch]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			v := int16(s * 32767)
			pcm = append(pcm, byte(v), byte(v>>8))
		}
	}
	return pcm
}

func playStereo16(ctx context.Context, pcm []byte) error {
	otoContext, err := getContext()
	if err != nil {
		return fmt.Errorf("audio device init: %w", err)
	}

	player := otoContext.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	for player.IsPlaying() {
		if err := ctx.Err(); err != nil {
			player.Close()
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return player.Close()
}
