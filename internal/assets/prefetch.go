package assets

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/system"
	"github.com/godsake999/SceneSynth/internal/timeline"
)

// Bundle holds every decoded asset of one timeline, keyed by source
// reference. The scheduler resolves all of it up front: an asset failure
// must abort the render before the audio bus opens.
type Bundle struct {
	mu     sync.Mutex
	images map[string]image.Image
	clips  map[string]*audio.SampleBuffer
}

// Image returns the decoded still for a source reference.
func (b *Bundle) Image(source string) image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.images[source]
}

// Clip returns the normalized narration buffer for a source reference.
func (b *Bundle) Clip(source string) *audio.SampleBuffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clips[source]
}

// Prefetch loads and decodes every asset the timeline references,
// concurrently but bounded by the machine's real capacity. The first
// failure cancels the remaining fetches and is returned as-is
// (LoadError or audio.DecodeError).
func Prefetch(ctx context.Context, tl *timeline.Timeline) (*Bundle, error) {
	bundle := &Bundle{
		images: make(map[string]image.Image),
		clips:  make(map[string]*audio.SampleBuffer),
	}

	var imageSources, audioSources []string
	if tl.Intro != nil {
		imageSources = append(imageSources, tl.Intro.ImageSource)
		audioSources = append(audioSources, tl.Intro.AudioSource)
	}
	for _, s := range tl.Scenes {
		imageSources = append(imageSources, s.ImageSource)
		audioSources = append(audioSources, s.AudioSource)
	}
	if tl.Outro != nil {
		imageSources = append(imageSources, tl.Outro.ImageSource)
		audioSources = append(audioSources, tl.Outro.AudioSource)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(system.PrefetchWorkers())

	for _, src := range dedupe(imageSources) {
		g.Go(func() error {
			img, err := LoadImage(gctx, src)
			if err != nil {
				return err
			}
			bundle.mu.Lock()
			bundle.images[src] = img
			bundle.mu.Unlock()
			return nil
		})
	}

	for _, src := range dedupe(audioSources) {
		g.Go(func() error {
			data, err := FetchBytes(gctx, src)
			if err != nil {
				return err
			}
			clip, err := audio.Normalize(data)
			if err != nil {
				return err
			}
			bundle.mu.Lock()
			bundle.clips[src] = clip
			bundle.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func dedupe(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	var out []string
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
