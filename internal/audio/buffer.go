package audio

import (
	"time"

	"github.com/faiface/beep"
)

// SampleBuffer is a fully decoded narration clip: float samples in [-1,1],
// interleaved by channel. Buffers are immutable once produced and owned by
// the segment player that requested them.
type SampleBuffer struct {
	Channels   int
	SampleRate int
	Samples    []float64
}

// Frames is the number of sample frames (samples per channel).
func (b *SampleBuffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration is the clip length at the buffer's native rate.
func (b *SampleBuffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Streamer adapts the buffer to a beep.Streamer at its native rate. Mono
// buffers are duplicated onto both output channels.
func (b *SampleBuffer) Streamer() beep.Streamer {
	pos := 0
	frames := b.Frames()
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= frames {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= frames {
				break
			}
			if b.Channels == 1 {
				v := b.Samples[pos]
				samples[i][0], samples[i][1] = v, v
			} else {
				samples[i][0] = b.Samples[pos*b.Channels]
				samples[i][1] = b.Samples[pos*b.Channels+1]
			}
			pos++
			n++
		}
		return n, true
	})
}
