package audio

import (
	"time"

	"github.com/faiface/beep"
)

// BusRate is the shared mix bus rate. Narration buffers arriving at other
// rates are resampled on the way in.
const BusRate = 44100

// Bus is the offline audio mix bus. It is pull-based: the capture pipeline
// drains it one frame interval at a time, so sample position doubles as the
// render clock. All commands are issued from the single render goroutine;
// the bus itself never spawns one.
type Bus struct {
	rate  int
	mixer *beep.Mixer
	pos   int
}

func NewBus() *Bus {
	return &Bus{rate: BusRate, mixer: &beep.Mixer{}}
}

func (b *Bus) SampleRate() int { return b.rate }

// Play starts a narration buffer at the current bus position. The mixer
// drains the streamer to completion and then drops it.
func (b *Bus) Play(buf *SampleBuffer) {
	st := buf.Streamer()
	if buf.SampleRate != b.rate {
		st = beep.Resample(4, beep.SampleRate(buf.SampleRate), beep.SampleRate(b.rate), st)
	}
	b.mixer.Add(st)
}

// Attach adds a long-lived source such as the ambient bed.
func (b *Bus) Attach(s beep.Streamer) {
	b.mixer.Add(s)
}

// Pull mixes the next len(dst) sample frames. The mixer streams silence once
// every source has drained, so Pull always fills dst completely.
func (b *Bus) Pull(dst [][2]float64) {
	b.mixer.Stream(dst)
	b.pos += len(dst)
}

// Pos is the number of sample frames pulled so far.
func (b *Bus) Pos() int { return b.pos }

// Elapsed is the bus position expressed as render time.
func (b *Bus) Elapsed() time.Duration {
	return time.Duration(float64(b.pos) / float64(b.rate) * float64(time.Second))
}

// FramesPerTick is how many sample frames one video frame interval covers.
func (b *Bus) FramesPerTick(fps int) int {
	return b.rate / fps
}

// Stop detaches every source. Mandatory on both success and failure paths so
// a failed render never leaks an active streamer into a reused bus.
func (b *Bus) Stop() {
	b.mixer = &beep.Mixer{}
}
