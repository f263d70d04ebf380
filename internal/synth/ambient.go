// Package synth procedurally generates the ambient music bed: two detuned
// low-frequency oscillators through a low-pass filter, with gain automation
// expressed only as scheduled ramps on the render clock.
package synth

import (
	"math"
	"time"

	"github.com/godsake999/SceneSynth/internal/audio"
)

const (
	// Root and fifth of the drone. A2 plus E3 reads as a neutral pad under
	// any narration.
	rootHz  = 110.0
	fifthHz = 164.81

	// Low-pass knee. Everything harsh in the sawtooth sits above this.
	cutoffHz = 400.0

	// minRamp replaces any requested instantaneous gain change after t=0,
	// which would otherwise click audibly.
	minRamp = 10 * time.Millisecond
)

// GainRamp is one scheduled automation event. Start/End are absolute
// positions on the render clock, in sample frames.
type GainRamp struct {
	Start, End int
	From, To   float64
}

// Bed is the ambient drone. It is created once per render, attached to the
// mix bus before the first segment plays, and must be explicitly stopped;
// a bed left running is a leaked audio source.
type Bed struct {
	bus     *audio.Bus
	rate    int
	pos     int
	phase1  float64
	phase2  float64
	lpState float64
	alpha   float64

	running bool
	gain    float64
	ramps   []GainRamp
}

// NewBed builds a bed against the shared bus. Gain starts at zero; the
// scheduler ramps it up once rendering begins.
func NewBed(bus *audio.Bus) *Bed {
	rate := bus.SampleRate()
	return &Bed{
		bus:   bus,
		rate:  rate,
		alpha: 1 - math.Exp(-2*math.Pi*cutoffHz/float64(rate)),
	}
}

// Start attaches the bed to the bus. Before Start the bed produces nothing.
func (b *Bed) Start() {
	if b.running {
		return
	}
	b.running = true
	b.bus.Attach(b)
}

// Stop ends the stream; the mixer drops the bed on the next pull.
func (b *Bed) Stop() {
	b.running = false
}

// SetGain schedules a ramp from the current gain to target, starting now.
// A zero ramp is only honored at position 0; later it is stretched to
// minRamp so the level never steps.
func (b *Bed) SetGain(target float64, ramp time.Duration) {
	b.ScheduleRamp(target, b.posToTime(b.pos), b.posToTime(b.pos)+ramp)
}

// ScheduleRamp schedules a ramp on absolute render-clock times. Used by the
// scheduler to time the outro duck so it lands exactly on the voice end.
func (b *Bed) ScheduleRamp(target float64, start, end time.Duration) {
	if end <= start {
		if b.pos == 0 && start == 0 {
			// Initial level set, the one permitted jump.
			b.gain = target
			return
		}
		end = start + minRamp
	}
	b.ramps = append(b.ramps, GainRamp{
		Start: b.timeToPos(start),
		End:   b.timeToPos(end),
		From:  b.gainAt(b.timeToPos(start)),
		To:    target,
	})
}

// Ramps returns the automation trace, for inspection by the scheduler tests.
func (b *Bed) Ramps() []GainRamp { return b.ramps }

// Stream generates the drone. Implements beep.Streamer; called only by the
// bus's single-threaded pull loop.
func (b *Bed) Stream(samples [][2]float64) (int, bool) {
	if !b.running {
		return 0, false
	}
	inc1 := rootHz / float64(b.rate)
	inc2 := fifthHz / float64(b.rate)
	for i := range samples {
		// Smooth root (sine) plus harsher fifth (sawtooth), then one-pole
		// low-pass to tame the saw's upper harmonics.
		sine := math.Sin(2 * math.Pi * b.phase1)
		saw := 2*b.phase2 - 1
		mix := 0.6*sine + 0.4*saw
		b.lpState += b.alpha * (mix - b.lpState)

		v := b.lpState * b.gainAt(b.pos)
		samples[i][0], samples[i][1] = v, v

		b.phase1 += inc1
		if b.phase1 >= 1 {
			b.phase1 -= 1
		}
		b.phase2 += inc2
		if b.phase2 >= 1 {
			b.phase2 -= 1
		}
		b.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Bed) Err() error { return nil }

// gainAt evaluates the automation at an absolute sample position.
func (b *Bed) gainAt(pos int) float64 {
	g := b.gain
	for _, r := range b.ramps {
		switch {
		case pos >= r.End:
			g = r.To
		case pos >= r.Start:
			t := float64(pos-r.Start) / float64(r.End-r.Start)
			g = r.From + (r.To-r.From)*t
		}
	}
	return g
}

func (b *Bed) timeToPos(d time.Duration) int {
	return int(d.Seconds() * float64(b.rate))
}

func (b *Bed) posToTime(pos int) time.Duration {
	return time.Duration(float64(pos) / float64(b.rate) * float64(time.Second))
}
