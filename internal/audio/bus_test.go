package audio

import (
	"math"
	"testing"
	"time"
)

func TestBusPullSilenceWhenIdle(t *testing.T) {
	bus := NewBus()
	dst := make([][2]float64, 512)
	dst[0][0] = 0.77 // must be overwritten
	bus.Pull(dst)

	for i := range dst {
		if dst[i][0] != 0 || dst[i][1] != 0 {
			t.Fatalf("Frame %d not silent: %v", i, dst[i])
		}
	}
	if bus.Pos() != 512 {
		t.Errorf("Expected pos 512, got %d", bus.Pos())
	}
}

func TestBusPlaysBufferAtNativeRate(t *testing.T) {
	bus := NewBus()
	buf := &SampleBuffer{
		Channels:   1,
		SampleRate: BusRate,
		Samples:    []float64{0.1, 0.2, 0.3, 0.4},
	}
	bus.Play(buf)

	dst := make([][2]float64, 8)
	bus.Pull(dst)

	for i, want := range []float64{0.1, 0.2, 0.3, 0.4} {
		if math.Abs(dst[i][0]-want) > 1e-9 || math.Abs(dst[i][1]-want) > 1e-9 {
			t.Errorf("Frame %d: expected %.2f on both channels, got %v", i, want, dst[i])
		}
	}
	// Past the end of the clip the bus is silent again.
	if dst[4][0] != 0 || dst[7][1] != 0 {
		t.Errorf("Expected silence after clip end, got %v %v", dst[4], dst[7])
	}
}

func TestBusResamplesForeignRates(t *testing.T) {
	bus := NewBus()
	// One second of DC at 24 kHz must still last one second on the bus.
	samples := make([]float64, RawPCMRate)
	for i := range samples {
		samples[i] = 0.5
	}
	bus.Play(&SampleBuffer{Channels: 1, SampleRate: RawPCMRate, Samples: samples})

	dst := make([][2]float64, BusRate)
	bus.Pull(dst)

	// Sample the middle of the second: resampled DC should hold its level.
	mid := dst[BusRate/2][0]
	if math.Abs(mid-0.5) > 0.05 {
		t.Errorf("Expected ~0.5 mid-clip after resample, got %.3f", mid)
	}
}

func TestBusElapsed(t *testing.T) {
	bus := NewBus()
	bus.Pull(make([][2]float64, BusRate/2))
	if got := bus.Elapsed(); got != 500*time.Millisecond {
		t.Errorf("Expected 500ms elapsed, got %v", got)
	}
	if got := bus.FramesPerTick(30); got != BusRate/30 {
		t.Errorf("Expected %d frames per tick, got %d", BusRate/30, got)
	}
}
