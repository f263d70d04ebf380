package preview

import (
	"testing"
)

func TestToPCM16(t *testing.T) {
	frames := [][2]float64{
		{0, 0},
		{1, -1},
		{2.5, -2.5}, // out of range, must clamp
		{0.5, 0.5},
	}
	pcm := toPCM16(frames)
	if len(pcm) != len(frames)*4 {
		t.Fatalf("got %d bytes, want %d", len(pcm), len(frames)*4)
	}

	sample := func(i int) int16 {
		return int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
	}

	if sample(0) != 0 || sample(1) != 0 {
		t.Errorf("silent frame decoded as (%d,%d)", sample(0), sample(1))
	}
	if sample(2) != 32767 {
		t.Errorf("full-scale positive = %d, want 32767", sample(2))
	}
	if sample(3) != -32767 {
		t.Errorf("full-scale negative = %d, want -32767", sample(3))
	}
	if sample(4) != 32767 || sample(5) != -32767 {
		t.Errorf("out-of-range frame did not clamp: (%d,%d)", sample(4), sample(5))
	}
	if got := sample(6); got != 16383 {
		t.Errorf("half-scale = %d, want 16383", got)
	}
}
