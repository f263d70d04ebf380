// Package player holds the per-segment renderers. A player owns one slot of
// the timeline: it queues its narration on the bus when the slot becomes
// current and paints every frame of the slot from the elapsed offset alone,
// so the frame loop stays a pure function of the bus clock.
package player

import (
	"time"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/render"
)

// State is the lifecycle position of a segment at a given offset.
type State int

const (
	// StateIdle - the segment has not started yet.
	StateIdle State = iota
	// StatePlaying - the narration clip is still sounding.
	StatePlaying
	// StateSettling - narration is over, the breathing pad is running.
	StateSettling
	// StateDone - the segment's full duration has elapsed.
	StateDone
)

// Segment is one playable unit of the timeline.
type Segment interface {
	// Duration is the full visible length, breathing pad included.
	Duration() time.Duration
	// Voice is the offset at which the narration clip ends.
	Voice() time.Duration
	// Start queues the narration on the bus. Called exactly once, when the
	// segment becomes current.
	Start(bus *audio.Bus)
	// Draw paints the frame at the given offset into the segment.
	Draw(s *render.Surface, elapsed time.Duration)
	// State reports the lifecycle position at the given offset.
	State(elapsed time.Duration) State
}

func stateAt(elapsed, voice, total time.Duration) State {
	switch {
	case elapsed < 0:
		return StateIdle
	case elapsed < voice:
		return StatePlaying
	case elapsed < total:
		return StateSettling
	default:
		return StateDone
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
