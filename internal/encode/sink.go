// Package encode turns the composited surface and the mixed audio bus into
// a playable artifact. The algorithmic core lives elsewhere; this is the
// thin streaming wrapper around the platform encoder.
package encode

import (
	"fmt"
	"image"
	"time"
)

// CaptureError marks a failure of the capture/encode backend. The scheduler
// must still tear the audio bus down when it sees one.
type CaptureError struct {
	Stage string
	Err   error
	Log   string
}

func (e CaptureError) Error() string {
	if e.Log != "" {
		return fmt.Sprintf("capture %s: %v\n%s", e.Stage, e.Err, e.Log)
	}
	return fmt.Sprintf("capture %s: %v", e.Stage, e.Err)
}

func (e CaptureError) Unwrap() error { return e.Err }

// Artifact is the opaque handle to a finished render.
type Artifact struct {
	Path     string
	Duration time.Duration
	Frames   int
}

// FrameSink accepts composited frames and the live audio sample stream and
// produces the muxed artifact. Injected so the scheduler and segment players
// are testable without a real encoder.
type FrameSink interface {
	// WriteFrame captures one composited frame. Frames arrive at a fixed
	// rate in presentation order.
	WriteFrame(frame *image.RGBA) error
	// WriteAudio captures the bus samples covering the frame just written,
	// keeping audio and video causally ordered by the single timeline.
	WriteAudio(samples [][2]float64) error
	// Finalize muxes and returns the artifact.
	Finalize() (*Artifact, error)
	// Abort releases everything without producing output. Safe to call
	// after Finalize; required on every failure path.
	Abort()
}
