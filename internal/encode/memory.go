package encode

import (
	"errors"
	"image"
	"time"
)

func framesToDuration(frames, fps int) time.Duration {
	return time.Duration(float64(frames) / float64(fps) * float64(time.Second))
}

// MemorySink counts frames and audio instead of encoding them. It backs the
// scheduler tests and the audio-only preview path, where no video artifact
// is wanted.
type MemorySink struct {
	FPS int

	// FailAfterFrames injects a CaptureError once that many frames have
	// been written; zero disables the injection.
	FailAfterFrames int

	frames       int
	audioFrames  int
	sampleHz     int
	aborted      bool
	finalized    bool
	LastFrame    *image.RGBA
	AudioSamples [][2]float64
	// KeepAudio retains the pulled samples in AudioSamples.
	KeepAudio bool
}

func NewMemorySink(fps, sampleHz int) *MemorySink {
	return &MemorySink{FPS: fps, sampleHz: sampleHz}
}

func (m *MemorySink) WriteFrame(frame *image.RGBA) error {
	if m.FailAfterFrames > 0 && m.frames >= m.FailAfterFrames {
		return CaptureError{Stage: "frame", Err: errors.New("injected failure")}
	}
	m.frames++
	m.LastFrame = frame
	return nil
}

func (m *MemorySink) WriteAudio(samples [][2]float64) error {
	m.audioFrames += len(samples)
	if m.KeepAudio {
		m.AudioSamples = append(m.AudioSamples, samples...)
	}
	return nil
}

func (m *MemorySink) Finalize() (*Artifact, error) {
	m.finalized = true
	return &Artifact{
		Path:     "memory://render",
		Frames:   m.frames,
		Duration: framesToDuration(m.frames, m.FPS),
	}, nil
}

func (m *MemorySink) Abort() { m.aborted = true }

// Frames is the number of video frames captured.
func (m *MemorySink) Frames() int { return m.frames }

// AudioDuration is the captured audio expressed as time.
func (m *MemorySink) AudioDuration() time.Duration {
	return time.Duration(float64(m.audioFrames) / float64(m.sampleHz) * float64(time.Second))
}

// Aborted reports whether the failure path released the sink.
func (m *MemorySink) Aborted() bool { return m.aborted }

// Finalized reports whether the sink was sealed normally.
func (m *MemorySink) Finalized() bool { return m.finalized }
