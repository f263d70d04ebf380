package config

import "time"

// Config holds every knob of a render invocation. There is no config file:
// the caller (CLI or embedding application) fills the struct and hands it to
// the compositor together with the render request.
type Config struct {
	Width  int
	Height int
	FPS    int

	// BreathingPad is the silent/still interval appended after each
	// segment's narration before the next segment starts.
	BreathingPad time.Duration
	// IntroMinimum is the floor for the intro's visible duration; the intro
	// plays for the longer of this and its own narration length.
	IntroMinimum time.Duration
	// TransitionLength must stay shorter than the shortest narration clip so
	// transitions always finish before the voice starts.
	TransitionLength time.Duration

	// AmbientLevel is the steady-state gain of the music bed (full scale).
	AmbientLevel float64
	// AmbientRampUp is how long the bed takes to reach AmbientLevel at start.
	AmbientRampUp time.Duration
	// AmbientRampDown is the fade window used when the timeline has no outro.
	AmbientRampDown time.Duration
	// AmbientTail is held after the ramp-down so the fade is captured.
	AmbientTail time.Duration

	// ZoomSpeed is the Ken-Burns zoom increment per frame.
	ZoomSpeed float64
	// SmartFocus anchors the Ken-Burns drift on the most salient image
	// region instead of the hash-picked corner.
	SmartFocus bool

	VideoEncoder string
	Quality      int
	FFmpegPath   string

	ShowStats    bool
	BuildVersion string
}

// Default returns the 9:16 shorts profile used by the narrated-topic videos.
func Default() Config {
	return Config{
		Width:            720,
		Height:           1280,
		FPS:              30,
		BreathingPad:     800 * time.Millisecond,
		IntroMinimum:     3 * time.Second,
		TransitionLength: 700 * time.Millisecond,
		AmbientLevel:     0.08,
		AmbientRampUp:    2 * time.Second,
		AmbientRampDown:  1500 * time.Millisecond,
		AmbientTail:      500 * time.Millisecond,
		ZoomSpeed:        0.001,
		VideoEncoder:     "libx264",
		Quality:          23,
		FFmpegPath:       "ffmpeg",
	}
}

// FrameInterval is the wall-clock length of one video frame.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
