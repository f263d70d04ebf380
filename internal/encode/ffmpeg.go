package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/godsake999/SceneSynth/internal/config"
)

// FFmpegSink streams raw RGBA frames into an ffmpeg child over stdin while
// collecting the mixed bus into a WAV side file, then muxes the two in a
// second pass. Raw frames over a pipe keep the hot path off the disk.
type FFmpegSink struct {
	cfg     config.Config
	outPath string
	tempDir string

	cmd      *exec.Cmd
	pipe     io.WriteCloser
	ffLog    bytes.Buffer
	frames   int
	sampleHz int

	wavFile *os.File
	wavEnc  *wav.Encoder

	finished bool
}

// NewFFmpegSink starts the video encoder child and opens the audio side
// file. sampleHz is the bus rate the WAV is written at.
func NewFFmpegSink(cfg config.Config, outPath string, sampleHz int) (*FFmpegSink, error) {
	tempDir, err := os.MkdirTemp("", "scenesynth_")
	if err != nil {
		return nil, CaptureError{Stage: "setup", Err: err}
	}

	s := &FFmpegSink{cfg: cfg, outPath: outPath, tempDir: tempDir, sampleHz: sampleHz}

	videoPath := filepath.Join(tempDir, "video.mp4")
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", fmt.Sprintf("%d", cfg.FPS),
		"-i", "-",
		"-an",
		"-pix_fmt", "yuv420p",
		"-c:v", cfg.VideoEncoder,
	}
	args = append(args, qualityArgs(cfg.VideoEncoder, cfg.Quality)...)
	args = append(args, videoPath)

	cmd := exec.Command(cfg.FFmpegPath, args...)
	cmd.Stdout = &s.ffLog
	cmd.Stderr = &s.ffLog

	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, CaptureError{Stage: "pipe", Err: err}
	}
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tempDir)
		return nil, CaptureError{Stage: "start", Err: err}
	}
	s.cmd = cmd
	s.pipe = stdin

	wavFile, err := os.Create(filepath.Join(tempDir, "audio.wav"))
	if err != nil {
		s.Abort()
		return nil, CaptureError{Stage: "audio file", Err: err}
	}
	s.wavFile = wavFile
	s.wavEnc = wav.NewEncoder(wavFile, sampleHz, 16, 2, 1)

	return s, nil
}

func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox wants a bitrate rather than a constant quality knob.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func (s *FFmpegSink) WriteFrame(frame *image.RGBA) error {
	if err := writeRawRGBA(s.pipe, frame); err != nil {
		return CaptureError{Stage: "frame", Err: err, Log: s.ffLog.String()}
	}
	s.frames++
	return nil
}

func (s *FFmpegSink) WriteAudio(samples [][2]float64) error {
	data := make([]int, 0, len(samples)*2)
	for _, fr := range samples {
		data = append(data, clamp16(fr[0]), clamp16(fr[1]))
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: s.sampleHz},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := s.wavEnc.Write(buf); err != nil {
		return CaptureError{Stage: "audio", Err: err}
	}
	return nil
}

// Finalize waits out the video encoder, seals the WAV, and muxes the two
// streams into the destination container.
func (s *FFmpegSink) Finalize() (*Artifact, error) {
	s.finished = true
	defer os.RemoveAll(s.tempDir)

	if err := s.pipe.Close(); err != nil {
		return nil, CaptureError{Stage: "close", Err: err, Log: s.ffLog.String()}
	}
	if err := s.cmd.Wait(); err != nil {
		return nil, CaptureError{Stage: "encode", Err: err, Log: s.ffLog.String()}
	}

	if err := s.wavEnc.Close(); err != nil {
		return nil, CaptureError{Stage: "audio close", Err: err}
	}
	if err := s.wavFile.Close(); err != nil {
		return nil, CaptureError{Stage: "audio close", Err: err}
	}

	muxArgs := []string{
		"-y",
		"-i", filepath.Join(s.tempDir, "video.mp4"),
		"-i", filepath.Join(s.tempDir, "audio.wav"),
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		s.outPath,
	}
	cmd := exec.Command(s.cfg.FFmpegPath, muxArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, CaptureError{Stage: "mux", Err: err, Log: string(out)}
	}

	return &Artifact{
		Path:     s.outPath,
		Frames:   s.frames,
		Duration: framesToDuration(s.frames, s.cfg.FPS),
	}, nil
}

// Abort kills the encoder child and removes everything. Idempotent.
func (s *FFmpegSink) Abort() {
	if s.finished {
		return
	}
	s.finished = true
	if s.pipe != nil {
		s.pipe.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	if s.wavFile != nil {
		s.wavFile.Close()
	}
	os.RemoveAll(s.tempDir)
}

// writeRawRGBA streams one frame's pixels. Frames with a nonstandard stride
// are repacked first.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Rect, img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

func clamp16(v float64) int {
	s := int(v * 32767)
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return s
}
