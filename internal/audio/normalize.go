package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// RawPCMRate is the sample rate assumed for headerless narration payloads.
// Both edge-tts and the Gemini speech endpoint emit mono s16le at 24 kHz
// when they fall back to raw PCM.
const RawPCMRate = 24000

// DecodeError marks narration bytes that are neither a decodable standard
// container nor plausible raw PCM. It always aborts the whole render.
type DecodeError struct {
	Reason string
	Err    error
}

func (e DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio decode: %s: %v", e.Reason, e.Err)
	}
	return "audio decode: " + e.Reason
}

func (e DecodeError) Unwrap() error { return e.Err }

type decoderFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var containerDecoders = []decoderFunc{mp3.Decode, wav.Decode, vorbis.Decode}

// Normalize turns raw encoded narration bytes into a uniform SampleBuffer.
// The standard container path is tried first on an independent copy of the
// bytes, since the decoders consume their input irrecoverably. If every
// decoder refuses the payload, a container magic number means the bytes are
// corrupt and the failure is fatal; otherwise the stream is reinterpreted as
// headerless mono s16le PCM at RawPCMRate.
func Normalize(data []byte) (*SampleBuffer, error) {
	if len(data) == 0 {
		return nil, DecodeError{Reason: "empty payload"}
	}

	var lastErr error
	for _, decode := range containerDecoders {
		buf := make([]byte, len(data))
		copy(buf, data)

		streamer, format, err := decode(io.NopCloser(bytes.NewReader(buf)))
		if err != nil {
			lastErr = err
			continue
		}
		out, err := drain(streamer, format)
		streamer.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}

	if hasContainerMagic(data) {
		return nil, DecodeError{Reason: "corrupt container payload", Err: lastErr}
	}
	return decodeRawPCM(data)
}

// drain reads a decoded stream to the end into a stereo SampleBuffer at the
// container's native rate.
func drain(s beep.Streamer, format beep.Format) (*SampleBuffer, error) {
	out := &SampleBuffer{Channels: 2, SampleRate: int(format.SampleRate)}
	chunk := make([][2]float64, 2048)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			out.Samples = append(out.Samples, chunk[i][0], chunk[i][1])
		}
		if !ok {
			break
		}
	}
	if len(out.Samples) == 0 {
		return nil, DecodeError{Reason: "container decoded to zero samples"}
	}
	return out, nil
}

// hasContainerMagic recognizes the signatures of the containers the standard
// decode path accepts. Payloads that carry one of these but failed to decode
// are corrupt, not raw PCM.
func hasContainerMagic(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch {
	case bytes.HasPrefix(data, []byte("ID3")):
		return true
	case data[0] == 0xFF && data[1]&0xE0 == 0xE0: // MPEG frame sync
		return true
	case bytes.HasPrefix(data, []byte("RIFF")):
		return true
	case bytes.HasPrefix(data, []byte("OggS")):
		return true
	case bytes.HasPrefix(data, []byte("fLaC")):
		return true
	}
	return false
}

// decodeRawPCM maps headerless s16le samples linearly onto [-1,1].
func decodeRawPCM(data []byte) (*SampleBuffer, error) {
	if len(data)%2 != 0 {
		return nil, DecodeError{Reason: "raw PCM payload has odd length"}
	}
	out := &SampleBuffer{
		Channels:   1,
		SampleRate: RawPCMRate,
		Samples:    make([]float64, 0, len(data)/2),
	}
	for i := 0; i+1 < len(data); i += 2 {
		v := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		out.Samples = append(out.Samples, float64(v)/32768.0)
	}
	return out, nil
}
