package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// rawPCM encodes float samples as headerless mono s16le, the way the TTS
// fallback path delivers them.
func rawPCM(samples []float64) []byte {
	buf := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		v := int16(s * 32767)
		buf = append(buf, byte(v), byte(v>>8))
	}
	return buf
}

func TestNormalizeRawPCMRoundTrip(t *testing.T) {
	want := make([]float64, 480)
	for i := range want {
		want[i] = 0.5 * math.Sin(2*math.Pi*float64(i)/48.0)
	}

	out, err := Normalize(rawPCM(want))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out.Channels != 1 {
		t.Errorf("Expected mono, got %d channels", out.Channels)
	}
	if out.SampleRate != RawPCMRate {
		t.Errorf("Expected %d Hz, got %d", RawPCMRate, out.SampleRate)
	}
	if len(out.Samples) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(out.Samples))
	}

	tolerance := 1.0 / 32767.0
	for i := range want {
		if math.Abs(out.Samples[i]-want[i]) > tolerance {
			t.Fatalf("Sample %d: expected %.6f, got %.6f", i, want[i], out.Samples[i])
		}
	}
}

func TestNormalizeWAV(t *testing.T) {
	// Minimal valid 16-bit mono RIFF/WAVE payload.
	pcm := rawPCM([]float64{0, 0.25, 0.5, 0.25, 0, -0.25, -0.5, -0.25})
	wavBytes := buildWAV(pcm, 24000, 1)

	out, err := Normalize(wavBytes)
	if err != nil {
		t.Fatalf("Normalize failed on valid WAV: %v", err)
	}
	if out.SampleRate != 24000 {
		t.Errorf("Expected container rate 24000, got %d", out.SampleRate)
	}
	if out.Frames() != 8 {
		t.Errorf("Expected 8 frames, got %d", out.Frames())
	}
}

func TestNormalizeCorruptContainer(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"truncated id3", append([]byte("ID3"), bytes.Repeat([]byte{0x13}, 64)...)},
		{"riff garbage", append([]byte("RIFF"), bytes.Repeat([]byte{0xAB}, 64)...)},
		{"ogg garbage", append([]byte("OggS"), bytes.Repeat([]byte{0x07}, 64)...)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.data)
			var derr DecodeError
			if !errors.As(err, &derr) {
				t.Errorf("Expected DecodeError, got %v", err)
			}
		})
	}
}

func TestNormalizeRejectsEmptyAndOdd(t *testing.T) {
	var derr DecodeError
	if _, err := Normalize(nil); !errors.As(err, &derr) {
		t.Errorf("Empty payload: expected DecodeError, got %v", err)
	}
	if _, err := Normalize([]byte{0x01, 0x02, 0x03}); !errors.As(err, &derr) {
		t.Errorf("Odd-length payload: expected DecodeError, got %v", err)
	}
}

// buildWAV wraps s16le PCM in a minimal RIFF header.
func buildWAV(pcm []byte, rate, channels int) []byte {
	var b bytes.Buffer
	blockAlign := channels * 2
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}
