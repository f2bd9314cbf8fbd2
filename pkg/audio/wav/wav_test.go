// ABOUTME: Tests for the WAV codec
// ABOUTME: Tests round-trips, format rejection and missing-file errors
package wav

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// testBuffer builds a short stereo 16-bit buffer with a sine on the left
// channel and silence on the right.
func testBuffer(frames int) *audio.Buffer {
	buf := &audio.Buffer{
		Format:  audio.Format{Channels: 2, SampleRate: 8000, BitDepth: 16},
		Samples: make([]int32, frames*2),
	}
	for i := 0; i < frames; i++ {
		v := int16(12000 * math.Sin(2*math.Pi*float64(i)/64))
		buf.Samples[i*2] = audio.SampleFromInt16(v)
		buf.Samples[i*2+1] = 0
	}
	return buf
}

func TestRoundTrip16Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	src := testBuffer(2048)

	if err := Encode(src, path); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got.Format != src.Format {
		t.Errorf("format changed: %+v -> %+v", src.Format, got.Format)
	}
	if got.Frames() != src.Frames() {
		t.Fatalf("expected %d frames, got %d", src.Frames(), got.Frames())
	}
	for i := range src.Samples {
		if got.Samples[i] != src.Samples[i] {
			t.Fatalf("sample %d differs: %d != %d", i, got.Samples[i], src.Samples[i])
		}
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestDecodeNotWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not a riff file at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Decode(path)
	if !errors.Is(err, audio.ErrFormat) {
		t.Errorf("expected audio.ErrFormat, got %v", err)
	}
}

func TestEncodeRejectsOddDepth(t *testing.T) {
	buf := testBuffer(16)
	buf.Format.BitDepth = 12

	err := Encode(buf, filepath.Join(t.TempDir(), "bad.wav"))
	if !errors.Is(err, audio.ErrFormat) {
		t.Errorf("expected audio.ErrFormat, got %v", err)
	}
}

func TestEncodeRejectsNil(t *testing.T) {
	err := Encode(nil, filepath.Join(t.TempDir(), "nil.wav"))
	if !errors.Is(err, audio.ErrInvalidInput) {
		t.Errorf("expected audio.ErrInvalidInput, got %v", err)
	}
}
