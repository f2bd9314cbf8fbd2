// ABOUTME: Tests for audio types
// ABOUTME: Tests buffer frame math and sample conversion functions
package audio

import (
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906},
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestBufferFrames(t *testing.T) {
	buf := &Buffer{
		Format:  Format{Channels: 2, SampleRate: 48000, BitDepth: 16},
		Samples: make([]int32, 48000*2),
	}

	if buf.Frames() != 48000 {
		t.Errorf("expected 48000 frames, got %d", buf.Frames())
	}
	if buf.Duration() != time.Second {
		t.Errorf("expected 1s duration, got %v", buf.Duration())
	}

	var nilBuf *Buffer
	if nilBuf.Frames() != 0 {
		t.Error("expected 0 frames for nil buffer")
	}
}

func TestBufferFrameRange(t *testing.T) {
	buf := &Buffer{
		Format:  Format{Channels: 2, SampleRate: 1000, BitDepth: 16},
		Samples: []int32{0, 1, 2, 3, 4, 5, 6, 7},
	}

	got := buf.FrameRange(1, 3)
	if len(got) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(got))
	}
	if got[0] != 2 || got[3] != 5 {
		t.Errorf("unexpected range contents: %v", got)
	}

	// Clamped past the end
	got = buf.FrameRange(3, 100)
	if len(got) != 2 {
		t.Errorf("expected 2 samples after clamp, got %d", len(got))
	}

	if buf.FrameRange(3, 3) != nil {
		t.Error("expected nil for empty range")
	}
	if buf.FrameRange(5, 2) != nil {
		t.Error("expected nil for inverted range")
	}
}

func TestAmplitude(t *testing.T) {
	if Amplitude(0) != 0 {
		t.Error("expected zero amplitude for zero sample")
	}
	if a := Amplitude(Min24Bit); a != 1.0 {
		t.Errorf("expected 1.0 for full-scale negative, got %f", a)
	}
	if a := Amplitude(Max24Bit); a >= 1.0 || a < 0.999 {
		t.Errorf("expected just under 1.0 for full-scale positive, got %f", a)
	}
}

func TestFormatFramesIn(t *testing.T) {
	f := Format{Channels: 1, SampleRate: 1000, BitDepth: 16}
	if n := f.FramesIn(400 * time.Millisecond); n != 400 {
		t.Errorf("expected 400 frames, got %d", n)
	}
	if n := f.FramesIn(0); n != 0 {
		t.Errorf("expected 0 frames, got %d", n)
	}
}
