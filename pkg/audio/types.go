// ABOUTME: Core audio type definitions
// ABOUTME: Defines PCM formats, sample buffers and sample width conversions
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes the PCM layout of a buffer. Format fields are fixed at
// construction; a transformation produces a new buffer rather than changing
// the format of an existing one.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int // on-disk width for export: 16 or 24
}

// FrameDuration returns the wall-clock duration of n frames.
func (f Format) FrameDuration(n int64) time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(f.SampleRate)
}

// FramesIn returns how many frames cover the given duration.
func (f Format) FramesIn(d time.Duration) int64 {
	return int64(d * time.Duration(f.SampleRate) / time.Second)
}

// Buffer holds decoded PCM audio: interleaved samples plus format metadata.
// Samples are stored left-justified in the 24-bit range (int32) regardless of
// source width, so processing never reconverts; BitDepth remembers the width
// to write back on export.
//
// Published buffers are immutable: every consumer (playback engines, the
// waveform summarizer) borrows Samples read-only, and edits produce a new
// Buffer instead of mutating in place.
type Buffer struct {
	Format  Format
	Samples []int32
}

// Frames returns the number of frames (one sample per channel) in the buffer.
func (b *Buffer) Frames() int64 {
	if b == nil || b.Format.Channels == 0 {
		return 0
	}
	return int64(len(b.Samples) / b.Format.Channels)
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil {
		return 0
	}
	return b.Format.FrameDuration(b.Frames())
}

// FrameRange returns the samples of frames [start, end), clamped to the
// buffer. The returned slice aliases the buffer; callers must not mutate it.
func (b *Buffer) FrameRange(start, end int64) []int32 {
	frames := b.Frames()
	if start < 0 {
		start = 0
	}
	if end > frames {
		end = frames
	}
	if start >= end {
		return nil
	}
	ch := int64(b.Format.Channels)
	return b.Samples[start*ch : end*ch]
}

// SampleToInt16 converts a 24-bit aligned sample to int16 for 16-bit sinks.
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts an int16 sample to int32 (left-justified in 24-bit).
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// Amplitude returns the normalized magnitude of a sample in [0, 1].
func Amplitude(sample int32) float64 {
	v := int64(sample)
	if v < 0 {
		v = -v
	}
	return float64(v) / float64(-Min24Bit)
}
