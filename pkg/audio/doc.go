// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the fundamental types shared by the wavecut editor.
//
// It defines:
//   - Format: PCM layout (channels, sample rate, on-disk bit depth)
//   - Buffer: an immutable decoded PCM sample buffer
//   - the sentinel errors used across processing and playback packages
//
// Samples live in a 24-bit aligned int32 working representation so that
// detection, summarizing and playback never need to reconvert widths;
// conversion back to the on-disk width happens only at export and only
// chunk-wise at the output sink.
package audio
