// ABOUTME: Waveform envelope summarizer for display
// ABOUTME: Downsamples a view window into per-bucket min/max amplitudes
package waveform

import (
	"fmt"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// Envelope is a fixed-resolution min/max amplitude summary of one view
// window. It is rebuilt on every zoom or pan change rather than patched, so
// memory stays bounded by the visible resolution, not the file size.
type Envelope struct {
	Resolution int
	Min        []float32 // normalized, -1..0
	Max        []float32 // normalized, 0..1
	ViewStart  int64
	ViewEnd    int64
}

// Summarize partitions frames [viewStart, viewEnd) of buf into resolution
// buckets and records the min and max normalized sample value per bucket
// across all channels. The range is clamped to the buffer; a resolution
// larger than the frame count makes buckets share frames. The walk is direct
// over the borrowed samples with no intermediate allocation.
func Summarize(buf *audio.Buffer, viewStart, viewEnd int64, resolution int) (*Envelope, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("waveform: resolution must be positive, got %d: %w", resolution, audio.ErrInvalidParameter)
	}

	frames := buf.Frames()
	if viewStart < 0 {
		viewStart = 0
	}
	if viewEnd > frames {
		viewEnd = frames
	}
	if viewStart > viewEnd {
		viewStart = viewEnd
	}

	env := &Envelope{
		Resolution: resolution,
		Min:        make([]float32, resolution),
		Max:        make([]float32, resolution),
		ViewStart:  viewStart,
		ViewEnd:    viewEnd,
	}

	span := viewEnd - viewStart
	if span == 0 {
		return env, nil
	}

	ch := int64(buf.Format.Channels)
	scale := float32(1) / float32(-audio.Min24Bit)

	for b := 0; b < resolution; b++ {
		// Equal fractional partition; wider-than-frame buckets repeat frames.
		start := viewStart + span*int64(b)/int64(resolution)
		end := viewStart + span*int64(b+1)/int64(resolution)
		if end == start {
			end = start + 1
		}

		lo, hi := float32(0), float32(0)
		for i := start * ch; i < end*ch; i++ {
			v := float32(buf.Samples[i]) * scale
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		env.Min[b] = lo
		env.Max[b] = hi
	}

	return env, nil
}
