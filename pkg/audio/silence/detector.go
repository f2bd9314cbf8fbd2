// ABOUTME: Silence detection over PCM sample buffers
// ABOUTME: Finds runs of low-amplitude frames meeting a minimum length
package silence

import (
	"fmt"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// Interval is a half-open run of silent frames [Start, End).
type Interval struct {
	Start int64
	End   int64
}

// Frames returns the interval length in frames.
func (iv Interval) Frames() int64 { return iv.End - iv.Start }

// Detect scans buf for runs of frames whose peak amplitude across channels
// stays at or below threshold (normalized 0..1) for at least minFrames
// frames. Intervals come back ordered, non-overlapping and never touching.
//
// The amplitude walk is streamed frame by frame; no per-frame array is
// materialized, so memory stays constant regardless of file size.
func Detect(buf *audio.Buffer, threshold float64, minFrames int64) ([]Interval, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("silence: threshold %v out of range [0,1]: %w", threshold, audio.ErrInvalidParameter)
	}
	if minFrames <= 0 {
		// A zero minimum would flag every transient quiet sample.
		return nil, fmt.Errorf("silence: min frames must be positive, got %d: %w", minFrames, audio.ErrInvalidParameter)
	}

	frames := buf.Frames()
	if frames == 0 {
		return nil, nil
	}

	ch := buf.Format.Channels
	var intervals []Interval
	runStart := int64(-1) // -1 while not inside a candidate run

	for frame := int64(0); frame < frames; frame++ {
		peak := 0.0
		base := frame * int64(ch)
		for c := 0; c < ch; c++ {
			if a := audio.Amplitude(buf.Samples[base+int64(c)]); a > peak {
				peak = a
			}
		}

		if peak <= threshold {
			if runStart < 0 {
				runStart = frame
			}
			continue
		}

		if runStart >= 0 {
			if frame-runStart >= minFrames {
				intervals = append(intervals, Interval{Start: runStart, End: frame})
			}
			runStart = -1
		}
	}

	// Trailing run open at end of buffer closes under the same rule.
	if runStart >= 0 && frames-runStart >= minFrames {
		intervals = append(intervals, Interval{Start: runStart, End: frames})
	}

	return intervals, nil
}
