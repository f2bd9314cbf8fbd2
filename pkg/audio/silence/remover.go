// ABOUTME: Silence removal producing a new trimmed buffer
// ABOUTME: Copies the complement of detected intervals in original order
package silence

import (
	"fmt"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// Remove returns a buffer with the given intervals excised. Intervals must be
// ordered, non-overlapping and inside the buffer, as Detect produces them.
//
// An empty interval list returns buf itself: buffers are immutable once
// published, so aliasing is safe and avoids a pointless full copy. Otherwise
// the output is allocated at exactly the retained size and the kept frame
// ranges are copied through in order; nothing references the removed ranges
// afterwards.
func Remove(buf *audio.Buffer, intervals []Interval) (*audio.Buffer, error) {
	if len(intervals) == 0 {
		return buf, nil
	}

	frames := buf.Frames()
	removed := int64(0)
	prevEnd := int64(0)
	for i, iv := range intervals {
		if iv.Start < prevEnd || iv.Start >= iv.End {
			return nil, fmt.Errorf("silence: interval %d [%d,%d) out of order: %w", i, iv.Start, iv.End, audio.ErrInvalidInput)
		}
		if iv.End > frames {
			return nil, fmt.Errorf("silence: interval %d [%d,%d) exceeds %d frames: %w", i, iv.Start, iv.End, frames, audio.ErrInvalidInput)
		}
		removed += iv.Frames()
		prevEnd = iv.End
	}

	ch := int64(buf.Format.Channels)
	out := &audio.Buffer{
		Format:  buf.Format,
		Samples: make([]int32, 0, (frames-removed)*ch),
	}

	cursor := int64(0)
	for _, iv := range intervals {
		out.Samples = append(out.Samples, buf.Samples[cursor*ch:iv.Start*ch]...)
		cursor = iv.End
	}
	out.Samples = append(out.Samples, buf.Samples[cursor*ch:]...)

	return out, nil
}
