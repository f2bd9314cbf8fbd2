// ABOUTME: Audio sink interface definition
// ABOUTME: Common interface for device output backends
package output

import "github.com/wavecut/wavecut-go/pkg/audio"

// Sink is the audio device abstraction consuming playback chunks.
type Sink interface {
	// Open prepares the device for the given stream format.
	Open(format audio.Format) error

	// Write pushes one chunk of interleaved samples to the device and
	// blocks on device backpressure. It returns the number of whole frames
	// the device accepted.
	Write(samples []int32) (frames int, err error)

	// Close releases the device.
	Close() error
}
