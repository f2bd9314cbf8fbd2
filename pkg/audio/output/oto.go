// ABOUTME: Oto-based audio sink implementation
// ABOUTME: Streams PCM chunks with software volume control using oto
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// Oto plays chunks through the system audio device via the oto library.
// A persistent player drains an io.Pipe, so Write blocks only on device
// backpressure and never buffers more than the pipe window.
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	format     audio.Format
	volume     int
	muted      bool
	ready      bool
}

// NewOto creates an unopened oto sink.
func NewOto() *Oto {
	return &Oto{volume: 100}
}

// Open initializes the output device for the given format. Output is always
// 16-bit; wider samples are narrowed per chunk at write time.
func (o *Oto) Open(format audio.Format) error {
	// oto allows one context per process and no reinitialization. Reuse it
	// when the rates match, complain and carry on when they don't.
	if o.otoCtx != nil {
		if o.format.SampleRate != format.SampleRate || o.format.Channels != format.Channels {
			log.Printf("Warning: format change (%dHz %dch -> %dHz %dch) but oto cannot reinitialize, continuing with existing context",
				o.format.SampleRate, o.format.Channels, format.SampleRate, format.Channels)
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("create oto context: %v: %w", err, audio.ErrDevice)
	}
	<-readyChan

	o.otoCtx = ctx
	o.format = format

	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)

	return nil
}

// Write converts one chunk to 16-bit little-endian and feeds the device
// pipe. Only the chunk under transfer is converted; the rest of the buffer
// is never touched.
func (o *Oto) Write(samples []int32) (int, error) {
	if !o.ready {
		return 0, fmt.Errorf("output not initialized: %w", audio.ErrDevice)
	}

	out := make([]byte, len(samples)*2)
	mult := volumeMultiplier(o.volume, o.muted)
	for i, s := range samples {
		scaled := int64(float64(s) * mult)
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(int32(scaled))))
	}

	n, err := o.pipeWriter.Write(out)
	frames := n / 2 / o.format.Channels
	if err != nil {
		return frames, fmt.Errorf("pipe write failed: %v: %w", err, audio.ErrDevice)
	}
	return frames, nil
}

// Close releases the device and unblocks any in-flight Write.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
	return nil
}

// SetVolume sets the software volume (0-100).
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
}

// SetMuted sets mute state.
func (o *Oto) SetMuted(muted bool) {
	o.muted = muted
}

func volumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
