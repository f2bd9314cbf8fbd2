// ABOUTME: WAV file codec built on go-audio
// ABOUTME: Decodes WAV files into sample buffers and encodes buffers back out
package wav

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	gwav "github.com/go-audio/wav"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// chunkSamples bounds the scratch used while converting between the on-disk
// width and the working representation, so decode and encode never hold a
// second full-size copy of the file.
const chunkSamples = 64 * 1024

// Decode reads a PCM WAV file into a Buffer. Only 16-bit and 24-bit PCM is
// supported; anything else fails with audio.ErrFormat.
func Decode(path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := gwav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("decode %s: not a valid WAV file: %w", path, audio.ErrFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("decode %s: unsupported bit depth %d: %w", path, bitDepth, audio.ErrFormat)
	}

	format := audio.Format{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
	}
	if format.Channels == 0 || format.SampleRate == 0 {
		return nil, fmt.Errorf("decode %s: empty format header: %w", path, audio.ErrFormat)
	}

	shift := uint(24 - bitDepth)
	scratch := &gaudio.IntBuffer{
		Format: &gaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:   make([]int, chunkSamples),
	}

	var samples []int32
	if byteLen := dec.PCMLen(); byteLen > 0 {
		samples = make([]int32, 0, byteLen/int64(bitDepth/8))
	}

	for {
		n, err := dec.PCMBuffer(scratch)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if n == 0 {
			break
		}
		for _, v := range scratch.Data[:n] {
			samples = append(samples, int32(v)<<shift)
		}
	}

	// Partial trailing frames would break the frames*channels invariant.
	if rem := len(samples) % format.Channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	return &audio.Buffer{Format: format, Samples: samples}, nil
}

// Encode writes a Buffer to path as PCM WAV at the buffer's native bit depth.
func Encode(buf *audio.Buffer, path string) error {
	if buf == nil || buf.Format.Channels == 0 {
		return fmt.Errorf("encode %s: no audio to write: %w", path, audio.ErrInvalidInput)
	}
	if buf.Format.BitDepth != 16 && buf.Format.BitDepth != 24 {
		return fmt.Errorf("encode %s: unsupported bit depth %d: %w", path, buf.Format.BitDepth, audio.ErrFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := gwav.NewEncoder(f, buf.Format.SampleRate, buf.Format.BitDepth, buf.Format.Channels, 1)

	shift := uint(24 - buf.Format.BitDepth)
	scratch := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: buf.Format.Channels, SampleRate: buf.Format.SampleRate},
		SourceBitDepth: buf.Format.BitDepth,
		Data:           make([]int, 0, chunkSamples),
	}

	for off := 0; off < len(buf.Samples); off += chunkSamples {
		end := off + chunkSamples
		if end > len(buf.Samples) {
			end = len(buf.Samples)
		}
		scratch.Data = scratch.Data[:0]
		for _, s := range buf.Samples[off:end] {
			scratch.Data = append(scratch.Data, int(s>>shift))
		}
		if err := enc.Write(scratch); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}
