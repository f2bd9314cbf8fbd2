// ABOUTME: Editing session orchestration
// ABOUTME: Owns original/processed buffers and their playback engines
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wavecut/wavecut-go/internal/player"
	"github.com/wavecut/wavecut-go/pkg/audio"
	"github.com/wavecut/wavecut-go/pkg/audio/output"
	"github.com/wavecut/wavecut-go/pkg/audio/silence"
	"github.com/wavecut/wavecut-go/pkg/audio/wav"
	"github.com/wavecut/wavecut-go/pkg/audio/waveform"
)

// Source selects which of the session's two buffers an operation targets.
type Source int

const (
	Original Source = iota
	Processed
)

func (s Source) String() string {
	if s == Processed {
		return "processed"
	}
	return "original"
}

// Codec abstracts the WAV container so the session can be tested without
// touching disk.
type Codec interface {
	Decode(path string) (*audio.Buffer, error)
	Encode(buf *audio.Buffer, path string) error
}

// wavCodec is the production codec.
type wavCodec struct{}

func (wavCodec) Decode(path string) (*audio.Buffer, error)   { return wav.Decode(path) }
func (wavCodec) Encode(buf *audio.Buffer, path string) error { return wav.Encode(buf, path) }

// Config configures a session.
type Config struct {
	// ChunkFrames is the playback streaming chunk size (frames). When
	// ChunkMs is set, Load recomputes the chunk from the file's rate
	// instead.
	ChunkFrames int

	// ChunkMs sizes streaming chunks by duration at the loaded rate.
	ChunkMs int

	// Codec overrides the WAV codec (tests). Nil means the real one.
	Codec Codec

	// SinkFactory builds one sink per engine. Nil means oto device sinks.
	SinkFactory func() output.Sink
}

// Session owns the original and processed buffers and one playback engine
// per buffer. All operations are serialized through the session; the engines
// run their streaming on their own goroutines.
//
// Buffers are immutable once published. Replacing the processed buffer after
// a silence pass requires its engine to be stopped first; the session
// enforces that ordering so engines never observe a half-replaced target.
type Session struct {
	mu      sync.RWMutex
	codec   Codec
	chunkMs int
	engines [2]*player.Engine
	buffers [2]*audio.Buffer
	gens    [2]string

	path string
}

// New creates an empty session.
func New(cfg Config) *Session {
	codec := cfg.Codec
	if codec == nil {
		codec = wavCodec{}
	}
	factory := cfg.SinkFactory
	if factory == nil {
		factory = func() output.Sink { return output.NewOto() }
	}

	s := &Session{codec: codec, chunkMs: cfg.ChunkMs}
	for i := range s.engines {
		s.engines[i] = player.NewEngine(factory(), cfg.ChunkFrames)
	}
	return s
}

// Load decodes a WAV file and publishes it as both the original and the
// processed buffer (aliased until a silence pass runs). Both engines are
// stopped and retargeted. On failure the previous session state is kept.
func (s *Session) Load(path string) error {
	buf, err := s.codec.Decode(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gen := uuid.New().String()
	for _, src := range []Source{Original, Processed} {
		s.engines[src].Stop()
		if s.chunkMs > 0 {
			if err := s.engines[src].SetChunkFrames(s.chunkMs * buf.Format.SampleRate / 1000); err != nil {
				return err
			}
		}
		if err := s.engines[src].SetTarget(buf, gen); err != nil {
			return err
		}
		s.buffers[src] = buf
		s.gens[src] = gen
	}
	s.path = path

	log.Printf("Loaded %s: %d frames, %dHz, %dch, %d-bit",
		path, buf.Frames(), buf.Format.SampleRate, buf.Format.Channels, buf.Format.BitDepth)

	return nil
}

// DetectAndRemove runs silence detection against the current processed
// buffer and publishes a trimmed replacement. The processed engine is
// stopped before the swap (stop-before-replace); the original buffer and
// engine are untouched. Returns the intervals that were removed.
func (s *Session) DetectAndRemove(threshold float64, minSilence time.Duration) ([]silence.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.buffers[Processed]
	if buf == nil {
		return nil, fmt.Errorf("session: no file loaded: %w", audio.ErrInvalidState)
	}

	minFrames := buf.Format.FramesIn(minSilence)
	intervals, err := silence.Detect(buf, threshold, minFrames)
	if err != nil {
		return nil, err
	}

	trimmed, err := silence.Remove(buf, intervals)
	if err != nil {
		return nil, err
	}

	// Nothing removed: the published buffer is already correct.
	if trimmed == buf {
		return intervals, nil
	}

	// The engine targeting the old buffer must reach Stopped before the
	// replacement is published.
	s.engines[Processed].Stop()

	gen := uuid.New().String()
	if err := s.engines[Processed].SetTarget(trimmed, gen); err != nil {
		return nil, err
	}
	s.buffers[Processed] = trimmed
	s.gens[Processed] = gen

	log.Printf("Silence removed: %d intervals, %d -> %d frames",
		len(intervals), buf.Frames(), trimmed.Frames())

	return intervals, nil
}

// Export writes the processed buffer to path.
func (s *Session) Export(path string) error {
	s.mu.RLock()
	buf := s.buffers[Processed]
	s.mu.RUnlock()
	if buf == nil {
		return fmt.Errorf("session: nothing to export: %w", audio.ErrInvalidState)
	}
	if err := s.codec.Encode(buf, path); err != nil {
		return err
	}
	log.Printf("Exported %d frames to %s", buf.Frames(), path)
	return nil
}

// Play starts or resumes playback of the chosen buffer.
func (s *Session) Play(src Source) error { return s.engines[src].Play() }

// Pause freezes playback of the chosen buffer.
func (s *Session) Pause(src Source) { s.engines[src].Pause() }

// Resume continues paused playback of the chosen buffer. No-op unless the
// engine is paused.
func (s *Session) Resume(src Source) error {
	if s.engines[src].State() != player.Paused {
		return nil
	}
	return s.engines[src].Play()
}

// Stop halts playback of the chosen buffer and rewinds it.
func (s *Session) Stop(src Source) { s.engines[src].Stop() }

// Seek moves the chosen buffer's playback position, clamped to its length.
func (s *Session) Seek(src Source, frame int64) { s.engines[src].Seek(frame) }

// Position returns the chosen buffer's playback position in frames.
func (s *Session) Position(src Source) int64 { return s.engines[src].Position() }

// PlaybackState returns the chosen engine's state.
func (s *Session) PlaybackState(src Source) player.State { return s.engines[src].State() }

// PlaybackErr returns the error that stopped the chosen engine, if any.
func (s *Session) PlaybackErr(src Source) error { return s.engines[src].Err() }

// OnFinished registers a completion callback for the chosen engine.
func (s *Session) OnFinished(src Source, fn func()) { s.engines[src].OnFinished(fn) }

// Buffer returns the chosen buffer (nil before Load).
func (s *Session) Buffer(src Source) *audio.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffers[src]
}

// Frames returns the chosen buffer's length in frames.
func (s *Session) Frames(src Source) int64 {
	return s.Buffer(src).Frames()
}

// Path returns the loaded file path.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Loaded reports whether a file has been loaded.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffers[Original] != nil
}

// Envelope summarizes the chosen buffer's view window for display.
func (s *Session) Envelope(src Source, viewStart, viewEnd int64, resolution int) (*waveform.Envelope, error) {
	s.mu.RLock()
	buf := s.buffers[src]
	s.mu.RUnlock()
	if buf == nil {
		return nil, fmt.Errorf("session: no file loaded: %w", audio.ErrInvalidState)
	}
	return waveform.Summarize(buf, viewStart, viewEnd, resolution)
}

// Close stops both engines and releases their sinks.
func (s *Session) Close() {
	for _, e := range s.engines {
		if err := e.Close(); err != nil {
			log.Printf("Engine close: %v", err)
		}
	}
}
