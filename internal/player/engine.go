// ABOUTME: Streaming playback engine state machine
// ABOUTME: Drives chunked playback of a sample buffer through a sink
package player

import (
	"fmt"
	"log"
	"sync"

	"github.com/wavecut/wavecut-go/pkg/audio"
	"github.com/wavecut/wavecut-go/pkg/audio/output"
)

// State is the playback state of an engine.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// DefaultChunkFrames is the streaming chunk size when none is configured.
const DefaultChunkFrames = 2048

// Engine streams one sample buffer into a sink on a dedicated goroutine,
// exposing play/pause/stop/seek and a monotonic position.
//
// The engine borrows its target buffer; it never copies or mutates samples.
// Conversion to the sink's wire format happens inside the sink, one chunk at
// a time. Position advances only after the sink accepts a chunk, and a stop
// or seek racing an in-flight chunk wins: the chunk's progress is discarded.
type Engine struct {
	mu   sync.Mutex
	cond *sync.Cond

	sink        output.Sink
	chunkFrames int64

	buf *audio.Buffer
	gen string

	state State
	pos   int64
	run   uint64 // identifies the live streaming goroutine
	seq   uint64 // invalidates in-flight chunk progress on stop/seek
	err   error

	onFinished func()
}

// NewEngine creates a stopped engine streaming into sink.
func NewEngine(sink output.Sink, chunkFrames int) *Engine {
	if chunkFrames <= 0 {
		chunkFrames = DefaultChunkFrames
	}
	e := &Engine{
		sink:        sink,
		chunkFrames: int64(chunkFrames),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// SetChunkFrames resizes the streaming chunk. Only legal while Stopped.
func (e *Engine) SetChunkFrames(frames int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Stopped {
		return fmt.Errorf("player: cannot resize chunk while %s: %w", e.state, audio.ErrInvalidState)
	}
	if frames > 0 {
		e.chunkFrames = int64(frames)
	}
	return nil
}

// OnFinished registers a callback fired when playback reaches the end of the
// buffer. Called outside the engine lock.
func (e *Engine) OnFinished(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFinished = fn
}

// SetTarget points the engine at a buffer identified by a generation id.
// Only legal while Stopped: a playing engine must be stopped before its
// buffer is replaced.
func (e *Engine) SetTarget(buf *audio.Buffer, generation string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Stopped {
		return fmt.Errorf("player: cannot retarget while %s: %w", e.state, audio.ErrInvalidState)
	}

	if buf != nil {
		if err := e.sink.Open(buf.Format); err != nil {
			return err
		}
	}

	e.buf = buf
	e.gen = generation
	e.pos = 0
	e.err = nil
	e.seq++
	return nil
}

// Play starts playback from Stopped or resumes from Paused. Starting from
// Stopped begins at the current position (0 after a stop, or a seek target),
// rewinding only when the position sits at the end of the buffer.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf == nil {
		return fmt.Errorf("player: no target buffer: %w", audio.ErrInvalidState)
	}

	switch e.state {
	case Playing:
		return nil
	case Paused:
		e.state = Playing
		e.cond.Broadcast()
		return nil
	default:
		if e.pos >= e.buf.Frames() {
			e.pos = 0
		}
		e.state = Playing
		e.err = nil
		e.run++
		e.seq++
		go e.stream(e.run)
		return nil
	}
}

// Pause freezes playback. No-op unless Playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Playing {
		e.state = Paused
	}
}

// Stop halts playback from any state and rewinds to frame 0. An in-flight
// chunk is discarded rather than drained.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Stopped
	e.pos = 0
	e.seq++
	e.cond.Broadcast()
}

// Close stops playback and releases the sink. The engine cannot be reused
// after Close.
func (e *Engine) Close() error {
	e.Stop()
	return e.sink.Close()
}

// Seek moves the position, clamped to [0, frames], without changing state.
func (e *Engine) Seek(frame int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	frames := e.buf.Frames()
	if frame < 0 {
		frame = 0
	}
	if frame > frames {
		frame = frames
	}
	e.pos = frame
	e.seq++
}

// Position returns the current playback position in frames.
func (e *Engine) Position() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// TargetGeneration returns the generation id of the current target buffer.
func (e *Engine) TargetGeneration() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// Err returns the error that stopped playback, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// stream is the playback loop. One loop runs per Play-from-Stopped; run
// identifies it so a stale loop exits once a newer one takes over.
func (e *Engine) stream(run uint64) {
	for {
		e.mu.Lock()
		for e.run == run && e.state == Paused {
			e.cond.Wait()
		}
		if e.run != run || e.state != Playing {
			e.mu.Unlock()
			return
		}

		frames := e.buf.Frames()
		if e.pos >= frames {
			e.state = Stopped
			// Position stays at the end so the UI can show completion;
			// the next Play rewinds.
			cb := e.onFinished
			e.mu.Unlock()
			if cb != nil {
				cb()
			}
			return
		}

		start := e.pos
		end := start + e.chunkFrames
		if end > frames {
			end = frames
		}
		chunk := e.buf.FrameRange(start, end)
		seq := e.seq
		e.mu.Unlock()

		accepted, err := e.sink.Write(chunk)

		e.mu.Lock()
		if e.seq != seq {
			// Stop or seek intervened; this chunk's progress is void.
			e.mu.Unlock()
			continue
		}
		if err != nil {
			e.err = err
			e.state = Stopped
			e.mu.Unlock()
			log.Printf("Playback stopped on sink error: %v", err)
			return
		}
		e.pos = start + int64(accepted)
		e.mu.Unlock()
	}
}
