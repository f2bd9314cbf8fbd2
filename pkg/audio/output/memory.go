// ABOUTME: In-memory sink implementation
// ABOUTME: Captures written chunks for tests and headless runs
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/wavecut/wavecut-go/pkg/audio"
)

// Memory is a Sink that records everything written to it. Tests use it to
// observe chunking and frame accounting; headless mode uses it to dry-run
// playback. An optional per-write delay simulates device pacing.
type Memory struct {
	mu       sync.Mutex
	format   audio.Format
	samples  []int32
	writes   int
	open     bool
	failNext error

	// WriteDelay, when set, blocks each Write to mimic sink backpressure.
	WriteDelay time.Duration
}

// NewMemory creates an unopened in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Open records the stream format.
func (m *Memory) Open(format audio.Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.format = format
	m.open = true
	return nil
}

// Write appends the chunk, honoring WriteDelay and any queued failure.
func (m *Memory) Write(samples []int32) (int, error) {
	if m.WriteDelay > 0 {
		time.Sleep(m.WriteDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return 0, fmt.Errorf("memory sink not open: %w", audio.ErrDevice)
	}
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return 0, err
	}
	m.samples = append(m.samples, samples...)
	m.writes++
	if m.format.Channels == 0 {
		return 0, nil
	}
	return len(samples) / m.format.Channels, nil
}

// Close marks the sink closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// FailNextWrite queues an error for the next Write call.
func (m *Memory) FailNextWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Samples returns a copy of everything written so far.
func (m *Memory) Samples() []int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int32, len(m.samples))
	copy(out, m.samples)
	return out
}

// Writes returns how many chunks were accepted.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
