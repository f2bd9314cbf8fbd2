// ABOUTME: Tests for the editing session
// ABOUTME: Tests load/process/export flow and stop-before-replace sequencing
package session

import (
	"errors"
	"testing"
	"time"

	"github.com/wavecut/wavecut-go/internal/player"
	"github.com/wavecut/wavecut-go/pkg/audio"
	"github.com/wavecut/wavecut-go/pkg/audio/output"
)

// fakeCodec serves canned buffers so session tests never touch disk.
type fakeCodec struct {
	buffers map[string]*audio.Buffer
	saved   map[string]*audio.Buffer
	decErr  error
}

func (f *fakeCodec) Decode(path string) (*audio.Buffer, error) {
	if f.decErr != nil {
		return nil, f.decErr
	}
	buf, ok := f.buffers[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return buf, nil
}

func (f *fakeCodec) Encode(buf *audio.Buffer, path string) error {
	if f.saved == nil {
		f.saved = make(map[string]*audio.Buffer)
	}
	f.saved[path] = buf
	return nil
}

// silentMiddle returns 10000 frames at 1000Hz mono with silence at
// [2000,3000).
func silentMiddle() *audio.Buffer {
	buf := &audio.Buffer{
		Format:  audio.Format{Channels: 1, SampleRate: 1000, BitDepth: 16},
		Samples: make([]int32, 10000),
	}
	for i := range buf.Samples {
		if i < 2000 || i >= 3000 {
			buf.Samples[i] = audio.SampleFromInt16(16000)
		}
	}
	return buf
}

func newTestSession(t *testing.T) (*Session, *fakeCodec, map[Source]*output.Memory) {
	t.Helper()
	codec := &fakeCodec{buffers: map[string]*audio.Buffer{"in.wav": silentMiddle()}}

	sinks := make(map[Source]*output.Memory)
	order := []Source{Original, Processed}
	i := 0
	s := New(Config{
		ChunkFrames: 100,
		Codec:       codec,
		SinkFactory: func() output.Sink {
			sink := output.NewMemory()
			sinks[order[i]] = sink
			i++
			return sink
		},
	})
	t.Cleanup(s.Close)
	return s, codec, sinks
}

func TestLoadPublishesBothBuffers(t *testing.T) {
	s, _, _ := newTestSession(t)

	if s.Loaded() {
		t.Error("expected empty session before load")
	}
	if err := s.Load("in.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !s.Loaded() || s.Path() != "in.wav" {
		t.Error("session did not record load")
	}
	if s.Frames(Original) != 10000 || s.Frames(Processed) != 10000 {
		t.Errorf("expected both buffers at 10000 frames, got %d/%d",
			s.Frames(Original), s.Frames(Processed))
	}
	// Until a silence pass runs the two share storage.
	if s.Buffer(Original) != s.Buffer(Processed) {
		t.Error("expected processed to alias original before processing")
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	s, codec, _ := newTestSession(t)
	if err := s.Load("in.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	codec.decErr = errors.New("disk gone")
	if err := s.Load("other.wav"); err == nil {
		t.Fatal("expected load error")
	}

	if s.Path() != "in.wav" || s.Frames(Original) != 10000 {
		t.Error("failed load disturbed existing session state")
	}
}

func TestDetectAndRemoveTrimsProcessedOnly(t *testing.T) {
	s, _, _ := newTestSession(t)
	_ = s.Load("in.wav")

	intervals, err := s.DetectAndRemove(0.01, 400*time.Millisecond)
	if err != nil {
		t.Fatalf("detect and remove failed: %v", err)
	}
	if len(intervals) != 1 {
		t.Fatalf("expected one interval, got %v", intervals)
	}

	if s.Frames(Processed) != 9000 {
		t.Errorf("expected processed trimmed to 9000 frames, got %d", s.Frames(Processed))
	}
	if s.Frames(Original) != 10000 {
		t.Errorf("original must be untouched, got %d frames", s.Frames(Original))
	}
	if s.Buffer(Original) == s.Buffer(Processed) {
		t.Error("processed should no longer alias original")
	}
}

func TestDetectAndRemoveStopsProcessedEngineFirst(t *testing.T) {
	s, _, sinks := newTestSession(t)
	_ = s.Load("in.wav")

	sinks[Processed].WriteDelay = time.Millisecond
	sinks[Original].WriteDelay = time.Millisecond
	if err := s.Play(Processed); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if err := s.Play(Original); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := s.DetectAndRemove(0.01, 400*time.Millisecond); err != nil {
		t.Fatalf("detect and remove failed: %v", err)
	}

	// The processed engine was stopped for the swap and now targets the
	// trimmed buffer; the original engine keeps playing.
	if st := s.PlaybackState(Processed); st != player.Stopped {
		t.Errorf("expected processed engine stopped after replace, got %s", st)
	}
	if st := s.PlaybackState(Original); st != player.Playing {
		t.Errorf("expected original engine undisturbed, got %s", st)
	}

	if err := s.Play(Processed); err != nil {
		t.Fatalf("replay of trimmed buffer failed: %v", err)
	}
}

func TestDetectAndRemoveNoSilenceKeepsAlias(t *testing.T) {
	s, codec, _ := newTestSession(t)
	loud := silentMiddle()
	for i := range loud.Samples {
		loud.Samples[i] = audio.SampleFromInt16(16000)
	}
	codec.buffers["loud.wav"] = loud
	_ = s.Load("loud.wav")

	before := s.Buffer(Processed)
	intervals, err := s.DetectAndRemove(0.01, 400*time.Millisecond)
	if err != nil {
		t.Fatalf("detect and remove failed: %v", err)
	}
	if len(intervals) != 0 {
		t.Errorf("expected no intervals, got %v", intervals)
	}
	if s.Buffer(Processed) != before {
		t.Error("no-op pass must not republish the buffer")
	}
}

func TestDetectAndRemoveBeforeLoad(t *testing.T) {
	s, _, _ := newTestSession(t)

	if _, err := s.DetectAndRemove(0.01, time.Second); !errors.Is(err, audio.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := s.Export("out.wav"); !errors.Is(err, audio.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestExportWritesProcessed(t *testing.T) {
	s, codec, _ := newTestSession(t)
	_ = s.Load("in.wav")
	_, _ = s.DetectAndRemove(0.01, 400*time.Millisecond)

	if err := s.Export("out.wav"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	saved := codec.saved["out.wav"]
	if saved == nil || saved.Frames() != 9000 {
		t.Errorf("expected trimmed buffer exported, got %v", saved)
	}
}

func TestEnvelopePerSource(t *testing.T) {
	s, _, _ := newTestSession(t)
	_ = s.Load("in.wav")
	_, _ = s.DetectAndRemove(0.01, 400*time.Millisecond)

	for _, src := range []Source{Original, Processed} {
		env, err := s.Envelope(src, 0, s.Frames(src), 80)
		if err != nil {
			t.Fatalf("envelope %s failed: %v", src, err)
		}
		if env.Resolution != 80 {
			t.Errorf("expected 80 buckets for %s, got %d", src, env.Resolution)
		}
	}
}

func TestSeekAndPositionPerSource(t *testing.T) {
	s, _, _ := newTestSession(t)
	_ = s.Load("in.wav")

	s.Seek(Original, 15000)
	if got := s.Position(Original); got != 10000 {
		t.Errorf("expected clamp to 10000, got %d", got)
	}
	if got := s.Position(Processed); got != 0 {
		t.Errorf("seeking original moved processed to %d", got)
	}
}

func TestResumeOnlyFromPaused(t *testing.T) {
	s, _, sinks := newTestSession(t)
	_ = s.Load("in.wav")
	sinks[Original].WriteDelay = time.Millisecond

	// Resume on a stopped engine must not start playback.
	if err := s.Resume(Original); err != nil {
		t.Fatalf("resume while stopped: %v", err)
	}
	if got := s.PlaybackState(Original); got != player.Stopped {
		t.Fatalf("resume started a stopped engine: %v", got)
	}

	if err := s.Play(Original); err != nil {
		t.Fatalf("play: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	s.Pause(Original)
	pos := s.Position(Original)

	if err := s.Resume(Original); err != nil {
		t.Fatalf("resume: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Position(Original) > pos {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("position did not advance past %d after resume", pos)
}
