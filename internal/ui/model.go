// ABOUTME: Bubbletea model for the editor TUI
// ABOUTME: Renders waveforms with playback cursors and handles transport keys
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavecut/wavecut-go/internal/config"
	"github.com/wavecut/wavecut-go/internal/player"
	"github.com/wavecut/wavecut-go/internal/session"
	"github.com/wavecut/wavecut-go/internal/version"
)

// pollInterval drives position refresh while the TUI is up.
const pollInterval = 250 * time.Millisecond

var envelopeGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Model is the TUI state. All audio state lives in the session; the model
// only keeps view concerns (active source, zoom window, last message).
type Model struct {
	sess *session.Session
	cfg  *config.Config

	active    session.Source
	viewStart int64
	viewEnd   int64

	width  int
	height int

	status string
	busy   bool
}

// tickMsg triggers a state refresh.
type tickMsg time.Time

// opDoneMsg reports a completed background operation.
type opDoneMsg struct {
	label string
	err   error
}

// NewModel creates the TUI model over a session with a file already loaded.
func NewModel(sess *session.Session, cfg *config.Config) Model {
	m := Model{
		sess:   sess,
		cfg:    cfg,
		active: session.Processed,
		status: "ready",
	}
	if sess.Loaded() {
		m.viewEnd = sess.Frames(session.Original)
	}
	return m
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tick()
	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
		} else {
			m.status = msg.label + " done"
			// A silence pass may have shrunk the processed buffer.
			m.clampView()
		}
	}
	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sess.Close()
		return m, tea.Quit

	case "tab", "o", "p":
		if msg.String() == "o" {
			m.active = session.Original
		} else if msg.String() == "p" {
			m.active = session.Processed
		} else if m.active == session.Original {
			m.active = session.Processed
		} else {
			m.active = session.Original
		}

	case " ":
		if m.sess.PlaybackState(m.active) == player.Playing {
			m.sess.Pause(m.active)
			m.status = "paused " + m.active.String()
		} else if err := m.sess.Play(m.active); err != nil {
			m.status = fmt.Sprintf("play failed: %v", err)
		} else {
			m.status = "playing " + m.active.String()
		}

	case "s":
		m.sess.Stop(m.active)
		m.status = "stopped " + m.active.String()

	case "left", "right":
		if !m.sess.Loaded() {
			break
		}
		step := int64(m.sess.Buffer(m.active).Format.SampleRate) // one second
		if msg.String() == "left" {
			step = -step
		}
		m.sess.Seek(m.active, m.sess.Position(m.active)+step)

	case "+", "=":
		m.zoom(2)
	case "-", "_":
		m.zoom(0.5)

	case "d":
		if m.busy || !m.sess.Loaded() {
			break
		}
		m.busy = true
		m.status = "removing silence..."
		sess, cfg := m.sess, m.cfg
		return m, func() tea.Msg {
			_, err := sess.DetectAndRemove(cfg.Threshold, time.Duration(cfg.MinSilenceMs)*time.Millisecond)
			return opDoneMsg{label: "silence removal", err: err}
		}

	case "e":
		if m.busy || !m.sess.Loaded() {
			break
		}
		m.busy = true
		out := ExportPath(m.sess.Path())
		m.status = "exporting to " + out
		sess := m.sess
		return m, func() tea.Msg {
			return opDoneMsg{label: "export to " + out, err: sess.Export(out)}
		}
	}

	return m, nil
}

// zoom scales the view window around the active cursor.
func (m *Model) zoom(factor float64) {
	if !m.sess.Loaded() {
		return
	}
	frames := m.sess.Frames(m.active)
	span := m.viewEnd - m.viewStart
	if span <= 0 {
		span = frames
	}
	newSpan := int64(float64(span) / factor)
	if newSpan < 16 {
		newSpan = 16
	}
	if newSpan > frames {
		newSpan = frames
	}

	center := m.sess.Position(m.active)
	if center < m.viewStart || center > m.viewEnd {
		center = m.viewStart + span/2
	}
	m.viewStart = center - newSpan/2
	m.viewEnd = m.viewStart + newSpan
	m.clampView()
}

// clampView keeps the window inside the longest buffer.
func (m *Model) clampView() {
	if !m.sess.Loaded() {
		return
	}
	frames := m.sess.Frames(session.Original)
	if p := m.sess.Frames(session.Processed); p > frames {
		frames = p
	}
	if m.viewEnd <= m.viewStart || m.viewEnd > frames {
		m.viewEnd = frames
	}
	if m.viewStart < 0 || m.viewStart >= m.viewEnd {
		m.viewStart = 0
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", version.Product, version.Version)

	if !m.sess.Loaded() {
		b.WriteString("No file loaded\n")
		return b.String()
	}

	buf := m.sess.Buffer(session.Original)
	fmt.Fprintf(&b, "%s  %dHz %dch %d-bit\n\n",
		m.sess.Path(), buf.Format.SampleRate, buf.Format.Channels, buf.Format.BitDepth)

	for _, src := range []session.Source{session.Original, session.Processed} {
		b.WriteString(m.renderTrack(src))
	}

	fmt.Fprintf(&b, "\n%s\n", m.status)
	b.WriteString("tab/o/p:Select  space:Play/Pause  s:Stop  ←/→:Seek  +/-:Zoom  d:Remove silence  e:Export  q:Quit\n")
	return b.String()
}

// renderTrack renders one buffer's waveform, cursor and transport line.
func (m Model) renderTrack(src session.Source) string {
	width := m.width - 2
	if width < 16 {
		width = 16
	}

	marker := "  "
	if src == m.active {
		marker = "> "
	}

	frames := m.sess.Frames(src)
	pos := m.sess.Position(src)
	state := m.sess.PlaybackState(src)

	line := strings.Repeat(" ", width)
	env, err := m.sess.Envelope(src, m.viewStart, m.viewEnd, width)
	if err == nil {
		line = renderEnvelope(env.Max, envelopeGlyphs)
	}
	line = overlayCursor(line, cursorColumn(pos, m.viewStart, m.viewEnd, width))

	label := fmt.Sprintf("%s%-9s [%s] %s / %s",
		marker, src, state,
		formatFrames(pos, m.sess.Buffer(src).Format.SampleRate),
		formatFrames(frames, m.sess.Buffer(src).Format.SampleRate))
	if err := m.sess.PlaybackErr(src); err != nil {
		label += fmt.Sprintf("  ERROR: %v", err)
	}

	return fmt.Sprintf("%s\n %s\n", label, line)
}

// renderEnvelope maps bucket peaks to block glyphs.
func renderEnvelope(peaks []float32, glyphs []rune) string {
	out := make([]rune, len(peaks))
	top := len(glyphs) - 1
	for i, p := range peaks {
		idx := int(p * float32(top) * 4) // boost so speech-level audio is visible
		if idx > top {
			idx = top
		}
		if idx < 0 {
			idx = 0
		}
		out[i] = glyphs[idx]
	}
	return string(out)
}

// cursorColumn maps a frame position into a view column, or -1 if outside.
func cursorColumn(pos, viewStart, viewEnd int64, width int) int {
	if pos < viewStart || pos > viewEnd || viewEnd <= viewStart {
		return -1
	}
	col := int((pos - viewStart) * int64(width) / (viewEnd - viewStart))
	if col >= width {
		col = width - 1
	}
	return col
}

// overlayCursor draws the playback cursor over a rendered line.
func overlayCursor(line string, col int) string {
	if col < 0 {
		return line
	}
	runes := []rune(line)
	if col >= len(runes) {
		return line
	}
	runes[col] = '┃'
	return string(runes)
}

// formatFrames renders a frame count as m:ss.t at the given rate.
func formatFrames(frames int64, sampleRate int) string {
	if sampleRate == 0 {
		return "0:00.0"
	}
	tenths := frames * 10 / int64(sampleRate)
	return fmt.Sprintf("%d:%02d.%d", tenths/600, tenths/10%60, tenths%10)
}
