// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the editor UI
package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavecut/wavecut-go/internal/config"
	"github.com/wavecut/wavecut-go/internal/session"
)

// Run starts the TUI over a loaded session and blocks until quit.
func Run(sess *session.Session, cfg *config.Config) error {
	p := tea.NewProgram(NewModel(sess, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ExportPath derives the default output path for an export: the loaded file
// with a "_cut" suffix before the extension.
func ExportPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_cut" + ext
}
