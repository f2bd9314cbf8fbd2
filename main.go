// ABOUTME: Entry point for the wavecut WAV silence editor
// ABOUTME: Parses CLI flags, loads the file and starts the TUI or headless run
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/wavecut/wavecut-go/internal/config"
	"github.com/wavecut/wavecut-go/internal/remote"
	"github.com/wavecut/wavecut-go/internal/session"
	"github.com/wavecut/wavecut-go/internal/ui"
	"github.com/wavecut/wavecut-go/internal/version"
)

var (
	threshold    = flag.Float64("threshold", -1, "Silence amplitude threshold 0..1 (default from WAVECUT_THRESHOLD)")
	minSilenceMs = flag.Int("min-silence-ms", 0, "Minimum silence length in ms (default from WAVECUT_MIN_SILENCE_MS)")
	chunkMs      = flag.Int("chunk-ms", 0, "Playback chunk length in ms (default from WAVECUT_CHUNK_MS)")
	wsAddr       = flag.String("ws", "", "Listen address for the websocket state bridge (default from WAVECUT_WS_ADDR)")
	outPath      = flag.String("o", "", "Output path for headless export (default: <input>_cut.wav)")
	logFile      = flag.String("log-file", "", "Log file path (default from WAVECUT_LOG_FILE)")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI: trim and export in one shot")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s %s\n\nUsage: wavecut [flags] <file.wav>\n\n", version.Product, version.Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment defaults.
	if *threshold >= 0 {
		cfg.Threshold = *threshold
	}
	if *minSilenceMs > 0 {
		cfg.MinSilenceMs = *minSilenceMs
	}
	if *chunkMs > 0 {
		cfg.ChunkMs = *chunkMs
	}
	if *wsAddr != "" {
		cfg.WSAddr = *wsAddr
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg, !*noTUI)

	sess := session.New(session.Config{ChunkMs: cfg.ChunkMs})
	defer sess.Close()

	if err := sess.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.WSAddr != "" {
		hub := remote.NewHub(sess)
		defer hub.Stop()
		go func() {
			if err := hub.Run(cfg.WSAddr); err != nil {
				log.Printf("Remote bridge failed: %v", err)
			}
		}()
	}

	if *noTUI {
		if err := runHeadless(sess, cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := ui.Run(sess, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless trims and exports without the interactive UI.
func runHeadless(sess *session.Session, cfg *config.Config, path string) error {
	intervals, err := sess.DetectAndRemove(cfg.Threshold, time.Duration(cfg.MinSilenceMs)*time.Millisecond)
	if err != nil {
		return err
	}

	removed := int64(0)
	for _, iv := range intervals {
		removed += iv.Frames()
	}
	log.Printf("Removed %d silence intervals (%d frames)", len(intervals), removed)

	out := *outPath
	if out == "" {
		out = ui.ExportPath(path)
	}
	return sess.Export(out)
}

// setupLogging routes logs to a file when the TUI owns the terminal.
func setupLogging(cfg *config.Config, tui bool) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v\n", cfg.LogFile, err)
			return
		}
		log.SetOutput(f)
		return
	}
	if tui {
		// No log file and the TUI owns stdout: discard rather than corrupt
		// the display.
		log.SetOutput(io.Discard)
	}
}
