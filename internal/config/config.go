// ABOUTME: Configuration loading from environment variables
// ABOUTME: Holds processing defaults and optional remote/logging settings
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrThresholdRange is returned when the silence threshold is outside [0,1].
	ErrThresholdRange = errors.New("config: WAVECUT_THRESHOLD must be in [0,1]")
	// ErrMinSilence is returned when the minimum silence length is not positive.
	ErrMinSilence = errors.New("config: WAVECUT_MIN_SILENCE_MS must be positive")
	// ErrChunkMs is returned when the playback chunk length is not positive.
	ErrChunkMs = errors.New("config: WAVECUT_CHUNK_MS must be positive")
)

// Config holds all configuration for the tool. Command-line flags override
// these values; the environment supplies the defaults.
type Config struct {
	// Processing settings
	Threshold    float64 `env:"WAVECUT_THRESHOLD, default=0.01"`
	MinSilenceMs int     `env:"WAVECUT_MIN_SILENCE_MS, default=400"`

	// Playback settings
	ChunkMs int `env:"WAVECUT_CHUNK_MS, default=50"`

	// Remote UI-sync bridge; empty disables it.
	WSAddr string `env:"WAVECUT_WS_ADDR"`

	// Logging settings
	LogFile string `env:"WAVECUT_LOG_FILE"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return ErrThresholdRange
	}
	if c.MinSilenceMs <= 0 {
		return ErrMinSilence
	}
	if c.ChunkMs <= 0 {
		return ErrChunkMs
	}
	return nil
}

// ChunkFrames returns the playback chunk size in frames at the given rate.
func (c *Config) ChunkFrames(sampleRate int) int {
	return c.ChunkMs * sampleRate / 1000
}
