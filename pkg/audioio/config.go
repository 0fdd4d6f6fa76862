// Package audioio provides audio playback for the stillwave pipeline.
//
// Two backends are available:
//   - oto  - speaker output via the system audio device
//   - mock - no hardware; records what was written (CI, tests, degraded
//     mode when no audio device is present)
//
// The backend is selected via configuration; "auto" picks the speaker.
package audioio

import (
	"fmt"
	"time"
)

// Backend represents the audio backend type.
type Backend string

const (
	// BackendAuto selects the best available backend.
	BackendAuto Backend = "auto"
	// BackendOto plays through the system audio device.
	BackendOto Backend = "oto"
	// BackendMock records writes without hardware.
	BackendMock Backend = "mock"
)

// Config holds audio output configuration.
type Config struct {
	// Backend specifies which audio backend to use.
	Backend Backend `json:"backend"`

	// SampleRate is the audio sample rate in Hz.
	SampleRate int `json:"sample_rate"`

	// Channels is the number of audio channels.
	Channels int `json:"channels"`

	// BlockSize is the number of frames per written block.
	BlockSize int `json:"block_size"`
}

// DefaultConfig returns stereo 44.1kHz output with 2048-frame blocks
// (~46ms per block).
func DefaultConfig() Config {
	return Config{
		Backend:    BackendAuto,
		SampleRate: 44100,
		Channels:   2,
		BlockSize:  2048,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("audioio: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("audioio: channels must be positive, got %d", c.Channels)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("audioio: block_size must be positive, got %d", c.BlockSize)
	}
	return nil
}

// BlockDuration returns the wall time one block covers.
func (c *Config) BlockDuration() time.Duration {
	return time.Duration(float64(c.BlockSize) / float64(c.SampleRate) * float64(time.Second))
}

// BlockBytes returns the size of one block in bytes (int16 samples).
func (c *Config) BlockBytes() int {
	return c.BlockSize * c.Channels * 2
}
