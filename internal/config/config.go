// Package config provides configuration helpers for stillwave commands.
package config

import (
	"os"
	"strconv"
)

// Defaults shared by the cmd programs.
const (
	DefaultCameraIndex = 0
	DefaultHTTPPort    = "8090"
	DefaultSampleRate  = 44100
	DefaultBlockSize   = 2048
)

// CameraIndex returns the camera device index from STILLWAVE_CAMERA.
// Falls back to the default if unset or malformed.
func CameraIndex() int {
	if v := os.Getenv("STILLWAVE_CAMERA"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx >= 0 {
			return idx
		}
	}
	return DefaultCameraIndex
}

// HTTPPort returns the dashboard port from STILLWAVE_PORT.
func HTTPPort() string {
	if port := os.Getenv("STILLWAVE_PORT"); port != "" {
		return port
	}
	return DefaultHTTPPort
}

// LogLevel returns the log level from STILLWAVE_LOG.
func LogLevel() string {
	if lvl := os.Getenv("STILLWAVE_LOG"); lvl != "" {
		return lvl
	}
	return "info"
}

// SampleRate returns the audio sample rate from STILLWAVE_SAMPLE_RATE.
func SampleRate() int {
	if v := os.Getenv("STILLWAVE_SAMPLE_RATE"); v != "" {
		if sr, err := strconv.Atoi(v); err == nil && sr > 0 {
			return sr
		}
	}
	return DefaultSampleRate
}
