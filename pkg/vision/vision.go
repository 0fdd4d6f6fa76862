// Package vision provides frame acquisition for the stillwave pipeline.
//
// Two sources are available:
//   - Webcam - OpenCV capture from a physical camera (Live mode)
//   - Synthetic - generated scenes for tests and Simulated mode
//
// Frames are single-channel grayscale; everything downstream of capture
// works on luminance only.
package vision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentinel errors for capture conditions.
var (
	// ErrFrameUnavailable is returned when the source has no frame ready.
	// The caller should skip the cycle and try again.
	ErrFrameUnavailable = errors.New("vision: frame unavailable")

	// ErrSourceClosed is returned when capturing from a closed source.
	ErrSourceClosed = errors.New("vision: source closed")
)

// Frame is a single grayscale image.
type Frame struct {
	// Pix holds row-major 8-bit luminance values, len = Width*Height.
	Pix []uint8

	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Stamp is when the frame was captured.
	Stamp time.Time
}

// Empty reports whether the frame carries no image data.
func (f *Frame) Empty() bool {
	return len(f.Pix) == 0 || f.Width <= 0 || f.Height <= 0
}

// Validate checks that the pixel buffer matches the declared dimensions.
func (f *Frame) Validate() error {
	if f.Empty() {
		return fmt.Errorf("vision: empty frame")
	}
	if len(f.Pix) != f.Width*f.Height {
		return fmt.Errorf("vision: pixel buffer %d does not match %dx%d",
			len(f.Pix), f.Width, f.Height)
	}
	return nil
}

// Source produces frames for the pipeline.
type Source interface {
	// Capture returns the next frame, or ErrFrameUnavailable when the
	// source has nothing ready. It never blocks past the context deadline.
	Capture(ctx context.Context) (Frame, error)

	// Name returns the source name (e.g. "webcam", "synthetic").
	Name() string

	// Close releases capture resources.
	io.Closer
}
