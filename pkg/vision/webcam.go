package vision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// WebcamConfig holds physical camera settings.
type WebcamConfig struct {
	// DeviceIndex is the OpenCV capture device index.
	DeviceIndex int `json:"device_index"`

	// Width and Height request a capture resolution. Zero keeps the
	// camera default.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultWebcamConfig returns settings suitable for a USB camera.
func DefaultWebcamConfig() WebcamConfig {
	return WebcamConfig{
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
	}
}

// Webcam captures frames from a camera via OpenCV.
type Webcam struct {
	cap  *gocv.VideoCapture
	bgr  gocv.Mat
	gray gocv.Mat

	mu     sync.Mutex
	closed bool
}

// OpenWebcam opens the camera described by cfg.
func OpenWebcam(cfg WebcamConfig) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("vision: open camera %d: %w", cfg.DeviceIndex, err)
	}
	if cfg.Width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	return &Webcam{
		cap:  cap,
		bgr:  gocv.NewMat(),
		gray: gocv.NewMat(),
	}, nil
}

// Capture grabs and converts the next camera frame.
func (w *Webcam) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Frame{}, ErrSourceClosed
	}
	if ok := w.cap.Read(&w.bgr); !ok || w.bgr.Empty() {
		return Frame{}, ErrFrameUnavailable
	}

	gocv.CvtColor(w.bgr, &w.gray, gocv.ColorBGRToGray)

	pix := w.gray.ToBytes()
	frame := Frame{
		Pix:    append([]uint8(nil), pix...),
		Width:  w.gray.Cols(),
		Height: w.gray.Rows(),
		Stamp:  time.Now(),
	}
	return frame, nil
}

// Name returns "webcam".
func (w *Webcam) Name() string { return "webcam" }

// Close releases the camera and scratch mats.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.bgr.Close()
	w.gray.Close()
	return w.cap.Close()
}
