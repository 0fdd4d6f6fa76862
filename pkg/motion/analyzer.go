package motion

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/somaticlab/stillwave/pkg/debug"
	"github.com/somaticlab/stillwave/pkg/vision"
)

// ErrInvalidDimensions is returned when a frame does not match the
// dimensions the analyzer locked onto with its first frame. The previous
// metrics remain valid and the frame history is untouched.
var ErrInvalidDimensions = errors.New("motion: frame dimensions changed")

// Farneback polynomial expansion parameters. Tuned for noisy indoor
// camera feeds at the working resolution.
const (
	farnebackPyrScale   = 0.5
	farnebackLevels     = 3
	farnebackWinSize    = 15
	farnebackIterations = 3
	farnebackPolyN      = 5
	farnebackPolySigma  = 1.2
)

// Config holds analyzer settings.
type Config struct {
	// Width and Height are the working resolution. Incoming frames are
	// downscaled to this size before flow estimation; smaller is faster.
	Width  int `json:"width"`
	Height int `json:"height"`

	// EnergyScale is the mean flow magnitude (pixels) treated as
	// full-scale motion energy.
	EnergyScale float64 `json:"energy_scale"`

	// Thresholds are the classification boundaries.
	Thresholds Thresholds `json:"thresholds"`
}

// DefaultConfig returns the standard analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Width:       320,
		Height:      240,
		EnergyScale: 5.0,
		Thresholds:  DefaultThresholds(),
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("motion: working resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.EnergyScale <= 0 {
		return fmt.Errorf("motion: energy_scale must be positive, got %v", c.EnergyScale)
	}
	if c.Thresholds.StillMax < 0 || c.Thresholds.StillMax > 1 {
		return fmt.Errorf("motion: still_max out of range: %v", c.Thresholds.StillMax)
	}
	if c.Thresholds.LocalMaxVelocity < 0 || c.Thresholds.LocalMaxVelocity > 1 {
		return fmt.Errorf("motion: local_max_velocity out of range: %v", c.Thresholds.LocalMaxVelocity)
	}
	return nil
}

// Analyzer converts consecutive frames into motion metrics.
// It owns exactly one previous frame of history. Not safe for concurrent
// use; the pipeline calls it from the frame context only.
type Analyzer struct {
	cfg Config

	mu sync.Mutex

	// Locked-in input dimensions, set by the first frame.
	inputW, inputH int

	prev    gocv.Mat
	cur     gocv.Mat
	scratch gocv.Mat
	flow    gocv.Mat

	havePrev   bool
	haveCenter bool
	prevCenter Point

	last       Metrics
	degenerate int64
	closed     bool
}

// NewAnalyzer creates a motion analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		cfg:     cfg,
		prev:    gocv.NewMat(),
		cur:     gocv.NewMat(),
		scratch: gocv.NewMat(),
		flow:    gocv.NewMat(),
		last:    zeroMetrics(),
	}, nil
}

// Analyze produces a motion reading from the given frame.
//
// The first frame after construction or Reset only seeds the history and
// yields a zero reading. Invalid frames are rejected with
// ErrInvalidDimensions and the previous reading stays in force. A flow
// computation that produces non-finite values is discarded the same way.
func (a *Analyzer) Analyze(frame vision.Frame) (Metrics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.last, fmt.Errorf("motion: analyzer closed")
	}
	if err := frame.Validate(); err != nil {
		return a.last, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	if a.inputW == 0 {
		a.inputW, a.inputH = frame.Width, frame.Height
	} else if frame.Width != a.inputW || frame.Height != a.inputH {
		return a.last, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrInvalidDimensions, frame.Width, frame.Height, a.inputW, a.inputH)
	}

	if err := a.preprocess(frame); err != nil {
		return a.last, err
	}

	if !a.havePrev {
		a.cur.CopyTo(&a.prev)
		a.havePrev = true
		a.last = zeroMetrics()
		return a.last, nil
	}

	gocv.CalcOpticalFlowFarneback(a.prev, a.cur, &a.flow,
		farnebackPyrScale, farnebackLevels, farnebackWinSize,
		farnebackIterations, farnebackPolyN, farnebackPolySigma, 0)
	a.cur.CopyTo(&a.prev)

	vec, err := a.flow.DataPtrFloat32()
	if err != nil {
		return a.last, fmt.Errorf("motion: flow data: %w", err)
	}
	field := Field{Vec: vec, Width: a.cfg.Width, Height: a.cfg.Height}

	stats, ok := reduce(&field)
	if !ok {
		// Degenerate flow. Hold the last valid reading so nothing
		// non-finite ever reaches the audio parameters.
		a.degenerate++
		debug.MotionLog("degenerate flow field (total %d), holding last reading\n", a.degenerate)
		return a.last, nil
	}

	energy := energyFrom(stats.MeanMagnitude, a.cfg.EnergyScale)

	velocity := 0.0
	if a.haveCenter {
		velocity = velocityFrom(a.prevCenter, stats.Centroid, a.cfg.Width, a.cfg.Height)
	}
	a.prevCenter = stats.Centroid
	a.haveCenter = true

	a.last = Metrics{
		Energy:   energy,
		Velocity: velocity,
		Center:   stats.Centroid,
		Type:     Classify(energy, velocity, a.cfg.Thresholds),
	}
	return a.last, nil
}

// preprocess downscales, grays and blurs the frame into a.cur.
func (a *Analyzer) preprocess(frame vision.Frame) error {
	src, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8U, frame.Pix)
	if err != nil {
		return fmt.Errorf("motion: wrap frame: %w", err)
	}
	defer src.Close()

	gocv.Resize(src, &a.scratch, image.Pt(a.cfg.Width, a.cfg.Height), 0, 0, gocv.InterpolationLinear)
	gocv.GaussianBlur(a.scratch, &a.cur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)
	return nil
}

// Last returns the most recent valid reading.
func (a *Analyzer) Last() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// DegenerateCount returns how many flow computations were discarded for
// containing non-finite values.
func (a *Analyzer) DegenerateCount() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.degenerate
}

// Reset drops the frame history and the previous centroid. The next
// Analyze call seeds history again and yields a zero reading.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.havePrev = false
	a.haveCenter = false
	a.inputW, a.inputH = 0, 0
	a.last = zeroMetrics()
}

// Close releases the OpenCV buffers.
func (a *Analyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.prev.Close()
	a.cur.Close()
	a.scratch.Close()
	a.flow.Close()
	return nil
}
