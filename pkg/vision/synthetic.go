package vision

import (
	"context"
	"math"
	"sync"
	"time"
)

// Scene selects the motion pattern a Synthetic source generates.
type Scene string

const (
	// SceneStill renders a static blob. No pixel changes after the
	// first frame.
	SceneStill Scene = "still"

	// SceneSway renders a blob whose radius pulses in place: lots of
	// pixel change, almost no centroid travel (limb motion in place).
	SceneSway Scene = "sway"

	// SceneWalk renders a blob drifting across the frame: pixel change
	// plus sustained centroid displacement (whole-body motion).
	SceneWalk Scene = "walk"
)

// SyntheticConfig holds settings for the generated scene.
type SyntheticConfig struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Scene  Scene `json:"scene"`

	// Step is how far the scene phase advances per captured frame.
	// Larger values produce faster apparent motion.
	Step float64 `json:"step"`
}

// DefaultSyntheticConfig returns a walk scene at analyzer resolution.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Width:  320,
		Height: 240,
		Scene:  SceneWalk,
		Step:   0.08,
	}
}

// Synthetic generates frames without any camera hardware.
// It is deterministic: the same config and capture count always produce
// the same frames.
type Synthetic struct {
	cfg   SyntheticConfig
	phase float64

	mu     sync.Mutex
	closed bool
}

// NewSynthetic creates a synthetic source.
func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultSyntheticConfig()
	}
	if cfg.Step == 0 {
		cfg.Step = DefaultSyntheticConfig().Step
	}
	return &Synthetic{cfg: cfg}
}

// SetScene switches the generated scene.
func (s *Synthetic) SetScene(scene Scene) {
	s.mu.Lock()
	s.cfg.Scene = scene
	s.mu.Unlock()
}

// Capture renders the next frame of the scene.
func (s *Synthetic) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Frame{}, ErrSourceClosed
	}

	w, h := s.cfg.Width, s.cfg.Height
	cx, cy, r := s.blobAt(s.phase)
	s.phase += s.cfg.Step

	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			d2 := dx*dx + dy*dy
			v := 235.0 * math.Exp(-d2/(2*r*r))
			pix[y*w+x] = uint8(v)
		}
	}

	return Frame{
		Pix:    pix,
		Width:  w,
		Height: h,
		Stamp:  time.Now(),
	}, nil
}

// blobAt returns the blob center and radius for a given scene phase.
func (s *Synthetic) blobAt(phase float64) (cx, cy, r float64) {
	w := float64(s.cfg.Width)
	h := float64(s.cfg.Height)
	cx = w / 2
	cy = h / 2
	r = w / 10

	switch s.cfg.Scene {
	case SceneStill:
		// Fixed blob.
	case SceneSway:
		// Radius pulse with a slight wobble around a fixed center.
		r *= 1 + 0.6*math.Sin(phase*6)
		cx += 2 * math.Sin(phase*4)
	case SceneWalk:
		// Sweep left to right and wrap.
		span := w * 0.8
		cx = w*0.1 + math.Mod(phase*w*0.25, span)
		cy += h * 0.05 * math.Sin(phase*2)
	}
	return cx, cy, r
}

// Name returns "synthetic".
func (s *Synthetic) Name() string { return "synthetic" }

// Close marks the source closed.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
