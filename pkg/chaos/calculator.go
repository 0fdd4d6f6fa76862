// Package chaos folds motion readings into one continuously evolving
// score in [0,1] and derives the audio-parameter snapshot from it.
//
// The score rises quickly toward motion and falls slowly back; sustained
// stillness additionally applies a wall-clock exponential decay (the
// "healing" curve), so the system settles into its drone on a time scale
// set by the decay constant rather than the frame rate.
package chaos

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/synth"
)

// historyLen is how many recent scores the dashboard meter keeps
// (about 4 seconds at 30 fps).
const historyLen = 120

// trivialSignal is the level below which a metric does not take part in
// the energy/velocity blend.
const trivialSignal = 0.05

// Config holds calculator tuning.
type Config struct {
	// DecayTime is the healing time constant: under stillness the score
	// decays by e^(-dt/DecayTime).
	DecayTime time.Duration `json:"decay_time"`

	// LocalWeight and GlobalWeight blend energy and velocity when both
	// signals are non-trivial. LocalWeight applies to energy in the
	// local branch; GlobalWeight applies to energy in the global branch.
	LocalWeight  float64 `json:"local_weight"`
	GlobalWeight float64 `json:"global_weight"`

	// AlphaRise and AlphaFall are the smoothing coefficients used when
	// the target is at-or-above, respectively below, the current score.
	AlphaRise float64 `json:"alpha_rise"`
	AlphaFall float64 `json:"alpha_fall"`
}

// DefaultConfig returns the tuned calculator settings.
func DefaultConfig() Config {
	return Config{
		DecayTime:    2500 * time.Millisecond,
		LocalWeight:  0.6,
		GlobalWeight: 0.4,
		AlphaRise:    0.4,
		AlphaFall:    0.1,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DecayTime <= 0 {
		return fmt.Errorf("chaos: decay_time must be positive, got %v", c.DecayTime)
	}
	if c.LocalWeight < 0 || c.LocalWeight > 1 {
		return fmt.Errorf("chaos: local_weight out of range: %v", c.LocalWeight)
	}
	if c.GlobalWeight < 0 || c.GlobalWeight > 1 {
		return fmt.Errorf("chaos: global_weight out of range: %v", c.GlobalWeight)
	}
	if c.AlphaRise <= 0 || c.AlphaRise > 1 {
		return fmt.Errorf("chaos: alpha_rise out of range: %v", c.AlphaRise)
	}
	if c.AlphaFall <= 0 || c.AlphaFall > 1 {
		return fmt.Errorf("chaos: alpha_fall out of range: %v", c.AlphaFall)
	}
	return nil
}

// State is a read-only view of the calculator for display purposes.
type State struct {
	Score     float64       `json:"score"`
	Target    float64       `json:"target"`
	Type      motion.Type   `json:"motion_type"`
	Label     string        `json:"label"`
	UpdatedAt time.Time     `json:"updated_at"`
	History   []float64     `json:"history"`
	DecayTime time.Duration `json:"decay_time"`

	LocalWeight  float64 `json:"local_weight"`
	GlobalWeight float64 `json:"global_weight"`
}

// Calculator owns the chaos score. It is mutated only by the frame
// context; the mutex exists so the dashboard can snapshot it safely.
type Calculator struct {
	mu  sync.Mutex
	cfg Config

	score     float64
	target    float64
	lastType  motion.Type
	center    motion.Point
	updatedAt time.Time

	history []float64
}

// NewCalculator creates a calculator at score zero.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		cfg:     cfg,
		center:  motion.Point{X: 0.5, Y: 0.5},
		history: make([]float64, 0, historyLen),
	}, nil
}

// Update folds one motion reading into the score and returns the new
// value. dt is the measured wall-clock time since the last successful
// update; a zero or negative dt leaves the score unchanged.
//
// Order matters and is fixed: exponential smoothing toward the target
// first, then (under stillness) the time-based decay multiplier on top.
func (c *Calculator) Update(m motion.Metrics, dt time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastType = m.Type
	c.center = m.Center

	if dt <= 0 {
		return c.score
	}

	c.target = c.targetFor(m)

	alpha := c.cfg.AlphaFall
	if c.target >= c.score {
		alpha = c.cfg.AlphaRise
	}
	score := alpha*c.target + (1-alpha)*c.score

	if m.Type == motion.Still {
		score *= DecayFactor(dt, c.cfg.DecayTime)
	}

	c.score = clamp01(score)
	c.updatedAt = time.Now()
	c.pushHistory(c.score)
	return c.score
}

// targetFor maps a reading to its instantaneous chaos target.
func (c *Calculator) targetFor(m motion.Metrics) float64 {
	switch m.Type {
	case motion.Still:
		return 0

	case motion.Local:
		// Energy-driven, clamped to the mid band.
		drive := m.Energy
		if m.Velocity > trivialSignal {
			drive = c.cfg.LocalWeight*m.Energy + (1-c.cfg.LocalWeight)*m.Velocity
		}
		return clampRange(0.3+0.4*drive, 0.3, 0.7)

	default:
		// Velocity-driven, clamped to the upper band.
		drive := m.Velocity
		if m.Energy > trivialSignal {
			drive = c.cfg.GlobalWeight*m.Energy + (1-c.cfg.GlobalWeight)*m.Velocity
		}
		return clampRange(0.5+0.5*drive, 0.5, 1.0)
	}
}

// Reset drops the score to zero immediately, bypassing smoothing and
// decay.
func (c *Calculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.score = 0
	c.target = 0
	c.lastType = motion.Still
	c.updatedAt = time.Now()
	c.pushHistory(0)
}

// Score returns the current chaos score.
func (c *Calculator) Score() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// Parameters derives the audio-parameter snapshot from the current score
// and the last known motion center.
func (c *Calculator) Parameters() synth.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ParamsFor(c.score, c.center.X)
}

// State returns a copy of the calculator state for display.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Score:        c.score,
		Target:       c.target,
		Type:         c.lastType,
		Label:        Label(c.score),
		UpdatedAt:    c.updatedAt,
		History:      append([]float64(nil), c.history...),
		DecayTime:    c.cfg.DecayTime,
		LocalWeight:  c.cfg.LocalWeight,
		GlobalWeight: c.cfg.GlobalWeight,
	}
}

// SetDecayTime overrides the healing time constant.
func (c *Calculator) SetDecayTime(tau time.Duration) error {
	if tau <= 0 {
		return fmt.Errorf("chaos: decay_time must be positive, got %v", tau)
	}
	c.mu.Lock()
	c.cfg.DecayTime = tau
	c.mu.Unlock()
	return nil
}

// SetWeights overrides the blend coefficients.
func (c *Calculator) SetWeights(local, global float64) error {
	if local < 0 || local > 1 || global < 0 || global > 1 {
		return fmt.Errorf("chaos: weights out of range: local=%v global=%v", local, global)
	}
	c.mu.Lock()
	c.cfg.LocalWeight = local
	c.cfg.GlobalWeight = global
	c.mu.Unlock()
	return nil
}

func (c *Calculator) pushHistory(v float64) {
	if len(c.history) == historyLen {
		copy(c.history, c.history[1:])
		c.history = c.history[:historyLen-1]
	}
	c.history = append(c.history, v)
}

// DecayFactor is the healing multiplier e^(-dt/tau).
func DecayFactor(dt, tau time.Duration) float64 {
	if tau <= 0 {
		return 0
	}
	return math.Exp(-dt.Seconds() / tau.Seconds())
}

// Label names the coarse band a score falls in, for display.
func Label(score float64) string {
	switch {
	case score < 0.2:
		return "ethereal drone"
	case score < 0.5:
		return "ripple"
	case score < 0.8:
		return "rising tension"
	default:
		return "scatter"
	}
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
