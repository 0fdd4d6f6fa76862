package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

const (
	twoPi = 2 * math.Pi

	// grainDuration is the fixed length of one granular gate window.
	grainDuration = 20 * time.Millisecond

	// fmScale converts FMAmount [0,1000] to radians of phase deviation.
	fmScale = 0.01

	// noiseScale keeps full NoiseAmount below clipping when summed with
	// the carrier.
	noiseScale = 0.3
)

// Config holds engine settings.
type Config struct {
	// SampleRate in Hz.
	SampleRate int `json:"sample_rate"`

	// BlockSize is the number of stereo frames per render block.
	BlockSize int `json:"block_size"`
}

// DefaultConfig returns 44.1kHz with 2048-frame blocks (~46ms cadence).
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		BlockSize:  2048,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("synth: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("synth: block_size must be positive, got %d", c.BlockSize)
	}
	return nil
}

// BlockDuration returns the wall time one block covers.
func (c *Config) BlockDuration() time.Duration {
	return time.Duration(float64(c.BlockSize) / float64(c.SampleRate) * float64(time.Second))
}

// Engine is the real-time synthesizer.
//
// SetParams may be called from any goroutine at any rate; Render is called
// by exactly one output goroutine at block cadence. The two meet only at
// an atomic pointer, so the render path can never stall on a publisher.
type Engine struct {
	cfg Config

	params atomic.Pointer[Params]

	// fadeStep holds float64 bits of the per-sample fade decrement.
	// Zero means no fade is in progress.
	fadeStep atomic.Uint64

	// Everything below is owned by the render goroutine.
	phaseL   float64
	phaseR   float64
	phaseLFO float64
	phaseFM  float64

	grainLen  int
	grainPos  int
	grainGain float64

	fadeGain float64
	rng      *rand.Rand

	silent atomic.Bool

	pcmScratch []float64
}

// NewEngine creates an engine. The grain gate RNG is seeded so simulated
// runs are reproducible.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grainLen := int(float64(cfg.SampleRate) * grainDuration.Seconds())
	if grainLen < 1 {
		grainLen = 1
	}
	return &Engine{
		cfg:       cfg,
		grainLen:  grainLen,
		grainGain: 1,
		fadeGain:  1,
		rng:       rand.New(rand.NewSource(1)),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetParams publishes a parameter snapshot. Non-blocking, latest wins.
func (e *Engine) SetParams(p Params) {
	sane := p.sanitized()
	e.params.Store(&sane)
}

// Params returns the most recently published snapshot, or the resting
// drone if nothing has been published yet.
func (e *Engine) Params() Params {
	if p := e.params.Load(); p != nil {
		return *p
	}
	return Drone()
}

// FadeOut starts a linear ramp to silence over d. Once the ramp reaches
// zero the engine stays silent until FadeIn.
func (e *Engine) FadeOut(d time.Duration) {
	samples := float64(e.cfg.SampleRate) * d.Seconds()
	step := 1.0
	if samples > 1 {
		step = 1.0 / samples
	}
	e.fadeStep.Store(math.Float64bits(step))
}

// FadeIn cancels a fade and restores full level before the next block.
func (e *Engine) FadeIn() {
	e.fadeStep.Store(math.Float64bits(-1))
}

// Render fills dst with interleaved stereo samples in [-1, 1].
// len(dst) must be even; each pair is one left/right frame. The render
// path takes no locks and never fails: with no published parameters (or
// after a completed fade-out) it emits silence.
func (e *Engine) Render(dst []float64) {
	if step := math.Float64frombits(e.fadeStep.Load()); step < 0 {
		e.fadeGain = 1
		e.fadeStep.Store(0)
	}

	p := e.params.Load()
	if p == nil || e.fadeGain <= 0 {
		e.silent.Store(e.fadeGain <= 0)
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	fs := float64(e.cfg.SampleRate)
	incL := twoPi * p.BaseFreq / fs
	incR := twoPi * (p.BaseFreq + p.BinauralDiff) / fs
	incLFO := twoPi * p.LFORate / fs
	incFM := twoPi * (2 * p.BaseFreq) / fs
	fadeStep := math.Float64frombits(e.fadeStep.Load())

	panNorm := (p.Pan + 1) / 2
	gainL := math.Sqrt(1 - panNorm)
	gainR := math.Sqrt(panNorm)

	frames := len(dst) / 2
	for i := 0; i < frames; i++ {
		// FM: perturb the carrier phase argument with a modulator
		// running at twice the carrier frequency.
		mod := 0.0
		if p.FMAmount > 0 {
			mod = math.Sin(e.phaseFM) * p.FMAmount * fmScale
			e.phaseFM = wrap(e.phaseFM + incFM)
		}

		left := math.Sin(e.phaseL + mod)
		right := math.Sin(e.phaseR + mod)
		e.phaseL = wrap(e.phaseL + incL)
		e.phaseR = wrap(e.phaseR + incR)

		// Tremolo.
		if p.LFORate > 0 && p.LFODepth > 0 {
			trem := 1 + p.LFODepth*math.Sin(e.phaseLFO)
			e.phaseLFO = wrap(e.phaseLFO + incLFO)
			left *= trem
			right *= trem
		}

		// Granular gate: each 20ms grain is independently muted with
		// probability 0.5 while grains are active.
		if e.grainPos == 0 {
			e.grainGain = 1
			if p.GrainRate > 0 && e.rng.Float64() < 0.5 {
				e.grainGain = 0
			}
		}
		e.grainPos++
		if e.grainPos >= e.grainLen {
			e.grainPos = 0
		}
		left *= e.grainGain
		right *= e.grainGain

		// Noise floor rises with chaos.
		if p.NoiseAmount > 0 {
			n := e.rng.NormFloat64() * p.NoiseAmount * noiseScale
			left += n
			right += n
		}

		amp := p.Amplitude * e.fadeGain
		if fadeStep > 0 && e.fadeGain > 0 {
			e.fadeGain -= fadeStep
			if e.fadeGain < 0 {
				e.fadeGain = 0
			}
		}

		dst[i*2] = hardClamp(left * gainL * amp)
		dst[i*2+1] = hardClamp(right * gainR * amp)
	}
	e.silent.Store(e.fadeGain <= 0)
}

// RenderPCM16 renders one block into interleaved signed 16-bit samples.
func (e *Engine) RenderPCM16(dst []int16) {
	if cap(e.pcmScratch) < len(dst) {
		e.pcmScratch = make([]float64, len(dst))
	}
	buf := e.pcmScratch[:len(dst)]
	e.Render(buf)
	for i, v := range buf {
		dst[i] = int16(v * 32767)
	}
}

// Silent reports whether the last rendered block ended at zero gain,
// i.e. a fade-out has completed.
func (e *Engine) Silent() bool {
	return e.silent.Load()
}

// wrap keeps a phase accumulator in [0, 2π) so it never grows unbounded.
func wrap(phase float64) float64 {
	if phase >= twoPi {
		phase -= twoPi
	}
	return phase
}

func hardClamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
