// Package synth renders a continuous stereo stream from the latest
// published parameter snapshot.
//
// The render path is lock-free: parameters arrive through an atomic
// pointer swap and the renderer only ever reads the most recent snapshot.
// It never blocks, never errors, and renders silence until the first
// snapshot is published.
package synth

import "math"

// Params is one immutable audio-parameter snapshot. The chaos calculator
// publishes a fresh value every cycle; the engine reads whichever snapshot
// is newest when a block renders.
type Params struct {
	// BaseFreq is the carrier frequency in Hz, range [100, 800].
	BaseFreq float64 `json:"base_freq"`

	// BinauralDiff is the left/right frequency offset in Hz,
	// range [0.5, 5].
	BinauralDiff float64 `json:"binaural_diff"`

	// LFORate is the tremolo rate in Hz, range [0, 12].
	LFORate float64 `json:"lfo_rate"`

	// LFODepth is the tremolo depth, range [0, 1].
	LFODepth float64 `json:"lfo_depth"`

	// FMAmount is the frequency-modulation strength, range [0, 1000].
	FMAmount float64 `json:"fm_amount"`

	// NoiseAmount is the additive white-noise level, range [0, 0.75].
	NoiseAmount float64 `json:"noise_amount"`

	// GrainRate is the granular scatter rate per second, range [0, 100].
	GrainRate float64 `json:"grain_rate"`

	// Pan is the stereo position, -1 full left to +1 full right.
	Pan float64 `json:"pan"`

	// Amplitude is the master level, range [0, 1].
	Amplitude float64 `json:"amplitude"`

	// Chaos is the score this snapshot was derived from, kept for
	// status display.
	Chaos float64 `json:"chaos"`
}

// Drone returns the resting parameter set: the pure binaural drone the
// system settles into at chaos zero.
func Drone() Params {
	return Params{
		BaseFreq:     100,
		BinauralDiff: 5,
		Amplitude:    0.3,
	}
}

// sanitized returns a copy with every field forced finite and inside its
// documented range. The engine applies this on publish so a bad upstream
// value can never destabilize the render path.
func (p Params) sanitized() Params {
	p.BaseFreq = clampf(p.BaseFreq, 100, 800)
	p.BinauralDiff = clampf(p.BinauralDiff, 0.5, 5)
	p.LFORate = clampf(p.LFORate, 0, 12)
	p.LFODepth = clampf(p.LFODepth, 0, 1)
	p.FMAmount = clampf(p.FMAmount, 0, 1000)
	p.NoiseAmount = clampf(p.NoiseAmount, 0, 0.75)
	p.GrainRate = clampf(p.GrainRate, 0, 100)
	p.Pan = clampf(p.Pan, -1, 1)
	p.Amplitude = clampf(p.Amplitude, 0, 1)
	p.Chaos = clampf(p.Chaos, 0, 1)
	return p
}

// clampf clamps v to [lo, hi], mapping NaN to lo.
func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
