package chaos

import "github.com/somaticlab/stillwave/pkg/synth"

// ParamsFor maps a chaos score and motion center to an audio-parameter
// snapshot. Every mapping is a pure, monotonic function of the score
// except LFODepth (parabolic, peaking at 0.5) and Pan (a function of the
// motion center only).
//
//	score 0: 100Hz drone, 5Hz binaural beat, no modulation
//	score 1: 800Hz carrier, heavy FM, noise floor, scattered grains
func ParamsFor(score, centerX float64) synth.Params {
	c := clamp01(score)
	return synth.Params{
		BaseFreq:     100 + 700*c,
		BinauralDiff: 5 - 4.5*c,
		LFORate:      12 * c,
		LFODepth:     4 * c * (1 - c),
		FMAmount:     1000 * c * c,
		NoiseAmount:  0.75 * clamp01((c-0.7)/0.3),
		GrainRate:    100 * c,
		Pan:          2*clamp01(centerX) - 1,
		Amplitude:    0.3 + 0.4*c,
		Chaos:        c,
	}
}
