package chaos

import (
	"math"
	"testing"
)

// TestParamsFor_Ranges samples the whole score domain and checks every
// mapping stays inside its documented range.
func TestParamsFor_Ranges(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		c := float64(i) / 1000
		for _, cx := range []float64{0, 0.25, 0.5, 0.75, 1} {
			p := ParamsFor(c, cx)

			checks := []struct {
				name     string
				v        float64
				lo, hi   float64
			}{
				{"base_freq", p.BaseFreq, 100, 800},
				{"binaural_diff", p.BinauralDiff, 0.5, 5},
				{"lfo_rate", p.LFORate, 0, 12},
				{"lfo_depth", p.LFODepth, 0, 1},
				{"fm_amount", p.FMAmount, 0, 1000},
				{"noise_amount", p.NoiseAmount, 0, 0.75},
				{"grain_rate", p.GrainRate, 0, 100},
				{"pan", p.Pan, -1, 1},
				{"amplitude", p.Amplitude, 0, 1},
			}
			for _, ck := range checks {
				if ck.v < ck.lo || ck.v > ck.hi {
					t.Fatalf("score %v: %s = %v outside [%v, %v]", c, ck.name, ck.v, ck.lo, ck.hi)
				}
			}
		}
	}
}

func TestParamsFor_Endpoints(t *testing.T) {
	rest := ParamsFor(0, 0.5)
	if rest.BaseFreq != 100 || rest.BinauralDiff != 5 || rest.LFORate != 0 ||
		rest.LFODepth != 0 || rest.FMAmount != 0 || rest.NoiseAmount != 0 ||
		rest.GrainRate != 0 || rest.Pan != 0 {
		t.Errorf("Rest params: %+v", rest)
	}

	full := ParamsFor(1, 0.5)
	if full.BaseFreq != 800 || full.BinauralDiff != 0.5 || full.LFORate != 12 ||
		full.LFODepth != 0 || full.FMAmount != 1000 || full.NoiseAmount != 0.75 ||
		full.GrainRate != 100 {
		t.Errorf("Full-chaos params: %+v", full)
	}
}

func TestParamsFor_LFODepthPeaksAtMidChaos(t *testing.T) {
	mid := ParamsFor(0.5, 0.5).LFODepth
	if math.Abs(mid-1.0) > 1e-9 {
		t.Errorf("LFODepth at 0.5 = %v, want 1.0", mid)
	}
	if lo := ParamsFor(0.25, 0.5).LFODepth; lo >= mid {
		t.Errorf("LFODepth(0.25) = %v not below peak %v", lo, mid)
	}
	if hi := ParamsFor(0.75, 0.5).LFODepth; hi >= mid {
		t.Errorf("LFODepth(0.75) = %v not below peak %v", hi, mid)
	}
}

func TestParamsFor_NoiseActivatesAboveThreshold(t *testing.T) {
	if p := ParamsFor(0.7, 0.5); p.NoiseAmount != 0 {
		t.Errorf("NoiseAmount at 0.7 = %v, want 0", p.NoiseAmount)
	}
	if p := ParamsFor(0.71, 0.5); p.NoiseAmount <= 0 {
		t.Errorf("NoiseAmount at 0.71 = %v, want > 0", p.NoiseAmount)
	}
	if p := ParamsFor(1, 0.5); math.Abs(p.NoiseAmount-0.75) > 1e-9 {
		t.Errorf("NoiseAmount at 1.0 = %v, want 0.75", p.NoiseAmount)
	}
}

func TestParamsFor_Monotonicity(t *testing.T) {
	prev := ParamsFor(0, 0.5)
	for i := 1; i <= 100; i++ {
		c := float64(i) / 100
		p := ParamsFor(c, 0.5)
		if p.BaseFreq < prev.BaseFreq {
			t.Fatalf("BaseFreq not monotonic at %v", c)
		}
		if p.BinauralDiff > prev.BinauralDiff {
			t.Fatalf("BinauralDiff not monotonic at %v", c)
		}
		if p.FMAmount < prev.FMAmount || p.GrainRate < prev.GrainRate ||
			p.NoiseAmount < prev.NoiseAmount || p.Amplitude < prev.Amplitude {
			t.Fatalf("Mapping not monotonic at %v", c)
		}
		prev = p
	}
}

func TestParamsFor_PanFollowsCenter(t *testing.T) {
	tests := []struct {
		cx   float64
		want float64
	}{
		{0, -1},
		{0.5, 0},
		{1, 1},
		{-2, -1}, // clamped
		{3, 1},   // clamped
	}
	for _, tt := range tests {
		if got := ParamsFor(0.5, tt.cx).Pan; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Pan(center %v) = %v, want %v", tt.cx, got, tt.want)
		}
	}
}
