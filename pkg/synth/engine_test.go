package synth

import (
	"math"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{SampleRate: 44100, BlockSize: 512}
}

func TestEngine_SilentBeforeFirstPublish(t *testing.T) {
	e, err := NewEngine(testConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	buf := make([]float64, 1024)
	buf[0] = 0.7 // stale data must be overwritten
	e.Render(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Expected silence before first publish, sample %d = %v", i, v)
		}
	}
}

func TestEngine_OutputWithinRange(t *testing.T) {
	e, _ := NewEngine(testConfig())

	// Everything at maximum: worst case for clipping.
	e.SetParams(Params{
		BaseFreq:     800,
		BinauralDiff: 5,
		LFORate:      12,
		LFODepth:     1,
		FMAmount:     1000,
		NoiseAmount:  0.75,
		GrainRate:    100,
		Pan:          1,
		Amplitude:    1,
		Chaos:        1,
	})

	buf := make([]float64, 4096)
	for block := 0; block < 20; block++ {
		e.Render(buf)
		for i, v := range buf {
			if v < -1 || v > 1 {
				t.Fatalf("Sample %d out of range: %v", i, v)
			}
			if math.IsNaN(v) {
				t.Fatalf("Sample %d is NaN", i)
			}
		}
	}
}

func TestEngine_PhasesStayWrapped(t *testing.T) {
	e, _ := NewEngine(testConfig())
	e.SetParams(Params{BaseFreq: 793, BinauralDiff: 4.7, LFORate: 11, LFODepth: 0.5, Amplitude: 0.5})

	buf := make([]float64, 2048)
	for block := 0; block < 500; block++ {
		e.Render(buf)
	}

	for name, phase := range map[string]float64{
		"left": e.phaseL, "right": e.phaseR, "lfo": e.phaseLFO, "fm": e.phaseFM,
	} {
		if phase < 0 || phase >= 2*math.Pi {
			t.Errorf("%s phase left [0,2pi): %v", name, phase)
		}
	}
}

func TestEngine_CarrierIsAudible(t *testing.T) {
	e, _ := NewEngine(testConfig())
	e.SetParams(Drone())

	buf := make([]float64, 44100*2) // one second
	e.Render(buf)

	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(buf)))
	if rms < 0.05 {
		t.Errorf("Drone RMS too low: %v", rms)
	}
}

func TestEngine_NonFiniteParamsAreSanitized(t *testing.T) {
	e, _ := NewEngine(testConfig())
	e.SetParams(Params{
		BaseFreq:  math.NaN(),
		LFORate:   math.Inf(1),
		Amplitude: math.Inf(-1),
		Pan:       math.NaN(),
	})

	p := e.Params()
	if p.BaseFreq != 100 || p.LFORate != 12 || p.Amplitude != 0 || p.Pan != -1 {
		t.Errorf("Sanitize produced %+v", p)
	}

	buf := make([]float64, 512)
	e.Render(buf)
	for i, v := range buf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Non-finite output at %d: %v", i, v)
		}
	}
}

func TestEngine_GrainGateScatters(t *testing.T) {
	e, _ := NewEngine(testConfig())
	p := Drone()
	p.GrainRate = 80
	e.SetParams(p)

	// One second: 50 grains of 20ms.
	buf := make([]float64, 44100*2)
	e.Render(buf)

	grain := e.grainLen * 2
	muted, open := 0, 0
	for start := 0; start+grain <= len(buf); start += grain {
		var sum float64
		for _, v := range buf[start : start+grain] {
			sum += v * v
		}
		if math.Sqrt(sum/float64(grain)) < 1e-6 {
			muted++
		} else {
			open++
		}
	}
	if muted == 0 {
		t.Error("Grain gate never muted a grain")
	}
	if open == 0 {
		t.Error("Grain gate muted every grain")
	}
}

func TestEngine_EqualPowerPan(t *testing.T) {
	render := func(pan float64) (l, r float64) {
		e, _ := NewEngine(testConfig())
		p := Drone()
		p.Pan = pan
		e.SetParams(p)

		buf := make([]float64, 8192)
		e.Render(buf)
		for i := 0; i < len(buf); i += 2 {
			l += buf[i] * buf[i]
			r += buf[i+1] * buf[i+1]
		}
		return l, r
	}

	l, r := render(-1)
	if l == 0 || r != 0 {
		t.Errorf("Full left pan: left power %v, right power %v", l, r)
	}

	l, r = render(1)
	if l != 0 || r == 0 {
		t.Errorf("Full right pan: left power %v, right power %v", l, r)
	}
}

func TestEngine_FadeOutReachesSilence(t *testing.T) {
	e, _ := NewEngine(testConfig())
	e.SetParams(Drone())

	buf := make([]float64, 2048)
	e.Render(buf)

	e.FadeOut(10 * time.Millisecond)

	// Render well past the fade duration.
	for block := 0; block < 50; block++ {
		e.Render(buf)
	}
	if !e.Silent() {
		t.Fatal("Engine not silent after fade-out")
	}
	e.Render(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Sample %d nonzero after fade-out: %v", i, v)
		}
	}

	// FadeIn restores output.
	e.FadeIn()
	e.Render(buf)
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	if sum == 0 {
		t.Error("Engine still silent after FadeIn")
	}
}

func TestEngine_RenderPCM16(t *testing.T) {
	e, _ := NewEngine(testConfig())
	e.SetParams(Drone())

	pcm := make([]int16, 4096)
	e.RenderPCM16(pcm)

	nonzero := false
	for _, s := range pcm {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("PCM render produced only zeros with published params")
	}
}

func TestConfig_BlockDuration(t *testing.T) {
	cfg := DefaultConfig()
	d := cfg.BlockDuration()
	// 2048 frames at 44.1kHz is about 46ms.
	if d < 45*time.Millisecond || d > 48*time.Millisecond {
		t.Errorf("Unexpected block duration: %v", d)
	}
}
