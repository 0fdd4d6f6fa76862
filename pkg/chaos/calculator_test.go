package chaos

import (
	"math"
	"testing"
	"time"

	"github.com/somaticlab/stillwave/pkg/motion"
)

const frameDt = 33333 * time.Microsecond // ~30fps

func stillMetrics() motion.Metrics {
	return motion.Metrics{Center: motion.Point{X: 0.5, Y: 0.5}, Type: motion.Still}
}

func newCalc(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCalculator failed: %v", err)
	}
	return c
}

// driveUp pushes the score close to 1.0 with sustained global motion.
func driveUp(c *Calculator) {
	m := motion.Metrics{Energy: 1, Velocity: 1, Center: motion.Point{X: 0.5, Y: 0.5}, Type: motion.Global}
	for i := 0; i < 60; i++ {
		c.Update(m, frameDt)
	}
}

func TestUpdate_ZeroDtLeavesScoreUnchanged(t *testing.T) {
	c := newCalc(t)
	driveUp(c)
	before := c.Score()

	after := c.Update(stillMetrics(), 0)
	if after != before {
		t.Errorf("dt=0 changed score: %v -> %v", before, after)
	}
	after = c.Update(stillMetrics(), -time.Second)
	if after != before {
		t.Errorf("negative dt changed score: %v -> %v", before, after)
	}
}

func TestDecayFactor(t *testing.T) {
	tau := 2500 * time.Millisecond

	// One time constant decays to e^-1.
	got := DecayFactor(tau, tau)
	if math.Abs(got-math.Exp(-1)) > 1e-9 {
		t.Errorf("DecayFactor(tau, tau) = %v, want %v", got, math.Exp(-1))
	}

	// Five time constants is effectively silent.
	if got := DecayFactor(5*tau, tau); got >= 0.01 {
		t.Errorf("DecayFactor(5tau, tau) = %v, want < 0.01", got)
	}
}

func TestUpdate_MonotonicDecayUnderStillness(t *testing.T) {
	c := newCalc(t)
	driveUp(c)

	prev := c.Score()
	for i := 0; i < 200; i++ {
		score := c.Update(stillMetrics(), frameDt)
		if score > prev {
			t.Fatalf("Score rose under stillness at step %d: %v -> %v", i, prev, score)
		}
		prev = score
	}
}

func TestUpdate_HealsToSilenceInFiveSeconds(t *testing.T) {
	c := newCalc(t)
	driveUp(c)
	if c.Score() < 0.95 {
		t.Fatalf("Drive-up did not saturate: %v", c.Score())
	}

	// 150 still frames over 5 simulated seconds.
	var score float64
	for i := 0; i < 150; i++ {
		score = c.Update(stillMetrics(), frameDt)
	}
	if score >= 0.05 {
		t.Errorf("Score after 5s of stillness = %v, want < 0.05", score)
	}

	p := c.Parameters()
	if math.Abs(p.BaseFreq-100) > 40 {
		t.Errorf("BaseFreq after healing = %v, want about 100", p.BaseFreq)
	}
	if math.Abs(p.BinauralDiff-5) > 0.3 {
		t.Errorf("BinauralDiff after healing = %v, want about 5", p.BinauralDiff)
	}
}

func TestUpdate_LocalMotionConvergesToMidBand(t *testing.T) {
	c := newCalc(t)

	m := motion.Metrics{Energy: 0.5, Velocity: 0.1, Center: motion.Point{X: 0.5, Y: 0.5}, Type: motion.Local}
	var score float64
	for i := 0; i < 120; i++ {
		score = c.Update(m, frameDt)
	}
	if score < 0.3 || score > 0.7 {
		t.Errorf("Local motion converged to %v, want in [0.3, 0.7]", score)
	}
}

func TestUpdate_GlobalMotionConvergesToUpperBand(t *testing.T) {
	c := newCalc(t)

	m := motion.Metrics{Energy: 0.8, Velocity: 0.8, Center: motion.Point{X: 0.5, Y: 0.5}, Type: motion.Global}
	var score float64
	for i := 0; i < 120; i++ {
		score = c.Update(m, frameDt)
	}
	if score < 0.5 || score > 1.0 {
		t.Errorf("Global motion converged to %v, want in [0.5, 1.0]", score)
	}
	if score <= 0.7 {
		t.Fatalf("Expected score above 0.7, got %v", score)
	}
	if p := c.Parameters(); p.NoiseAmount <= 0 {
		t.Errorf("NoiseAmount = %v above score 0.7, want > 0", p.NoiseAmount)
	}
}

func TestUpdate_RisingUsesFastAlpha(t *testing.T) {
	c := newCalc(t)

	m := motion.Metrics{Energy: 1, Velocity: 1, Type: motion.Global}
	first := c.Update(m, frameDt)
	// One step from 0 toward target 1.0 at alpha 0.4.
	if math.Abs(first-0.4) > 1e-9 {
		t.Errorf("First rising step = %v, want 0.4", first)
	}
}

func TestUpdate_FallingUsesSlowAlphaThenDecay(t *testing.T) {
	cfg := DefaultConfig()
	c, err := NewCalculator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	driveUp(c)
	start := c.Score()

	got := c.Update(stillMetrics(), frameDt)
	want := (1 - cfg.AlphaFall) * start * DecayFactor(frameDt, cfg.DecayTime)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Still step = %v, want smoothing-then-decay %v", got, want)
	}
}

func TestReset(t *testing.T) {
	c := newCalc(t)
	driveUp(c)
	if c.Score() == 0 {
		t.Fatal("Drive-up failed")
	}

	c.Reset()
	if c.Score() != 0 {
		t.Errorf("Score after reset = %v, want 0", c.Score())
	}

	p := c.Parameters()
	if p.BaseFreq != 100 || p.BinauralDiff != 5 || p.LFORate != 0 ||
		p.FMAmount != 0 || p.NoiseAmount != 0 || p.GrainRate != 0 {
		t.Errorf("Parameters after reset not at rest: %+v", p)
	}
}

func TestSetDecayTime(t *testing.T) {
	c := newCalc(t)
	if err := c.SetDecayTime(0); err == nil {
		t.Error("Expected error for zero decay time")
	}
	if err := c.SetDecayTime(5 * time.Second); err != nil {
		t.Errorf("SetDecayTime failed: %v", err)
	}
	if got := c.State().DecayTime; got != 5*time.Second {
		t.Errorf("DecayTime = %v, want 5s", got)
	}
}

func TestSetWeights(t *testing.T) {
	c := newCalc(t)
	if err := c.SetWeights(1.5, 0.4); err == nil {
		t.Error("Expected error for out-of-range weight")
	}
	if err := c.SetWeights(0.7, 0.3); err != nil {
		t.Errorf("SetWeights failed: %v", err)
	}
}

func TestState_History(t *testing.T) {
	c := newCalc(t)
	for i := 0; i < historyLen*2; i++ {
		c.Update(stillMetrics(), frameDt)
	}
	st := c.State()
	if len(st.History) != historyLen {
		t.Errorf("History length = %d, want %d", len(st.History), historyLen)
	}
	if st.Label != "ethereal drone" {
		t.Errorf("Label at score 0 = %q", st.Label)
	}
}
