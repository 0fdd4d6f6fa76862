// Package pipeline wires the capture, motion, chaos and synthesis
// stages into a running system. Two loops run concurrently: a frame
// loop paced by the camera rate and a render loop paced by the audio
// device. They meet only at the engine's atomic parameter slot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/somaticlab/stillwave/pkg/audioio"
	"github.com/somaticlab/stillwave/pkg/chaos"
	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/synth"
	"github.com/somaticlab/stillwave/pkg/vision"
)

// Mode describes where frames come from.
type Mode string

const (
	// ModeLive captures from a physical camera.
	ModeLive Mode = "live"
	// ModeSimulated captures from the synthetic frame source.
	ModeSimulated Mode = "simulated"
)

// fadeOutTime is how long the engine ramps down before teardown or when
// audio is toggled off. Avoids a click at the speaker.
const fadeOutTime = 200 * time.Millisecond

// Analyzer reduces a frame to motion metrics. *motion.Analyzer is the
// production implementation.
type Analyzer interface {
	Analyze(frame vision.Frame) (motion.Metrics, error)
	Reset()
	Close() error
}

// Config holds pipeline settings.
type Config struct {
	Mode         Mode
	FrameRate    int // frames per second, default 30
	AudioEnabled bool
	Chaos        chaos.Config
	Synth        synth.Config
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeLive,
		FrameRate:    30,
		AudioEnabled: true,
		Chaos:        chaos.DefaultConfig(),
		Synth:        synth.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Mode != ModeLive && c.Mode != ModeSimulated {
		return fmt.Errorf("pipeline: unknown mode %q", c.Mode)
	}
	if c.FrameRate <= 0 || c.FrameRate > 120 {
		return fmt.Errorf("pipeline: frame rate %d out of range", c.FrameRate)
	}
	if err := c.Chaos.Validate(); err != nil {
		return err
	}
	return c.Synth.Validate()
}

// Orchestrator owns the full capture-to-audio chain.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger

	source   vision.Source
	analyzer Analyzer
	calc     *chaos.Calculator
	engine   *synth.Engine
	sink     audioio.Sink

	mu           sync.RWMutex
	audioEnabled bool
	lastMetrics  motion.Metrics
	lastParams   synth.Params
	frames       int64
	captureErrs  int64
	outputLevel  float64
	lastErr      string
	startedAt    time.Time
	monitor      func(pcm []int16)

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New builds an orchestrator from injected stages. The source, analyzer
// and sink are owned by the orchestrator after this call and closed on
// Stop.
func New(cfg Config, source vision.Source, analyzer Analyzer, sink audioio.Sink, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil || analyzer == nil || sink == nil {
		return nil, errors.New("pipeline: source, analyzer and sink are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	calc, err := chaos.NewCalculator(cfg.Chaos)
	if err != nil {
		return nil, err
	}
	engine, err := synth.NewEngine(cfg.Synth)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:          cfg,
		logger:       logger.With("component", "pipeline"),
		source:       source,
		analyzer:     analyzer,
		calc:         calc,
		engine:       engine,
		sink:         sink,
		audioEnabled: cfg.AudioEnabled,
	}, nil
}

// Engine exposes the synthesis engine, e.g. for offline rendering tools.
func (o *Orchestrator) Engine() *synth.Engine { return o.engine }

// SetMonitor installs a tap that receives every rendered PCM block on
// the render goroutine. Pass nil to remove. The callback must not block.
func (o *Orchestrator) SetMonitor(fn func(pcm []int16)) {
	o.mu.Lock()
	o.monitor = fn
	o.mu.Unlock()
}

// Start launches the frame and render loops.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = true
	o.startedAt = time.Now()
	o.mu.Unlock()

	if err := o.startSink(ctx); err != nil {
		o.mu.Lock()
		o.started = false
		o.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(2)
	go o.frameLoop(ctx)
	go o.renderLoop(ctx)

	o.logger.Info("pipeline started",
		"mode", o.cfg.Mode,
		"frame_rate", o.cfg.FrameRate,
		"source", o.source.Name(),
		"sink", o.sink.Name(),
		"audio", o.audioEnabled,
	)
	return nil
}

// startSink opens the audio device, degrading to the mock sink when the
// device is unavailable so the pipeline keeps producing state for the
// dashboard.
func (o *Orchestrator) startSink(ctx context.Context) error {
	err := o.sink.Start(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, audioio.ErrDeviceUnavailable) {
		return err
	}

	o.logger.Warn("audio device unavailable, continuing silent", "error", err)
	cfg := o.sink.Config()
	cfg.Backend = audioio.BackendMock
	o.sink.Close()
	mock := audioio.NewMockSink(cfg, o.logger)
	mock.Realtime = true
	o.sink = mock
	o.mu.Lock()
	o.lastErr = "audio device unavailable"
	o.mu.Unlock()
	return o.sink.Start(ctx)
}

// frameLoop captures, analyzes and updates chaos at the frame rate.
// When a stage runs long the ticker drops ticks, so frames are skipped
// rather than queued; dt is measured wall clock between successful
// updates so the chaos decay stays truthful across skips.
func (o *Orchestrator) frameLoop(ctx context.Context) {
	defer o.wg.Done()

	interval := time.Second / time.Duration(o.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastUpdate := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := o.source.Capture(ctx)
		if err != nil {
			if errors.Is(err, vision.ErrSourceClosed) || ctx.Err() != nil {
				return
			}
			o.mu.Lock()
			o.captureErrs++
			o.lastErr = err.Error()
			o.mu.Unlock()
			continue
		}

		metrics, err := o.analyzer.Analyze(frame)
		if err != nil {
			o.mu.Lock()
			o.captureErrs++
			o.lastErr = err.Error()
			o.mu.Unlock()
			continue
		}

		now := time.Now()
		o.calc.Update(metrics, now.Sub(lastUpdate))
		lastUpdate = now
		params := o.calc.Parameters()
		o.engine.SetParams(params)

		o.mu.Lock()
		o.lastMetrics = metrics
		o.lastParams = params
		o.frames++
		o.mu.Unlock()
	}
}

// renderLoop renders engine blocks and pushes them to the sink. The
// sink's bounded queue paces this loop to real time; when audio is
// disabled the loop paces itself and keeps the monitor tap fed.
func (o *Orchestrator) renderLoop(ctx context.Context) {
	defer o.wg.Done()

	blockDur := o.cfg.Synth.BlockDuration()
	pcm := make([]int16, o.cfg.Synth.BlockSize*2)
	for {
		if ctx.Err() != nil {
			return
		}

		o.engine.RenderPCM16(pcm)

		o.mu.RLock()
		enabled := o.audioEnabled
		tap := o.monitor
		o.mu.RUnlock()

		if tap != nil {
			tap(pcm)
		}

		level := audioio.CalculateRMS(pcm)
		o.mu.Lock()
		o.outputLevel = level
		o.mu.Unlock()

		if !enabled {
			select {
			case <-time.After(blockDur):
			case <-ctx.Done():
				return
			}
			continue
		}

		chunk := audioio.AudioChunk{
			Samples:    pcm,
			SampleRate: o.cfg.Synth.SampleRate,
			Channels:   2,
		}
		if err := o.sink.Write(ctx, chunk); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			o.logger.Error("sink write failed", "error", err)
			o.mu.Lock()
			o.lastErr = err.Error()
			o.mu.Unlock()
			return
		}
	}
}

// Reset returns the chaos state, motion history and synthesis to rest.
func (o *Orchestrator) Reset() {
	o.calc.Reset()
	o.analyzer.Reset()
	o.engine.SetParams(o.calc.Parameters())
	o.mu.Lock()
	o.lastMetrics = motion.Metrics{Center: motion.Point{X: 0.5, Y: 0.5}}
	o.lastParams = o.calc.Parameters()
	o.lastErr = ""
	o.mu.Unlock()
	o.logger.Info("pipeline reset")
}

// SetAudioEnabled toggles speaker output with a fade to avoid clicks.
func (o *Orchestrator) SetAudioEnabled(enabled bool) {
	o.mu.Lock()
	changed := o.audioEnabled != enabled
	o.audioEnabled = enabled
	o.mu.Unlock()
	if !changed {
		return
	}
	if enabled {
		o.engine.FadeIn()
	} else {
		o.engine.FadeOut(fadeOutTime)
	}
	o.logger.Info("audio toggled", "enabled", enabled)
}

// SetDecayTime adjusts the stillness decay constant at runtime.
func (o *Orchestrator) SetDecayTime(d time.Duration) error {
	return o.calc.SetDecayTime(d)
}

// SetWeights adjusts the energy/velocity blend weights at runtime.
func (o *Orchestrator) SetWeights(local, global float64) error {
	return o.calc.SetWeights(local, global)
}

// Stop fades out, halts both loops and releases all stages.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return
	}
	o.started = false
	o.mu.Unlock()

	o.engine.FadeOut(fadeOutTime)
	time.Sleep(fadeOutTime + 50*time.Millisecond)

	o.cancel()
	o.wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	o.sink.Flush(flushCtx)
	cancel()

	o.sink.Close()
	o.source.Close()
	o.analyzer.Close()
	o.logger.Info("pipeline stopped")
}
