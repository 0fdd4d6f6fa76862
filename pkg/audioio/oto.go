package audioio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// feedDepth is how many blocks may be queued ahead of the device.
// Deeper queues add latency; shallower ones risk underruns.
const feedDepth = 3

// otoSink plays PCM16 audio through the system device via oto.
// Written chunks are queued on a bounded channel; the oto player pulls
// bytes from the queue on its own audio thread and pads silence when the
// queue runs dry, so the device side never blocks on the writer.
type otoSink struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	otoCtx  *oto.Context
	player  *oto.Player
	reader  *feedReader
	running bool
	closed  bool

	chunksWritten  atomic.Int64
	samplesWritten atomic.Int64
}

// feedReader adapts the chunk queue to the io.Reader oto pulls from.
type feedReader struct {
	feed      chan []byte
	rem       []byte
	underruns atomic.Int64
	primed    atomic.Bool
}

func (r *feedReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.rem) == 0 {
			select {
			case b := <-r.feed:
				r.rem = b
			default:
				// Queue dry: pad with silence rather than stall
				// the audio thread.
				for i := n; i < len(p); i++ {
					p[i] = 0
				}
				if r.primed.Load() {
					r.underruns.Add(1)
				}
				return len(p), nil
			}
		}
		c := copy(p[n:], r.rem)
		n += c
		r.rem = r.rem[c:]
	}
	return n, nil
}

func newOtoSink(cfg Config, logger *slog.Logger) (*otoSink, error) {
	return &otoSink{
		cfg:    cfg,
		logger: logger,
		reader: &feedReader{feed: make(chan []byte, feedDepth)},
	}, nil
}

// Start opens the audio device and begins playback.
func (s *otoSink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	if s.running {
		return nil
	}

	if s.otoCtx == nil {
		otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   s.cfg.SampleRate,
			ChannelCount: s.cfg.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.otoCtx = otoCtx
		s.player = otoCtx.NewPlayer(s.reader)
		s.player.SetBufferSize(s.cfg.BlockBytes())
	}

	s.player.Play()
	s.running = true
	s.logger.Info("audio output started",
		"backend", s.Name(),
		"sample_rate", s.cfg.SampleRate,
		"channels", s.cfg.Channels,
		"block_ms", s.cfg.BlockDuration().Milliseconds(),
	)
	return nil
}

// Stop pauses playback. Queued audio is retained.
func (s *otoSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.player.Pause()
	s.running = false
	return nil
}

// Write queues one chunk for the device. Blocks while the queue is full,
// which paces the caller to real time.
func (s *otoSink) Write(ctx context.Context, chunk AudioChunk) error {
	s.mu.Lock()
	running, closed := s.running, s.closed
	s.mu.Unlock()
	if closed {
		return ErrSinkClosed
	}
	if !running {
		return ErrNotStarted
	}

	select {
	case s.reader.feed <- chunk.Bytes():
		s.reader.primed.Store(true)
		s.chunksWritten.Add(1)
		s.samplesWritten.Add(int64(len(chunk.Samples)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush waits until the queue has drained into the device.
func (s *otoSink) Flush(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if len(s.reader.feed) == 0 {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Clear discards queued audio.
func (s *otoSink) Clear() error {
	for {
		select {
		case <-s.reader.feed:
		default:
			return nil
		}
	}
}

// Config returns the sink configuration.
func (s *otoSink) Config() Config { return s.cfg }

// Name returns "oto".
func (s *otoSink) Name() string { return "oto" }

// Stats returns playback statistics.
func (s *otoSink) Stats() SinkStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	return SinkStats{
		ChunksWritten:  s.chunksWritten.Load(),
		SamplesWritten: s.samplesWritten.Load(),
		Underruns:      s.reader.underruns.Load(),
		Running:        running,
		Backend:        s.Name(),
	}
}

// Close stops playback and suspends the device context.
func (s *otoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.running = false
	if s.player != nil {
		s.player.Close()
	}
	if s.otoCtx != nil {
		// oto contexts cannot be destroyed; suspend is the accepted
		// shutdown.
		s.otoCtx.Suspend()
	}
	return nil
}
