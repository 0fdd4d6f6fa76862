package audioio

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MockSink records written audio without touching any hardware.
// It also serves as the degraded-mode sink when no audio device exists:
// the pipeline keeps rendering, writes land here, and nothing is emitted.
// With Realtime set, writes take as long as the chunk would to play, so
// callers are paced the way a real device paces them.
type MockSink struct {
	cfg      Config
	logger   *slog.Logger
	Realtime bool

	mu      sync.Mutex
	running bool
	closed  bool

	chunksWritten  int64
	samplesWritten int64
	last           AudioChunk
}

// NewMockSink creates a mock sink.
func NewMockSink(cfg Config, logger *slog.Logger) *MockSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSink{cfg: cfg, logger: logger}
}

// Start marks the sink running.
func (m *MockSink) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrSinkClosed
	}
	m.running = true
	return nil
}

// Stop marks the sink stopped.
func (m *MockSink) Stop() error {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	return nil
}

// Write records the chunk.
func (m *MockSink) Write(ctx context.Context, chunk AudioChunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Realtime {
		select {
		case <-time.After(chunk.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrSinkClosed
	}
	if !m.running {
		return ErrNotStarted
	}

	m.chunksWritten++
	m.samplesWritten += int64(len(chunk.Samples))
	m.last = AudioChunk{
		Samples:    append([]int16(nil), chunk.Samples...),
		SampleRate: chunk.SampleRate,
		Channels:   chunk.Channels,
	}
	return nil
}

// Flush is a no-op; nothing buffers.
func (m *MockSink) Flush(ctx context.Context) error { return ctx.Err() }

// Clear is a no-op; nothing buffers.
func (m *MockSink) Clear() error { return nil }

// Config returns the sink configuration.
func (m *MockSink) Config() Config { return m.cfg }

// Name returns "mock".
func (m *MockSink) Name() string { return "mock" }

// LastChunk returns a copy of the most recently written chunk.
func (m *MockSink) LastChunk() AudioChunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Stats returns write statistics.
func (m *MockSink) Stats() SinkStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SinkStats{
		ChunksWritten:  m.chunksWritten,
		SamplesWritten: m.samplesWritten,
		Running:        m.running,
		Backend:        m.Name(),
	}
}

// Close marks the sink closed.
func (m *MockSink) Close() error {
	m.mu.Lock()
	m.running = false
	m.closed = true
	m.mu.Unlock()
	return nil
}
