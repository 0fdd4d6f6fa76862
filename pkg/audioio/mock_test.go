package audioio

import (
	"context"
	"testing"
)

func TestMockSink_StartStop(t *testing.T) {
	sink := NewMockSink(DefaultConfig(), nil)
	defer sink.Close()

	ctx := context.Background()

	if err := sink.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := sink.Start(ctx); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}
	if err := sink.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := sink.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}
}

func TestMockSink_WriteBeforeStart(t *testing.T) {
	sink := NewMockSink(DefaultConfig(), nil)
	defer sink.Close()

	chunk := AudioChunk{Samples: make([]int16, 64), SampleRate: 44100, Channels: 2}
	if err := sink.Write(context.Background(), chunk); err != ErrNotStarted {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
}

func TestMockSink_WriteRecordsStats(t *testing.T) {
	cfg := DefaultConfig()
	sink := NewMockSink(cfg, nil)
	defer sink.Close()

	ctx := context.Background()
	if err := sink.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	chunk := AudioChunk{Samples: make([]int16, cfg.BlockSize*cfg.Channels), SampleRate: cfg.SampleRate, Channels: cfg.Channels}
	chunk.Samples[0] = 1234

	for i := 0; i < 3; i++ {
		if err := sink.Write(ctx, chunk); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	stats := sink.Stats()
	if stats.ChunksWritten != 3 {
		t.Errorf("ChunksWritten = %d, want 3", stats.ChunksWritten)
	}
	if want := int64(3 * cfg.BlockSize * cfg.Channels); stats.SamplesWritten != want {
		t.Errorf("SamplesWritten = %d, want %d", stats.SamplesWritten, want)
	}
	if got := sink.LastChunk(); got.Samples[0] != 1234 {
		t.Errorf("LastChunk not recorded, first sample = %d", got.Samples[0])
	}
}

func TestMockSink_UseAfterClose(t *testing.T) {
	sink := NewMockSink(DefaultConfig(), nil)
	sink.Close()

	if err := sink.Start(context.Background()); err != ErrSinkClosed {
		t.Errorf("Start after close: expected ErrSinkClosed, got %v", err)
	}
}

func TestAudioChunk_Bytes(t *testing.T) {
	chunk := AudioChunk{Samples: []int16{0x0102, -2}, SampleRate: 44100, Channels: 1}
	b := chunk.Bytes()
	want := []byte{0x02, 0x01, 0xfe, 0xff}
	if len(b) != len(want) {
		t.Fatalf("len = %d, want %d", len(b), len(want))
	}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, b[i], want[i])
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"zero channels", func(c *Config) { c.Channels = 0 }, true},
		{"negative block", func(c *Config) { c.BlockSize = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_MockBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock

	sink, err := NewSink(cfg, nil)
	if err != nil {
		t.Fatalf("NewSink failed: %v", err)
	}
	defer sink.Close()

	if sink.Name() != "mock" {
		t.Errorf("Name = %q, want mock", sink.Name())
	}
}

func TestFactory_UnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = Backend("pulse")

	if _, err := NewSink(cfg, nil); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
