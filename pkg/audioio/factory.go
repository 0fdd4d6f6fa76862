package audioio

import (
	"fmt"
	"log/slog"
)

// NewSink creates an audio sink with the given configuration.
// If cfg.Backend is BackendAuto, the speaker backend is selected.
func NewSink(cfg Config, logger *slog.Logger) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = BackendOto
	}

	logger.Info("creating audio sink",
		"backend", backend,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"block_size", cfg.BlockSize,
	)

	switch backend {
	case BackendMock:
		return NewMockSink(cfg, logger), nil
	case BackendOto:
		return newOtoSink(cfg, logger)
	default:
		return nil, fmt.Errorf("audioio: unsupported backend: %s", backend)
	}
}
