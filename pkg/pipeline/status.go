package pipeline

import (
	"time"

	"github.com/somaticlab/stillwave/pkg/audioio"
	"github.com/somaticlab/stillwave/pkg/chaos"
	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/synth"
)

// Status is a point-in-time snapshot of the running pipeline, shaped
// for the dashboard's status websocket.
type Status struct {
	Mode          Mode           `json:"mode"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Frames        int64          `json:"frames"`
	CaptureErrors int64          `json:"capture_errors"`
	Motion        motion.Metrics `json:"motion"`
	Chaos         chaos.State    `json:"chaos"`
	Params        synth.Params   `json:"params"`
	AudioEnabled  bool           `json:"audio_enabled"`
	OutputLevel   float64        `json:"output_level"`
	LastError     string         `json:"last_error,omitempty"`
}

// Snapshot captures the current pipeline state. Safe to call from any
// goroutine.
func (o *Orchestrator) Snapshot() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var uptime float64
	if !o.startedAt.IsZero() {
		uptime = time.Since(o.startedAt).Seconds()
	}
	return Status{
		Mode:          o.cfg.Mode,
		UptimeSeconds: uptime,
		Frames:        o.frames,
		CaptureErrors: o.captureErrs,
		Motion:        o.lastMetrics,
		Chaos:         o.calc.State(),
		Params:        o.lastParams,
		AudioEnabled:  o.audioEnabled,
		OutputLevel:   o.outputLevel,
		LastError:     o.lastErr,
	}
}

// SinkStats reports playback statistics when the sink exposes them.
func (o *Orchestrator) SinkStats() (audioio.SinkStats, bool) {
	if s, ok := o.sink.(audioio.SinkWithStats); ok {
		return s.Stats(), true
	}
	return audioio.SinkStats{}, false
}
