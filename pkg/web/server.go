// Package web serves the dashboard: REST control endpoints plus two
// websocket feeds, one for JSON status frames and one for Opus monitor
// audio.
package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/somaticlab/stillwave/pkg/hub"
	"github.com/somaticlab/stillwave/pkg/pipeline"
	"github.com/somaticlab/stillwave/pkg/stream"
)

// Controller is the pipeline surface the dashboard drives.
// *pipeline.Orchestrator implements it.
type Controller interface {
	Snapshot() pipeline.Status
	Reset()
	SetAudioEnabled(enabled bool)
	SetDecayTime(d time.Duration) error
	SetWeights(local, global float64) error
	SetMonitor(fn func(pcm []int16))
}

// Config holds dashboard server settings.
type Config struct {
	Port       string
	SampleRate int    // engine rate, for the monitor encoder
	StaticDir  string // dashboard assets; empty disables static serving
	StatusRate int    // status broadcasts per second
}

// DefaultServerConfig returns the standard dashboard configuration.
func DefaultServerConfig(port string, sampleRate int) Config {
	return Config{
		Port:       port,
		SampleRate: sampleRate,
		StaticDir:  "./web",
		StatusRate: 10,
	}
}

// Server is the dashboard web server.
type Server struct {
	cfg    Config
	logger *slog.Logger
	app    *fiber.App
	ctrl   Controller

	statusHub *hub.Hub
	audioHub  *hub.Hub
	encoder   *stream.Encoder

	done chan struct{}
}

// NewServer creates the dashboard server around a running pipeline.
func NewServer(cfg Config, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StatusRate <= 0 {
		cfg.StatusRate = 10
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger.With("component", "web"),
		ctrl:      ctrl,
		statusHub: hub.New("status", logger),
		audioHub:  hub.New("audio", logger),
		done:      make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Stillwave Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/reset", s.handleReset)
	api.Post("/audio", s.handleAudio)
	api.Post("/config", s.handleConfig)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/audio", websocket.New(s.handleAudioWS))

	s.app = app
	return s
}

// Start runs the hubs, the status broadcaster and the listener. Blocks
// until Shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.audioHub.Run()
	go s.broadcastLoop()
	s.attachMonitor()

	s.logger.Info("dashboard listening", "addr", "http://localhost:"+s.cfg.Port)
	return s.app.Listen(":" + s.cfg.Port)
}

// StartAsync runs Start in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
}

// attachMonitor taps the render loop and fans Opus packets out to the
// audio websocket. Without libopus the dashboard still works, just
// without monitor audio.
func (s *Server) attachMonitor() {
	enc, err := stream.NewEncoder(s.cfg.SampleRate, 2, s.logger)
	if err != nil {
		s.logger.Warn("monitor stream disabled", "error", err)
		return
	}
	s.encoder = enc

	s.ctrl.SetMonitor(func(pcm []int16) {
		if s.audioHub.ClientCount() == 0 {
			return
		}
		packets, err := enc.Push(pcm)
		if err != nil {
			s.logger.Error("monitor encode failed", "error", err)
			return
		}
		for _, p := range packets {
			s.audioHub.BroadcastBinary(p)
		}
	})
}

// broadcastLoop pushes pipeline snapshots to the status hub.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.StatusRate))
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if s.statusHub.ClientCount() == 0 {
				continue
			}
			if err := s.statusHub.BroadcastJSON(s.ctrl.Snapshot()); err != nil {
				s.logger.Error("status broadcast failed", "error", err)
			}
		}
	}
}

// handleStatusWS serves the status websocket via the hub.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}

// handleAudioWS serves the Opus monitor websocket via the hub.
func (s *Server) handleAudioWS(c *websocket.Conn) {
	client := hub.NewClient(s.audioHub, c)
	client.Run()
}

// ClientCounts returns connected client counts per feed.
func (s *Server) ClientCounts() (status, audio int) {
	return s.statusHub.ClientCount(), s.audioHub.ClientCount()
}

// Shutdown stops the listener and both hubs.
func (s *Server) Shutdown() error {
	close(s.done)
	s.ctrl.SetMonitor(nil)
	s.statusHub.Stop()
	s.audioHub.Stop()
	return s.app.Shutdown()
}
