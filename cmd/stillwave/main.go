// Stillwave - motion-driven generative audio.
//
// Captures the camera, quantifies body motion, folds it into a chaos
// score and synthesizes binaural audio from it. Serves the dashboard on
// the configured port.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/somaticlab/stillwave/internal/config"
	"github.com/somaticlab/stillwave/internal/log"
	"github.com/somaticlab/stillwave/pkg/audioio"
	"github.com/somaticlab/stillwave/pkg/debug"
	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/pipeline"
	"github.com/somaticlab/stillwave/pkg/vision"
	"github.com/somaticlab/stillwave/pkg/web"
)

func main() {
	camera := flag.Int("camera", config.CameraIndex(), "camera device index")
	port := flag.String("port", config.HTTPPort(), "dashboard port")
	noAudio := flag.Bool("no-audio", false, "start with speaker output disabled")
	verbose := flag.Bool("v", false, "verbose debug output")
	flag.Parse()

	log.Init(config.LogLevel())
	debug.Enabled = *verbose

	fmt.Println("🌊 Stillwave")
	fmt.Println("============")
	fmt.Printf("Camera: %d  Dashboard: http://localhost:%s\n\n", *camera, *port)

	webcamCfg := vision.DefaultWebcamConfig()
	webcamCfg.DeviceIndex = *camera
	source, err := vision.OpenWebcam(webcamCfg)
	if err != nil {
		fmt.Printf("❌ Camera open failed: %v\n", err)
		os.Exit(1)
	}

	analyzer, err := motion.NewAnalyzer(motion.DefaultConfig())
	if err != nil {
		fmt.Printf("❌ Analyzer setup failed: %v\n", err)
		source.Close()
		os.Exit(1)
	}

	audioCfg := audioio.DefaultConfig()
	audioCfg.SampleRate = config.SampleRate()
	sink, err := audioio.NewSink(audioCfg, log.L())
	if err != nil {
		fmt.Printf("❌ Audio sink setup failed: %v\n", err)
		source.Close()
		os.Exit(1)
	}

	cfg := pipeline.DefaultConfig()
	cfg.Mode = pipeline.ModeLive
	cfg.AudioEnabled = !*noAudio
	cfg.Synth.SampleRate = audioCfg.SampleRate

	orch, err := pipeline.New(cfg, source, analyzer, sink, log.L())
	if err != nil {
		fmt.Printf("❌ Pipeline setup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := orch.Start(ctx); err != nil {
		fmt.Printf("❌ Pipeline start failed: %v\n", err)
		os.Exit(1)
	}

	server := web.NewServer(web.DefaultServerConfig(*port, cfg.Synth.SampleRate), orch, log.L())
	server.StartAsync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\n👋 Shutting down...")

	server.Shutdown()
	orch.Stop()
}
