// Motion View - print live motion metrics from the camera.
//
// Capture and analysis only, no audio. Handy for checking that the
// classifier thresholds suit a room before a session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/somaticlab/stillwave/internal/config"
	"github.com/somaticlab/stillwave/internal/log"
	"github.com/somaticlab/stillwave/pkg/debug"
	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/vision"
)

func main() {
	camera := flag.Int("camera", config.CameraIndex(), "camera device index")
	rate := flag.Int("rate", 30, "capture rate in frames per second")
	verbose := flag.Bool("v", false, "log degenerate flow fields")
	flag.Parse()

	log.Init(config.LogLevel())
	debug.Enabled = *verbose
	debug.Motion = *verbose

	fmt.Println("👁  Motion View")
	fmt.Println("==============")
	fmt.Printf("Camera: %d at %d fps (Ctrl+C to stop)\n\n", *camera, *rate)

	webcamCfg := vision.DefaultWebcamConfig()
	webcamCfg.DeviceIndex = *camera
	source, err := vision.OpenWebcam(webcamCfg)
	if err != nil {
		fmt.Printf("❌ Camera open failed: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	analyzer, err := motion.NewAnalyzer(motion.DefaultConfig())
	if err != nil {
		fmt.Printf("❌ Analyzer setup failed: %v\n", err)
		os.Exit(1)
	}
	defer analyzer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Goodbye!")
		cancel()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := source.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Printf("capture error: %v\n", err)
			continue
		}

		m, err := analyzer.Analyze(frame)
		if err != nil {
			fmt.Printf("analyze error: %v\n", err)
			continue
		}

		fmt.Printf("\r%-6s energy=%.3f velocity=%.3f center=(%.2f, %.2f)   ",
			m.Type, m.Energy, m.Velocity, m.Center.X, m.Center.Y)
	}
}
