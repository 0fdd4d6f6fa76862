// Simulate - run the full pipeline against synthetic frames.
//
// No camera required. Useful for tuning the chaos response and for
// demoing the dashboard: pick a scene and watch the score react.
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
	"github.com/somaticlab/stillwave/pkg/audioio"
	"github.com/somaticlab/stillwave/pkg/motion"
	"github.com/somaticlab/stillwave/pkg/pipeline"
	"github.com/somaticlab/stillwave/pkg/vision"
	"github.com/somaticlab/stillwave/pkg/web"
)

func main() {
	scene := flag.String("scene", string(vision.SceneWalk), "scene: still, sway or walk")
	port := flag.String("port", config.HTTPPort(), "dashboard port")
	silent := flag.Bool("silent", false, "use the mock sink instead of the speaker")
	flag.Parse()

	log.Init(config.LogLevel())

	fmt.Println("🌊 Stillwave Simulator")
	fmt.Println("======================")
	fmt.Printf("Scene: %s  Dashboard: http://localhost:%s\n\n", *scene, *port)

	synthCfg := vision.DefaultSyntheticConfig()
	synthCfg.Scene = vision.Scene(*scene)
	source := vision.NewSynthetic(synthCfg)

	analyzer, err := motion.NewAnalyzer(motion.DefaultConfig())
	if err != nil {
		fmt.Printf("❌ Analyzer setup failed: %v\n", err)
		os.Exit(1)
	}

	audioCfg := audioio.DefaultConfig()
	if *silent {
		audioCfg.Backend = audioio.BackendMock
	}
	sink, err := audioio.NewSink(audioCfg, log.L())
	if err != nil {
		fmt.Printf("❌ Audio sink setup failed: %v\n", err)
		os.Exit(1)
	}
	if mock, ok := sink.(*audioio.MockSink); ok {
		mock.Realtime = true
	}

	cfg := pipeline.DefaultConfig()
	cfg.Mode = pipeline.ModeSimulated

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

	// Print a status line once a second until interrupted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st := orch.Snapshot()
			fmt.Printf("chaos=%.3f (%s)  %s  freq=%.0fHz  level=%.4f\n",
				st.Chaos.Score, st.Chaos.Label, st.Motion.Type,
				st.Params.BaseFreq, st.OutputLevel)
		case <-sigChan:
			fmt.Println("\n👋 Shutting down...")
			server.Shutdown()
			orch.Stop()
			return
		}
	}
}
