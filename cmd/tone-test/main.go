// Tone Test - drive the synthesis engine straight into the speaker.
//
// No camera involved: the chaos score is swept up and back down on a
// timer so every layer of the synthesis (binaural beat, tremolo, FM,
// grains, noise) can be heard in order.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/somaticlab/stillwave/internal/config"
	"github.com/somaticlab/stillwave/internal/log"
	"github.com/somaticlab/stillwave/pkg/audioio"
	"github.com/somaticlab/stillwave/pkg/chaos"
	"github.com/somaticlab/stillwave/pkg/synth"
)

func main() {
	period := flag.Duration("period", 20*time.Second, "full sweep period")
	flag.Parse()

	log.Init(config.LogLevel())

	fmt.Println("🔊 Tone Test")
	fmt.Println("============")
	fmt.Printf("Sweeping chaos 0 → 1 → 0 every %v (Ctrl+C to stop)\n\n", *period)

	engine, err := synth.NewEngine(synth.DefaultConfig())
	if err != nil {
		fmt.Printf("❌ Engine setup failed: %v\n", err)
		os.Exit(1)
	}

	sink, err := audioio.NewSink(audioio.DefaultConfig(), log.L())
	if err != nil {
		fmt.Printf("❌ Audio sink setup failed: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Goodbye!")
		cancel()
	}()

	if err := sink.Start(ctx); err != nil {
		fmt.Printf("❌ Audio start failed: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	pcm := make([]int16, engine.Config().BlockSize*2)
	for ctx.Err() == nil {
		// Triangle sweep 0 -> 1 -> 0 over the period.
		phase := math.Mod(time.Since(start).Seconds(), period.Seconds()) / period.Seconds()
		score := 1 - math.Abs(2*phase-1)
		engine.SetParams(chaos.ParamsFor(score, 0.5))

		engine.RenderPCM16(pcm)
		chunk := audioio.AudioChunk{Samples: pcm, SampleRate: engine.Config().SampleRate, Channels: 2}
		if err := sink.Write(ctx, chunk); err != nil {
			if ctx.Err() == nil {
				fmt.Printf("❌ Write failed: %v\n", err)
			}
			return
		}
		fmt.Printf("\rchaos=%.3f %-16s   ", score, chaos.Label(score))
	}
}
