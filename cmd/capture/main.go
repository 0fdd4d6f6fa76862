// Capture - save timestamped snapshots from the camera.
//
// Writes one JPEG per interval into the output directory. Used to
// collect footage for tuning the flow parameters against real rooms.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/somaticlab/stillwave/internal/config"
)

func main() {
	camera := flag.Int("camera", config.CameraIndex(), "camera device index")
	outDir := flag.String("out", "./captures", "output directory")
	interval := flag.Duration("interval", 2*time.Second, "time between snapshots")
	flag.Parse()

	fmt.Println("📷 Capture")
	fmt.Println("==========")
	fmt.Printf("Camera: %d  Output: %s  Interval: %v\n\n", *camera, *outDir, *interval)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Printf("❌ Cannot create output directory: %v\n", err)
		os.Exit(1)
	}

	webcam, err := gocv.OpenVideoCapture(*camera)
	if err != nil {
		fmt.Printf("❌ Camera open failed: %v\n", err)
		os.Exit(1)
	}
	defer webcam.Close()

	img := gocv.NewMat()
	defer img.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	saved := 0
	for {
		select {
		case <-sigChan:
			fmt.Printf("\n👋 Saved %d snapshots\n", saved)
			return
		case <-ticker.C:
		}

		if ok := webcam.Read(&img); !ok || img.Empty() {
			fmt.Println("⚠️  Empty frame, skipping")
			continue
		}

		name := filepath.Join(*outDir, time.Now().Format("20060102-150405.000")+".jpg")
		if ok := gocv.IMWrite(name, img); !ok {
			fmt.Printf("⚠️  Write failed: %s\n", name)
			continue
		}
		saved++
		fmt.Printf("\r💾 %s (%d)   ", name, saved)
	}
}
