// Chaos Sweep - print the parameter mapping across the score range.
//
// Pure offline table, no camera or audio. Useful when retuning the
// mapping formulas: run before and after and diff the output.
package main

import (
	"flag"
	"fmt"

	"github.com/somaticlab/stillwave/pkg/chaos"
)

func main() {
	steps := flag.Int("steps", 20, "number of score steps")
	centerX := flag.Float64("center", 0.5, "horizontal motion center [0,1]")
	flag.Parse()

	fmt.Println("📈 Chaos Sweep")
	fmt.Println("==============")
	fmt.Printf("%-7s %-16s %-9s %-9s %-9s %-9s %-9s %-9s %-7s\n",
		"score", "label", "freq", "binaural", "lfo_rate", "lfo_dep", "fm", "noise", "grain")

	for i := 0; i <= *steps; i++ {
		score := float64(i) / float64(*steps)
		p := chaos.ParamsFor(score, *centerX)
		fmt.Printf("%-7.3f %-16s %-9.1f %-9.2f %-9.2f %-9.3f %-9.1f %-9.3f %-7.1f\n",
			score, chaos.Label(score), p.BaseFreq, p.BinauralDiff,
			p.LFORate, p.LFODepth, p.FMAmount, p.NoiseAmount, p.GrainRate)
	}
}
