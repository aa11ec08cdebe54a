// Command analyze-adsr prints the measured stage timeline of an
// envelope configuration.
//
// It drives the envelope through a complete note at the given sample
// rate, records every output sample, and reports where each stage
// boundary actually lands, together with level statistics for the
// rendered curve. Useful for sanity-checking stage times against what
// the per-sample state machine really does.
//
// Usage:
//
//	analyze-adsr -attack 10 -decay 100 -sustain 0.5 -release 50
//	analyze-adsr -rate 96000 -drum
package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	adsr "github.com/luciascarlet/iPlug2-LE"
)

const (
	defaultSampleRate = 44100
	defaultAttackMs   = 10.0
	defaultDecayMs    = 100.0
	defaultSustain    = 0.5
	defaultReleaseMs  = 50.0
	defaultGateMs     = 500.0

	msPerSecond = 1000.0

	// maxAnalysisSeconds bounds the run for degenerate configurations.
	maxAnalysisSeconds = 180
)

// stageEvent records where a stage began in the rendered timeline.
type stageEvent struct {
	stage  adsr.Stage
	sample int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rate := flag.Int("rate", defaultSampleRate, "Sample rate in Hz")
	attack := flag.Float64("attack", defaultAttackMs, "Attack time in ms")
	decay := flag.Float64("decay", defaultDecayMs, "Decay time in ms")
	sustain := flag.Float64("sustain", defaultSustain, "Sustain level (0-1)")
	release := flag.Float64("release", defaultReleaseMs, "Release time in ms")
	gate := flag.Float64("gate", defaultGateMs, "Gate (note hold) time in ms")
	drum := flag.Bool("drum", false, "AD-only envelope (no sustain plateau)")
	flag.Parse()

	env, err := adsr.New[float64](&adsr.Config{
		SampleRate:      float64(*rate),
		SustainDisabled: *drum,
		AttackTimeMs:    *attack,
		DecayTimeMs:     *decay,
		ReleaseTimeMs:   *release,
	})
	if err != nil {
		return err
	}

	curve, events := traceNote(env, *sustain, int(*gate*float64(*rate)/msPerSecond), *rate*maxAnalysisSeconds)

	fmt.Printf("Envelope: attack %.3g ms, decay %.3g ms, sustain %.2f, release %.3g ms @ %d Hz\n",
		*attack, *decay, *sustain, *release, *rate)
	fmt.Printf("Rendered %d samples (%.1f ms)\n\n", len(curve),
		float64(len(curve))*msPerSecond/float64(*rate))

	fmt.Println("Stage timeline:")
	for _, ev := range events {
		fmt.Printf("  %8d  (%9.3f ms)  %s\n",
			ev.sample, float64(ev.sample)*msPerSecond/float64(*rate), ev.stage)
	}

	fmt.Println("\nCurve statistics:")
	fmt.Printf("  peak      %.6f\n", floats.Max(curve))
	fmt.Printf("  floor     %.6f\n", floats.Min(curve))
	fmt.Printf("  mean      %.6f\n", floats.Sum(curve)/float64(len(curve)))
	fmt.Printf("  final     %.6f\n", curve[len(curve)-1])

	return nil
}

// traceNote drives a full note through the envelope, collecting the
// output curve and the sample index at which each stage began.
func traceNote(env *adsr.Envelope[float64], sustain float64, gateSamples, maxSamples int) ([]float64, []stageEvent) {
	curve := make([]float64, 0, gateSamples)
	events := []stageEvent{{adsr.StageAttack, 0}}

	env.Start(1, 1)
	prev := env.GetStage()

	for i := 0; i < maxSamples; i++ {
		if i == gateSamples {
			env.Release()
		}
		curve = append(curve, env.Process(sustain))

		if stage := env.GetStage(); stage != prev {
			events = append(events, stageEvent{stage, i})
			prev = stage
		}
		if i >= gateSamples && !env.GetBusy() {
			break
		}
	}
	return curve, events
}
