// Command render-adsr renders an envelope-shaped sine voice to a WAV file.
//
// Usage:
//
//	render-adsr -attack 10 -decay 100 -sustain 0.5 -release 50 note.wav
//	render-adsr -freq 220 -gate 500 -dur 1000 -stereo note.wav
//	render-adsr -retrigger note.wav   # steal the voice mid-gate
//	render-adsr -fast note.wav        # float32 render path
//
// The gate flag controls how long the note is held before Release is
// called; rendering continues until the envelope returns to idle or the
// total duration elapses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

const (
	// CLI defaults
	defaultSampleRate = 44100
	defaultAttackMs   = 10.0
	defaultDecayMs    = 100.0
	defaultSustain    = 0.5
	defaultReleaseMs  = 50.0
	defaultFreqHz     = 440.0
	defaultGateMs     = 500.0
	defaultDurMs      = 1000.0
	defaultVelocity   = 1.0
	defaultGain       = 0.8

	minRequiredArgs = 1
)

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
	freq := flag.Float64("freq", defaultFreqHz, "Oscillator frequency in Hz")
	gate := flag.Float64("gate", defaultGateMs, "Gate (note hold) time in ms")
	dur := flag.Float64("dur", defaultDurMs, "Maximum render duration in ms")
	velocity := flag.Float64("velocity", defaultVelocity, "Note velocity / envelope depth (0-1)")
	gain := flag.Float64("gain", defaultGain, "Master gain applied to the rendered buffer")
	drum := flag.Bool("drum", false, "AD-only envelope (no sustain plateau)")
	stereo := flag.Bool("stereo", false, "Write a stereo file (duplicated channel)")
	retrigger := flag.Bool("retrigger", false, "Steal the voice mid-gate to demonstrate the retrigger fade")
	fast := flag.Bool("fast", false, "Render in float32 precision")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	outputPath := args[0]

	spec := renderSpec{
		sampleRate: *rate,
		attackMs:   *attack,
		decayMs:    *decay,
		sustain:    *sustain,
		releaseMs:  *release,
		freqHz:     *freq,
		gateMs:     *gate,
		durMs:      *dur,
		velocity:   *velocity,
		gain:       *gain,
		drum:       *drum,
		retrigger:  *retrigger,
	}

	var (
		frames   int
		channels int
		err      error
	)
	if *fast {
		frames, channels, err = renderToWAV[float32](outputPath, spec, *stereo)
	} else {
		frames, channels, err = renderToWAV[float64](outputPath, spec, *stereo)
	}
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Output: %s", outputPath)
		log.Printf("Format: %d Hz, %d channel(s), 16-bit", spec.sampleRate, channels)
		log.Printf("Rendered %d frames (%.1f ms)", frames,
			float64(frames)*1000/float64(spec.sampleRate))
	}
	return nil
}
