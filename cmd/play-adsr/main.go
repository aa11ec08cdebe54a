// Command play-adsr auditions the envelope through the default audio
// output device.
//
// It plays a short scripted sequence on a single sine voice: note on,
// a mid-note voice steal through the retrigger fade, then note off.
// All trigger events are applied inside the audio callback at their
// scheduled sample positions, so the control-plane/audio-plane
// synchronization contract is honored by construction.
//
// Usage:
//
//	play-adsr
//	play-adsr -freq 220 -attack 50 -release 500
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	adsr "github.com/luciascarlet/iPlug2-LE"
)

const (
	defaultSampleRate = 44100
	defaultAttackMs   = 10.0
	defaultDecayMs    = 100.0
	defaultSustain    = 0.5
	defaultReleaseMs  = 250.0
	defaultFreqHz     = 440.0

	bytesPerSample = 4 // float32 LE

	// Script positions in seconds.
	stealAt   = 1.0
	releaseAt = 2.0

	// stealVelocity makes the stolen note audibly quieter.
	stealVelocity = 0.6

	playTimeout = 10 * time.Second
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
	flag.Parse()

	env, err := adsr.New[float32](&adsr.Config{
		SampleRate:    float64(*rate),
		AttackTimeMs:  *attack,
		DecayTimeMs:   *decay,
		ReleaseTimeMs: *release,
	})
	if err != nil {
		return err
	}

	voice := &scriptedVoice{
		env:           env,
		sustain:       float32(*sustain),
		phaseIncr:     2 * math.Pi * *freq / float64(*rate),
		stealSample:   int(stealAt * float64(*rate)),
		releaseSample: int(releaseAt * float64(*rate)),
		done:          make(chan struct{}),
	}
	env.SetResetFunc(voice.resetPhase)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(voice)
	player.Play()
	defer player.Close()

	log.Printf("note on — steal at %.0fs — note off at %.0fs", stealAt, releaseAt)
	select {
	case <-voice.done:
		// Let the device drain the tail of the release.
		time.Sleep(200 * time.Millisecond)
	case <-time.After(playTimeout):
		log.Print("timed out waiting for the envelope to finish")
	}
	return nil
}

// scriptedVoice generates the demo signal sample by sample inside the
// audio callback.
type scriptedVoice struct {
	env     *adsr.Envelope[float32]
	sustain float32

	phase     float64
	phaseIncr float64

	pos           int
	started       bool
	stealSample   int
	releaseSample int

	done     chan struct{}
	doneSent bool
}

func (v *scriptedVoice) resetPhase() { v.phase = 0 }

// Read fills p with float32 little-endian samples. It implements
// io.Reader for oto's player.
func (v *scriptedVoice) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	for i := range n {
		if !v.started {
			v.env.Start(1, 1)
			v.started = true
		}
		if v.pos == v.stealSample {
			v.env.Retrigger(stealVelocity, 1)
		}
		if v.pos == v.releaseSample {
			v.env.Release()
		}

		s := float32(math.Sin(v.phase)) * v.env.Process(v.sustain)
		v.phase += v.phaseIncr
		if v.phase > 2*math.Pi {
			v.phase -= 2 * math.Pi
		}

		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(s))
		v.pos++

		if !v.doneSent && v.pos > v.releaseSample && !v.env.GetBusy() {
			v.doneSent = true
			close(v.done)
		}
	}
	return n * bytesPerSample, nil
}
