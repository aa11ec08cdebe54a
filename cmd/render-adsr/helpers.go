package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	adsr "github.com/luciascarlet/iPlug2-LE"
	"github.com/luciascarlet/iPlug2-LE/internal/simdops"
)

// Float is the type constraint for the render precision.
type Float = simdops.Float

const (
	// WAV output format
	bitsPerSample = 16
	pcmFormat     = 1
	maxInt16      = 32767.0

	monoChannels   = 1
	stereoChannels = 2

	msPerSecond = 1000.0

	// retriggerVelocityScale is the depth of the stolen note in the
	// -retrigger demo, distinguishable from the first note by ear.
	retriggerVelocityScale = 0.8
)

// renderSpec carries the voice and envelope parameters for one render.
type renderSpec struct {
	sampleRate int
	attackMs   float64
	decayMs    float64
	sustain    float64
	releaseMs  float64
	freqHz     float64
	gateMs     float64
	durMs      float64
	velocity   float64
	gain       float64
	drum       bool
	retrigger  bool
}

// sineOsc is a minimal phase-accumulating sine oscillator. It stands in
// for the companion generator whose phase the envelope's reset hook
// would normally clear; it is a demo device, not part of the library.
type sineOsc[F Float] struct {
	phase     F
	phaseIncr F
}

func newSineOsc[F Float](freqHz F, sampleRate int) *sineOsc[F] {
	return &sineOsc[F]{
		phaseIncr: F(2 * math.Pi * float64(freqHz) / float64(sampleRate)),
	}
}

func (o *sineOsc[F]) next() F {
	v := F(math.Sin(float64(o.phase)))
	o.phase += o.phaseIncr
	if o.phase > F(2*math.Pi) {
		o.phase -= F(2 * math.Pi)
	}
	return v
}

func (o *sineOsc[F]) resetPhase() { o.phase = 0 }

// renderVoice produces one mono buffer of the envelope-shaped voice.
// The gate releases the envelope; rendering stops when the envelope
// goes idle or the duration budget runs out.
func renderVoice[F Float](spec renderSpec) ([]F, error) {
	env, err := adsr.New[F](&adsr.Config{
		SampleRate:      float64(spec.sampleRate),
		SustainDisabled: spec.drum,
		AttackTimeMs:    spec.attackMs,
		DecayTimeMs:     spec.decayMs,
		ReleaseTimeMs:   spec.releaseMs,
	})
	if err != nil {
		return nil, err
	}

	osc := newSineOsc[F](F(spec.freqHz), spec.sampleRate)
	env.SetResetFunc(osc.resetPhase)

	gateSamples := int(spec.gateMs * float64(spec.sampleRate) / msPerSecond)
	maxSamples := int(spec.durMs * float64(spec.sampleRate) / msPerSecond)
	stealSample := gateSamples / 2

	buf := make([]F, 0, maxSamples)
	env.Start(F(spec.velocity), 1)

	for i := 0; i < maxSamples; i++ {
		if spec.retrigger && i == stealSample {
			env.Retrigger(F(spec.velocity*retriggerVelocityScale), 1)
		}
		if i == gateSamples {
			env.Release()
		}
		buf = append(buf, osc.next()*env.Process(F(spec.sustain)))
		if i >= gateSamples && !env.GetBusy() {
			break
		}
	}
	return buf, nil
}

// renderToWAV renders the voice and writes a 16-bit PCM WAV file,
// returning the frame and channel counts.
func renderToWAV[F Float](path string, spec renderSpec, stereo bool) (frames, channels int, err error) {
	mono, err := renderVoice[F](spec)
	if err != nil {
		return 0, 0, err
	}

	ops := simdops.For[F]()
	ops.Scale(mono, mono, F(spec.gain))

	samples := mono
	channels = monoChannels
	if stereo {
		interleaved := make([]F, stereoChannels*len(mono))
		ops.Interleave2(interleaved, mono, mono)
		samples = interleaved
		channels = stereoChannels
	}

	return len(mono), channels, writeWAV(path, samples, spec.sampleRate, channels)
}

// writeWAV encodes interleaved samples as 16-bit PCM.
func writeWAV[F Float](path string, samples []F, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitsPerSample, channels, pcmFormat)

	data := make([]int, len(samples))
	for i, s := range samples {
		v := float64(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		data[i] = int(v * maxInt16)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitsPerSample,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return f.Close()
}
