package adsr

import (
	"errors"
	"fmt"
	"math"
)

// Common errors returned at construction time. The real-time surface
// never returns errors; invalid control inputs degrade silently into a
// well-defined envelope shape instead.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid envelope configuration")
)

// Config holds envelope configuration.
type Config struct {
	// SampleRate is the audio sample rate in Hz.
	// Set to 0 to use the default of 44100.
	SampleRate float64

	// SustainDisabled selects the AD-only envelope variant: the decay
	// stage falls straight through to release instead of holding a
	// sustain plateau. Suitable for drums and other one-shot voices.
	SustainDisabled bool

	// AttackTimeMs, DecayTimeMs and ReleaseTimeMs are optional initial
	// stage durations in milliseconds. A zero value leaves the stage
	// instantaneous until SetStageTime is called.
	AttackTimeMs  float64
	DecayTimeMs   float64
	ReleaseTimeMs float64
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be a non-negative finite number", ErrInvalidConfig)
	}

	for _, timeMs := range []float64{c.AttackTimeMs, c.DecayTimeMs, c.ReleaseTimeMs} {
		if math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
			return fmt.Errorf("%w: stage times must be finite", ErrInvalidConfig)
		}
	}

	return nil
}

// New creates an envelope for one voice slot. The instance is intended
// to be constructed once and reused across the slot's entire lifetime;
// voice stealing reuses the same instance via Retrigger rather than
// allocating a new one.
func New[F Float](config *Config) (*Envelope[F], error) {
	if config == nil {
		config = &Config{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	sr := config.SampleRate
	if sr == 0 {
		sr = defaultSampleRate
	}

	e := &Envelope[F]{
		stage:          StageIdle,
		scalar:         1,
		released:       true,
		sustainEnabled: !config.SustainDisabled,
	}
	e.SetSampleRate(F(sr))

	if config.AttackTimeMs > 0 {
		e.SetStageTime(StageAttack, F(config.AttackTimeMs))
	}
	if config.DecayTimeMs > 0 {
		e.SetStageTime(StageDecay, F(config.DecayTimeMs))
	}
	if config.ReleaseTimeMs > 0 {
		e.SetStageTime(StageRelease, F(config.ReleaseTimeMs))
	}

	return e, nil
}
