package adsr

import (
	"github.com/luciascarlet/iPlug2-LE/internal/ramp"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Envelope is a sample-accurate ADSR envelope generator for a single
// synthesizer voice. It converts trigger events (Start, Release,
// Retrigger, Kill) plus a small set of timing and level parameters into
// a control signal in [0, 1], scaled by a depth level, produced one
// sample at a time by [Envelope.Process].
//
// Beyond the four canonical stages the envelope has two internal
// anti-click ramps: a 3 ms fade used when a sounding voice is stolen
// (Retrigger) and a 20 ms fade used by a soft kill. Both land in a
// well-defined state without an output discontinuity.
//
// All control methods mutate state read by Process; see the package
// documentation for the synchronization contract between the control
// plane and the audio plane.
type Envelope[F Float] struct {
	sampleRate F

	// Stage durations in milliseconds, cached so that a sample rate
	// change can rebuild every per-sample increment.
	attackTimeMs  F
	decayTimeMs   F
	releaseTimeMs F

	// Per-sample increments. Attack and the two fixed internal ramps
	// are linear; decay and release are exponential decay rates.
	attackIncr           F
	decayIncr            F
	releaseIncr          F
	earlyReleaseIncr     F
	retriggerReleaseIncr F

	stage         Stage
	envValue      F // normalized ramp position, nominal range [0, 1]
	level         F // output depth, usually tied to note velocity
	releaseLevel  F // raw output captured when a release ramp began
	newStartLevel F // depth to adopt once a retrigger ramp completes
	prevResult    F // last output before depth scaling
	prevOutput    F // last output after depth scaling
	scalar        F // rate scalar applied to the stage increments

	released       bool
	sustainEnabled bool

	resetFunc      func()
	endReleaseFunc func()
}

// SetStageTime sets the duration of the attack, decay or release stage
// and recomputes its per-sample increment. The duration is clamped to
// [MinStageTimeMs, MaxStageTimeMs]. Any other stage argument is a
// silent no-op.
func (e *Envelope[F]) SetStageTime(stage Stage, timeMs F) {
	switch stage {
	case StageAttack:
		e.attackTimeMs = ramp.Clamp(timeMs, MinStageTimeMs, MaxStageTimeMs)
		e.attackIncr = ramp.LinearIncrement(e.attackTimeMs, e.sampleRate)
	case StageDecay:
		e.decayTimeMs = ramp.Clamp(timeMs, MinStageTimeMs, MaxStageTimeMs)
		e.decayIncr = ramp.ExponentialIncrement(e.decayTimeMs, e.sampleRate)
	case StageRelease:
		e.releaseTimeMs = ramp.Clamp(timeMs, MinStageTimeMs, MaxStageTimeMs)
		e.releaseIncr = ramp.ExponentialIncrement(e.releaseTimeMs, e.sampleRate)
	default:
		// Other stages have no configurable duration.
	}
}

// SetSampleRate sets the sample rate in Hz and recomputes every
// per-sample increment: the two fixed internal ramps, and the attack,
// decay and release increments from their cached durations. Stage
// times set before the rate change therefore survive it.
func (e *Envelope[F]) SetSampleRate(sr F) {
	e.sampleRate = sr
	e.earlyReleaseIncr = ramp.LinearIncrement(F(earlyReleaseTimeMs), sr)
	e.retriggerReleaseIncr = ramp.LinearIncrement(F(retriggerReleaseTimeMs), sr)

	if e.attackTimeMs > 0 {
		e.attackIncr = ramp.LinearIncrement(e.attackTimeMs, sr)
	}
	if e.decayTimeMs > 0 {
		e.decayIncr = ramp.ExponentialIncrement(e.decayTimeMs, sr)
	}
	if e.releaseTimeMs > 0 {
		e.releaseIncr = ramp.ExponentialIncrement(e.releaseTimeMs, sr)
	}
}

// Start triggers the envelope from any stage.
//
// level is the overall depth of the envelope, usually linked to note
// velocity. timeScalar scales the envelope's rates, for example to
// adjust stage rates based on the key pressed; pass 1 for no scaling.
// Non-positive scalars are treated as 1.
func (e *Envelope[F]) Start(level, timeScalar F) {
	e.stage = StageAttack
	e.envValue = 0
	e.level = level
	e.scalar = invScalar(timeScalar)
	e.released = false
}

// Release moves the envelope into the release stage from any stage,
// anchoring the release ramp at the previous raw output. Decay invokes
// this internally when sustain is disabled.
func (e *Envelope[F]) Release() {
	e.stage = StageRelease
	e.releaseLevel = e.prevResult
	e.envValue = 1
	e.released = true
}

// Retrigger begins the click-free voice-reuse path: a fade to silence
// over a fixed 3 ms, after which the attack restarts with depth
// newStartLevel and the reset hook fires. Used when voices are stolen
// to avoid clicks.
//
// timeScalar behaves as in [Envelope.Start].
func (e *Envelope[F]) Retrigger(newStartLevel, timeScalar F) {
	e.envValue = 1
	e.newStartLevel = newStartLevel
	e.scalar = invScalar(timeScalar)
	e.releaseLevel = e.prevResult
	e.stage = StageReleasedToRetrigger
	e.released = false
}

// Kill stops the envelope. A hard kill resets to idle immediately,
// which may cause an audible glitch; callers should reserve it for
// block boundaries. A soft kill fades out over a fixed 20 ms before
// landing in idle. Both are no-ops when the envelope is already idle.
func (e *Envelope[F]) Kill(hard bool) {
	if e.stage == StageIdle {
		return
	}
	if hard {
		e.releaseLevel = 0
		e.stage = StageIdle
		e.envValue = 0
	} else {
		e.releaseLevel = e.prevResult
		e.stage = StageReleasedToEndEarly
		e.envValue = 1
	}
}

// SetResetFunc sets a hook called when a retrigger fade reaches zero,
// at the sample where the attack restarts. Useful for resetting a
// companion oscillator's phase. Pass nil for none.
//
// Must not be called on the audio thread: assigning a closure may
// allocate. The hook itself runs synchronously inside Process and must
// not block or allocate.
func (e *Envelope[F]) SetResetFunc(fn func()) { e.resetFunc = fn }

// SetEndReleaseFunc sets a hook called at the sample where a release or
// soft-kill ramp reaches idle, typically used to mark the voice slot
// free for reuse. Pass nil for none.
//
// The same audio-thread restrictions as [Envelope.SetResetFunc] apply.
func (e *Envelope[F]) SetEndReleaseFunc(fn func()) { e.endReleaseFunc = fn }

// GetBusy reports whether the envelope is in any stage other than idle.
func (e *Envelope[F]) GetBusy() bool { return e.stage != StageIdle }

// GetReleased reports whether the envelope has left its attack, decay or
// sustain path toward silence.
func (e *Envelope[F]) GetReleased() bool { return e.released }

// GetPrevOutput returns the previously output value, after depth scaling.
func (e *Envelope[F]) GetPrevOutput() F { return e.prevOutput }

// GetStage returns the current envelope stage.
func (e *Envelope[F]) GetStage() Stage { return e.stage }

// GetSampleRate returns the configured sample rate in Hz.
func (e *Envelope[F]) GetSampleRate() F { return e.sampleRate }

// invScalar converts a caller-facing time scalar into the internal rate
// multiplier, guarding against non-positive input.
func invScalar[F Float](timeScalar F) F {
	if timeScalar <= 0 {
		return 1
	}
	return 1 / timeScalar
}
