// Package ramp implements the per-sample increment math used by the
// envelope stages.
//
// A stage duration in milliseconds and a sample rate are mapped to a
// per-sample increment in one of two flavors: a linear ramp step that
// reaches 1.0 after exactly the requested duration, and an exponential
// decay rate that reaches the -60 dB point (0.001 of the initial value)
// after the requested duration.
package ramp

import "math"

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// msPerSecond converts millisecond durations to seconds.
const msPerSecond = 1000.0

// decayFloor is the -60 dB convergence target for exponential ramps.
const decayFloor = 0.001

// LinearIncrement returns the per-sample step of a linear ramp that
// travels from 0 to 1 in timeMs milliseconds at the given sample rate.
// Non-positive durations yield a zero increment, which callers treat as
// an instantaneous stage.
func LinearIncrement[F Float](timeMs, sampleRate F) F {
	if timeMs <= 0 {
		return 0
	}
	return F((1.0 / float64(sampleRate)) / (float64(timeMs) / msPerSecond))
}

// ExponentialIncrement returns the per-sample decay rate r such that
// repeatedly applying value -= r*value drives a value from 1.0 down to
// the -60 dB point in timeMs milliseconds at the given sample rate.
// Non-positive durations yield zero. The rate is clamped to at most 1.0;
// very short durations at high sample rates would otherwise overshoot
// and oscillate around zero.
func ExponentialIncrement[F Float](timeMs, sampleRate F) F {
	if timeMs <= 0 {
		return 0
	}
	r := -math.Expm1(msPerSecond * math.Log(decayFloor) / (float64(sampleRate) * float64(timeMs)))
	// The negated comparison also catches NaN from degenerate inputs.
	if !(r < 1.0) {
		r = 1.0
	}
	return F(r)
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[F Float](v, lo, hi F) F {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
