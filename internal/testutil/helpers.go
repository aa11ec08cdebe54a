// Package testutil provides reusable test helper functions for envelope tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for envelope test scenarios.
const (
	DefaultTolerance     = 1e-10
	ConvergenceTolerance = 1e-3
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertNonDecreasing verifies that a slice never steps downward, as an
// attack ramp must not between trigger and peak.
func AssertNonDecreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not non-decreasing",
				"s[%d]=%g < s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertNonIncreasing verifies that a slice never steps upward, as a
// decay ramp must not between peak and sustain.
func AssertNonIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] > s[i-1] {
			return assert.Fail(t, "not non-increasing",
				"s[%d]=%g > s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertStrictlyDecreasing verifies that every step moves downward, as a
// fade-out ramp must until it reaches silence.
func AssertStrictlyDecreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] >= s[i-1] {
			return assert.Fail(t, "not strictly decreasing",
				"s[%d]=%g >= s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertAllEqual verifies that every element equals the given constant,
// as an idle envelope's output must.
func AssertAllEqual(t *testing.T, s []float64, want float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != want {
			return assert.Fail(t, "value mismatch",
				"s[%d]=%g, want %g", i, v, want)
		}
	}
	return true
}

// AssertConvergesTo verifies that the tail of a slice settles within
// tolerance of target.
func AssertConvergesTo(t *testing.T, s []float64, target, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "empty slice")
	}
	last := s[len(s)-1]
	return assert.InDelta(t, target, last, tolerance,
		"tail value %g did not converge to %g", last, target)
}
