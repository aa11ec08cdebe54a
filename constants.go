package adsr

// Stage time limits in milliseconds. Durations passed to
// [Envelope.SetStageTime] are clamped to this range before the
// per-sample increment is computed.
const (
	// MinStageTimeMs is one sample at 44.1kHz.
	MinStageTimeMs = 0.022675736961451

	// MaxStageTimeMs is the longest representable stage duration.
	MaxStageTimeMs = 60000.0
)

// Fixed internal ramp durations in milliseconds. Both ramps are linear
// and are recomputed only when the sample rate changes.
const (
	// earlyReleaseTimeMs is the soft-kill fade duration.
	earlyReleaseTimeMs = 20.0

	// retriggerReleaseTimeMs is the voice-steal fade duration. Short
	// enough to be inaudible, long enough to avoid a click.
	retriggerReleaseTimeMs = 3.0
)

// Ramp value thresholds gating stage transitions.
const (
	// envValueLow is the -120 dB floor below which a decaying ramp is
	// considered finished.
	envValueLow = 0.000001

	// envValueHigh is the point at which the attack ramp snaps to 1.
	envValueHigh = 0.999
)

// defaultSampleRate is used when Config.SampleRate is zero.
const defaultSampleRate = 44100.0
