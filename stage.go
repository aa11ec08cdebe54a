package adsr

// Stage identifies the current envelope stage.
//
// The numeric values mirror the classic convention of coding the
// released-early ramps and the idle state as negative, with the normal
// ADSR progression counting up from zero. The values are identity tags
// only; no logic orders or compares them.
type Stage int

const (
	// StageReleasedToEndEarly is a short fixed-duration linear fade to
	// silence used by a soft kill, ending in StageIdle.
	StageReleasedToEndEarly Stage = iota - 3

	// StageReleasedToRetrigger is a short fixed-duration linear fade to
	// silence used when a voice is stolen, ending in StageAttack.
	StageReleasedToRetrigger

	// StageIdle means the envelope is producing no movement. The output
	// holds at the last ramp value, normally zero.
	StageIdle

	// StageAttack ramps linearly from 0 to 1.
	StageAttack

	// StageDecay decays exponentially from 1 toward the sustain level.
	StageDecay

	// StageSustain holds the sustain level until an explicit release.
	StageSustain

	// StageRelease decays exponentially from the release start level to
	// silence, ending in StageIdle.
	StageRelease
)

// String returns a short human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageReleasedToEndEarly:
		return "released-to-end-early"
	case StageReleasedToRetrigger:
		return "released-to-retrigger"
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}
