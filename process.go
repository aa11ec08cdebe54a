package adsr

// Process advances the envelope by exactly one sample and returns the
// depth-scaled output.
//
// The sustain level is supplied per call rather than stored, so that it
// can be smoothed externally to avoid discontinuities without the
// envelope needing any awareness of the smoothing.
//
// Process performs no allocation, no locking and no blocking, and its
// per-sample cost is O(1); it is safe to call in a tight audio-thread
// loop.
func (e *Envelope[F]) Process(sustainLevel F) F {
	var result F

	switch e.stage {
	case StageIdle:
		result = e.envValue

	case StageAttack:
		e.envValue += e.attackIncr * e.scalar
		if e.envValue > envValueHigh || e.attackIncr == 0 {
			e.stage = StageDecay
			e.envValue = 1
		}
		result = e.envValue

	case StageDecay:
		e.envValue -= e.decayIncr * e.envValue * e.scalar
		result = e.envValue*(1-sustainLevel) + sustainLevel
		if e.envValue < envValueLow {
			if e.sustainEnabled {
				e.stage = StageSustain
				e.envValue = 1
				result = sustainLevel
			} else {
				e.Release()
			}
		}

	case StageSustain:
		result = sustainLevel

	case StageRelease:
		e.envValue -= e.releaseIncr * e.envValue * e.scalar
		if e.envValue < envValueLow || e.releaseIncr == 0 {
			e.stage = StageIdle
			e.envValue = 0
			if e.endReleaseFunc != nil {
				e.endReleaseFunc()
			}
		}
		result = e.envValue * e.releaseLevel

	case StageReleasedToRetrigger:
		// Fixed linear fade, deliberately not rate-scaled.
		e.envValue -= e.retriggerReleaseIncr
		if e.envValue < envValueLow {
			e.stage = StageAttack
			e.level = e.newStartLevel
			e.envValue = 0
			e.prevResult = 0
			e.releaseLevel = 0
			if e.resetFunc != nil {
				e.resetFunc()
			}
		}
		result = e.envValue * e.releaseLevel

	case StageReleasedToEndEarly:
		e.envValue -= e.earlyReleaseIncr
		if e.envValue < envValueLow {
			e.stage = StageIdle
			e.level = 0
			e.envValue = 0
			e.prevResult = 0
			e.releaseLevel = 0
			if e.endReleaseFunc != nil {
				e.endReleaseFunc()
			}
		}
		result = e.envValue * e.releaseLevel

	default:
		result = e.envValue
	}

	e.prevResult = result
	e.prevOutput = result * e.level
	return e.prevOutput
}

// ProcessBlock fills out with one envelope sample per element, for
// block-based hosts. Equivalent to len(out) Process calls and just as
// allocation-free.
func (e *Envelope[F]) ProcessBlock(out []F, sustainLevel F) {
	for i := range out {
		out[i] = e.Process(sustainLevel)
	}
}

// ApplyBlock multiplies buf in place by the envelope, advancing it by
// one sample per element. This is the typical amplitude-envelope use on
// an oscillator's output buffer.
func (e *Envelope[F]) ApplyBlock(buf []F, sustainLevel F) {
	for i := range buf {
		buf[i] *= e.Process(sustainLevel)
	}
}
