package adsr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luciascarlet/iPlug2-LE/internal/testutil"
)

const (
	// Test envelope parameters
	testSampleRate = 44100.0
	testAttackMs   = 10.0
	testDecayMs    = 100.0
	testReleaseMs  = 50.0
	testSustain    = 0.5
	testVelocity   = 1.0

	// Derived sample counts at 44.1kHz
	attackSamples10ms        = 441  // 10ms linear ramp
	softKillSamples          = 882  // 20ms fixed early-release ramp
	retriggerSamples         = 133  // 3ms fixed retrigger ramp (ceil)
	decaySettleBudgetSamples = 20000

	// Safety cap for run-until-stage loops
	maxRunSamples = 1 << 20
)

// newTestEnvelope builds a float64 envelope with the standard test
// parameters.
func newTestEnvelope(t *testing.T) *Envelope[float64] {
	t.Helper()
	env, err := New[float64](&Config{
		SampleRate:    testSampleRate,
		AttackTimeMs:  testAttackMs,
		DecayTimeMs:   testDecayMs,
		ReleaseTimeMs: testReleaseMs,
	})
	require.NoError(t, err)
	return env
}

// runToStage drives Process until the envelope reaches the target stage,
// returning the outputs produced (including the transition sample).
func runToStage(t *testing.T, env *Envelope[float64], sustain float64, target Stage) []float64 {
	t.Helper()
	var outputs []float64
	for range maxRunSamples {
		outputs = append(outputs, env.Process(sustain))
		if env.GetStage() == target {
			return outputs
		}
	}
	t.Fatalf("envelope never reached stage %v", target)
	return nil
}

func TestNew_Defaults(t *testing.T) {
	env, err := New[float64](nil)
	require.NoError(t, err)

	assert.Equal(t, 44100.0, env.GetSampleRate())
	assert.Equal(t, StageIdle, env.GetStage())
	assert.False(t, env.GetBusy())
	assert.True(t, env.GetReleased())
	assert.Zero(t, env.GetPrevOutput())
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"negative_sample_rate", &Config{SampleRate: -44100}},
		{"nan_sample_rate", &Config{SampleRate: math.NaN()}},
		{"inf_attack", &Config{SampleRate: testSampleRate, AttackTimeMs: math.Inf(1)}},
		{"nan_release", &Config{SampleRate: testSampleRate, ReleaseTimeMs: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[float64](tt.config)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageReleasedToEndEarly, "released-to-end-early"},
		{StageReleasedToRetrigger, "released-to-retrigger"},
		{StageIdle, "idle"},
		{StageAttack, "attack"},
		{StageDecay, "decay"},
		{StageSustain, "sustain"},
		{StageRelease, "release"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stage.String())
	}
}

// TestSetStageTime_AttackDuration verifies the 10ms attack crosses into
// decay after exactly 441 samples at 44.1kHz.
func TestSetStageTime_AttackDuration(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)

	outputs := runToStage(t, env, testSustain, StageDecay)
	assert.Len(t, outputs, attackSamples10ms)
	assert.Equal(t, 1.0, outputs[len(outputs)-1],
		"ramp value snaps to 1 at the decay transition")
}

// TestSetStageTime_OtherStagesIgnored verifies that stage arguments
// without a configurable duration are silent no-ops.
func TestSetStageTime_OtherStagesIgnored(t *testing.T) {
	env, err := New[float64](&Config{SampleRate: testSampleRate})
	require.NoError(t, err)

	env.SetStageTime(StageIdle, 500)
	env.SetStageTime(StageSustain, 500)
	env.SetStageTime(StageReleasedToRetrigger, 500)

	// With no attack time configured the attack must still complete
	// instantaneously on the first sample.
	env.Start(testVelocity, 1)
	out := env.Process(testSustain)
	assert.Equal(t, 1.0, out)
	assert.Equal(t, StageDecay, env.GetStage())
}

// TestSetStageTime_ClampsDuration verifies that absurd durations are
// clamped rather than rejected.
func TestSetStageTime_ClampsDuration(t *testing.T) {
	env, err := New[float64](&Config{SampleRate: testSampleRate})
	require.NoError(t, err)

	// Far beyond MaxStageTimeMs: clamped to 60s, so the attack must
	// still make progress every sample.
	env.SetStageTime(StageAttack, 1e9)
	env.Start(testVelocity, 1)
	first := env.Process(testSustain)
	second := env.Process(testSustain)
	assert.Positive(t, first)
	assert.Greater(t, second, first)
}

// TestSetSampleRate_RebuildsStageIncrements verifies that a sample rate
// change recomputes attack/decay/release coefficients from their cached
// durations: the same 10ms attack spans twice the samples at twice the
// rate.
func TestSetSampleRate_RebuildsStageIncrements(t *testing.T) {
	env := newTestEnvelope(t)
	env.SetSampleRate(2 * testSampleRate)

	env.Start(testVelocity, 1)
	outputs := runToStage(t, env, testSustain, StageDecay)
	assert.Len(t, outputs, 2*attackSamples10ms)
}

// TestStart_TimeScalar verifies rate scaling: a scalar of 2 doubles the
// attack duration, and non-positive scalars fall back to 1.
func TestStart_TimeScalar(t *testing.T) {
	tests := []struct {
		name        string
		timeScalar  float64
		wantSamples int
	}{
		{"unscaled", 1, attackSamples10ms},
		{"half_speed", 2, 2 * attackSamples10ms},
		{"double_speed", 0.5, (attackSamples10ms + 1) / 2},
		{"zero_treated_as_one", 0, attackSamples10ms},
		{"negative_treated_as_one", -3, attackSamples10ms},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnvelope(t)
			env.Start(testVelocity, tt.timeScalar)
			outputs := runToStage(t, env, testSustain, StageDecay)
			assert.Len(t, outputs, tt.wantSamples)
		})
	}
}

func TestKill_HardIsImmediate(t *testing.T) {
	stages := []struct {
		name  string
		drive func(env *Envelope[float64])
	}{
		{"from_attack", func(env *Envelope[float64]) {
			env.Start(testVelocity, 1)
			env.Process(testSustain)
		}},
		{"from_sustain", func(env *Envelope[float64]) {
			env.Start(testVelocity, 1)
			runToStage(t, env, testSustain, StageSustain)
		}},
		{"from_release", func(env *Envelope[float64]) {
			env.Start(testVelocity, 1)
			runToStage(t, env, testSustain, StageSustain)
			env.Release()
			env.Process(testSustain)
		}},
	}

	for _, tt := range stages {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnvelope(t)
			tt.drive(env)
			require.True(t, env.GetBusy())

			env.Kill(true)
			assert.False(t, env.GetBusy())
			assert.Zero(t, env.Process(testSustain),
				"the very next sample after a hard kill must be silent")
		})
	}
}

func TestKill_SoftFadesOut(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)
	runToStage(t, env, testSustain, StageSustain)

	var endReleaseCalls int
	env.SetEndReleaseFunc(func() { endReleaseCalls++ })

	env.Kill(false)
	assert.Equal(t, StageReleasedToEndEarly, env.GetStage())

	outputs := runToStage(t, env, testSustain, StageIdle)
	assert.InDelta(t, softKillSamples, len(outputs), 1,
		"soft kill should span the fixed 20ms early-release ramp")
	testutil.AssertStrictlyDecreasing(t, outputs)
	assert.Zero(t, outputs[len(outputs)-1])
	assert.Equal(t, 1, endReleaseCalls)
}

func TestKill_NoOpWhenIdle(t *testing.T) {
	env := newTestEnvelope(t)
	env.Kill(true)
	env.Kill(false)
	assert.Equal(t, StageIdle, env.GetStage())
	assert.Zero(t, env.Process(testSustain))
}

func TestRetrigger_ClickFreeVoiceSteal(t *testing.T) {
	const newVelocity = 0.5

	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)
	runToStage(t, env, testSustain, StageSustain)

	var resetCalls int
	env.SetResetFunc(func() { resetCalls++ })

	env.Retrigger(newVelocity, 1)
	assert.Equal(t, StageReleasedToRetrigger, env.GetStage())
	assert.False(t, env.GetReleased(),
		"a retriggered voice is headed for a new note, not released")

	outputs := runToStage(t, env, testSustain, StageAttack)
	assert.InDelta(t, retriggerSamples, len(outputs), 1,
		"retrigger fade should span the fixed 3ms ramp")
	testutil.AssertStrictlyDecreasing(t, outputs)
	assert.Zero(t, outputs[len(outputs)-1])
	assert.Equal(t, 1, resetCalls, "reset hook fires exactly once")

	// The new note's depth applies from the restarted attack onward.
	outputs = runToStage(t, env, testSustain, StageDecay)
	assert.InDelta(t, newVelocity, outputs[len(outputs)-1], 1e-12,
		"attack peak is scaled by the retrigger level")
}

func TestRelease_ZeroesAndNotifiesOnce(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)
	runToStage(t, env, testSustain, StageSustain)

	var endReleaseCalls int
	env.SetEndReleaseFunc(func() { endReleaseCalls++ })

	env.Release()
	assert.True(t, env.GetReleased())

	outputs := runToStage(t, env, testSustain, StageIdle)
	testutil.AssertStrictlyDecreasing(t, outputs)
	assert.Zero(t, outputs[len(outputs)-1])
	assert.Equal(t, 1, endReleaseCalls)

	// -120dB on a -60dB coefficient takes about twice the nominal time.
	maxSamples := int(2*testReleaseMs*testSampleRate/1000) + 2
	assert.LessOrEqual(t, len(outputs), maxSamples)

	// Idle stays silent and does not re-notify.
	for range 100 {
		assert.Zero(t, env.Process(testSustain))
	}
	assert.Equal(t, 1, endReleaseCalls)
}

func TestDecay_ConvergesToSustain(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)
	runToStage(t, env, testSustain, StageDecay)

	var outputs []float64
	for range decaySettleBudgetSamples {
		outputs = append(outputs, env.Process(testSustain))
		if env.GetStage() == StageSustain {
			break
		}
	}
	require.Equal(t, StageSustain, env.GetStage(),
		"decay must settle into sustain within the budget")

	// Decay interpolates from 1 down to the sustain level.
	testutil.AssertNonIncreasing(t, outputs)
	testutil.AssertConvergesTo(t, outputs, testSustain, testutil.ConvergenceTolerance)

	// Sustain tracks the live argument on every call.
	assert.Equal(t, 0.25, env.Process(0.25))
	assert.Equal(t, 0.75, env.Process(0.75))
}

func TestADOnly_SkipsSustain(t *testing.T) {
	env, err := New[float64](&Config{
		SampleRate:      testSampleRate,
		SustainDisabled: true,
		AttackTimeMs:    testAttackMs,
		DecayTimeMs:     testDecayMs,
		ReleaseTimeMs:   testReleaseMs,
	})
	require.NoError(t, err)

	env.Start(testVelocity, 1)
	for range maxRunSamples {
		env.Process(0)
		require.NotEqual(t, StageSustain, env.GetStage(),
			"an AD-only envelope never visits sustain")
		if !env.GetBusy() {
			break
		}
	}
	assert.False(t, env.GetBusy())
	assert.True(t, env.GetReleased())
	assert.Zero(t, env.GetPrevOutput())
}

func TestIdle_Stability(t *testing.T) {
	env := newTestEnvelope(t)
	outputs := make([]float64, 1000)
	for i := range outputs {
		outputs[i] = env.Process(testSustain)
	}
	testutil.AssertAllEqual(t, outputs, 0)
	assert.Equal(t, StageIdle, env.GetStage())
}

func TestAttack_Monotonic(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)
	outputs := runToStage(t, env, testSustain, StageDecay)
	testutil.AssertNonDecreasing(t, outputs)
}

func TestGetPrevOutput_TracksProcess(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(0.8, 1)

	for range 10 {
		out := env.Process(testSustain)
		assert.Equal(t, out, env.GetPrevOutput())
	}
}

func TestProcessBlock_MatchesPerSample(t *testing.T) {
	blockEnv := newTestEnvelope(t)
	sampleEnv := newTestEnvelope(t)
	blockEnv.Start(testVelocity, 1)
	sampleEnv.Start(testVelocity, 1)

	block := make([]float64, 512)
	blockEnv.ProcessBlock(block, testSustain)

	for i := range block {
		assert.Equal(t, sampleEnv.Process(testSustain), block[i], "sample %d", i)
	}
}

func TestApplyBlock_ShapesBuffer(t *testing.T) {
	env := newTestEnvelope(t)
	env.Start(testVelocity, 1)

	buf := make([]float64, 64)
	for i := range buf {
		buf[i] = 1
	}
	env.ApplyBlock(buf, testSustain)

	// During the attack the shaped constant signal follows the ramp.
	testutil.AssertNonDecreasing(t, buf)
	assert.Positive(t, buf[len(buf)-1])
}

// TestEnvelope_Float32 verifies the float32 instantiation behaves like
// the float64 one within single precision.
func TestEnvelope_Float32(t *testing.T) {
	env, err := New[float32](&Config{
		SampleRate:    testSampleRate,
		AttackTimeMs:  testAttackMs,
		DecayTimeMs:   testDecayMs,
		ReleaseTimeMs: testReleaseMs,
	})
	require.NoError(t, err)

	env.Start(1, 1)
	samples := 0
	for env.GetStage() == StageAttack {
		env.Process(float32(testSustain))
		samples++
		require.Less(t, samples, maxRunSamples)
	}
	assert.InDelta(t, attackSamples10ms, samples, 1)

	env.Release()
	for env.GetBusy() {
		env.Process(float32(testSustain))
		samples++
		require.Less(t, samples, maxRunSamples)
	}
	assert.Zero(t, env.GetPrevOutput())
}

