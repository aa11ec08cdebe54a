// Package adsr provides a sample-accurate, allocation-free ADSR
// envelope generator for synthesizer voices.
//
// The envelope is a per-voice state machine that converts discrete
// trigger events (start, release, retrigger, kill) plus a small set of
// timing and level parameters into a continuous control signal in
// [0, 1], scaled by a depth factor and consumed once per audio sample.
// The design is ported in spirit from the ADSREnvelope class in iPlug2.
//
// # Features
//
//   - Full ADSR and AD-only (drum) envelope variants
//   - Linear attack, exponential (-60 dB) decay and release ramps
//   - Click-free voice stealing via a fixed 3 ms retrigger fade
//   - Soft kill with a fixed 20 ms fade, and immediate hard kill
//   - Injected hooks fired at the retrigger-reset and end-of-release samples
//   - Generic over float32 and float64
//   - Zero allocation, zero locking and O(1) work per processed sample
//
// # Quick Start
//
//	env, err := adsr.New[float64](&adsr.Config{
//	    SampleRate:    44100,
//	    AttackTimeMs:  10,
//	    DecayTimeMs:   100,
//	    ReleaseTimeMs: 50,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env.Start(velocity, 1) // note on
//	for i := range buf {
//	    buf[i] = osc.Next() * env.Process(sustainLevel)
//	}
//	env.Release() // note off; keep processing until GetBusy() is false
//
// # Stages
//
// Besides the four canonical stages (attack, decay, sustain, release)
// and idle, the envelope has two internal ramps used for click-free
// voice reuse: [StageReleasedToRetrigger], a short fade to silence that
// restarts the attack when a sounding voice is stolen, and
// [StageReleasedToEndEarly], the soft-kill fade. Exactly one stage is
// active at a time, and transitions happen only inside
// [Envelope.Process] or through an explicit control call.
//
// # Error Handling
//
// Only construction returns an error. The real-time surface degrades
// silently by design: out-of-range stage arguments to SetStageTime are
// ignored, non-positive durations make the stage complete on the next
// sample, and numerically unstable exponential rates are clamped so the
// decay converges within one sample. All degenerate inputs collapse
// into a well-defined, if abrupt, envelope shape.
//
// # Thread Safety
//
// An [Envelope] provides no internal locking or atomics. Two logical
// call sites exist: the audio thread, which calls Process once per
// sample, and a control thread, which calls Start, Release, Retrigger,
// Kill, SetStageTime, SetSampleRate and the hook setters. The host must
// guarantee that control-plane mutations are confined to points where
// the audio thread is not concurrently reading the same instance —
// typically by applying pending control operations only between
// processing blocks, or through a lock-free handoff such as a
// single-producer/single-consumer command queue drained at the start of
// each block. The hook setters must never run on the audio thread,
// because assigning a closure may allocate.
//
// # Attribution
//
// The stage graph, coefficient math and anti-click ramp behavior follow
// the ADSREnvelope class from the iPlug2 library
// (https://github.com/iPlug2/iPlug2) by the iPlug2 developers.
package adsr
