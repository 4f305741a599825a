package ambient

import (
	"context"
	"math"
	"time"
)

// Time is a position on the engine's audio clock, in seconds.
type Time float64

// Master gain levels in dB.
var (
	Silence = math.Inf(-1)
	Unity   = 0.0
)

// Node is an opaque handle to a node owned by an Engine. Only the engine that
// created a node can connect it.
type Node interface{}

// NoiseSource is a continuous noise generator.
type NoiseSource interface {
	SetType(t NoiseType)
	SetVolume(db float64)
}

// AutoFilter is a band-pass filter whose centre frequency sweeps periodically
// between BaseFrequency and BaseFrequency * 2^Octaves.
type AutoFilter interface {
	SetFrequency(hz float64)
	SetOctaves(octaves float64)
}

// Voice plays notes.
type Voice interface {
	TriggerAttackRelease(p Pitch, length NoteValue, at Time)
}

// PolySynth is a tone generator with a bounded number of voices. When all
// voices are sounding, a new note takes over the oldest one.
type PolySynth interface {
	Voice
	SetWaveform(w Waveform)
	SetVolume(db float64)
}

// Reverb is a wet/dry reverberator.
type Reverb interface{}

type FilterOptions struct {
	Frequency     float64 // sweep rate in Hz
	BaseFrequency float64 // Hz
	Octaves       float64
}

type Envelope struct {
	Attack  time.Duration
	Decay   time.Duration
	Sustain float64 // level in [0, 1]
	Release time.Duration
}

type SynthOptions struct {
	MaxVoices int
	Waveform  Waveform
	Envelope  Envelope
	Volume    float64 // dB
}

type ReverbOptions struct {
	Decay time.Duration
	Wet   float64
}

// Transport is the shared musical clock.
type Transport interface {
	// ScheduleRepeat calls fn on every interval once the transport is started,
	// passing the exact clock time of the tick.
	ScheduleRepeat(interval NoteValue, fn func(at Time))
	Start()
}

// Engine is the audio capability the core orchestrates. Implementations own all
// synthesis, filtering, reverb, parameter ramping and clock handling.
type Engine interface {
	// Start makes the engine ready to produce sound. It fails when audio output
	// is not permitted yet; callers retry on the next user activation.
	Start(ctx context.Context) error

	NewNoiseSource(t NoiseType, volume float64) (NoiseSource, error)
	NewAutoFilter(opts FilterOptions) (AutoFilter, error)
	NewPolySynth(opts SynthOptions) (PolySynth, error)
	NewReverb(opts ReverbOptions) (Reverb, error)

	// Connect routes the output of src into dst.
	Connect(src, dst Node) error
	// ToOutput routes n into the master output.
	ToOutput(n Node) error

	Transport() Transport

	// SetGain sets the master gain immediately, cancelling any ramp in flight.
	SetGain(db float64)
	// RampGain moves the master gain from its current value to db over d,
	// replacing any ramp in flight.
	RampGain(db float64, d time.Duration)

	SuspendClock(ctx context.Context) error
	ResumeClock(ctx context.Context) error
}
