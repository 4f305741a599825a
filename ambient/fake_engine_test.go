package ambient

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// call is one engine call recorded by fakeEngine.
type call struct {
	name string
	db   float64
	d    time.Duration
}

func (c call) String() string {
	if c.d > 0 {
		return fmt.Sprintf("%s(%v, %v)", c.name, c.db, c.d)
	}
	return c.name
}

type fakeNoise struct {
	typ    NoiseType
	volume float64
}

func (n *fakeNoise) SetType(t NoiseType)  { n.typ = t }
func (n *fakeNoise) SetVolume(db float64) { n.volume = db }

type fakeFilter struct {
	opts FilterOptions
}

func (f *fakeFilter) SetFrequency(hz float64)    { f.opts.Frequency = hz }
func (f *fakeFilter) SetOctaves(octaves float64) { f.opts.Octaves = octaves }

type note struct {
	pitch  Pitch
	length NoteValue
	at     Time
}

type fakeSynth struct {
	opts  SynthOptions
	notes []note
}

func (s *fakeSynth) SetWaveform(w Waveform) { s.opts.Waveform = w }
func (s *fakeSynth) SetVolume(db float64)   { s.opts.Volume = db }
func (s *fakeSynth) TriggerAttackRelease(p Pitch, length NoteValue, at Time) {
	s.notes = append(s.notes, note{p, length, at})
}

type fakeReverb struct {
	opts ReverbOptions
}

type fakeTransport struct {
	interval NoteValue
	repeats  []func(Time)
	started  bool
	now      Time
}

func (t *fakeTransport) ScheduleRepeat(interval NoteValue, fn func(at Time)) {
	t.interval = interval
	t.repeats = append(t.repeats, fn)
}

func (t *fakeTransport) Start() { t.started = true }

// advance fires n ticks half a second apart, like quarter notes at 120 BPM.
func (t *fakeTransport) advance(n int) {
	for i := 0; i < n; i++ {
		for _, fn := range t.repeats {
			fn(t.now)
		}
		t.now += 0.5
	}
}

// fakeEngine records what the core asks of the audio engine and tracks where the
// master gain ends up, assuming every ramp runs to completion.
type fakeEngine struct {
	startErr   error
	suspendErr error
	calls      []call
	gain       float64
	suspended  bool
	transport  *fakeTransport

	noises  []*fakeNoise
	filters []*fakeFilter
	synths  []*fakeSynth
	reverbs []*fakeReverb
	links   [][2]Node
	outputs []Node
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{gain: Silence, transport: &fakeTransport{}}
}

var errNoGesture = errors.New("no user gesture")

func (e *fakeEngine) record(c call) { e.calls = append(e.calls, c) }

func (e *fakeEngine) Start(ctx context.Context) error {
	e.record(call{name: "Start"})
	if e.startErr != nil {
		return e.startErr
	}
	return ctx.Err()
}

func (e *fakeEngine) NewNoiseSource(t NoiseType, volume float64) (NoiseSource, error) {
	n := &fakeNoise{typ: t, volume: volume}
	e.noises = append(e.noises, n)
	return n, nil
}

func (e *fakeEngine) NewAutoFilter(opts FilterOptions) (AutoFilter, error) {
	f := &fakeFilter{opts: opts}
	e.filters = append(e.filters, f)
	return f, nil
}

func (e *fakeEngine) NewPolySynth(opts SynthOptions) (PolySynth, error) {
	s := &fakeSynth{opts: opts}
	e.synths = append(e.synths, s)
	return s, nil
}

func (e *fakeEngine) NewReverb(opts ReverbOptions) (Reverb, error) {
	r := &fakeReverb{opts: opts}
	e.reverbs = append(e.reverbs, r)
	return r, nil
}

func (e *fakeEngine) Connect(src, dst Node) error {
	e.links = append(e.links, [2]Node{src, dst})
	return nil
}

func (e *fakeEngine) ToOutput(n Node) error {
	e.outputs = append(e.outputs, n)
	return nil
}

func (e *fakeEngine) Transport() Transport { return e.transport }

func (e *fakeEngine) SetGain(db float64) {
	e.record(call{name: "SetGain", db: db})
	e.gain = db
}

func (e *fakeEngine) RampGain(db float64, d time.Duration) {
	e.record(call{name: "RampGain", db: db, d: d})
	e.gain = db
}

func (e *fakeEngine) SuspendClock(ctx context.Context) error {
	e.record(call{name: "SuspendClock"})
	if e.suspendErr != nil {
		return e.suspendErr
	}
	e.suspended = true
	return nil
}

func (e *fakeEngine) ResumeClock(ctx context.Context) error {
	e.record(call{name: "ResumeClock"})
	e.suspended = false
	return nil
}

// tick advances the clock unless it is suspended.
func (e *fakeEngine) tick(n int) {
	if e.suspended || !e.transport.started {
		return
	}
	e.transport.advance(n)
}

func (e *fakeEngine) reset() { e.calls = nil }
