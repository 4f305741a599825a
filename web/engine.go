//go:build js

// Package web runs the soundscape in a browser. Engine drives Tone.js and Bind
// wires the page controls to a session.
package web

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gopherjs/gopherjs/js"

	"github.com/mrdg/cinva/ambient"
)

var errForeignNode = errors.New("web: node was not created by this engine")

var _ ambient.Engine = (*Engine)(nil)

// Engine implements ambient.Engine with the Tone.js library found in the page.
type Engine struct {
	tone      *js.Object
	transport *transport
	unlocking *js.Object // promise returned by Unlock, not yet awaited
}

// NewEngine returns an engine for the global Tone object.
func NewEngine() (*Engine, error) {
	tone := js.Global.Get("Tone")
	if tone == js.Undefined || tone == nil {
		return nil, errors.New("web: Tone.js is not loaded")
	}
	return &Engine{tone: tone, transport: &transport{obj: tone.Get("Transport")}}, nil
}

type toneNode interface {
	object() *js.Object
}

type node struct {
	obj *js.Object
}

func (n *node) object() *js.Object { return n.obj }

type noise struct{ node }

func (n *noise) SetType(t ambient.NoiseType) { n.obj.Set("type", t.String()) }
func (n *noise) SetVolume(db float64)        { n.obj.Get("volume").Set("value", db) }

type autoFilter struct{ node }

func (f *autoFilter) SetFrequency(hz float64) { f.obj.Get("frequency").Set("value", hz) }
func (f *autoFilter) SetOctaves(o float64)    { f.obj.Set("octaves", o) }

type polySynth struct{ node }

func (s *polySynth) TriggerAttackRelease(p ambient.Pitch, length ambient.NoteValue, at ambient.Time) {
	s.obj.Call("triggerAttackRelease", string(p), length.String(), float64(at))
}

func (s *polySynth) SetWaveform(w ambient.Waveform) {
	s.obj.Call("set", js.M{"oscillator": js.M{"type": w.String()}})
}

func (s *polySynth) SetVolume(db float64) { s.obj.Get("volume").Set("value", db) }

type reverb struct{ node }

// Unlock asks Tone to start the audio context. Call it from inside a user
// gesture handler; browsers only allow the context to run when the request is
// made on the gesture's call stack. The next Start waits for this request.
func (e *Engine) Unlock() {
	e.unlocking = e.tone.Call("start")
}

// Start starts the audio context, or waits for the start Unlock requested.
func (e *Engine) Start(ctx context.Context) error {
	p := e.unlocking
	e.unlocking = nil
	if p == nil {
		p = e.tone.Call("start")
	}
	if err := await(ctx, p); err != nil {
		return fmt.Errorf("start audio context: %w", err)
	}
	return nil
}

func (e *Engine) NewNoiseSource(t ambient.NoiseType, volume float64) (ambient.NoiseSource, error) {
	obj := e.tone.Get("Noise").New(js.M{"type": t.String(), "volume": volume})
	obj.Call("start")
	return &noise{node{obj}}, nil
}

func (e *Engine) NewAutoFilter(opts ambient.FilterOptions) (ambient.AutoFilter, error) {
	obj := e.tone.Get("AutoFilter").New(js.M{
		"frequency":     opts.Frequency,
		"baseFrequency": opts.BaseFrequency,
		"octaves":       opts.Octaves,
		"filter":        js.M{"type": "bandpass"},
	})
	obj.Call("start")
	return &autoFilter{node{obj}}, nil
}

func (e *Engine) NewPolySynth(opts ambient.SynthOptions) (ambient.PolySynth, error) {
	env := opts.Envelope
	obj := e.tone.Get("PolySynth").New(e.tone.Get("Synth"), js.M{
		"oscillator": js.M{"type": opts.Waveform.String()},
		"envelope": js.M{
			"attack":  env.Attack.Seconds(),
			"decay":   env.Decay.Seconds(),
			"sustain": env.Sustain,
			"release": env.Release.Seconds(),
		},
		"volume": opts.Volume,
	})
	obj.Set("maxPolyphony", opts.MaxVoices)
	return &polySynth{node{obj}}, nil
}

func (e *Engine) NewReverb(opts ambient.ReverbOptions) (ambient.Reverb, error) {
	obj := e.tone.Get("Reverb").New(js.M{
		"decay": opts.Decay.Seconds(),
		"wet":   opts.Wet,
	})
	return &reverb{node{obj}}, nil
}

func (e *Engine) Connect(src, dst ambient.Node) error {
	from, ok := src.(toneNode)
	if !ok {
		return errForeignNode
	}
	to, ok := dst.(toneNode)
	if !ok {
		return errForeignNode
	}
	from.object().Call("connect", to.object())
	return nil
}

func (e *Engine) ToOutput(n ambient.Node) error {
	tn, ok := n.(toneNode)
	if !ok {
		return errForeignNode
	}
	tn.object().Call("toDestination")
	return nil
}

func (e *Engine) Transport() ambient.Transport { return e.transport }

func (e *Engine) volume() toneParam {
	return toneParam{e.tone.Get("Destination").Get("volume")}
}

func (e *Engine) SetGain(db float64) {
	setVolume(e.volume(), db, e.tone.Call("now").Float())
}

// RampGain replaces any ramp in flight with one starting from the current level.
func (e *Engine) RampGain(db float64, d time.Duration) {
	rampVolume(e.volume(), db, d)
}

func (e *Engine) SuspendClock(ctx context.Context) error {
	return await(ctx, e.tone.Get("context").Get("rawContext").Call("suspend"))
}

func (e *Engine) ResumeClock(ctx context.Context) error {
	return await(ctx, e.tone.Get("context").Get("rawContext").Call("resume"))
}

type toneParam struct {
	obj *js.Object
}

func (p toneParam) cancelScheduledValues(at float64) { p.obj.Call("cancelScheduledValues", at) }
func (p toneParam) setValueAtTime(db, at float64)    { p.obj.Call("setValueAtTime", db, at) }
func (p toneParam) rampTo(db, seconds float64)       { p.obj.Call("rampTo", db, seconds) }

type transport struct {
	obj *js.Object
}

func (t *transport) ScheduleRepeat(interval ambient.NoteValue, fn func(at ambient.Time)) {
	t.obj.Call("scheduleRepeat", func(at float64) {
		fn(ambient.Time(at))
	}, interval.String())
}

func (t *transport) Start() { t.obj.Call("start") }

// await blocks until the promise p settles or ctx is done.
func await(ctx context.Context, p *js.Object) error {
	errc := make(chan error, 1)
	p.Call("then", func() {
		errc <- nil
	}, func(reason *js.Object) {
		errc <- fmt.Errorf("%s", reason.String())
	})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
