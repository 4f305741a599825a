package ambient

import (
	"fmt"
	"time"
)

// Fixed parameters of the signal chain.
const (
	MaxVoices       = 4
	FilterBase      = 200.0 // Hz
	ReverbWet       = 0.6
	ReverbDecay     = 10 * time.Second
	ChimeNoteLength = Eighth
	TriggerInterval = Quarter
	envelopeAttack  = 20 * time.Millisecond
	envelopeDecay   = 300 * time.Millisecond
	envelopeRelease = 3 * time.Second
	envelopeSustain = 0.0
)

// ChimeEnvelope is the envelope of every chime note. Sustain is zero, so notes
// always decay to silence.
var ChimeEnvelope = Envelope{
	Attack:  envelopeAttack,
	Decay:   envelopeDecay,
	Sustain: envelopeSustain,
	Release: envelopeRelease,
}

// Graph holds the nodes of the two signal paths:
//
//	noise -> auto filter -> output
//	synth -> reverb -> output
type Graph struct {
	Noise  NoiseSource
	Filter AutoFilter
	Synth  PolySynth
	Reverb Reverb
}

// Build constructs both signal paths on e using the current values in s, and
// projects later writes to s onto the live nodes.
func Build(e Engine, s *Store) (*Graph, error) {
	settings := s.Settings()

	noise, err := e.NewNoiseSource(settings.NoiseType, settings.WindVolume)
	if err != nil {
		return nil, fmt.Errorf("create noise source: %w", err)
	}
	filter, err := e.NewAutoFilter(FilterOptions{
		Frequency:     settings.FilterSpeed,
		BaseFrequency: FilterBase,
		Octaves:       settings.FilterDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("create auto filter: %w", err)
	}
	synth, err := e.NewPolySynth(SynthOptions{
		MaxVoices: MaxVoices,
		Waveform:  settings.Waveform,
		Envelope:  ChimeEnvelope,
		Volume:    settings.SynthVolume,
	})
	if err != nil {
		return nil, fmt.Errorf("create chime synth: %w", err)
	}
	reverb, err := e.NewReverb(ReverbOptions{Decay: ReverbDecay, Wet: ReverbWet})
	if err != nil {
		return nil, fmt.Errorf("create reverb: %w", err)
	}

	for _, link := range [][2]Node{{noise, filter}, {synth, reverb}} {
		if err := e.Connect(link[0], link[1]); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
	}
	for _, n := range []Node{filter, reverb} {
		if err := e.ToOutput(n); err != nil {
			return nil, fmt.Errorf("connect to output: %w", err)
		}
	}

	g := &Graph{Noise: noise, Filter: filter, Synth: synth, Reverb: reverb}
	if err := g.project(s); err != nil {
		return nil, err
	}
	return g, nil
}

// project keeps the live nodes in sync with the store.
func (g *Graph) project(s *Store) error {
	bindings := map[string]func(interface{}){
		FieldNoiseType:   func(v interface{}) { g.Noise.SetType(v.(NoiseType)) },
		FieldWindVolume:  func(v interface{}) { g.Noise.SetVolume(v.(float64)) },
		FieldFilterSpeed: func(v interface{}) { g.Filter.SetFrequency(v.(float64)) },
		FieldFilterDepth: func(v interface{}) { g.Filter.SetOctaves(v.(float64)) },
		FieldSynthWave:   func(v interface{}) { g.Synth.SetWaveform(v.(Waveform)) },
		FieldSynthVolume: func(v interface{}) { g.Synth.SetVolume(v.(float64)) },
	}
	for field, fn := range bindings {
		if err := s.Watch(field, fn); err != nil {
			return err
		}
	}
	return nil
}
