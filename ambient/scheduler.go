package ambient

import (
	"math"
	"sync/atomic"
)

// Scheduler decides on every transport tick whether a chime sounds. Each tick is an
// independent Bernoulli trial with probability equal to the current density, so the
// expected note rate is density times the tick rate.
type Scheduler struct {
	density func() float64
	voice   Voice
	rng     Source
	scale   []Pitch

	ticks    atomic.Uint64
	triggers atomic.Uint64
}

// NewScheduler returns a scheduler that reads the density through density on every
// tick and plays chimes on voice.
func NewScheduler(density func() float64, voice Voice, rng Source) *Scheduler {
	return &Scheduler{
		density: density,
		voice:   voice,
		rng:     rng,
		scale:   Scale(),
	}
}

// Tick runs one trial for the tick at the given clock time. A triggered note is
// scheduled at exactly that time, not at the time Tick happens to run.
func (s *Scheduler) Tick(at Time) (Pitch, bool) {
	s.ticks.Add(1)
	if s.rng.Float64() >= clampDensity(s.density()) {
		return "", false
	}
	i := int(s.rng.Float64() * float64(len(s.scale)))
	if i >= len(s.scale) {
		i = len(s.scale) - 1
	}
	p := s.scale[i]
	s.voice.TriggerAttackRelease(p, ChimeNoteLength, at)
	s.triggers.Add(1)
	return p, true
}

// Ticks returns the number of ticks seen so far.
func (s *Scheduler) Ticks() uint64 { return s.ticks.Load() }

// Triggers returns the number of notes played so far.
func (s *Scheduler) Triggers() uint64 { return s.triggers.Load() }

func clampDensity(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
