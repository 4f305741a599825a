package audio

import (
	"math"

	"github.com/mrdg/cinva/ambient"
)

// Delay lengths in frames at 44.1kHz, from Freeverb.
var (
	combTunings    = [...]int{1557, 1617, 1491, 1422, 1277, 1356}
	allpassTunings = [...]int{556, 441, 341, 225}
)

const (
	reverbInputGain = 0.015
	reverbWetScale  = 3.0
	reverbDamp      = 0.2
	allpassFeedback = 0.5
)

// Reverb is a mono Schroeder reverberator: parallel damped combs into a series of
// allpass filters. The comb feedback is chosen so the tail falls by 60 dB after the
// decay time.
type Reverb struct {
	wet       float64
	combs     [len(combTunings)]comb
	allpasses [len(allpassTunings)]allpass
}

func NewReverb(opts ambient.ReverbOptions) *Reverb {
	r := &Reverb{wet: opts.Wet}
	decay := opts.Decay.Seconds()
	if decay <= 0 {
		decay = 0.1
	}
	for n, size := range combTunings {
		r.combs[n] = comb{
			buf:      make([]float64, size),
			feedback: math.Pow(10, -3*float64(size)/(decay*sampleRate)),
			damp:     reverbDamp,
		}
	}
	for n, size := range allpassTunings {
		r.allpasses[n] = allpass{buf: make([]float64, size)}
	}
	return r
}

func (r *Reverb) process(buf []float64, _ int64) {
	for i, dry := range buf {
		in := dry * reverbInputGain
		var acc float64
		for n := range r.combs {
			acc += r.combs[n].process(in)
		}
		for n := range r.allpasses {
			acc = r.allpasses[n].process(acc)
		}
		buf[i] = dry*(1-r.wet) + acc*reverbWetScale*r.wet
	}
}

type comb struct {
	buf      []float64
	pos      int
	feedback float64
	damp     float64
	store    float64
}

func (c *comb) process(in float64) float64 {
	out := c.buf[c.pos]
	c.store = out*(1-c.damp) + c.store*c.damp
	c.buf[c.pos] = in + c.store*c.feedback
	c.pos++
	if c.pos == len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpass struct {
	buf []float64
	pos int
}

func (a *allpass) process(in float64) float64 {
	delayed := a.buf[a.pos]
	out := delayed - in
	a.buf[a.pos] = in + delayed*allpassFeedback
	a.pos++
	if a.pos == len(a.buf) {
		a.pos = 0
	}
	return out
}
