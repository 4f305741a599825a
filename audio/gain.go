package audio

import (
	"math"
	"sync/atomic"
	"time"
)

// gainRequest is a pending change of the master gain. A request with zero frames
// is a hard set.
type gainRequest struct {
	target  float64 // linear
	frames  int
	from    float64
	hasFrom bool
}

// masterGain applies the master level. Requests are published by the control
// goroutine and adopted by the audio thread at the start of the next buffer; a
// newer request always replaces an older one, so ramps never stack.
type masterGain struct {
	pending atomic.Pointer[gainRequest]
	current atomic.Uint64 // float64 bits, for readers outside the audio thread

	// audio thread only
	value     float64
	step      float64
	target    float64
	remaining int
}

func (g *masterGain) set(db float64) {
	g.publish(gainRequest{target: dbToGain(db)})
}

func (g *masterGain) ramp(db float64, d time.Duration) {
	g.publish(gainRequest{
		target: dbToGain(db),
		frames: int(d.Seconds() * sampleRate),
	})
}

// publish stores req as the pending request. A ramp that replaces a hard set the
// audio thread has not seen yet starts from the level that set asked for, and
// keeps that start point through any further replacements.
func (g *masterGain) publish(req gainRequest) {
	for {
		old := g.pending.Load()
		r := req
		if old != nil && r.frames > 0 && !r.hasFrom {
			switch {
			case old.hasFrom:
				r.from, r.hasFrom = old.from, true
			case old.frames == 0:
				r.from, r.hasFrom = old.target, true
			}
		}
		if g.pending.CompareAndSwap(old, &r) {
			return
		}
	}
}

func (g *masterGain) adopt() {
	req := g.pending.Swap(nil)
	if req == nil {
		return
	}
	if req.hasFrom {
		g.value = req.from
	}
	g.target = req.target
	if req.frames <= 0 {
		g.value = req.target
		g.remaining = 0
		return
	}
	g.remaining = req.frames
	g.step = (g.target - g.value) / float64(req.frames)
}

func (g *masterGain) process(buf []float64) {
	g.adopt()
	for n := range buf {
		if g.remaining > 0 {
			g.value += g.step
			g.remaining--
			if g.remaining == 0 {
				g.value = g.target
			}
		}
		buf[n] *= g.value
	}
	g.current.Store(math.Float64bits(g.value))
}

// db returns the gain at the end of the last processed buffer.
func (g *masterGain) db() float64 {
	return gainToDB(math.Float64frombits(g.current.Load()))
}
