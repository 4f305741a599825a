package audio

import (
	"math"
	"sync/atomic"
)

// param is a float64 that the control goroutine writes and the audio thread reads
// without locks.
type param struct {
	bits atomic.Uint64
}

func newParam(v float64) *param {
	p := &param{}
	p.set(v)
	return p
}

func (p *param) set(v float64) { p.bits.Store(math.Float64bits(v)) }
func (p *param) get() float64  { return math.Float64frombits(p.bits.Load()) }

func dbToGain(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20.0)
}

func gainToDB(g float64) float64 {
	if g <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(g)
}
