package audio

import (
	"math"

	"github.com/mrdg/cinva/ambient"
)

// AutoFilter is a band-pass filter whose centre frequency follows a sine LFO between
// base and base * 2^octaves.
type AutoFilter struct {
	frequency *param // LFO rate in Hz
	octaves   *param
	base      float64
	phase     float64
	filter    filter
}

func NewAutoFilter(opts ambient.FilterOptions) *AutoFilter {
	return &AutoFilter{
		frequency: newParam(opts.Frequency),
		octaves:   newParam(opts.Octaves),
		base:      opts.BaseFrequency,
		filter:    filter{kind: bandpass, q: 1},
	}
}

func (f *AutoFilter) SetFrequency(hz float64)    { f.frequency.set(hz) }
func (f *AutoFilter) SetOctaves(octaves float64) { f.octaves.set(octaves) }

// center returns the current centre frequency.
func (f *AutoFilter) center() float64 {
	sweep := (math.Sin(f.phase) + 1) / 2
	c := f.base * math.Pow(2, f.octaves.get()*sweep)
	if nyquist := 0.45 * sampleRate; c > nyquist {
		c = nyquist
	}
	return c
}

// process filters buf in place. Coefficients are updated once per block.
func (f *AutoFilter) process(buf []float64, _ int64) {
	delta := twoPi * f.frequency.get() / sampleRate
	for n := 0; n < len(buf); n += blockSize {
		end := n + blockSize
		if end > len(buf) {
			end = len(buf)
		}
		f.filter.calculateCoefficients(f.center())
		f.filter.process(buf[n:end])
		f.phase += delta * float64(end-n)
		if f.phase >= twoPi {
			f.phase -= twoPi
		}
	}
}
