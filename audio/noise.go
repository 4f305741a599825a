package audio

import (
	"math/rand"
	"sync/atomic"

	"github.com/mrdg/cinva/ambient"
)

// Noise is a continuous noise source. Its colour and volume can change while it
// plays.
type Noise struct {
	typ    *atomic.Value // ambient.NoiseType
	volume *param        // dB
	rng    *rand.Rand

	pink  [7]float64 // Paul Kellet's pink filter state
	brown float64
}

func NewNoise(t ambient.NoiseType, volumeDB float64, seed int64) *Noise {
	typ := &atomic.Value{}
	typ.Store(t)
	return &Noise{
		typ:    typ,
		volume: newParam(volumeDB),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (n *Noise) SetType(t ambient.NoiseType) { n.typ.Store(t) }
func (n *Noise) SetVolume(db float64)        { n.volume.set(db) }

func (n *Noise) process(buf []float64, _ int64) {
	gain := dbToGain(n.volume.get())
	next := n.white
	switch n.typ.Load().(ambient.NoiseType) {
	case ambient.NoisePink:
		next = n.nextPink
	case ambient.NoiseBrown:
		next = n.nextBrown
	}
	for i := range buf {
		buf[i] += gain * next()
	}
}

func (n *Noise) white() float64 {
	return n.rng.Float64()*2 - 1
}

func (n *Noise) nextPink() float64 {
	w := n.white()
	b := &n.pink
	b[0] = 0.99886*b[0] + w*0.0555179
	b[1] = 0.99332*b[1] + w*0.0750759
	b[2] = 0.96900*b[2] + w*0.1538520
	b[3] = 0.86650*b[3] + w*0.3104856
	b[4] = 0.55000*b[4] + w*0.5329522
	b[5] = -0.7616*b[5] - w*0.0168980
	out := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + w*0.5362
	b[6] = w * 0.115926
	return out * 0.11
}

func (n *Noise) nextBrown() float64 {
	n.brown = (n.brown + 0.02*n.white()) / 1.02
	return n.brown * 3.5
}
