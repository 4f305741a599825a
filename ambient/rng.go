package ambient

// Source produces uniform random numbers in [0, 1).
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// SeededRNG implements a Mulberry32 seeded pseudo-random number generator.
// The same seed always produces the same melody.
type SeededRNG struct {
	state       uint32
	initialSeed uint32
}

func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{
		state:       seed,
		initialSeed: seed,
	}
}

// Reset restarts the sequence from the initial seed.
func (r *SeededRNG) Reset() {
	r.state = r.initialSeed
}

// Float64 returns the next number in [0, 1).
func (r *SeededRNG) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}
