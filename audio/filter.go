package audio

import "math"

type filterKind int

const (
	lowpass filterKind = iota
	bandpass
)

type filter struct {
	kind         filterKind
	q            float64
	coefficients [5]float64

	// state
	y1, y2 float64 // y[n-1] y[n-2]
}

// Biquad filters based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
func (f *filter) process(buf []float64) {
	c0 := f.coefficients[0]
	c1 := f.coefficients[1]
	c2 := f.coefficients[2]
	c3 := f.coefficients[3]
	c4 := f.coefficients[4]

	for n := range buf {
		in := buf[n]
		out := c0*in + f.y1
		buf[n] = out
		f.y1 = c1*in - c3*out + f.y2
		f.y2 = c2*in - c4*out
	}
}

func (f *filter) calculateCoefficients(freq float64) {
	omega := 2 * math.Pi * freq / sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)

	q := f.q
	if q <= 0 {
		q = 1
	}
	alpha := sin / (2. * q)

	var b0, b1, b2, a0, a1, a2 float64

	switch f.kind {
	case bandpass: // constant 0 dB peak gain
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cos) / 2
		b1 = 1 - cos
		b2 = b0
	}
	a0 = 1 + alpha
	a1 = -2 * cos
	a2 = 1 - alpha

	f.coefficients[0] = b0 / a0
	f.coefficients[1] = b1 / a0
	f.coefficients[2] = b2 / a0
	f.coefficients[3] = a1 / a0
	f.coefficients[4] = a2 / a0
}

func (f *filter) reset() {
	f.y1 = 0
	f.y2 = 0
}
