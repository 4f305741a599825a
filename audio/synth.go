package audio

import (
	"log"
	"math"
	"sync/atomic"

	"github.com/mrdg/cinva/ambient"
)

// fatsine spreads three sine oscillators over 20 cents either side of the pitch.
const (
	fatCount  = 3
	fatSpread = 20.0 // cents
)

// PolySynth is a polyphonic oscillator instrument with one ADSR envelope per voice.
type PolySynth struct {
	*Instrument
	wave  *atomic.Value // ambient.Waveform
	tempo func() float64
}

// NewPolySynth creates a synth with opts.MaxVoices voices. tempo reports the
// transport tempo used to turn note values into frames.
func NewPolySynth(opts ambient.SynthOptions, tempo func() float64) *PolySynth {
	wave := &atomic.Value{}
	wave.Store(opts.Waveform)
	env := opts.Envelope
	voices := make([]Voice, opts.MaxVoices)
	for n := range voices {
		voices[n] = &synthVoice{
			wave:    wave,
			attack:  env.Attack.Seconds(),
			decay:   env.Decay.Seconds(),
			sustain: env.Sustain,
			release: env.Release.Seconds(),
			state:   stateFree,
			env:     &envelope{},
			buf:     make([]float64, blockSize),
		}
	}
	return &PolySynth{
		Instrument: NewInstrument(voices, opts.Volume),
		wave:       wave,
		tempo:      tempo,
	}
}

func (s *PolySynth) SetWaveform(w ambient.Waveform) { s.wave.Store(w) }

// TriggerAttackRelease queues a note that starts at the given clock time and is
// released after length. It is called from the transport on the audio thread.
func (s *PolySynth) TriggerAttackRelease(p ambient.Pitch, length ambient.NoteValue, at ambient.Time) {
	ev := event{
		frame:    int64(math.Round(float64(at) * sampleRate)),
		freq:     p.Freq(),
		duration: int(length.Seconds(s.tempo()) * sampleRate),
	}
	if !s.events.push(ev) {
		log.Printf("synth: event queue full, dropping %s", p)
	}
}

type synthVoice struct {
	buf  []float64
	wave *atomic.Value

	attack, decay, sustain, release float64

	oscs          [fatCount]osc
	numOscs       int
	env           *envelope
	state         voiceState
	duration      int
	samplesPlayed int
}

func (v *synthVoice) PlayNote(freq float64, duration int) {
	v.duration = duration
	v.samplesPlayed = 0
	v.env.attack = v.attack
	v.env.decay = v.decay
	v.env.sustain = v.sustain
	v.env.release = v.release
	v.env.startAttack()
	v.state = stateActive

	wave := v.wave.Load().(ambient.Waveform)
	if wave == ambient.WaveFatSine {
		v.numOscs = fatCount
		for n := range v.oscs {
			cents := fatSpread * float64(n-fatCount/2)
			v.oscs[n].setWaveform(ambient.WaveSine)
			v.oscs[n].setFreq(freq * math.Pow(2, cents/1200))
		}
		return
	}
	v.numOscs = 1
	v.oscs[0].setWaveform(wave)
	v.oscs[0].setFreq(freq)
}

func (v *synthVoice) reset() {
	for n := range v.oscs {
		v.oscs[n].phase = 0
		v.oscs[n].phaseDelta = 0
	}
	v.state = stateFree
}

func (v *synthVoice) Process(buf []float64) {
	tmp := v.buf[0:len(buf)]
	for n := 0; n < v.numOscs; n++ {
		v.oscs[n].process(tmp)
	}
	v.env.process(tmp)
	v.samplesPlayed += len(buf)
	scale := 1 / float64(v.numOscs)
	for n := range tmp {
		buf[n] += scale * tmp[n]
		tmp[n] = 0
	}
	if v.samplesPlayed >= v.duration && v.state == stateActive {
		v.state = stateReleased
		v.env.startRelease()
	}
	if v.env.done() {
		v.reset()
	}
}

func (v *synthVoice) State() voiceState { return v.state }

const twoPi = 2 * math.Pi

type osc struct {
	phase      float64
	phaseDelta float64
	fn         func(float64) float64
}

func (o *osc) setFreq(freq float64) {
	o.phaseDelta = freq * twoPi / sampleRate
}

func (o *osc) process(buf []float64) {
	for n := range buf {
		buf[n] += o.fn(o.phase)
		o.phase += o.phaseDelta
		if o.phase >= twoPi {
			o.phase -= twoPi
		}
	}
}

func (o *osc) setWaveform(w ambient.Waveform) {
	switch w {
	case ambient.WaveSawtooth:
		o.fn = func(phase float64) float64 {
			return (2.0 * phase / twoPi) - 1.
		}
	case ambient.WaveSquare:
		o.fn = func(phase float64) float64 {
			if phase <= math.Pi {
				return 1.0
			}
			return -1.0
		}
	case ambient.WaveTriangle:
		o.fn = func(phase float64) float64 {
			return 2*math.Abs(2*phase/twoPi-1) - 1
		}
	default:
		o.fn = math.Sin
	}
}
