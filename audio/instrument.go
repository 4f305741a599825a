package audio

const (
	blockSize  = 16 // this gives about 0.35ms accuracy for sequenced events
	sampleRate = 44100
	bufferSize = 512
)

// SampleRate is the rate every node and output runs at.
const SampleRate = sampleRate

type voiceState int

const (
	stateFree voiceState = iota
	stateActive
	stateReleased
)

type event struct {
	frame    int64 // clock frame at which the note starts
	freq     float64
	duration int // frames until release
}

type Voice interface {
	PlayNote(freq float64, duration int)
	Process(buf []float64)
	State() voiceState
}

// Instrument mixes a fixed set of voices. Notes arrive through a lock-free queue
// and start on the block that contains their frame. When every voice is busy the
// voice that started longest ago is taken over.
type Instrument struct {
	voices  []Voice
	started []uint64 // note counter value when each voice last started
	notes   uint64
	events  *eventBuffer
	buf     []float64
	level   *param // dB
}

func NewInstrument(voices []Voice, levelDB float64) *Instrument {
	return &Instrument{
		voices:  voices,
		started: make([]uint64, len(voices)),
		events:  newEventBuffer(64),
		buf:     make([]float64, bufferSize),
		level:   newParam(levelDB),
	}
}

func (i *Instrument) SetVolume(db float64) { i.level.set(db) }

// process adds the instrument's output for the buffer starting at frame to buf.
func (i *Instrument) process(buf []float64, frame int64) {
	if len(i.buf) < len(buf) {
		i.buf = make([]float64, len(buf))
	}
	for n := 0; n < len(buf); n += blockSize {
		end := n + blockSize
		if end > len(buf) {
			end = len(buf)
		}
		i.events.iter(frame+int64(end), func(ev event) {
			i.allocate().PlayNote(ev.freq, ev.duration)
		})
		for _, voice := range i.voices {
			if voice.State() == stateFree {
				continue
			}
			voice.Process(i.buf[n:end])
		}
	}
	gain := dbToGain(i.level.get())
	for n := range buf {
		buf[n] += gain * i.buf[n]
		i.buf[n] = 0
	}
}

func (i *Instrument) allocate() Voice {
	i.notes++
	oldest := 0
	for n, voice := range i.voices {
		if voice.State() == stateFree {
			i.started[n] = i.notes
			return voice
		}
		if i.started[n] < i.started[oldest] {
			oldest = n
		}
	}
	i.started[oldest] = i.notes
	return i.voices[oldest]
}

// active returns the number of sounding voices.
func (i *Instrument) active() int {
	var n int
	for _, voice := range i.voices {
		if voice.State() != stateFree {
			n++
		}
	}
	return n
}
