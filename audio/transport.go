package audio

import (
	"sync"
	"sync/atomic"

	"github.com/mrdg/cinva/ambient"
)

// Transport is the musical clock. It runs on the engine's frame counter, so it
// stands still whenever the engine is suspended.
type Transport struct {
	bpm     *param
	running atomic.Bool
	repeats atomic.Pointer[[]*repeat]
	mu      sync.Mutex // serializes writers of repeats
}

type repeat struct {
	interval ambient.NoteValue
	fn       func(ambient.Time)
	next     float64 // frame of the next tick; negative until the first tick
}

func NewTransport(bpm float64) *Transport {
	t := &Transport{bpm: newParam(bpm)}
	t.repeats.Store(&[]*repeat{})
	return t
}

// BPM is the tempo in quarter notes per minute.
func (t *Transport) BPM() float64 { return t.bpm.get() }

func (t *Transport) SetBPM(bpm float64) {
	if bpm > 0 {
		t.bpm.set(bpm)
	}
}

// ScheduleRepeat registers fn to run every interval. The first tick falls on the
// first buffer after Start.
func (t *Transport) ScheduleRepeat(interval ambient.NoteValue, fn func(at ambient.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// copy the slice so the audio thread never sees it modified in place
	old := *t.repeats.Load()
	repeats := make([]*repeat, len(old), len(old)+1)
	copy(repeats, old)
	repeats = append(repeats, &repeat{interval: interval, fn: fn, next: -1})
	t.repeats.Store(&repeats)
}

func (t *Transport) Start() { t.running.Store(true) }

func (t *Transport) Running() bool { return t.running.Load() }

// advance fires every tick that falls within the n frames starting at from, in
// time order per repeat. It is called once per buffer on the audio thread.
func (t *Transport) advance(from int64, n int) {
	if !t.running.Load() {
		return
	}
	end := float64(from + int64(n))
	bpm := t.bpm.get()
	for _, r := range *t.repeats.Load() {
		if r.next < 0 {
			r.next = float64(from)
		}
		step := r.interval.Seconds(bpm) * sampleRate
		for r.next < end {
			r.fn(ambient.Time(r.next / sampleRate))
			r.next += step
		}
	}
}
