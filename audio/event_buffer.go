package audio

import (
	"sync/atomic"
)

// eventBuffer is a lock-free spsc queue.
type eventBuffer struct {
	events      []event
	read, write *uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{
		events: make([]event, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

// push adds ev to the queue. It returns false if the queue is full; the producer
// runs on the audio thread too, so it must never wait for the consumer.
func (b *eventBuffer) push(ev event) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.events)) {
		return false
	}
	b.events[write%uint32(len(b.events))] = ev
	atomic.StoreUint32(b.write, write+1)
	return true
}

// iter calls f for queued events that start before untilFrame, in order. An
// untilFrame of -1 drains the queue.
func (b *eventBuffer) iter(untilFrame int64, f func(event)) {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	if read == write {
		return
	}
	for read != write {
		event := b.events[read%uint32(len(b.events))]
		if event.frame >= untilFrame && untilFrame != -1 {
			break
		}
		f(event)
		read++
	}
	atomic.StoreUint32(b.read, read)
}
