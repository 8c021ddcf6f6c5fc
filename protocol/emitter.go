// SPDX-License-Identifier: EPL-2.0

package protocol

import (
	"sync"
	"sync/atomic"
)

// Emitter receives events from the engine. Emit is called from the render
// thread and must not block.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }

// ChanEmitter forwards events to a buffered channel. When the channel is full
// the event is dropped and counted rather than stalling the caller.
type ChanEmitter struct {
	ch      chan Event
	dropped atomic.Uint64
}

func NewChanEmitter(size int) *ChanEmitter {
	return &ChanEmitter{ch: make(chan Event, size)}
}

func (c *ChanEmitter) Emit(ev Event) {
	select {
	case c.ch <- ev:
	default:
		c.dropped.Add(1)
	}
}

// Events is the receive side of the emitter.
func (c *ChanEmitter) Events() <-chan Event { return c.ch }

// Dropped returns how many events were discarded because the channel was
// full.
func (c *ChanEmitter) Dropped() uint64 { return c.dropped.Load() }

// Recorder keeps every emitted event. It is meant for tests and tooling.
type Recorder struct {
	mtx    sync.Mutex
	events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded events have kind k.
func (r *Recorder) Count(k Kind) int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	n := 0
	for _, ev := range r.events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

// Last returns the most recent event of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == k {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.events = r.events[:0]
}
