// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync/atomic"

	"github.com/ik5/hopstream/protocol"
)

// DefaultInboxSize is the Loop inbox capacity used when none is given.
const DefaultInboxSize = 64

// Loop is the event loop around an Engine. The control side posts messages
// from any goroutine; the render side calls Render once per quantum, which
// drains the inbox and then ticks. Only the Render goroutine touches the
// engine.
type Loop struct {
	eng   *Engine
	inbox chan protocol.Request
	force atomic.Bool
}

func NewLoop(eng *Engine, inboxSize int) *Loop {
	if inboxSize < 1 {
		inboxSize = DefaultInboxSize
	}

	return &Loop{
		eng:   eng,
		inbox: make(chan protocol.Request, inboxSize),
	}
}

// Engine returns the wrapped engine. Reading its state is only safe from the
// Render goroutine or after rendering has stopped.
func (l *Loop) Engine() *Engine { return l.eng }

// Post queues a message for the next Render. It does not block.
func (l *Loop) Post(req protocol.Request) error {
	select {
	case l.inbox <- req:
		return nil
	default:
		return ErrInboxFull
	}
}

// ForceRequestMore asks the render side to re-issue the chunk request before
// its next tick.
func (l *Loop) ForceRequestMore() { l.force.Store(true) }

// Drain applies every queued message without ticking.
func (l *Loop) Drain() {
	for {
		select {
		case req := <-l.inbox:
			l.eng.Handle(req)
		default:
			if l.force.Swap(false) {
				l.eng.ForceRequestMore()
			}
			return
		}
	}
}

// Render drains the inbox and renders one quantum into out.
func (l *Loop) Render(out [][]float32) bool {
	l.Drain()
	return l.eng.Tick(out)
}

// Starved applies queued messages and reports whether the engine is waiting
// on a chunk it needs for the next tick. Offline sinks wait on it instead of
// rendering stale buckets; it must be called from the Render goroutine.
func (l *Loop) Starved() bool {
	l.Drain()
	return l.eng.Starved()
}
