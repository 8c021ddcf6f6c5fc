// SPDX-License-Identifier: EPL-2.0

package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EventLog appends engine events to a stream as consecutive msgpack
// envelopes. It is an Emitter, but encoding allocates, so it belongs on the
// control side rather than the render path.
type EventLog struct {
	enc *msgpack.Encoder
	err error
	n   int
}

func NewEventLog(w io.Writer) *EventLog {
	return &EventLog{enc: msgpack.NewEncoder(w)}
}

// Write encodes one event.
func (l *EventLog) Write(ev Event) error {
	env, err := eventEnvelope(ev)
	if err != nil {
		return err
	}
	if err := l.enc.Encode(&env); err != nil {
		return fmt.Errorf("writing %s: %w", env.Type, err)
	}
	l.n++
	return nil
}

// Emit writes ev and keeps the first failure for Err.
func (l *EventLog) Emit(ev Event) {
	if err := l.Write(ev); err != nil && l.err == nil {
		l.err = err
	}
}

// Err returns the first error seen by Emit.
func (l *EventLog) Err() error { return l.err }

// Len returns the number of events written.
func (l *EventLog) Len() int { return l.n }

// ReadEventLog decodes every event in r.
func ReadEventLog(r io.Reader) ([]Event, error) {
	dec := msgpack.NewDecoder(r)

	var events []Event
	for {
		var env envelope
		err := dec.Decode(&env)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, fmt.Errorf("reading event %d: %w", len(events), err)
		}

		ev, err := envelopeEvent(env)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}
