// SPDX-License-Identifier: EPL-2.0

package protocol

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// envelope is the msgpack shape shared by both directions.
type envelope struct {
	Type       string      `msgpack:"type"`
	Duration   float64     `msgpack:"duration,omitempty"`
	Seconds    float64     `msgpack:"seconds,omitempty"`
	Position   float64     `msgpack:"positionAsSeconds,omitempty"`
	ChunkIndex int64       `msgpack:"chunkIndex,omitempty"`
	Chunks     [][]float32 `msgpack:"chunks,omitempty"`
}

// MarshalRequest encodes a control message for a byte transport.
func MarshalRequest(req Request) ([]byte, error) {
	env := envelope{Type: req.Type()}

	switch r := req.(type) {
	case Prepare:
		env.Duration = r.Duration
	case Seek:
		env.Seconds = r.Seconds
	case Seeking:
		env.Seconds = r.Seconds
	case SeekingDone:
		env.Seconds = r.Seconds
	case NextChunk:
		env.ChunkIndex = r.ChunkIndex
		env.Chunks = r.Chunks
	case Play, Pause, Stop, SeekPrepare:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, req)
	}

	b, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", env.Type, err)
	}

	return b, nil
}

// UnmarshalRequest decodes a control message produced by MarshalRequest.
func UnmarshalRequest(b []byte) (Request, error) {
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}

	switch env.Type {
	case TypePrepare:
		return Prepare{Duration: env.Duration}, nil
	case TypePlay:
		return Play{}, nil
	case TypePause:
		return Pause{}, nil
	case TypeSeek:
		return Seek{Seconds: env.Seconds}, nil
	case TypeStop:
		return Stop{}, nil
	case TypeNextChunk:
		return NextChunk{ChunkIndex: env.ChunkIndex, Chunks: env.Chunks}, nil
	case TypeSeekPrepare:
		return SeekPrepare{}, nil
	case TypeSeeking:
		return Seeking{Seconds: env.Seconds}, nil
	case TypeSeekingDone:
		return SeekingDone{Seconds: env.Seconds}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
}

func eventEnvelope(ev Event) (envelope, error) {
	if ev.Kind == KindInvalid || int(ev.Kind) >= len(kindTags) {
		return envelope{}, fmt.Errorf("%w: %d", ErrInvalidEvent, ev.Kind)
	}

	env := envelope{Type: ev.Kind.String()}
	switch ev.Kind {
	case KindNextChunkRequest:
		env.ChunkIndex = ev.ChunkIndex
	case KindPositionReport:
		env.Position = ev.Seconds
	}
	return env, nil
}

func envelopeEvent(env envelope) (Event, error) {
	kind, ok := KindFromString(env.Type)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
	return Event{Kind: kind, ChunkIndex: env.ChunkIndex, Seconds: env.Position}, nil
}

// MarshalEvent encodes an engine event for a byte transport.
func MarshalEvent(ev Event) ([]byte, error) {
	env, err := eventEnvelope(ev)
	if err != nil {
		return nil, err
	}

	b, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", env.Type, err)
	}

	return b, nil
}

// UnmarshalEvent decodes an event produced by MarshalEvent.
func UnmarshalEvent(b []byte) (Event, error) {
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}

	return envelopeEvent(env)
}
