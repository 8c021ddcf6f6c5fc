// SPDX-License-Identifier: EPL-2.0

// Package wavfile is an offline sink that renders as fast as chunks arrive
// and records the audible hops to a WAV file.
package wavfile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ik5/hopstream/formats/wav"
	"github.com/ik5/hopstream/sink"
)

const defaultIdle = time.Millisecond

// Sink writes 16-bit PCM through wav.Writer. Hops that render as silence
// because playback is held are not written. A Renderer that is also a
// sink.Pacer is not rendered while it is starved.
type Sink struct {
	ws      io.WriteSeeker
	format  sink.Format
	idle    time.Duration
	maxHops int64
	log     *slog.Logger
	written int64
}

type Option func(*Sink)

// WithIdle sets how long Run waits after a hop that carried no audio.
func WithIdle(d time.Duration) Option {
	return func(s *Sink) {
		if d > 0 {
			s.idle = d
		}
	}
}

// WithMaxHops stops Run after n written hops.
func WithMaxHops(n int64) Option {
	return func(s *Sink) { s.maxHops = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.log = l
		}
	}
}

func New(ws io.WriteSeeker, format sink.Format, opts ...Option) (*Sink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	s := &Sink{
		ws:     ws,
		format: format,
		idle:   defaultIdle,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Written returns the number of hops recorded by the last Run.
func (s *Sink) Written() int64 { return s.written }

// Run renders until ctx is done or the hop limit is hit, then finalizes the
// WAV header. Cancellation is a normal stop and returns nil.
func (s *Sink) Run(ctx context.Context, r sink.Renderer) (err error) {
	w, err := wav.NewWriter(s.ws, s.format.SampleRate, s.format.Channels, 16)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
		s.log.Debug("wavfile: closed", "hops", s.written, "frames", w.Frames())
	}()

	hop := s.format.NewHop()
	frames := make([]float32, s.format.Channels*s.format.HopSize)
	timer := time.NewTimer(s.idle)
	defer timer.Stop()

	wait := func() bool {
		timer.Reset(s.idle)
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	}

	pacer, _ := r.(sink.Pacer)

	s.written = 0
	for s.maxHops <= 0 || s.written < s.maxHops {
		if ctx.Err() != nil {
			return nil
		}

		if pacer != nil && pacer.Starved() {
			if !wait() {
				return nil
			}
			continue
		}

		if !r.Render(hop) {
			if !wait() {
				return nil
			}
			continue
		}

		if err := w.Write(sink.Interleave(frames, hop)); err != nil {
			return err
		}
		s.written++
	}

	return nil
}
