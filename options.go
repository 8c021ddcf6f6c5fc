// SPDX-License-Identifier: EPL-2.0

package hopstream

import (
	"log/slog"
	"time"

	"github.com/ik5/hopstream/engine"
	"github.com/ik5/hopstream/protocol"
)

const (
	DefaultRequestTimeout = 2 * time.Second
	DefaultEventBuffer    = 1024
)

type options struct {
	logger         *slog.Logger
	autoplay       bool
	stopAtEnd      bool
	requestTimeout time.Duration
	inboxSize      int
	eventBuffer    int
	onPosition     func(seconds float64)
	onEnd          func()
	onEvent        func(protocol.Event)
}

func defaultOptions() options {
	return options{
		logger:         slog.Default(),
		autoplay:       true,
		requestTimeout: DefaultRequestTimeout,
		inboxSize:      engine.DefaultInboxSize,
		eventBuffer:    DefaultEventBuffer,
	}
}

// Option configures a Player.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAutoplay controls whether Run starts playback once prepared. It is on
// by default.
func WithAutoplay(on bool) Option {
	return func(o *options) { o.autoplay = on }
}

// WithStopAtEnd makes Run return when the end of the stream is reached.
func WithStopAtEnd(on bool) Option {
	return func(o *options) { o.stopAtEnd = on }
}

// WithRequestTimeout sets how long a chunk request may stay unanswered
// before it is re-issued.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

func WithInboxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.inboxSize = n
		}
	}
}

func WithEventBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.eventBuffer = n
		}
	}
}

// WithOnPosition registers a callback for every position report. It runs on
// the control goroutine and must not block.
func WithOnPosition(fn func(seconds float64)) Option {
	return func(o *options) { o.onPosition = fn }
}

// WithOnEnd registers a callback for the end-of-stream signal.
func WithOnEnd(fn func()) Option {
	return func(o *options) { o.onEnd = fn }
}

// WithOnEvent registers a callback that sees every engine event before the
// player acts on it. protocol.EventLog.Emit fits here.
func WithOnEvent(fn func(protocol.Event)) Option {
	return func(o *options) { o.onEvent = fn }
}
