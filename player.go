// SPDX-License-Identifier: EPL-2.0

package hopstream

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/engine"
	"github.com/ik5/hopstream/feeder"
	"github.com/ik5/hopstream/protocol"
	"github.com/ik5/hopstream/sink"
	"golang.org/x/sync/errgroup"
)

// Player joins a source to an engine. The engine lives on the sink's render
// goroutine; the player's control goroutine answers its chunk requests.
type Player struct {
	cfg    engine.Config
	opts   options
	log    *slog.Logger
	events *protocol.ChanEmitter
	loop   *engine.Loop
	feeder *feeder.Feeder

	running  atomic.Bool
	position atomic.Uint64 // math.Float64bits of the last report
}

func NewPlayer(src audio.Source, cfg engine.Config, opts ...Option) (*Player, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, err := feeder.New(src, cfg.Layout(), feeder.WithSampleRate(cfg.SampleRate))
	if err != nil {
		return nil, err
	}

	events := protocol.NewChanEmitter(o.eventBuffer)
	eng, err := engine.New(cfg, events, engine.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	return &Player{
		cfg:    cfg,
		opts:   o,
		log:    o.logger,
		events: events,
		loop:   engine.NewLoop(eng, o.inboxSize),
		feeder: f,
	}, nil
}

// Format is what a sink must accept to render this player.
func (p *Player) Format() sink.Format {
	return sink.Format{
		SampleRate: p.cfg.SampleRate,
		Channels:   p.cfg.Channels,
		HopSize:    p.cfg.HopSize,
	}
}

// Position returns the last reported playback position in seconds.
func (p *Player) Position() float64 {
	return math.Float64frombits(p.position.Load())
}

// Duration returns the stream length, if known yet.
func (p *Player) Duration() (float64, bool) { return p.feeder.Duration() }

// DroppedEvents counts engine events lost because the control goroutine
// fell behind.
func (p *Player) DroppedEvents() uint64 { return p.events.Dropped() }

func (p *Player) Play() error  { return p.loop.Post(protocol.Play{}) }
func (p *Player) Pause() error { return p.loop.Post(protocol.Pause{}) }
func (p *Player) Stop() error  { return p.loop.Post(protocol.Stop{}) }

// Seek jumps to seconds. Output is held until the new position is buffered.
func (p *Player) Seek(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ErrInvalidPosition
	}
	return p.loop.Post(protocol.Seek{Seconds: seconds})
}

// ScrubStart holds output while the user drags a position control.
func (p *Player) ScrubStart() error { return p.loop.Post(protocol.SeekPrepare{}) }

// ScrubTo reports a tentative position without fetching audio.
func (p *Player) ScrubTo(seconds float64) error {
	return p.loop.Post(protocol.Seeking{Seconds: seconds})
}

// ScrubEnd leaves scrubbing and seeks to seconds.
func (p *Player) ScrubEnd(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ErrInvalidPosition
	}
	return p.loop.Post(protocol.SeekingDone{Seconds: seconds})
}

// Close releases the source. The player must not be running.
func (p *Player) Close() error { return p.feeder.Close() }

// Run drives s and the control loop until ctx is done, s returns, or, with
// WithStopAtEnd, the stream ends.
func (p *Player) Run(ctx context.Context, s sink.Sink) error {
	if s == nil {
		return ErrNilSink
	}
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return s.Run(runCtx, p.loop)
	})
	g.Go(func() error {
		defer cancel()
		return p.control(runCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// control is the only reader of the engine's events.
type control struct {
	p *Player

	announced bool // real duration posted

	waiting bool // a request may be unanswered
	since   time.Time
	dropped uint64
}

func (p *Player) control(ctx context.Context) error {
	c := &control{p: p, dropped: p.events.Dropped()}

	duration, known := p.feeder.Duration()
	if !known {
		// Announced once the feeder reaches the end.
		duration = math.Inf(1)
	}
	c.announced = known
	if err := p.loop.Post(protocol.Prepare{Duration: duration}); err != nil {
		return err
	}

	if p.opts.autoplay {
		if err := p.loop.Post(protocol.Play{}); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(max(p.opts.requestTimeout/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-p.events.Events():
			if c.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			c.checkStall(now)
		}
	}
}

// handle processes one event and reports whether Run should return.
func (c *control) handle(ev protocol.Event) bool {
	p := c.p

	if p.opts.onEvent != nil {
		p.opts.onEvent(ev)
	}

	switch ev.Kind {
	case protocol.KindNextChunkRequest:
		c.answer(ev.ChunkIndex)

	case protocol.KindPositionReport:
		p.position.Store(math.Float64bits(ev.Seconds))
		if p.opts.onPosition != nil {
			p.opts.onPosition(ev.Seconds)
		}

	case protocol.KindEnd:
		p.log.Debug("hopstream: end of stream", "position", p.Position())
		if p.opts.onEnd != nil {
			p.opts.onEnd()
		}
		return p.opts.stopAtEnd

	default:
		p.log.Debug("hopstream: engine event", "event", ev.Kind.String())
	}

	return false
}

func (c *control) answer(index int64) {
	p := c.p

	chunk, err := p.feeder.Chunk(index)
	if err != nil {
		p.log.Error("hopstream: reading chunk", "chunk", index, "error", err)
		c.markWaiting()
		return
	}

	if err := p.loop.Post(protocol.NextChunk{ChunkIndex: index, Chunks: chunk}); err != nil {
		p.log.Warn("hopstream: delivering chunk", "chunk", index, "error", err)
		c.markWaiting()
		return
	}
	c.waiting = false

	if !c.announced {
		if d, ok := p.feeder.Duration(); ok {
			if err := p.loop.Post(protocol.Prepare{Duration: d}); err == nil {
				c.announced = true
			}
		}
	}
}

func (c *control) markWaiting() {
	if !c.waiting {
		c.waiting = true
		c.since = time.Now()
	}
}

// checkStall re-issues the chunk request once it has gone unanswered for the
// configured timeout. A dropped event may have been a request, so drops start
// the clock too.
func (c *control) checkStall(now time.Time) {
	p := c.p

	if d := p.events.Dropped(); d != c.dropped {
		c.dropped = d
		c.markWaiting()
	}

	if !c.waiting || now.Sub(c.since) < p.opts.requestTimeout {
		return
	}

	p.log.Warn("hopstream: chunk request timed out, re-requesting", "after", now.Sub(c.since))
	p.loop.ForceRequestMore()
	c.since = now
}
