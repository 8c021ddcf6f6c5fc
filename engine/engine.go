// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"log/slog"
	"math"

	"github.com/ik5/hopstream/gate"
	"github.com/ik5/hopstream/protocol"
	"github.com/ik5/hopstream/ring"
)

// State is the transport state derived from the engine flags.
type State uint8

const (
	StateClosed State = iota
	StateIdle
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Position is the playback position. Second is derived from Hop except
// right after a seek, when it holds the requested time.
type Position struct {
	Hop      int64
	Second   float64
	Duration float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for discarded deliveries and unknown
// messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine is the transport state machine. It owns a ring buffer and a gate and
// must only be driven from one goroutine: Handle between ticks, Tick once per
// render quantum.
type Engine struct {
	cfg  Config
	ring *ring.Buffer
	gate *gate.Gate
	out  protocol.Emitter
	log  *slog.Logger

	closed    bool
	paused    bool
	started   bool
	scrubbing bool

	currentHop    int64
	currentSecond float64
	duration      float64
	currentChunk  int64

	pending    int64
	hasPending bool
}

// New builds an engine and eagerly requests chunk 0 through out.
func New(cfg Config, out protocol.Emitter, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if out == nil {
		return nil, ErrNilEmitter
	}

	rb, err := ring.New(cfg.Layout())
	if err != nil {
		return nil, err
	}

	g, err := gate.New(cfg.GateReleases)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		ring:   rb,
		gate:   g,
		out:    out,
		log:    slog.Default(),
		closed: true,
		paused: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.prime()

	return e, nil
}

// prime puts the buffer bookkeeping in its start-of-stream state: the gate
// holds output until chunk 0 arrives, and chunk 0 is requested.
func (e *Engine) prime() {
	e.currentChunk = -1
	e.gate.Arm()
	e.pending, e.hasPending = 0, true
	e.out.Emit(protocol.NextChunkRequest(0))
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Position() Position {
	return Position{Hop: e.currentHop, Second: e.currentSecond, Duration: e.duration}
}

func (e *Engine) State() State {
	switch {
	case e.closed:
		return StateClosed
	case !e.paused:
		return StatePlaying
	case !e.started:
		return StateIdle
	}
	return StatePaused
}

// Pending returns the outstanding chunk request, if any.
func (e *Engine) Pending() (int64, bool) { return e.pending, e.hasPending }

// CurrentChunk returns the index of the last accepted chunk, or the chunk
// before the seek target while a seek is in flight.
func (e *Engine) CurrentChunk() int64 { return e.currentChunk }

// Seeking reports whether output is held waiting for chunk deliveries.
func (e *Engine) Seeking() bool { return e.gate.IsArmed() }

func (e *Engine) Scrubbing() bool { return e.scrubbing }

// Handle applies one control message. It never blocks.
func (e *Engine) Handle(req protocol.Request) {
	switch r := req.(type) {
	case protocol.Prepare:
		e.prepare(r.Duration)
	case protocol.Play:
		e.paused = false
		e.started = true
		e.out.Emit(protocol.Played())
	case protocol.Pause:
		e.paused = true
		e.out.Emit(protocol.Paused())
	case protocol.Stop:
		e.stop()
	case protocol.Seek:
		e.seek(r.Seconds)
	case protocol.NextChunk:
		e.receive(r)
	case protocol.SeekPrepare:
		e.scrubbing = true
		e.out.Emit(protocol.SeekPrepared())
	case protocol.Seeking:
		e.out.Emit(protocol.PositionReport(math.Max(r.Seconds, 0)))
	case protocol.SeekingDone:
		e.scrubbing = false
		e.seek(r.Seconds)
	default:
		e.log.Warn("engine: unknown message", "type", req.Type())
	}
}

func (e *Engine) stop() {
	e.closed = true
	e.paused = true
	e.started = false
	e.scrubbing = false

	e.currentHop = 0
	e.currentSecond = 0
	e.duration = 0

	e.ring.Clear()
	e.out.Emit(protocol.Stopped())
	e.prime()
}

func (e *Engine) prepare(duration float64) {
	if math.IsNaN(duration) {
		e.log.Warn("engine: prepare with NaN duration, ignoring")
		return
	}

	e.closed = false
	e.duration = max(duration, 0)
	e.out.Emit(protocol.Prepared())
}

// maxHop bounds seek targets so hop and sample offsets stay within int64.
func (e *Engine) maxHop() int64 {
	return math.MaxInt64 / int64(e.cfg.HopSize*e.cfg.ChunkSize) / 2 * int64(e.cfg.ChunkSize)
}

func (e *Engine) seek(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if !e.closed && !math.IsInf(e.duration, 1) && seconds > e.duration {
		seconds = e.duration
	}

	hopsPerSecond := float64(e.cfg.SampleRate) / float64(e.cfg.HopSize)
	if limit := e.maxHop(); seconds*hopsPerSecond >= float64(limit) {
		e.currentHop = limit
		seconds = float64(limit) / hopsPerSecond
	} else {
		e.currentHop = int64(math.Floor(seconds * hopsPerSecond))
	}
	e.currentSecond = seconds

	// The forced request below asks for currentChunk+1, the chunk holding
	// currentHop, and the write pointer is aligned to that chunk's first hop.
	target := e.currentHop/int64(e.cfg.ChunkSize) - 1
	e.currentChunk = target
	e.pending, e.hasPending = target, true
	e.ring.SetWritePointer(e.currentHop)
	e.gate.Arm()

	e.out.Emit(protocol.PositionReport(e.currentSecond))
	e.maybeRequestMore(true)
}

func (e *Engine) receive(msg protocol.NextChunk) {
	if !e.hasPending || msg.ChunkIndex != e.pending {
		e.log.Warn("engine: chunk index mismatch, discarding",
			"got", msg.ChunkIndex, "pending", e.pending, "has_pending", e.hasPending)
		return
	}

	if err := e.ring.Receive(msg.Chunks); err != nil {
		e.log.Warn("engine: invalid chunk, discarding", "chunk", msg.ChunkIndex, "error", err)
		return
	}

	e.hasPending = false
	e.currentChunk = msg.ChunkIndex
	e.gate.Release()

	// A multi-release gate waits for several consecutive chunks; keep them
	// coming since ticks are held and will not ask.
	if e.gate.IsArmed() {
		e.maybeRequestMore(true)
	}
}

// ForceRequestMore re-issues the next chunk request regardless of pending
// state or headroom. It is the recovery hook for request timeouts.
func (e *Engine) ForceRequestMore() { e.maybeRequestMore(true) }

func (e *Engine) maybeRequestMore(forced bool) {
	if !forced && (e.hasPending || !e.ring.ReadAboutToOvertakeWrite(e.currentHop)) {
		return
	}

	next := e.currentChunk + 1
	e.pending, e.hasPending = next, true
	e.out.Emit(protocol.NextChunkRequest(next))
}

// Tick renders one quantum into out, one slice per channel. Every slice is
// fully written; silence is produced whenever playback is held. It reports
// whether a hop of audio was produced.
func (e *Engine) Tick(out [][]float32) bool {
	if e.closed || e.paused || e.scrubbing || e.gate.IsArmed() {
		silence(out)
		return false
	}

	if e.currentSecond >= e.duration {
		e.paused = true
		e.out.Emit(protocol.End())
		silence(out)
		return false
	}

	views := e.ring.Peek(e.currentHop)
	for ch, dst := range out {
		if ch >= len(views) {
			clear(dst)
			continue
		}
		n := copy(dst, views[ch])
		clear(dst[n:])
	}

	e.currentHop++
	e.currentSecond = float64(e.currentHop) * float64(e.cfg.HopSize) / float64(e.cfg.SampleRate)
	e.out.Emit(protocol.PositionReport(e.currentSecond))

	e.maybeRequestMore(false)

	return true
}

// Starved reports whether the next tick would play a hop that has not been
// delivered yet. Held playback and the end of the stream are not starvation.
func (e *Engine) Starved() bool {
	if e.closed || e.paused || e.scrubbing || e.gate.IsArmed() || e.currentSecond >= e.duration {
		return false
	}
	return e.currentHop >= (e.currentChunk+1)*int64(e.cfg.ChunkSize)
}

func silence(out [][]float32) {
	for _, dst := range out {
		clear(dst)
	}
}
