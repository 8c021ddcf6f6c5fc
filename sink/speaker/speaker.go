// SPDX-License-Identifier: EPL-2.0

// Package speaker plays rendered hops on the default audio device through
// github.com/ebitengine/oto/v3.
package speaker

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/hopstream/sink"
)

// defaultBufferHops is the device buffer length, in hops.
const defaultBufferHops = 8

// Sink is a live output. oto pulls bytes from it on its own goroutine, and
// every hop it needs becomes one Render call there.
type Sink struct {
	format     sink.Format
	bufferHops int
	log        *slog.Logger
}

type Option func(*Sink)

// WithBufferHops sets the device buffer length in hops.
func WithBufferHops(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.bufferHops = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.log = l
		}
	}
}

func New(format sink.Format, opts ...Option) (*Sink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	s := &Sink{format: format, bufferHops: defaultBufferHops, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run opens the device and plays until ctx is done. oto allows one context
// per process, so Run must not be called twice.
func (s *Sink) Run(ctx context.Context, r sink.Renderer) error {
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.format.SampleRate,
		ChannelCount: s.format.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(s.bufferHops) * s.format.HopDuration(),
	})
	if err != nil {
		return fmt.Errorf("speaker: opening device: %w", err)
	}
	<-ready

	player := octx.NewPlayer(newHopReader(s.format, r))
	player.Play()
	s.log.Info("speaker: playing", "sample_rate", s.format.SampleRate, "channels", s.format.Channels)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			player.Close()
			return nil
		case <-ticker.C:
			if err := player.Err(); err != nil {
				player.Close()
				return fmt.Errorf("speaker: playback: %w", err)
			}
		}
	}
}

// hopReader turns Render calls into a float32LE byte stream.
type hopReader struct {
	r      sink.Renderer
	hop    [][]float32
	frames []float32
	bytes  []byte
	off    int
}

func newHopReader(f sink.Format, r sink.Renderer) *hopReader {
	n := f.Channels * f.HopSize
	return &hopReader{
		r:      r,
		hop:    f.NewHop(),
		frames: make([]float32, n),
		bytes:  make([]byte, n*4),
		off:    n * 4,
	}
}

// Read never returns an error; held playback is delivered as silence.
func (h *hopReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if h.off == len(h.bytes) {
			h.next()
		}
		c := copy(p[n:], h.bytes[h.off:])
		h.off += c
		n += c
	}
	return n, nil
}

func (h *hopReader) next() {
	h.r.Render(h.hop)
	for i, s := range sink.Interleave(h.frames, h.hop) {
		binary.LittleEndian.PutUint32(h.bytes[i*4:], math.Float32bits(s))
	}
	h.off = 0
}
