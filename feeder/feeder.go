// SPDX-License-Identifier: EPL-2.0

// Package feeder cuts an audio.Source into the per-channel chunks the engine
// requests.
package feeder

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/ring"
)

// Feeder answers chunk requests from a source. Chunk must be called from one
// goroutine; Duration may be called from any.
type Feeder struct {
	src    audio.Source
	seeker audio.Seeker
	layout ring.Layout

	chunkFrames int
	interleaved []float32

	// next is the chunk index the source is positioned at.
	next int64
	// eofFrame is the frame count observed when the source ran dry, or -1.
	eofFrame atomic.Int64
}

// Option configures a Feeder.
type Option func(*options)

type options struct {
	sampleRate int
}

// WithSampleRate converts sources at any other rate to rate.
func WithSampleRate(rate int) Option {
	return func(o *options) { o.sampleRate = rate }
}

// New wraps src for layout. A source with a different channel count is
// fitted to layout.Channels.
func New(src audio.Source, layout ring.Layout, opts ...Option) (*Feeder, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if src == nil {
		return nil, ErrNilSource
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	_, canSeek := src.(audio.Seeker)

	if src.Channels() != layout.Channels {
		fitted, err := audio.NewChannelFitter(src, layout.Channels)
		if err != nil {
			return nil, fmt.Errorf("feeder: fitting channels: %w", err)
		}
		src = fitted
	}

	if o.sampleRate > 0 && src.SampleRate() != o.sampleRate {
		conv, err := audio.NewRateConverter(src, o.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("feeder: converting sample rate: %w", err)
		}
		src = conv
	}

	f := &Feeder{
		src:         src,
		layout:      layout,
		chunkFrames: layout.ChunkSize * layout.HopSize,
	}
	f.eofFrame.Store(-1)
	f.interleaved = make([]float32, f.chunkFrames*layout.Channels)

	if canSeek {
		f.seeker = src.(audio.Seeker)
	}

	return f, nil
}

// Source returns the (possibly channel-fitted) source being read.
func (f *Feeder) Source() audio.Source { return f.src }

// Seekable reports whether out-of-order chunks can be served.
func (f *Feeder) Seekable() bool { return f.seeker != nil }

// Duration returns the stream length in seconds. It becomes known either
// from the source length or once the stream has been read to its end.
func (f *Feeder) Duration() (float64, bool) {
	if d, ok := audio.Duration(f.src); ok {
		return d, true
	}
	if eof := f.eofFrame.Load(); eof >= 0 && f.src.SampleRate() > 0 {
		return float64(eof) / float64(f.src.SampleRate()), true
	}
	return 0, false
}

// Chunk returns chunk index as freshly allocated per-channel slices of
// chunkSize·hopSize samples each. The tail past the end of the stream is
// silence.
func (f *Feeder) Chunk(index int64) ([][]float32, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}

	out := make([][]float32, f.layout.Channels)
	for ch := range out {
		out[ch] = make([]float32, f.chunkFrames)
	}

	start := index * int64(f.chunkFrames)
	if f.pastEnd(start) {
		f.next = index + 1
		return out, nil
	}

	if index != f.next {
		if f.seeker == nil {
			return nil, fmt.Errorf("%w: chunk %d requested, source at chunk %d", audio.ErrNotSeekable, index, f.next)
		}
		if err := f.seeker.SeekFrame(start); err != nil {
			return nil, fmt.Errorf("feeder: seeking to chunk %d: %w", index, err)
		}
	}

	frames, err := f.fill()
	if err != nil {
		return nil, fmt.Errorf("feeder: reading chunk %d: %w", index, err)
	}

	if frames < f.chunkFrames {
		f.eofFrame.Store(start + int64(frames))
	}

	deinterleave(out, f.interleaved[:frames*f.layout.Channels])
	f.next = index + 1

	return out, nil
}

func (f *Feeder) pastEnd(start int64) bool {
	if l, ok := f.src.(audio.Lengther); ok {
		if n := l.Frames(); n >= 0 {
			return start >= n
		}
	}
	eof := f.eofFrame.Load()
	return eof >= 0 && start >= eof
}

// fill reads up to one chunk of frames into f.interleaved and returns how
// many whole frames arrived.
func (f *Feeder) fill() (int, error) {
	channels := f.layout.Channels
	total := 0

	for total < len(f.interleaved) {
		n, err := f.src.ReadSamples(f.interleaved[total:])
		total += n

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
	}

	return total / channels, nil
}

func deinterleave(out [][]float32, interleaved []float32) {
	channels := len(out)
	for i, s := range interleaved {
		out[i%channels][i/channels] = s
	}
}

// Close closes the underlying source.
func (f *Feeder) Close() error { return f.src.Close() }
