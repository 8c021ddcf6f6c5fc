// SPDX-License-Identifier: EPL-2.0

// Package sink defines the render boundary: something that repeatedly asks a
// Renderer for one hop of audio and delivers it somewhere.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidFormat = errors.New("sink: invalid format")

// Renderer produces one hop per call into out, one slice per channel. It
// reports whether the hop carried audio; silence is written otherwise.
// engine.Loop satisfies it.
type Renderer interface {
	Render(out [][]float32) bool
}

// Pacer is implemented by renderers that can tell when the next hop has not
// arrived yet. Sinks that are not bound to a clock wait instead of rendering.
// engine.Loop satisfies it.
type Pacer interface {
	Starved() bool
}

// Sink drives a Renderer until ctx is done. All Render calls come from a
// single goroutine.
type Sink interface {
	Run(ctx context.Context, r Renderer) error
}

// Format describes the hops a sink receives.
type Format struct {
	SampleRate int
	Channels   int
	HopSize    int
}

func (f Format) Validate() error {
	if f.SampleRate < 1 || f.Channels < 1 || f.HopSize < 1 {
		return fmt.Errorf("%w: %+v", ErrInvalidFormat, f)
	}
	return nil
}

// HopDuration is the wall-clock length of one hop.
func (f Format) HopDuration() time.Duration {
	return time.Duration(f.HopSize) * time.Second / time.Duration(f.SampleRate)
}

// NewHop allocates one per-channel hop buffer.
func (f Format) NewHop() [][]float32 {
	out := make([][]float32, f.Channels)
	for ch := range out {
		out[ch] = make([]float32, f.HopSize)
	}
	return out
}

// Interleave writes hop into dst frame by frame and returns the used prefix.
// dst must hold len(hop)·len(hop[0]) samples.
func Interleave(dst []float32, hop [][]float32) []float32 {
	channels := len(hop)
	if channels == 0 {
		return dst[:0]
	}

	frames := len(hop[0])
	for ch, samples := range hop {
		for i, s := range samples {
			dst[i*channels+ch] = s
		}
	}
	return dst[:frames*channels]
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(out [][]float32) bool

func (f RenderFunc) Render(out [][]float32) bool { return f(out) }
