// SPDX-License-Identifier: EPL-2.0

// Package ring implements the fixed-capacity multi-channel hop store that sits
// between the chunk supplier and the render tick.
//
// Storage is addressed by absolute hop position modulo the bucket count. Only
// the write pointer is tracked; reads are always relative to the caller's
// playback hop.
package ring

import "fmt"

// Layout describes the geometry of a Buffer.
type Layout struct {
	Channels      int
	HopSize       int // samples per hop, per channel
	ChunkSize     int // hops per chunk
	DepthInChunks int
	LowWaterMark  int // in hops
}

// Buckets returns how many hops the ring holds.
func (l Layout) Buckets() int { return l.ChunkSize * l.DepthInChunks }

// Validate reports whether the layout can back a Buffer.
func (l Layout) Validate() error {
	if l.Channels < 1 || l.HopSize < 1 || l.ChunkSize < 1 || l.DepthInChunks < 1 || l.LowWaterMark < 1 {
		return fmt.Errorf("%w: %+v", ErrInvalidLayout, l)
	}

	if l.LowWaterMark > l.Buckets() {
		return fmt.Errorf("%w: %d > %d", ErrLowWaterMark, l.LowWaterMark, l.Buckets())
	}

	return nil
}

// Buffer is a circular store of hops. The zero value is not usable; create
// one with New.
type Buffer struct {
	layout  Layout
	buckets int

	// arena holds channels*buckets hops laid out channel-major.
	arena []float32
	views [][]float32
	write int
}

func New(l Layout) (*Buffer, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	buckets := l.Buckets()

	return &Buffer{
		layout:  l,
		buckets: buckets,
		arena:   make([]float32, l.Channels*buckets*l.HopSize),
		views:   make([][]float32, l.Channels),
	}, nil
}

func (b *Buffer) Layout() Layout    { return b.layout }
func (b *Buffer) Buckets() int      { return b.buckets }
func (b *Buffer) WritePointer() int { return b.write }

// bucketOf maps an absolute hop position onto a bucket index.
func (b *Buffer) bucketOf(hop int64) int {
	m := int(hop % int64(b.buckets))
	if m < 0 {
		m += b.buckets
	}
	return m
}

func (b *Buffer) segment(channel, bucket int) []float32 {
	hs := b.layout.HopSize
	off := (channel*b.buckets + bucket) * hs
	return b.arena[off : off+hs : off+hs]
}

// Peek returns one view per channel onto the bucket holding hop. The returned
// slices alias internal storage and are only valid until the next Receive or
// Peek; callers must not write through them.
func (b *Buffer) Peek(hop int64) [][]float32 {
	bucket := b.bucketOf(hop)
	for ch := range b.views {
		b.views[ch] = b.segment(ch, bucket)
	}
	return b.views
}

// Receive writes a whole chunk, given as one sample slice per channel, at the
// write pointer and advances it by ChunkSize buckets. Chunks of any other
// length are rejected before anything is written, so the pointer stays on a
// chunk boundary.
func (b *Buffer) Receive(chunk [][]float32) error {
	if len(chunk) != b.layout.Channels {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, len(chunk), b.layout.Channels)
	}

	n := len(chunk[0])
	for _, data := range chunk[1:] {
		if len(data) != n {
			return ErrRaggedChannels
		}
	}

	hs := b.layout.HopSize
	if n%hs != 0 {
		return fmt.Errorf("%w: %d samples, hop size %d", ErrPartialHop, n, hs)
	}

	hops := n / hs
	if hops != b.layout.ChunkSize {
		return fmt.Errorf("%w: %d hops, chunk size %d", ErrChunkSize, hops, b.layout.ChunkSize)
	}

	for h := range hops {
		for ch, data := range chunk {
			copy(b.segment(ch, b.write), data[h*hs:(h+1)*hs])
		}
		b.write = (b.write + 1) % b.buckets
	}

	return nil
}

// SetWritePointer moves the write pointer to the first hop of the chunk that
// contains hop. Chunks are always written whole, so the pointer never lands
// mid-chunk.
func (b *Buffer) SetWritePointer(hop int64) {
	if hop < 0 {
		hop = 0
	}

	cs := int64(b.layout.ChunkSize)
	b.write = b.bucketOf((hop / cs) * cs)
}

// ReadAboutToOvertakeWrite reports whether fewer than LowWaterMark hops
// separate the read position from the write pointer.
func (b *Buffer) ReadAboutToOvertakeWrite(hop int64) bool {
	read := b.bucketOf(hop)
	distance := (b.write - read + b.buckets) % b.buckets
	return distance < b.layout.LowWaterMark
}

// Clear rewinds the write pointer and silences the storage in place.
func (b *Buffer) Clear() {
	b.write = 0
	clear(b.arena)
}
