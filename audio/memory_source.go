// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// MemorySource serves interleaved samples held in memory. Decoders for
// formats without cheap random access load into one so the stream can seek.
type MemorySource struct {
	sampleRate int
	channels   int
	data       []float32
	pos        int // sample offset into data, always frame aligned
}

// NewMemorySource wraps interleaved data. A trailing partial frame is
// ignored.
func NewMemorySource(sampleRate, channels int, data []float32) (*MemorySource, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	return &MemorySource{
		sampleRate: sampleRate,
		channels:   channels,
		data:       data[:len(data)-len(data)%channels],
	}, nil
}

func (m *MemorySource) SampleRate() int { return m.sampleRate }
func (m *MemorySource) Channels() int   { return m.channels }
func (m *MemorySource) BufSize() int    { return 4096 }
func (m *MemorySource) Close() error    { return nil }

func (m *MemorySource) Frames() int64 { return int64(len(m.data) / m.channels) }

// Samples exposes the interleaved data without copying.
func (m *MemorySource) Samples() []float32 { return m.data }

func (m *MemorySource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%m.channels
	n := copy(dst[:want], m.data[m.pos:])
	m.pos += n

	if m.pos >= len(m.data) {
		return n, io.EOF
	}

	return n, nil
}

func (m *MemorySource) SeekFrame(frame int64) error {
	if frame < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSeek, frame)
	}

	m.pos = int(min(frame, m.Frames())) * m.channels
	return nil
}
