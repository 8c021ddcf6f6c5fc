// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrNegativeSeek is returned by MockSource.SeekFrame for negative frames.
var ErrNegativeSeek = errors.New("audiotest: negative seek")

// MockSource is a test helper that generates audio data for testing.
// It implements audio.Source, audio.Seeker and audio.Lengther (without
// importing the audio package to avoid cycles).
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int // frames to generate
	generated   int // frames generated so far
	waveform    func(frame int, channel int) float32

	Seeks  int // SeekFrame calls
	Closed bool
}

// NewMockSource creates a new mock audio source.
// totalFrames is the number of frames to generate.
// waveform generates sample values given frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// NewRampSource creates a mock source whose samples identify their position:
// RampValue(frame, channel).
func NewRampSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, RampValue)
}

// RampValue is the sample NewRampSource produces at frame and channel. It is
// exact in float32 for frames below 2^20.
func RampValue(frame, channel int) float32 {
	return float32(frame*8 + channel)
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Frames() int64   { return int64(m.totalFrames) }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset resets the generated frame counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) SeekFrame(frame int64) error {
	if frame < 0 {
		return ErrNegativeSeek
	}

	m.Seeks++
	m.generated = int(min(frame, int64(m.totalFrames)))
	return nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalFrames-m.generated)

	for frame := range framesToWrite {
		idx := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(idx, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalFrames {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// StreamingSource hides seeking and length from an underlying source, the
// way a live or forward-only decoder behaves.
type StreamingSource struct {
	src *MockSource
}

func NewStreamingSource(src *MockSource) *StreamingSource {
	return &StreamingSource{src: src}
}

func (s *StreamingSource) SampleRate() int { return s.src.SampleRate() }
func (s *StreamingSource) Channels() int   { return s.src.Channels() }
func (s *StreamingSource) BufSize() int    { return s.src.BufSize() }
func (s *StreamingSource) Close() error    { return s.src.Close() }

func (s *StreamingSource) ReadSamples(dst []float32) (int, error) {
	return s.src.ReadSamples(dst)
}
