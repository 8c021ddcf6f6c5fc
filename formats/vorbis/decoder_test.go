// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/hopstream/audio"
)

// mockOggVorbisReader simulates the oggvorbis.Reader for testing. It hands out
// at most maxRead values per call, like a decoder returning one packet.
type mockOggVorbisReader struct {
	sampleRate   int
	channels     int
	samples      []float32 // interleaved
	offset       int       // in values
	maxRead      int
	returnErrors bool
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }
func (m *mockOggVorbisReader) Length() int64   { return int64(len(m.samples) / m.channels) }

func (m *mockOggVorbisReader) SetPosition(pos int64) error {
	if pos < 0 {
		return errors.New("mock: negative position")
	}
	m.offset = min(int(pos)*m.channels, len(m.samples))
	return nil
}

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := len(buf)
	if m.maxRead > 0 {
		n = min(n, m.maxRead)
	}
	n = copy(buf[:n], m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func ramp(frames, channels int) []float32 {
	s := make([]float32, frames*channels)
	for i := range s {
		s[i] = float32(i) / float32(len(s))
	}
	return s
}

func newMockSource(m *mockOggVorbisReader) *source {
	return &source{dec: m, sampleRate: m.sampleRate, channels: m.channels}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("This is not Ogg Vorbis data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrInvalidStream) {
				t.Errorf("Decode() error = %v, want ErrInvalidStream", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newMockSource(&mockOggVorbisReader{sampleRate: 48000, channels: 2, samples: ramp(100, 2)})

	if src.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if src.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", src.Frames())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		maxRead  int
		dst      int
		want     int
	}{
		{"stereo whole", 2, 0, 20, 20},
		{"stereo packetized", 2, 6, 20, 20},
		{"stereo odd dst", 2, 0, 21, 20},
		{"mono", 1, 3, 7, 7},
		{"5.1", 6, 12, 30, 30},
		{"dst smaller than frame", 2, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := ramp(50, tt.channels)
			src := newMockSource(&mockOggVorbisReader{
				sampleRate: 44100,
				channels:   tt.channels,
				samples:    in,
				maxRead:    tt.maxRead,
			})

			dst := make([]float32, tt.dst)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != tt.want {
				t.Fatalf("ReadSamples() n = %d, want %d", n, tt.want)
			}
			for i := range n {
				if dst[i] != in[i] {
					t.Fatalf("dst[%d] = %v, want %v", i, dst[i], in[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := newMockSource(&mockOggVorbisReader{sampleRate: 8000, channels: 1, samples: ramp(5, 1)})

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)
	if n != 5 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (5, EOF)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newMockSource(&mockOggVorbisReader{sampleRate: 8000, channels: 1, returnErrors: true})

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_SeekFrame(t *testing.T) {
	t.Parallel()

	in := ramp(40, 2)
	src := newMockSource(&mockOggVorbisReader{sampleRate: 8000, channels: 2, samples: in})

	if err := src.SeekFrame(-3); !errors.Is(err, audio.ErrNegativeSeek) {
		t.Errorf("SeekFrame(-3) error = %v, want ErrNegativeSeek", err)
	}

	if err := src.SeekFrame(12); err != nil {
		t.Fatalf("SeekFrame(12) error = %v", err)
	}
	dst := make([]float32, 2)
	if _, err := src.ReadSamples(dst); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if dst[0] != in[24] || dst[1] != in[25] {
		t.Errorf("frame after seek = %v, want [%v %v]", dst, in[24], in[25])
	}

	if err := src.SeekFrame(1000); err != nil {
		t.Fatalf("SeekFrame(past end) error = %v", err)
	}
	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() past end = (%d, %v), want (0, EOF)", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	m := &mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: ramp(1<<18, 2), maxRead: 2048}
	src := newMockSource(m)
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := src.ReadSamples(dst); err == io.EOF {
			_ = src.SeekFrame(0)
		}
	}
}
