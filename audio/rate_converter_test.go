// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/internal/audiotest"
)

func readAll(t *testing.T, src audio.Source, block int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, block*src.Channels())
	for range 100000 {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("source never reached EOF")
	return nil
}

func TestNewRateConverter_Invalid(t *testing.T) {
	t.Parallel()

	_, err := audio.NewRateConverter(audiotest.NewSilentSource(44100, 1, 10), 0)
	if !errors.Is(err, audio.ErrInvalidSampleRate) {
		t.Errorf("NewRateConverter(0) error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestRateConverter_Identity(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 2, 50)
	rc, err := audio.NewRateConverter(src, 8000)
	if err != nil {
		t.Fatalf("NewRateConverter() error = %v", err)
	}

	got := readAll(t, rc, 7)
	if len(got) != 100 {
		t.Fatalf("len = %d, want 100", len(got))
	}
	for i, s := range got {
		if want := audiotest.RampValue(i/2, i%2); math.Abs(float64(s-want)) > 1e-4 {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}
	if rc.Frames() != 50 {
		t.Errorf("Frames() = %d, want 50", rc.Frames())
	}
}

func TestRateConverter_Lengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		srcRate int
		dstRate int
		frames  int
	}{
		{"upsample 2x", 8000, 16000, 101},
		{"downsample 2x", 16000, 8000, 200},
		{"44.1k to 48k", 44100, 48000, 4410},
		{"48k to 44.1k", 48000, 44100, 4800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc, err := audio.NewRateConverter(audiotest.NewSineSource(tt.srcRate, 1, tt.frames, 440), tt.dstRate)
			if err != nil {
				t.Fatalf("NewRateConverter() error = %v", err)
			}

			got := int64(len(readAll(t, rc, 256)))
			want := rc.Frames()
			if d := got - want; d < -1 || d > 1 {
				t.Errorf("emitted %d frames, Frames() = %d", got, want)
			}
		})
	}
}

func TestRateConverter_UpsampleMidpoints(t *testing.T) {
	t.Parallel()

	// A linear ramp interpolates to exact midpoints away from the edges.
	src := audiotest.NewMockSource(8000, 1, 10, func(frame, _ int) float32 { return float32(frame) / 10 })
	rc, err := audio.NewRateConverter(src, 16000)
	if err != nil {
		t.Fatalf("NewRateConverter() error = %v", err)
	}

	got := readAll(t, rc, 64)
	for k := 2; k < 16; k++ {
		if want := float32(k) / 20; math.Abs(float64(got[k]-want)) > 1e-5 {
			t.Errorf("frame %d = %v, want %v", k, got[k], want)
		}
	}
}

func TestRateConverter_Seek(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 1, 100)
	rc, err := audio.NewRateConverter(src, 4000)
	if err != nil {
		t.Fatalf("NewRateConverter() error = %v", err)
	}

	if err := rc.SeekFrame(-1); !errors.Is(err, audio.ErrNegativeSeek) {
		t.Errorf("SeekFrame(-1) error = %v, want ErrNegativeSeek", err)
	}

	if err := rc.SeekFrame(10); err != nil {
		t.Fatalf("SeekFrame(10) error = %v", err)
	}
	if src.Seeks != 1 {
		t.Errorf("source Seeks = %d, want 1", src.Seeks)
	}

	buf := make([]float32, 1)
	if _, err := rc.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	// The low-pass is seeded with the first frame, so it passes unchanged.
	if want := audiotest.RampValue(20, 0); buf[0] != want {
		t.Errorf("first frame after seek = %v, want %v", buf[0], want)
	}
}

func TestRateConverter_NotSeekable(t *testing.T) {
	t.Parallel()

	rc, err := audio.NewRateConverter(audiotest.NewStreamingSource(audiotest.NewSilentSource(8000, 1, 10)), 16000)
	if err != nil {
		t.Fatalf("NewRateConverter() error = %v", err)
	}

	if err := rc.SeekFrame(3); !errors.Is(err, audio.ErrNotSeekable) {
		t.Errorf("SeekFrame() error = %v, want ErrNotSeekable", err)
	}
	if rc.Frames() != -1 {
		t.Errorf("Frames() = %d, want -1", rc.Frames())
	}
}

func TestRateConverter_InvalidDst(t *testing.T) {
	t.Parallel()

	rc, _ := audio.NewRateConverter(audiotest.NewSilentSource(8000, 2, 10), 16000)
	if _, err := rc.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func BenchmarkRateConverter(b *testing.B) {
	src := audiotest.NewSineSource(48000, 2, 48000*600, 440)
	rc, _ := audio.NewRateConverter(src, 44100)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := rc.ReadSamples(buf); err == io.EOF {
			_ = rc.SeekFrame(0)
		}
	}
}
