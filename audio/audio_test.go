package audio

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/ik5/hopstream/internal/audiotest"
)

// mockDecoder always yields a short silent stereo source.
type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	wav := &mockDecoder{name: "wav"}
	mp3 := &mockDecoder{name: "mp3"}
	replaced := &mockDecoder{name: "old aiff"}
	aiff := &mockDecoder{name: "aiff"}

	registry := NewRegistry()
	registry.Register("wav", wav)
	registry.Register("mp3", mp3)
	registry.Register("aiff", replaced)
	registry.Register("aiff", aiff)

	tests := []struct {
		format string
		want   Decoder
	}{
		{"wav", wav},
		{"mp3", mp3},
		{"aiff", aiff},
		{"flac", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, ok := registry.Get(tt.format)
			if ok != (tt.want != nil) {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.format, ok, tt.want != nil)
			}
			if ok && got != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("wav", decoder)
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Get("wav")
			_ = registry.Formats()
		}()
	}
	wg.Wait()

	if got, ok := registry.Get("wav"); !ok || got != decoder {
		t.Errorf("Get(wav) = %v, %v after concurrent use", got, ok)
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &mockDecoder{name: "wav"}
	registry.Register("wav", wavDecoder)
	registry.Register("ogg", &mockDecoder{name: "ogg"})

	tests := []struct {
		path   string
		wantOK bool
	}{
		{"song.wav", true},
		{"/music/SONG.WAV", true},
		{"dir.with.dots/track.wav", true},
		{"track.flac", false},
		{"noext", false},
		{"", false},
	}

	for _, tt := range tests {
		got, ok := registry.ForPath(tt.path)
		if ok != tt.wantOK {
			t.Errorf("ForPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
		}
		if ok && got != wavDecoder {
			t.Errorf("ForPath(%q) returned wrong decoder", tt.path)
		}
	}

	formats := registry.Formats()
	if len(formats) != 2 || formats[0] != "ogg" || formats[1] != "wav" {
		t.Errorf("Formats() = %v, want [ogg wav]", formats)
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 2, 12000)
	d, ok := Duration(src)
	if !ok || d != 1.5 {
		t.Errorf("Duration() = %v, %v, want 1.5, true", d, ok)
	}

	unknown := audiotest.NewStreamingSource(audiotest.NewSilentSource(8000, 1, 10))
	if _, ok := Duration(unknown); ok {
		t.Error("Duration() ok = true for source without length")
	}
}

func BenchmarkRegistry_ForPath(b *testing.B) {
	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{})
	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.ForPath("/music/track.WAV")
	}
}

func TestAsReadSeeker(t *testing.T) {
	t.Parallel()

	seekable := strings.NewReader("abc")
	rs, err := AsReadSeeker(seekable)
	if err != nil {
		t.Fatalf("AsReadSeeker() error = %v", err)
	}
	if rs != io.ReadSeeker(seekable) {
		t.Error("AsReadSeeker() buffered a reader that already seeks")
	}

	rs, err = AsReadSeeker(io.LimitReader(strings.NewReader("hello"), 5))
	if err != nil {
		t.Fatalf("AsReadSeeker() error = %v", err)
	}
	if _, err := rs.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "ello" {
		t.Errorf("read after seek = %q, want %q", rest, "ello")
	}

	if _, err := AsReadSeeker(iotest.ErrReader(io.ErrClosedPipe)); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("AsReadSeeker(failing) error = %v, want io.ErrClosedPipe", err)
	}
}
