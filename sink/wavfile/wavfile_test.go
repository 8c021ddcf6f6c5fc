// SPDX-License-Identifier: EPL-2.0

package wavfile

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/formats/wav"
	"github.com/ik5/hopstream/internal/audiotest"
	"github.com/ik5/hopstream/sink"
)

var testFormat = sink.Format{SampleRate: 8000, Channels: 2, HopSize: 16}

// scripted renders a constant hop on the calls listed as audible and
// silence on the others.
type scripted struct {
	calls   int
	audible func(call int) bool
}

func (s *scripted) Render(out [][]float32) bool {
	call := s.calls
	s.calls++

	ok := s.audible(call)
	for ch := range out {
		for i := range out[ch] {
			if ok {
				out[ch][i] = 0.25 * float32(ch+1)
			} else {
				out[ch][i] = 0
			}
		}
	}
	return ok
}

func TestNew_InvalidFormat(t *testing.T) {
	t.Parallel()

	var buf audiotest.WriteSeekBuffer
	if _, err := New(&buf, sink.Format{}); err == nil {
		t.Error("New() with zero format error = nil")
	}
}

func TestRun_WritesOnlyAudibleHops(t *testing.T) {
	t.Parallel()

	var buf audiotest.WriteSeekBuffer
	s, err := New(&buf, testFormat, WithMaxHops(5), WithIdle(time.Microsecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := &scripted{audible: func(call int) bool { return call%2 == 1 }}
	if err := s.Run(context.Background(), r); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if s.Written() != 5 {
		t.Errorf("Written() = %d, want 5", s.Written())
	}
	if r.calls != 10 {
		t.Errorf("Render calls = %d, want 10", r.calls)
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if frames := src.(audio.Lengther).Frames(); frames != 5*16 {
		t.Errorf("Frames() = %d, want %d", frames, 5*16)
	}

	out := make([]float32, 2)
	if _, err := src.ReadSamples(out); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if out[0] < 0.249 || out[0] > 0.251 || out[1] < 0.499 || out[1] > 0.501 {
		t.Errorf("first frame = %v, want ~[0.25 0.5]", out)
	}
}

func TestRun_CancelFinalizes(t *testing.T) {
	t.Parallel()

	var buf audiotest.WriteSeekBuffer
	s, err := New(&buf, testFormat, WithIdle(time.Microsecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &scripted{audible: func(call int) bool {
		if call == 7 {
			cancel()
		}
		return call < 3
	}}

	if err := s.Run(ctx, r); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Written() != 3 {
		t.Errorf("Written() = %d, want 3", s.Written())
	}

	if _, err := (wav.Decoder{}).Decode(bytes.NewReader(buf.Bytes())); err != nil {
		t.Errorf("output after cancel is not a valid WAV: %v", err)
	}
}

// paced is starved on every other poll.
type paced struct {
	scripted
	polls int
}

func (p *paced) Starved() bool {
	p.polls++
	return p.polls%2 == 1
}

func TestRun_WaitsWhileStarved(t *testing.T) {
	t.Parallel()

	var buf audiotest.WriteSeekBuffer
	s, err := New(&buf, testFormat, WithMaxHops(4), WithIdle(time.Microsecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := &paced{scripted: scripted{audible: func(int) bool { return true }}}
	if err := s.Run(context.Background(), r); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if r.calls != 4 {
		t.Errorf("Render calls = %d, want 4", r.calls)
	}
	if r.polls != 8 {
		t.Errorf("Starved polls = %d, want 8", r.polls)
	}
}
