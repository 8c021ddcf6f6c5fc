// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/hopstream/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the subset of oggvorbis.Reader used here, so tests can
// substitute it. Positions and lengths count samples per channel.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
	SetPosition(pos int64) error
	Length() int64
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// Frames returns the stream length, or -1 if the input could not seek to
// its last page.
func (s *source) Frames() int64 {
	if l := s.dec.Length(); l > 0 {
		return l
	}
	return -1
}

func (s *source) SeekFrame(frame int64) error {
	if frame < 0 {
		return fmt.Errorf("%w: %d", audio.ErrNegativeSeek, frame)
	}

	if l := s.dec.Length(); l > 0 && frame > l {
		frame = l
	}

	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("seeking vorbis to frame %d: %w", frame, err)
	}
	return nil
}

// ReadSamples reads whole frames only; the tail of dst that cannot hold a
// full frame is left untouched.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	total := 0
	for total < want {
		n, err := s.dec.Read(dst[total:want])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

type Decoder struct{}

// Decode reads the stream headers. Non-seekable inputs are buffered so
// SetPosition and Length work.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.AsReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
