// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/hopstream/utils"
)

const converterBlock = 1024 // source frames read per refill

// RateConverter resamples a source to another rate with Catmull-Rom
// interpolation. Downsampling runs the input through a one-pole low-pass
// first. It can seek when the source can: output frame k maps to source frame
// floor(k·ratio).
type RateConverter struct {
	src      Source
	rate     int
	ratio    float64 // source frames per output frame
	channels int

	// win holds source frames base-1, base, base+1, base+2.
	win  [4][]float32
	have [4]bool
	base int64
	out  int64

	block    []float32
	blockPos int
	blockLen int
	primed   bool
	eof      bool

	lowPass bool
	lpState []float32
}

func NewRateConverter(src Source, rate int) (*RateConverter, error) {
	if rate < 1 || src.SampleRate() < 1 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidSampleRate, src.SampleRate(), rate)
	}

	ch := src.Channels()
	r := &RateConverter{
		src:      src,
		rate:     rate,
		ratio:    float64(src.SampleRate()) / float64(rate),
		channels: ch,
		block:    make([]float32, converterBlock*ch),
		lpState:  make([]float32, ch),
	}
	r.lowPass = r.ratio > 1
	for i := range r.win {
		r.win[i] = make([]float32, ch)
	}

	return r, nil
}

func (r *RateConverter) SampleRate() int { return r.rate }
func (r *RateConverter) Channels() int   { return r.channels }
func (r *RateConverter) BufSize() int    { return r.src.BufSize() }
func (r *RateConverter) Close() error    { return r.src.Close() }

// Frames returns the converted length, or -1 if the source has none.
func (r *RateConverter) Frames() int64 {
	l, ok := r.src.(Lengther)
	if !ok {
		return -1
	}

	n := l.Frames()
	switch {
	case n < 0:
		return -1
	case n == 0:
		return 0
	}
	return int64(math.Floor(float64(n-1)/r.ratio)) + 1
}

func (r *RateConverter) SeekFrame(frame int64) error {
	s, ok := r.src.(Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if frame < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSeek, frame)
	}

	base := int64(float64(frame) * r.ratio)
	if err := s.SeekFrame(base); err != nil {
		return err
	}

	r.base, r.out = base, frame
	r.primed, r.eof = false, false
	r.blockPos, r.blockLen = 0, 0
	return nil
}

func (r *RateConverter) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	ch := r.channels
	want := len(dst) / ch
	n := 0

	for n < want {
		t := float64(r.out)*r.ratio - float64(r.base)
		for t >= 1 {
			if !r.have[2] {
				return n * ch, io.EOF
			}
			if err := r.advance(); err != nil {
				return n * ch, err
			}
			t--
		}

		// The final source frame is only emitted when it lands exactly.
		if !r.have[2] && t > 0 {
			return n * ch, io.EOF
		}

		y2, y3 := r.win[2], r.win[3]
		if !r.have[2] {
			y2 = r.win[1]
		}
		if !r.have[3] {
			y3 = y2
		}

		x := float32(t)
		for c := range ch {
			dst[n*ch+c] = utils.CatmullRom(r.win[0][c], r.win[1][c], y2[c], y3[c], x)
		}

		n++
		r.out++
	}

	return n * ch, nil
}

// prime loads the window at r.base. The frame before base is approximated by
// base itself.
func (r *RateConverter) prime() error {
	r.have = [4]bool{}

	ok, err := r.pull(r.win[1], true)
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	copy(r.win[0], r.win[1])
	r.have[0], r.have[1] = true, true

	if r.have[2], err = r.pull(r.win[2], false); err != nil {
		return err
	}
	if r.have[2] {
		if r.have[3], err = r.pull(r.win[3], false); err != nil {
			return err
		}
	}

	r.primed = true
	return nil
}

func (r *RateConverter) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	r.win[3] = first
	copy(r.have[:], r.have[1:])
	r.base++

	var err error
	r.have[3], err = r.pull(r.win[3], false)
	return err
}

// pull reads the next source frame into frame. reset seeds the low-pass
// state with it.
func (r *RateConverter) pull(frame []float32, reset bool) (bool, error) {
	if r.blockPos == r.blockLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.block)
		r.blockPos, r.blockLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, err
		}

		if r.blockLen == 0 {
			if !r.eof {
				// A source returning nothing without EOF is treated as ended.
				r.eof = true
			}
			return false, nil
		}
	}

	copy(frame, r.block[r.blockPos:r.blockPos+r.channels])
	r.blockPos += r.channels

	if r.lowPass {
		if reset {
			copy(r.lpState, frame)
		}
		for c := range frame {
			frame[c] = 0.5*frame[c] + 0.5*r.lpState[c]
			r.lpState[c] = frame[c]
		}
	}

	return true, nil
}
