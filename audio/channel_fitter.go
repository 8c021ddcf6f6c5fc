// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelFitter presents src with a fixed channel count. Going down to mono
// averages all channels, going up from mono duplicates it, and any other
// change keeps the leading channels and silences the rest.
type ChannelFitter struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelFitter(src Source, channels int) (*ChannelFitter, error) {
	if channels < 1 || src.Channels() < 1 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidChannels, src.Channels(), channels)
	}

	return &ChannelFitter{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}, nil
}

func (f *ChannelFitter) SampleRate() int { return f.src.SampleRate() }
func (f *ChannelFitter) Channels() int   { return f.channels }
func (f *ChannelFitter) BufSize() int    { return f.src.BufSize() }

func (f *ChannelFitter) Close() error {
	if err := f.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (f *ChannelFitter) SeekFrame(frame int64) error {
	s, ok := f.src.(Seeker)
	if !ok {
		return ErrNotSeekable
	}
	return s.SeekFrame(frame)
}

func (f *ChannelFitter) Frames() int64 {
	if l, ok := f.src.(Lengther); ok {
		return l.Frames()
	}
	return -1
}

func (f *ChannelFitter) ReadSamples(dst []float32) (int, error) {
	if len(dst)%f.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	srcCh := f.src.Channels()
	if srcCh == f.channels {
		return f.src.ReadSamples(dst)
	}

	frames := len(dst) / f.channels
	need := frames * srcCh

	// Grow but never shrink tmp.
	if cap(f.tmp) < need {
		f.tmp = make([]float32, max(need, 8192))
	}
	f.tmp = f.tmp[:need]

	n, err := f.src.ReadSamples(f.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / srcCh

	switch {
	case f.channels == 1:
		inv := float32(1) / float32(srcCh)
		for fr := range got {
			sum := float32(0)
			base := fr * srcCh
			for c := range srcCh {
				sum += f.tmp[base+c]
			}
			dst[fr] = sum * inv
		}
	case srcCh == 1:
		for fr := range got {
			v := f.tmp[fr]
			base := fr * f.channels
			for c := range f.channels {
				dst[base+c] = v
			}
		}
	default:
		keep := min(srcCh, f.channels)
		for fr := range got {
			in := f.tmp[fr*srcCh : fr*srcCh+srcCh]
			out := dst[fr*f.channels : fr*f.channels+f.channels]
			copy(out, in[:keep])
			clear(out[keep:])
		}
	}

	return got * f.channels, err
}
