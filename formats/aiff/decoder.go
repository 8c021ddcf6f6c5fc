// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/utils"
)

// pcmBlock is how many samples are pulled from the decoder per call.
const pcmBlock = 4096

// aiffReader is the part of aiff.Decoder used for reading PCM, so tests can
// substitute it.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type Decoder struct{}

// Decode reads the sound data into memory and returns a seekable source.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.AsReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	samples, err := readPCM(dec, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	return audio.NewMemorySource(format.SampleRate, format.NumChannels, samples)
}

// readPCM drains dec and normalizes every sample to [-1, 1).
func readPCM(dec aiffReader, bitDepth int) ([]float32, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	buf := &goaudio.IntBuffer{
		Data:           make([]int, pcmBlock),
		Format:         dec.Format(),
		SourceBitDepth: bitDepth,
	}

	var out []float32
	for {
		n, err := dec.PCMBuffer(buf)
		for _, v := range buf.Data[:n] {
			out = append(out, utils.IntToFloat32(v, bitDepth))
		}

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading aiff pcm: %w", err)
		}
	}
}
