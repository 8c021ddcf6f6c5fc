// SPDX-License-Identifier: EPL-2.0

package hopstream

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ik5/hopstream/audio"
	"github.com/ik5/hopstream/formats/aiff"
	"github.com/ik5/hopstream/formats/mp3"
	"github.com/ik5/hopstream/formats/vorbis"
	"github.com/ik5/hopstream/formats/wav"
)

// DefaultRegistry returns a registry with every bundled decoder, keyed by
// file extension.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	return r
}

// Open decodes the file at path with the decoder registered for its
// extension. The file is read into memory, so the returned source is
// seekable and holds no file handle.
func Open(reg *audio.Registry, path string) (audio.Source, error) {
	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}
