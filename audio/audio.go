// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Seeker is implemented by sources that can reposition to an arbitrary
// frame. Seeking past the end leaves the source at its end.
type Seeker interface {
	SeekFrame(frame int64) error
}

// Lengther is implemented by sources that know their length. Frames returns
// -1 when the length is unknown.
type Lengther interface {
	Frames() int64
}

// Duration returns the length of src in seconds, if src reports one.
func Duration(src Source) (float64, bool) {
	l, ok := src.(Lengther)
	if !ok || src.SampleRate() <= 0 {
		return 0, false
	}

	frames := l.Frames()
	if frames < 0 {
		return 0, false
	}

	return float64(frames) / float64(src.SampleRate()), true
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys such as "wav" or "ogg" to decoders. It is safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Decoder)}
}

// Register binds format to d, replacing any earlier binding.
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.formats[format]
	return d, ok
}

// ForPath picks a decoder by the file extension of path, ignoring case.
func (r *Registry) ForPath(path string) (Decoder, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.formats))
	for k := range r.formats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// AsReadSeeker returns r itself when it can seek, and otherwise buffers the
// whole stream in memory. Decoders that need random access use it.
func AsReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
