// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// WriteSeekBuffer is an in-memory io.WriteSeeker, for encoders that patch
// headers after writing the payload.
type WriteSeekBuffer struct {
	buf []byte
	pos int64
}

func (w *WriteSeekBuffer) Write(p []byte) (int, error) {
	end := w.pos + int64(len(p))
	if end > int64(len(w.buf)) {
		w.buf = append(w.buf, make([]byte, end-int64(len(w.buf)))...)
	}

	copy(w.buf[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

func (w *WriteSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = w.pos + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("audiotest: invalid whence")
	}

	if pos < 0 {
		return 0, errors.New("audiotest: negative position")
	}

	w.pos = pos
	return pos, nil
}

// Bytes returns the written content.
func (w *WriteSeekBuffer) Bytes() []byte { return w.buf }
