// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream wraps failures reported while reading the Ogg Vorbis
// headers.
var ErrInvalidStream = errors.New("invalid Ogg Vorbis stream")
