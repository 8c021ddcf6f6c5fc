// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrInvalidStream wraps failures reported by the MP3 decoder while reading
// frame headers.
var ErrInvalidStream = errors.New("invalid MP3 stream")
