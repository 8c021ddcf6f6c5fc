// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidChannels = errors.New("channel count must be positive")
	ErrNotSeekable     = errors.New("source does not support seeking")
	ErrNegativeSeek    = errors.New("seek to negative frame")

	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)
