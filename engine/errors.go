// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrInvalidHopSize      = errors.New("hop size must be positive")
	ErrInvalidChunkSize    = errors.New("chunk size must be positive")
	ErrInvalidChannels     = errors.New("channel count must be positive")
	ErrInvalidDepth        = errors.New("buffer depth must be positive")
	ErrInvalidLowWaterMark = errors.New("low-water mark must be between 1 and buckets minus chunk size")
	ErrInvalidGateReleases = errors.New("gate releases must be between 1 and buffer depth")
	ErrNilEmitter          = errors.New("emitter is nil")
	ErrInboxFull           = errors.New("engine inbox is full")
)
