// SPDX-License-Identifier: EPL-2.0

package ring

import "errors"

var (
	ErrInvalidLayout   = errors.New("ring layout fields must be positive")
	ErrLowWaterMark    = errors.New("low-water mark exceeds bucket count")
	ErrChannelMismatch = errors.New("chunk channel count does not match buffer")
	ErrPartialHop      = errors.New("chunk length is not a multiple of hop size")
	ErrRaggedChannels  = errors.New("chunk channels differ in length")
	ErrChunkSize       = errors.New("chunk must hold exactly chunk size hops")
)
