// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrOnlyPCMSupported     = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported bit depth")
	ErrInvalidChannels      = errors.New("channel count must be positive")
	ErrInterleavedFrameSize = errors.New("sample count must be a multiple of channels")
)
