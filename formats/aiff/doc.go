// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// The sound data is loaded into an audio.MemorySource, so decoded streams
// can seek and report their length. Signed PCM at 8, 16, 24 and 32 bits is
// accepted.
//
//	src, err := aiff.Decoder{}.Decode(file)
package aiff
