// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams through github.com/hajimehoshi/go-mp3.
//
// Output is always 16-bit stereo as produced by go-mp3, normalized to
// float32. The returned source implements audio.Seeker and audio.Lengther by
// mapping frames onto the decoder's byte offsets. Inputs that cannot seek are
// buffered in memory first.
package mp3
