// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Decoded sources implement audio.Seeker and audio.Lengther on top of the
// reader's SetPosition and Length, which need a seekable input. Inputs that
// cannot seek are buffered in memory first.
//
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
