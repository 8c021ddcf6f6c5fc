// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// # Decoding
//
// Decoder loads the full payload into an audio.MemorySource, so the result
// can seek and reports its length:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	seconds, _ := audio.Duration(src)
//
// 8, 16, 24 and 32-bit integer PCM are accepted. Float and compressed WAV
// variants return ErrOnlyPCMSupported.
//
// # Writing
//
// Writer streams interleaved float32 frames to any io.WriteSeeker and fixes
// up the header on Close:
//
//	w, err := wav.NewWriter(file, 44100, 2, 16)
//	if err != nil {
//	    return err
//	}
//	_ = w.Write(frames)
//	_ = w.Close()
package wav
