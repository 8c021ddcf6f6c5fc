// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-source contracts the chunk supplier reads
// from.
//
// This package contains:
//   - Source interface for audio input
//   - Seeker and Lengther, optional capabilities for random access
//   - MemorySource for fully decoded streams
//   - ChannelFitter for matching a source to the engine's channel count
//   - Format registry for decoder registration
//
// # Source Interface
//
// The Source interface is the foundation of audio input:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All decoders return a Source. A Source that also implements Seeker can
// serve chunk requests out of order, which is what a seek produces:
//
//	if s, ok := src.(audio.Seeker); ok {
//	    err := s.SeekFrame(frame)
//	}
//
// A Source that implements Lengther reports its length in frames, and
// Duration turns that into seconds for the engine's prepare message.
//
// # Channel Fitting
//
// The engine renders a fixed channel count. ChannelFitter adapts any source
// to it:
//
//	stereo, _ := audio.NewChannelFitter(monoSource, 2)
//
// Down to mono averages all channels; up from mono duplicates it; other
// changes keep the leading channels and zero-fill the rest.
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, _ := registry.ForPath("track.wav")
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available, possibly
// together with the final samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	}
package audio
