// SPDX-License-Identifier: EPL-2.0

// Package hopstream plays decoded audio through a pull-model streaming
// engine.
//
// Audio flows in fixed render quanta (hops). The engine, driven by a sink on
// its render goroutine, keeps a ring of hops and asks for whole chunks of
// them as playback approaches the write edge. A Player answers those
// requests from an audio.Source on a separate control goroutine:
//
//	src, err := hopstream.Open(hopstream.DefaultRegistry(), "track.ogg")
//	if err != nil {
//	    return err
//	}
//
//	p, err := hopstream.NewPlayer(src, engine.DefaultConfig(),
//	    hopstream.WithStopAtEnd(true))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	out, _ := speaker.New(p.Format())
//	return p.Run(ctx, out)
//
// Transport calls (Play, Pause, Seek, Stop and the Scrub family) may be made
// from any goroutine while Run is active; they are queued for the next
// rendered hop.
//
// # Packages
//
//   - engine: transport state machine, ring and gate wiring, event loop
//   - ring, gate: the hop buffer and the seek barrier
//   - protocol: request and event vocabulary plus a msgpack codec
//   - feeder: cuts sources into chunks
//   - audio, formats/*: sources and decoders
//   - sink/wavfile, sink/speaker: offline and live outputs
//   - config: YAML settings for the CLI
package hopstream
