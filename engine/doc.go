// SPDX-License-Identifier: EPL-2.0

// Package engine implements the transport state machine that feeds a
// fixed-size render callback from an asynchronous chunk supplier.
//
// # Model
//
// Audio is addressed in hops (one render quantum per channel) and fetched in
// chunks (ChunkSize consecutive hops). The engine keeps at most one chunk
// request outstanding and asks for the next one when the ring buffer's read
// position comes within LowWaterMark hops of its write pointer.
//
//	eng, _ := engine.New(engine.DefaultConfig(), emitter)
//	loop := engine.NewLoop(eng, 0)
//
//	// control goroutine
//	loop.Post(protocol.Prepare{Duration: 30})
//	loop.Post(protocol.Play{})
//
//	// render goroutine, once per quantum
//	loop.Render(out)
//
// # States
//
// An engine starts Closed. Prepare opens it (Idle), Play and Pause toggle
// Playing/Paused, Stop returns it to Closed and resets position and
// buffering. Seek is orthogonal: it arms a gate that holds output until
// GateReleases matching chunks have been delivered.
//
// # End of stream
//
// When the position reaches the prepared duration the engine pauses itself
// and emits signal:end. Play does not rewind, so playing again without a seek
// or a new prepare immediately ends again.
//
// # Real-time behavior
//
// Tick never blocks and never allocates. Deliveries whose index does not
// match the pending request, and deliveries with the wrong shape, are logged
// and dropped. Recovery from lost requests is left to the caller through
// ForceRequestMore.
package engine
