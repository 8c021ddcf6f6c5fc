// SPDX-License-Identifier: EPL-2.0

// Package protocol defines the messages exchanged between the control context
// and the playback engine.
//
// Control to engine:
//
//	request:prepare{duration}   request:play   request:pause
//	request:seek{seconds}       request:stop
//	response:nextChunk{chunkIndex, chunks}
//	request:seekPrepare  request:seeking{seconds}  signal:seekingDone{seconds}
//
// Engine to control:
//
//	response:prepared  response:played  response:paused  response:stopped
//	response:seekPrepared
//	request:nextChunk{chunkIndex}  position:report{positionAsSeconds}
//	signal:end
//
// Requests are a closed set of types behind the Request interface. Events
// are a single tagged value type so the render tick can emit them without
// allocating.
//
// The transport between the two sides is not defined here. When one is
// byte-oriented, MarshalRequest/UnmarshalRequest and
// MarshalEvent/UnmarshalEvent provide a msgpack encoding keyed by the wire
// tags above.
package protocol
