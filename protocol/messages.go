// SPDX-License-Identifier: EPL-2.0

package protocol

// Wire tags for control-to-engine messages.
const (
	TypePrepare     = "request:prepare"
	TypePlay        = "request:play"
	TypePause       = "request:pause"
	TypeSeek        = "request:seek"
	TypeStop        = "request:stop"
	TypeNextChunk   = "response:nextChunk"
	TypeSeekPrepare = "request:seekPrepare"
	TypeSeeking     = "request:seeking"
	TypeSeekingDone = "signal:seekingDone"
)

// Request is a message from the control context to the engine. The set of
// implementations is closed; switch over them exhaustively.
type Request interface {
	Type() string
	isRequest()
}

// Prepare opens playback of a stream lasting Duration seconds.
type Prepare struct {
	Duration float64
}

type Play struct{}

type Pause struct{}

// Seek moves playback to Seconds and refetches from the containing chunk.
type Seek struct {
	Seconds float64
}

type Stop struct{}

// NextChunk answers a chunk request. Chunks holds one sample slice per
// channel.
type NextChunk struct {
	ChunkIndex int64
	Chunks     [][]float32
}

// SeekPrepare starts a scrubbing session.
type SeekPrepare struct{}

// Seeking reports a scrub position without fetching data.
type Seeking struct {
	Seconds float64
}

// SeekingDone ends scrubbing and performs a real seek to Seconds.
type SeekingDone struct {
	Seconds float64
}

func (Prepare) Type() string     { return TypePrepare }
func (Play) Type() string        { return TypePlay }
func (Pause) Type() string       { return TypePause }
func (Seek) Type() string        { return TypeSeek }
func (Stop) Type() string        { return TypeStop }
func (NextChunk) Type() string   { return TypeNextChunk }
func (SeekPrepare) Type() string { return TypeSeekPrepare }
func (Seeking) Type() string     { return TypeSeeking }
func (SeekingDone) Type() string { return TypeSeekingDone }

func (Prepare) isRequest()     {}
func (Play) isRequest()        {}
func (Pause) isRequest()       {}
func (Seek) isRequest()        {}
func (Stop) isRequest()        {}
func (NextChunk) isRequest()   {}
func (SeekPrepare) isRequest() {}
func (Seeking) isRequest()     {}
func (SeekingDone) isRequest() {}

// Kind tags an Event.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrepared
	KindPlayed
	KindPaused
	KindStopped
	KindNextChunkRequest
	KindPositionReport
	KindEnd
	KindSeekPrepared
)

var kindTags = [...]string{
	KindInvalid:          "invalid",
	KindPrepared:         "response:prepared",
	KindPlayed:           "response:played",
	KindPaused:           "response:paused",
	KindStopped:          "response:stopped",
	KindNextChunkRequest: "request:nextChunk",
	KindPositionReport:   "position:report",
	KindEnd:              "signal:end",
	KindSeekPrepared:     "response:seekPrepared",
}

// String returns the wire tag of k.
func (k Kind) String() string {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return kindTags[KindInvalid]
}

// KindFromString maps a wire tag back to its Kind.
func KindFromString(tag string) (Kind, bool) {
	for k, s := range kindTags {
		if k != int(KindInvalid) && s == tag {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// Event is a message from the engine to the control context.
//
// Events are plain values so the render tick can emit them without
// allocating. ChunkIndex is set for KindNextChunkRequest and Seconds for
// KindPositionReport.
type Event struct {
	Kind       Kind
	ChunkIndex int64
	Seconds    float64
}

func Prepared() Event     { return Event{Kind: KindPrepared} }
func Played() Event       { return Event{Kind: KindPlayed} }
func Paused() Event       { return Event{Kind: KindPaused} }
func Stopped() Event      { return Event{Kind: KindStopped} }
func End() Event          { return Event{Kind: KindEnd} }
func SeekPrepared() Event { return Event{Kind: KindSeekPrepared} }

func NextChunkRequest(index int64) Event {
	return Event{Kind: KindNextChunkRequest, ChunkIndex: index}
}

func PositionReport(seconds float64) Event {
	return Event{Kind: KindPositionReport, Seconds: seconds}
}
