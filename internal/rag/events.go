package rag

import "encoding/json"

// StreamEvent is the closed set of event kinds the stream consumer models.
// Event kinds the decoder does not recognize surface as OtherEvent so an
// unknown wire type can never break consumption.
type StreamEvent interface {
	streamEvent()
}

// TextDelta is an incremental piece of the assistant's answer.
type TextDelta struct {
	Text string
}

// RetrievedChunk is a retrieval result surfaced by the service during
// generation. The payload is kept opaque; it is only ever shown verbatim
// in debug output.
type RetrievedChunk struct {
	Payload json.RawMessage
}

// OtherEvent covers every event kind outside the modeled set.
type OtherEvent struct {
	Kind string
}

func (TextDelta) streamEvent()      {}
func (RetrievedChunk) streamEvent() {}
func (OtherEvent) streamEvent()     {}
