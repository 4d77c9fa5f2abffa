// Package sse provides a minimal, purpose-built decoder for the
// server-sent-event-like framing the PartDeck agent streams over HTTP.
// It turns raw byte chunks, as they arrive over the network, into discrete
// (event type, data) frames.
//
// The framing is a subset of the SSE specification: only "event:" and "data:"
// lines are meaningful, data values are trimmed, and each non-empty "data:"
// line yields its own frame. This package intentionally does NOT provide SSE
// writer or server capabilities.
package sse

// Frame is one parsed (event type, data) unit from the wire stream.
// Frames are ephemeral: they live for a single iteration of the decode loop
// and are never persisted.
type Frame struct {
	// Event is the event type from the most recent "event:" line.
	// An empty string means no type was declared for this frame.
	Event string

	// Data is the trimmed contents of one "data:" line. Always non-empty;
	// blank data lines never produce a Frame.
	Data string
}
