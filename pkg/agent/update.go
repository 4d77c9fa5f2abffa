// Package agent implements the streaming protocol client for the PartDeck
// agent service: classifying decoded stream frames, reconciling them against
// the single in-flight agent message, and driving one request/response turn
// at a time.
package agent

// Mode selects how a text update is applied to the in-flight message.
type Mode int

const (
	// ModeAppend concatenates the text onto the current message content.
	ModeAppend Mode = iota

	// ModeSet replaces the current message content with the text.
	ModeSet
)

// Kind tags a classified update.
type Kind int

const (
	// KindIgnore carries no usable content; applying it is a no-op.
	KindIgnore Kind = iota

	// KindText is an incremental token or snapshot of the message text.
	KindText

	// KindError is a server-reported error to display verbatim.
	KindError

	// KindUI is a structured presentation payload attached to the message.
	KindUI

	// KindDone is the [DONE] stream sentinel. No mutation; the turn
	// controller relies on end-of-input rather than this marker.
	KindDone
)

// Update is the ephemeral result of classifying one frame. It lives for a
// single iteration of the stream loop and is never persisted.
type Update struct {
	Kind Kind

	// Text is the display text for KindText and KindError updates.
	Text string

	// Mode applies to KindText only.
	Mode Mode

	// UI is set for KindUI updates.
	UI *UIPayload
}
