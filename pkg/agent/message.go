package agent

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one transcript entry. Agent messages are mutable only while
// their turn is in flight; once the turn finalizes they never change again.
type Message struct {
	ID     int
	Sender Sender
	Text   string

	// UI is the structured payload attached to the message, if any.
	// Last writer wins; payloads are never merged.
	UI *UIPayload
}

// Accumulator owns the single in-progress agent message for a turn and
// applies classified updates to it under the ordering and mode rules of the
// stream protocol. It never rejects an update: kinds it cannot use are
// no-ops.
type Accumulator struct {
	msg *Message

	// received flips to true exactly once, on the first accepted text or
	// error content. It never goes back to false.
	received bool

	// ignoreText suppresses streamed append updates for the remainder of
	// the turn once a UI payload has taken over narration via replace_text.
	ignoreText bool
}

// NewAccumulator wraps the given in-flight message. The accumulator is the
// message's exclusive writer until the turn finalizes.
func NewAccumulator(msg *Message) *Accumulator {
	return &Accumulator{msg: msg}
}

// ReceivedContent reports whether any text or error content has been
// accepted. When still false at stream end, the turn controller injects the
// no-response fallback so the placeholder never survives as final state.
func (a *Accumulator) ReceivedContent() bool {
	return a.received
}

// Apply mutates the message per the update's kind and reports whether the
// message changed.
func (a *Accumulator) Apply(u Update) bool {
	switch u.Kind {
	case KindError:
		// Errors display their raw text and fully replace, regardless of
		// the ignore flag.
		a.msg.Text = u.Text
		a.received = true
		return true

	case KindText:
		return a.applyText(u.Text, u.Mode, false)

	case KindUI:
		a.msg.UI = u.UI
		if u.UI.ReplaceText != "" {
			a.ignoreText = true
			a.applyText(u.UI.ReplaceText, ModeSet, true)
		}
		return true
	}

	// KindDone, KindIgnore: no mutation.
	return false
}

// applyText applies one text mutation. The first accepted content always
// replaces, never appends onto the placeholder, regardless of the suggested
// mode. bypass lets a UI replace_text through the ignore flag.
func (a *Accumulator) applyText(text string, mode Mode, bypass bool) bool {
	if !a.received {
		mode = ModeSet
	}
	if a.ignoreText && !bypass && mode == ModeAppend {
		return false
	}

	if mode == ModeSet {
		a.msg.Text = text
	} else {
		a.msg.Text += text
	}
	a.received = true
	return true
}
