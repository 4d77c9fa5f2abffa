package agent

import (
	"encoding/json"
	"strings"

	"github.com/partdeck/partdeck/pkg/sse"
)

// doneSentinel terminates the data stream. It is a literal, never JSON.
const doneSentinel = "[DONE]"

// Classify maps one decoded frame to the updates it carries, in application
// order. It is a pure function: no side effects, deterministic.
//
// A single frame may yield both a UI update and a text or error update; the
// UI facet and the text facet of an event are not mutually exclusive.
func Classify(f sse.Frame) []Update {
	// An error-typed frame displays its data verbatim. This takes precedence
	// over JSON parsing: the data is never reinterpreted, even when it looks
	// like a JSON object.
	if f.Event == "error" {
		return []Update{{Kind: KindError, Text: f.Data}}
	}

	if f.Data == doneSentinel {
		return []Update{{Kind: KindDone}}
	}

	var parsed any
	if err := json.Unmarshal([]byte(f.Data), &parsed); err != nil {
		// Malformed data degrades to a plain incremental token rather than
		// being dropped.
		return []Update{{Kind: KindText, Text: f.Data, Mode: ModeAppend}}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return []Update{{Kind: KindIgnore}}
	}

	var updates []Update
	if ui := uiPayload(obj); ui != nil {
		updates = append(updates, Update{Kind: KindUI, UI: ui})
	}

	partial, _ := obj["partial"].(bool)
	for _, rule := range textRules {
		if u, ok := rule(obj, partial); ok {
			return append(updates, u)
		}
	}

	if len(updates) == 0 {
		return []Update{{Kind: KindIgnore}}
	}
	return updates
}

// textRule extracts display text from a decoded event object. Returns false
// when the rule does not apply, letting evaluation fall through to the next.
type textRule func(obj map[string]any, partial bool) (Update, bool)

// textRules is the ordered extraction table. Rules are evaluated top to
// bottom and the first match wins.
var textRules = []textRule{
	errorText,
	deltaText,
	messageText,
	contentText,
	topLevelText,
}

// errorText matches server errors reported inside the event body.
func errorText(obj map[string]any, _ bool) (Update, bool) {
	for _, key := range []string{"error", "errorMessage"} {
		if text, ok := obj[key].(string); ok && text != "" {
			return Update{Kind: KindError, Text: text}, true
		}
	}
	return Update{}, false
}

// deltaText matches incremental fragments. Deltas always append.
func deltaText(obj map[string]any, _ bool) (Update, bool) {
	switch delta := obj["delta"].(type) {
	case string:
		if delta != "" {
			return Update{Kind: KindText, Text: delta, Mode: ModeAppend}, true
		}
	case map[string]any:
		if text, ok := delta["text"].(string); ok && text != "" {
			return Update{Kind: KindText, Text: text, Mode: ModeAppend}, true
		}
		if joined := partsText(delta["parts"]); joined != "" {
			return Update{Kind: KindText, Text: joined, Mode: ModeAppend}, true
		}
	}
	return Update{}, false
}

// messageText matches the message envelope shape: a string content field or
// a parts array, appended when the event is partial and replacing otherwise.
func messageText(obj map[string]any, partial bool) (Update, bool) {
	message, ok := obj["message"].(map[string]any)
	if !ok {
		return Update{}, false
	}
	if text, ok := message["content"].(string); ok && text != "" {
		return Update{Kind: KindText, Text: text, Mode: snapshotMode(partial)}, true
	}
	if joined := partsText(message["parts"]); joined != "" {
		return Update{Kind: KindText, Text: joined, Mode: snapshotMode(partial)}, true
	}
	return Update{}, false
}

// contentText matches a content field that is either the text itself or an
// object carrying a parts array.
func contentText(obj map[string]any, partial bool) (Update, bool) {
	switch content := obj["content"].(type) {
	case string:
		if content != "" {
			return Update{Kind: KindText, Text: content, Mode: snapshotMode(partial)}, true
		}
	case map[string]any:
		if joined := partsText(content["parts"]); joined != "" {
			return Update{Kind: KindText, Text: joined, Mode: snapshotMode(partial)}, true
		}
	}
	return Update{}, false
}

// topLevelText matches a bare text field or parts array at the event root.
func topLevelText(obj map[string]any, partial bool) (Update, bool) {
	if text, ok := obj["text"].(string); ok && text != "" {
		return Update{Kind: KindText, Text: text, Mode: snapshotMode(partial)}, true
	}
	if joined := partsText(obj["parts"]); joined != "" {
		return Update{Kind: KindText, Text: joined, Mode: snapshotMode(partial)}, true
	}
	return Update{}, false
}

// snapshotMode picks the application mode for snapshot-shaped fields: events
// flagged partial stream token by token, everything else is a full value.
func snapshotMode(partial bool) Mode {
	if partial {
		return ModeAppend
	}
	return ModeSet
}

// partsText concatenates a parts array: string parts verbatim, object parts
// via their "text" field, dropping parts without usable text.
func partsText(v any) string {
	parts, ok := v.([]any)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, part := range parts {
		switch part := part.(type) {
		case string:
			b.WriteString(part)
		case map[string]any:
			if text, ok := part["text"].(string); ok {
				b.WriteString(text)
			}
		}
	}
	return b.String()
}
