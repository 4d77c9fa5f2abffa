package agent

// UIPayload is a type-tagged structured presentation attached to an agent
// message, distinct from its plain text. The agent embeds it in stream
// events at actions.stateDelta.ui.
//
// Known types are product_list, product_detail, compatibility,
// compatible_models, compatible_parts, installation_guides, cart, shipping,
// checkout and order_history. Unrecognized types are stored unchanged and
// simply produce no visual output; the client does not validate payloads
// beyond shape checks at presentation time.
type UIPayload struct {
	// Type is the payload's "type" field, empty when absent.
	Type string

	// ReplaceText, when non-empty, is display text that fully replaces the
	// streamed message text; streamed appends after it are suppressed for
	// the remainder of the turn.
	ReplaceText string

	// Fields is the raw decoded payload object, consumed verbatim by the
	// presentation layer. Monetary *_cents fields are integer cents and are
	// formatted as currency only at display time.
	Fields map[string]any
}

// uiPayload extracts an embedded UI payload from a decoded stream event,
// looking at the fixed nested path actions.stateDelta.ui. Returns nil when
// no payload is present.
func uiPayload(obj map[string]any) *UIPayload {
	actions, ok := obj["actions"].(map[string]any)
	if !ok {
		return nil
	}
	stateDelta, ok := actions["stateDelta"].(map[string]any)
	if !ok {
		return nil
	}
	fields, ok := stateDelta["ui"].(map[string]any)
	if !ok {
		return nil
	}

	payload := &UIPayload{Fields: fields}
	payload.Type, _ = fields["type"].(string)
	payload.ReplaceText, _ = fields["replace_text"].(string)
	return payload
}
