package agent

// StreamRequest is the outbound body for POST <target>/agent/stream.
// The user and session identifiers are opaque strings supplied by the host;
// reset asks the server to start a fresh conversation.
type StreamRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Reset     bool   `json:"reset"`
}
