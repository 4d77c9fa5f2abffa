package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/partdeck/partdeck/pkg/sse"
)

const (
	welcomeText  = "Welcome to PartDeck! I can help you find the right part, check compatibility, or assist with your order."
	thinkingText = "Thinking..."

	connectionFailureText = "Sorry, I ran into a connection problem. Please try again."
	noResponseText        = "Sorry, I could not generate a response."
)

// Controller drives one request/response turn at a time against the agent's
// streaming endpoint. It owns the conversation transcript, the in-flight
// cancellation handle, and the guarantee that every turn ends in a stable,
// displayable message state: no failure propagates to the caller of Submit.
type Controller struct {
	target    string
	userID    string
	sessionID string

	client *http.Client
	log    *slog.Logger

	// OnUpdate, when set, is called with a snapshot of the agent message
	// after every applied mutation and again when the turn finalizes. It is
	// invoked from the goroutine running Submit.
	OnUpdate func(Message)

	mu        sync.Mutex
	messages  []Message
	nextID    int
	streaming bool
	cancel    context.CancelFunc
	reset     bool
}

// NewController creates a controller for the given streaming endpoint base
// URL and pre-supplied user/session identifiers. The transcript opens with
// the welcome message.
func NewController(target, userID, sessionID string, log *slog.Logger) *Controller {
	c := &Controller{
		target:    strings.TrimRight(target, "/"),
		userID:    userID,
		sessionID: sessionID,
		client: &http.Client{
			// Agent responses can be slow; the stream has no independent
			// timeout, only completion, failure, or cancellation.
			Timeout: 0,
		},
		log: log,
	}
	c.appendLocked(Message{Sender: SenderAgent, Text: welcomeText})
	return c
}

// Messages returns a snapshot of the transcript in chronological order.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Streaming reports whether a turn is currently in flight.
func (c *Controller) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// Reset marks the next turn to ask the server for a fresh conversation.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset = true
}

// Cancel aborts the in-flight turn, if any. Content already applied stays
// applied; the turn finalizes with whatever had accumulated. Cancelling an
// idle controller is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Submit runs one full turn: it appends the user message and a placeholder
// agent message, streams the response into the placeholder, and finalizes.
// It blocks until the turn is over and returns the final agent message.
//
// Submissions are rejected (ok == false, transcript untouched) when the
// input is empty or whitespace, or when a turn is already active. Attempts
// during an active turn are dropped, not queued.
func (c *Controller) Submit(ctx context.Context, text string) (final Message, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}

	c.mu.Lock()
	if c.streaming {
		c.mu.Unlock()
		return Message{}, false
	}
	c.streaming = true
	ctx, c.cancel = context.WithCancel(ctx)
	cancel := c.cancel
	reset := c.reset
	c.reset = false

	c.appendLocked(Message{Sender: SenderUser, Text: text})
	placeholder := c.appendLocked(Message{Sender: SenderAgent, Text: thinkingText})
	slot := len(c.messages) - 1
	c.mu.Unlock()

	// The accumulator works on a private copy; publish pushes each snapshot
	// into the transcript slot so readers never observe a half-applied
	// mutation.
	msg := placeholder
	acc := NewAccumulator(&msg)
	publish := func() {
		c.mu.Lock()
		c.messages[slot] = msg
		c.mu.Unlock()
		if c.OnUpdate != nil {
			c.OnUpdate(msg)
		}
	}

	defer func() {
		// Runs on every exit path: normal completion, transport failure,
		// and cancellation alike.
		if !acc.ReceivedContent() {
			msg.Text = noResponseText
		}
		publish()

		c.mu.Lock()
		c.streaming = false
		c.cancel = nil
		c.mu.Unlock()
		cancel()

		final = msg
		ok = true
	}()

	start := time.Now()
	if err := c.stream(ctx, text, reset, acc, publish); err != nil {
		if ctx.Err() != nil {
			c.log.Debug("turn cancelled", "session_id", c.sessionID)
			return
		}
		c.log.Warn("turn failed",
			"session_id", c.sessionID,
			"error", err,
		)
		acc.Apply(Update{Kind: KindError, Text: connectionFailureText})
		return
	}

	c.log.Debug("turn complete",
		"session_id", c.sessionID,
		"duration", time.Since(start),
	)
	return
}

// stream performs the HTTP exchange and applies every decoded frame in
// arrival order. A non-nil error means the transport failed; mid-stream
// server errors arrive as error frames and are not errors here.
func (c *Controller) stream(ctx context.Context, text string, reset bool, acc *Accumulator, publish func()) error {
	payload, err := json.Marshal(StreamRequest{
		Message:   text,
		UserID:    c.userID,
		SessionID: c.sessionID,
		Reset:     reset,
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+"/agent/stream", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	dec := sse.NewDecoder()
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				for _, u := range Classify(frame) {
					if acc.Apply(u) {
						publish()
					}
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading stream: %w", readErr)
		}
	}
}

// appendLocked adds a message to the transcript and returns it with its
// assigned ID. Callers must hold c.mu (NewController runs before the
// controller is shared, which is equivalent).
func (c *Controller) appendLocked(m Message) Message {
	c.nextID++
	m.ID = c.nextID
	c.messages = append(c.messages, m)
	return m
}
