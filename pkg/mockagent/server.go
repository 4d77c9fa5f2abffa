// Package mockagent implements a local stand-in for the PartDeck agent
// backend. It speaks the same streaming wire contract (POST /agent/stream
// returning text/event-stream frames) and answers from a set of canned
// replies, optionally extended by .sse script files loaded from disk.
package mockagent

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/utils"
)

// Config holds the mock agent server settings.
type Config struct {
	// ListenAddr is the address to listen on (e.g. ":8001").
	ListenAddr string

	// ScriptsDir is an optional directory of .sse reply scripts. Scripts
	// take precedence over the built-in canned replies.
	ScriptsDir string

	// FrameDelay is the pause between streamed frames. Zero streams as
	// fast as the client can read, which is what tests want.
	FrameDelay time.Duration
}

// Server is the mock agent HTTP server.
type Server struct {
	config  Config
	scripts *ScriptSet
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new mock agent server. The scripts set may be nil when
// no scripts directory is configured.
func NewServer(config Config, scripts *ScriptSet, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		scripts: scripts,
		logger:  logger,
		app:     app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/agent/stream", s.handleStream)

	return s
}

// Run starts the mock agent server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting mock agent server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the mock agent server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Handler exposes the server as a net/http handler so it can be mounted in
// httptest servers and other http muxes.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.app)
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleStream(c *fiber.Ctx) error {
	var req agent.StreamRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	s.logger.Debug("streaming reply",
		"user_id", req.UserID,
		"session_id", req.SessionID,
		"reset", req.Reset,
		"message", utils.Truncate(req.Message, 80),
	)

	frames := s.reply(req.Message)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for _, frame := range frames {
			if _, err := w.WriteString(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if s.config.FrameDelay > 0 {
				time.Sleep(s.config.FrameDelay)
			}
		}
	})

	return nil
}

// reply resolves the frames for a message: scripts first, canned replies
// otherwise.
func (s *Server) reply(message string) []string {
	if s.scripts != nil {
		if body, ok := s.scripts.Match(message); ok {
			return splitFrames(body)
		}
	}
	return cannedReply(message)
}

// splitFrames cuts a raw SSE body into individual frames so the per-frame
// delay applies to scripted replies too. The trailing blank line stays with
// each frame.
func splitFrames(body string) []string {
	parts := strings.Split(body, "\n\n")
	frames := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		frames = append(frames, p+"\n\n")
	}
	return frames
}
