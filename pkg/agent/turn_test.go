package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// sseHandler writes a fixed event-stream body and closes.
func sseHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, body)
	}
}

var _ = Describe("Controller", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	newController := func(target string) *Controller {
		return NewController(target, "user-1", "session-1", logger)
	}

	Describe("NewController", func() {
		It("opens the transcript with the welcome message", func() {
			c := newController("http://127.0.0.1:0")
			messages := c.Messages()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Sender).To(Equal(SenderAgent))
			Expect(messages[0].Text).To(ContainSubstring("Welcome to PartDeck"))
		})
	})

	Describe("Submit", func() {
		It("accumulates delta frames into the final text", func() {
			srv := httptest.NewServer(sseHandler(
				"data: {\"delta\":\"Hel\"}\n\ndata: {\"delta\":\"lo\"}\n\ndata: [DONE]\n\n"))
			defer srv.Close()

			c := newController(srv.URL)
			final, ok := c.Submit(context.Background(), "hi")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("Hello"))

			messages := c.Messages()
			Expect(messages).To(HaveLen(3))
			Expect(messages[1].Sender).To(Equal(SenderUser))
			Expect(messages[2].Text).To(Equal("Hello"))
		})

		It("sends the structured request body", func() {
			var got StreamRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&got)
				sseHandler("data: ok then\n\n")(w, r)
			}))
			defer srv.Close()

			c := newController(srv.URL)
			_, ok := c.Submit(context.Background(), "find a part")
			Expect(ok).To(BeTrue())
			Expect(got.Message).To(Equal("find a part"))
			Expect(got.UserID).To(Equal("user-1"))
			Expect(got.SessionID).To(Equal("session-1"))
			Expect(got.Reset).To(BeFalse())
		})

		It("requests a fresh conversation once after Reset", func() {
			var resets []bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req StreamRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				resets = append(resets, req.Reset)
				sseHandler("data: ok then\n\n")(w, r)
			}))
			defer srv.Close()

			c := newController(srv.URL)
			c.Reset()
			c.Submit(context.Background(), "first")
			c.Submit(context.Background(), "second")
			Expect(resets).To(Equal([]bool{true, false}))
		})

		It("rejects empty and whitespace-only input", func() {
			c := newController("http://127.0.0.1:0")
			before := len(c.Messages())
			_, ok := c.Submit(context.Background(), "   ")
			Expect(ok).To(BeFalse())
			Expect(c.Messages()).To(HaveLen(before))
		})

		It("displays an error frame's data verbatim", func() {
			srv := httptest.NewServer(sseHandler("event: error\ndata: {\"text\":\"x\"}\n\n"))
			defer srv.Close()

			final, ok := newController(srv.URL).Submit(context.Background(), "hi")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal(`{"text":"x"}`))
		})

		It("applies a UI payload and suppresses later streamed appends", func() {
			srv := httptest.NewServer(sseHandler(
				"data: {\"actions\":{\"stateDelta\":{\"ui\":{\"type\":\"cart\",\"replace_text\":\"Here's your cart\",\"items\":[]}}}}\n\ndata: ignored\n\n"))
			defer srv.Close()

			final, ok := newController(srv.URL).Submit(context.Background(), "show my cart")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("Here's your cart"))
			Expect(final.UI).NotTo(BeNil())
			Expect(final.UI.Type).To(Equal("cart"))
		})

		It("falls back when the stream ends with no content", func() {
			srv := httptest.NewServer(sseHandler("data: [DONE]\n\n"))
			defer srv.Close()

			final, ok := newController(srv.URL).Submit(context.Background(), "hi")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal(noResponseText))
		})

		It("reports a connection problem on a failure status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			final, ok := newController(srv.URL).Submit(context.Background(), "hi")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal(connectionFailureText))
		})

		It("reports a connection problem when the agent is unreachable", func() {
			// Reserve a port, then close it so nothing is listening.
			srv := httptest.NewServer(http.HandlerFunc(nil))
			target := srv.URL
			srv.Close()

			final, ok := newController(target).Submit(context.Background(), "hi")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal(connectionFailureText))
		})

		It("rejects a second submission while a turn is active", func() {
			release := make(chan struct{})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
				sseHandler("data: done now\n\n")(w, r)
			}))
			defer srv.Close()

			c := newController(srv.URL)
			done := make(chan Message, 1)
			go func() {
				defer GinkgoRecover()
				final, _ := c.Submit(context.Background(), "first")
				done <- final
			}()

			Eventually(c.Streaming).Should(BeTrue())
			before := len(c.Messages())
			_, ok := c.Submit(context.Background(), "second")
			Expect(ok).To(BeFalse())
			Expect(c.Messages()).To(HaveLen(before))

			close(release)
			Eventually(done).Should(Receive())
			Expect(c.Streaming()).To(BeFalse())
		})

		It("keeps partial content when cancelled mid-stream", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				_, _ = io.WriteString(w, "data: {\"delta\":\"partial answer\"}\n\n")
				w.(http.Flusher).Flush()
				<-r.Context().Done()
			}))
			defer srv.Close()

			c := newController(srv.URL)
			updates := make(chan Message, 16)
			c.OnUpdate = func(m Message) { updates <- m }

			done := make(chan Message, 1)
			go func() {
				defer GinkgoRecover()
				final, _ := c.Submit(context.Background(), "hi")
				done <- final
			}()

			var seen Message
			Eventually(updates).Should(Receive(&seen))
			Expect(seen.Text).To(Equal("partial answer"))

			c.Cancel()

			var final Message
			Eventually(done).Should(Receive(&final))
			Expect(final.Text).To(Equal("partial answer"))
		})

		It("falls back when cancelled before any content", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				w.(http.Flusher).Flush()
				<-r.Context().Done()
			}))
			defer srv.Close()

			c := newController(srv.URL)
			done := make(chan Message, 1)
			go func() {
				defer GinkgoRecover()
				final, _ := c.Submit(context.Background(), "hi")
				done <- final
			}()

			Eventually(c.Streaming).Should(BeTrue())
			c.Cancel()

			var final Message
			Eventually(done).Should(Receive(&final))
			Expect(final.Text).To(Equal(noResponseText))
		})
	})
})
