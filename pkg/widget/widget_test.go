package widget

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/logger"
)

func sseHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, body)
	}
}

var _ = Describe("Model", func() {
	newModel := func(target string) Model {
		c := agent.NewController(target, "user-1", "session-1", logger.Nop())
		return NewModel(context.Background(), c)
	}

	Describe("NewModel", func() {
		It("renders the welcome transcript", func() {
			m := newModel("http://127.0.0.1:0")
			Expect(m.View()).To(ContainSubstring("Welcome to PartDeck"))
		})
	})

	Describe("submit", func() {
		It("runs a full turn through the controller", func() {
			srv := httptest.NewServer(sseHandler(
				"data: {\"delta\":\"Hello\"}\n\ndata: [DONE]\n\n"))
			defer srv.Close()

			m := newModel(srv.URL)
			m.input.SetValue("hi there")

			updated, cmd := m.submit()
			Expect(cmd).NotTo(BeNil())

			// The command blocks until the turn finalizes.
			Expect(cmd()).To(Equal(bubbletea.Msg(turnDoneMsg{})))

			model := updated.(Model)
			Expect(model.input.Value()).To(BeEmpty())
			Expect(model.View()).To(ContainSubstring("Hello"))
		})

		It("ignores empty input", func() {
			m := newModel("http://127.0.0.1:0")
			m.input.SetValue("   ")
			_, cmd := m.submit()
			Expect(cmd).To(BeNil())
		})

		It("quits on /exit", func() {
			m := newModel("http://127.0.0.1:0")
			m.input.SetValue("/exit")
			updated, cmd := m.submit()
			Expect(updated.(Model).quitting).To(BeTrue())
			Expect(cmd()).To(Equal(bubbletea.Quit()))
		})
	})

	Describe("Update", func() {
		It("tracks window size", func() {
			m := newModel("http://127.0.0.1:0")
			updated, _ := m.Update(bubbletea.WindowSizeMsg{Width: 120, Height: 40})
			Expect(updated.(Model).width).To(Equal(120))
		})

		It("quits and cancels on ctrl+c", func() {
			m := newModel("http://127.0.0.1:0")
			updated, cmd := m.Update(bubbletea.KeyMsg{Type: bubbletea.KeyCtrlC})
			Expect(updated.(Model).quitting).To(BeTrue())
			Expect(cmd()).To(Equal(bubbletea.Quit()))
		})

		It("types into the input", func() {
			m := newModel("http://127.0.0.1:0")
			updated, _ := m.Update(bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune("hi")})
			Expect(updated.(Model).input.Value()).To(Equal("hi"))
		})
	})
})

var _ = Describe("renderMessage", func() {
	It("labels user and agent entries", func() {
		user := renderMessage(agent.Message{Sender: agent.SenderUser, Text: "hello"}, 80)
		Expect(user).To(ContainSubstring("you"))
		Expect(user).To(ContainSubstring("hello"))

		reply := renderMessage(agent.Message{Sender: agent.SenderAgent, Text: "hi"}, 80)
		Expect(reply).To(ContainSubstring("partdeck"))
	})

	It("renders structured payloads beneath the text", func() {
		msg := agent.Message{
			Sender: agent.SenderAgent,
			Text:   "You have 1 item in your cart.",
			UI: &agent.UIPayload{
				Type: "cart",
				Fields: map[string]any{
					"items": []any{
						map[string]any{"part_number": "W10190965", "name": "Ice Maker Assembly", "quantity": float64(1)},
					},
				},
			},
		}
		out := renderMessage(msg, 80)
		Expect(out).To(ContainSubstring("1x W10190965"))
	})
})

var _ = Describe("wrapText", func() {
	It("wraps at the given width", func() {
		lines := wrapText("one two three four", 9)
		Expect(lines).To(Equal([]string{"one two", "three", "four"}))
	})

	It("returns a single empty line for empty text", func() {
		Expect(wrapText("", 10)).To(Equal([]string{""}))
	})
})
