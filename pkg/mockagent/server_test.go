package mockagent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/logger"
)

var _ = Describe("Server", func() {
	var srv *httptest.Server

	BeforeEach(func() {
		s := NewServer(Config{}, nil, logger.Nop())
		srv = httptest.NewServer(s.Handler())
		DeferCleanup(srv.Close)
	})

	newController := func() *agent.Controller {
		return agent.NewController(srv.URL, "user-1", "session-1", logger.Nop())
	}

	Describe("ping", func() {
		It("responds ok", func() {
			resp, err := http.Get(srv.URL + "/ping")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["status"]).To(Equal("ok"))
		})
	})

	Describe("agent stream", func() {
		It("rejects a malformed request body", func() {
			resp, err := http.Post(srv.URL+"/agent/stream", "application/json", nil)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("streams the cart flow end to end", func() {
			final, ok := newController().Submit(context.Background(), "show my cart")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("You have 2 items in your cart."))
			Expect(final.UI).NotTo(BeNil())
			Expect(final.UI.Type).To(Equal("cart"))
			Expect(final.UI.Fields).To(HaveKey("items"))
		})

		It("streams the search flow with deltas and a product list", func() {
			final, ok := newController().Submit(context.Background(), "find a water filter part")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("I found a few parts that match. "))
			Expect(final.UI).NotTo(BeNil())
			Expect(final.UI.Type).To(Equal("product_list"))
		})

		It("streams the compatibility flow", func() {
			final, ok := newController().Submit(context.Background(), "is it compatible with my fridge")
			Expect(ok).To(BeTrue())
			Expect(final.UI).NotTo(BeNil())
			Expect(final.UI.Type).To(Equal("compatibility"))
		})

		It("delivers error frames verbatim", func() {
			final, ok := newController().Submit(context.Background(), "error please")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("The agent backend is unavailable right now."))
		})

		It("falls back to the help reply for unmatched messages", func() {
			final, ok := newController().Submit(context.Background(), "hello there")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(ContainSubstring("check compatibility"))
			Expect(final.UI).To(BeNil())
		})

		It("ends every flow with the done sentinel", func() {
			body, _ := json.Marshal(agent.StreamRequest{Message: "hello", UserID: "u", SessionID: "s"})
			resp, err := http.Post(srv.URL+"/agent/stream", "application/json", bytes.NewReader(body))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(HaveSuffix("data: [DONE]\n\n"))
		})
	})

	Describe("scripted replies", func() {
		It("prefers a matching script over canned replies", func() {
			scripts := NewScriptSet(GinkgoT().TempDir(), logger.Nop())
			scripts.scripts = map[string]string{
				"hello": "data: {\"delta\":\"scripted \"}\n\ndata: {\"delta\":\"reply\"}\n\ndata: [DONE]\n\n",
			}

			s := NewServer(Config{}, scripts, logger.Nop())
			scriptedSrv := httptest.NewServer(s.Handler())
			defer scriptedSrv.Close()

			c := agent.NewController(scriptedSrv.URL, "user-1", "session-1", logger.Nop())
			final, ok := c.Submit(context.Background(), "hello there")
			Expect(ok).To(BeTrue())
			Expect(final.Text).To(Equal("scripted reply"))
		})
	})
})

var _ = Describe("splitFrames", func() {
	It("splits a raw body into delay-able frames", func() {
		body := "data: one\n\ndata: two\n\n"
		Expect(splitFrames(body)).To(Equal([]string{"data: one\n\n", "data: two\n\n"}))
	})

	It("drops blank segments", func() {
		Expect(splitFrames("\n\n\n\ndata: one\n\n")).To(Equal([]string{"data: one\n\n"}))
	})

	It("keeps multi-line frames intact", func() {
		body := "event: error\ndata: boom\n\n"
		Expect(splitFrames(body)).To(Equal([]string{"event: error\ndata: boom\n\n"}))
	})
})
