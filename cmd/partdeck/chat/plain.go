package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/cliui"
)

var (
	userPrompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	agentPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("partdeck> ")
)

// runPlain drives a line-oriented chat session over stdin/stdout. Streamed
// tokens print as they arrive by diffing each snapshot against what has
// already been written.
func (c *chatCommander) runPlain(ctx context.Context, controller *agent.Controller) error {
	printer := &streamPrinter{}
	controller.OnUpdate = printer.update

	messages := controller.Messages()
	fmt.Println()
	if len(messages) > 0 {
		fmt.Printf("  %s\n\n", messages[0].Text)
	}
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		fmt.Print(agentPrompt)
		printer.begin()

		final, ok := controller.Submit(ctx, input)
		if !ok {
			continue
		}

		printer.finish(final)
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// streamPrinter writes snapshot diffs to stdout as a turn streams. When a
// snapshot rewrites earlier text instead of extending it, the printer starts
// a fresh line with the full replacement.
type streamPrinter struct {
	written string
}

func (p *streamPrinter) begin() {
	p.written = ""
}

func (p *streamPrinter) update(msg agent.Message) {
	if msg.Text == "" || msg.Text == p.written {
		return
	}

	if strings.HasPrefix(msg.Text, p.written) {
		fmt.Print(msg.Text[len(p.written):])
	} else {
		if p.written != "" {
			fmt.Println()
		}
		fmt.Print(msg.Text)
	}
	p.written = msg.Text
}

func (p *streamPrinter) finish(final agent.Message) {
	p.update(final)
	fmt.Println()

	if rendered := cliui.RenderPayload(final.UI); rendered != "" {
		fmt.Println()
		for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
}
