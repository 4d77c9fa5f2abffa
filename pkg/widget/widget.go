// Package widget implements the interactive chat TUI for talking to the
// PartDeck agent. It renders the conversation transcript, streams agent
// replies into the last message as they arrive, and renders structured
// payloads (carts, part lists, shipping options) beneath the reply text.
package widget

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/cliui"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	userRoleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	agentRoleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type chatKeyMap struct {
	Send   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Cancel, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Cancel, k.Quit}}
}

func defaultKeyMap() chatKeyMap {
	return chatKeyMap{
		Send:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel turn")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

type agentUpdateMsg agent.Message

type turnDoneMsg struct{}

// Model is the bubbletea model for the chat widget.
type Model struct {
	ctx        context.Context
	controller *agent.Controller
	updates    chan agent.Message

	input textinput.Model
	spin  spinner.Model
	help  help.Model
	keys  chatKeyMap

	width    int
	height   int
	quitting bool
}

// Run drives a chat session until the user quits. The controller's OnUpdate
// hook is claimed for the lifetime of the program.
func Run(ctx context.Context, controller *agent.Controller) error {
	model := NewModel(ctx, controller)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}

// NewModel creates the chat model and wires the controller's update hook
// into the model's message loop.
func NewModel(ctx context.Context, controller *agent.Controller) Model {
	updates := make(chan agent.Message, 64)
	controller.OnUpdate = func(m agent.Message) {
		select {
		case updates <- m:
		default:
			// A slow terminal never blocks the stream; the transcript
			// is re-read on every render anyway.
		}
	}

	input := textinput.New()
	input.Placeholder = "Ask about parts, compatibility, or your order"
	input.Prompt = "> "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		controller: controller,
		updates:    updates,
		input:      input,
		spin:       spin,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
}

func (m Model) Init() bubbletea.Cmd {
	return bubbletea.Batch(textinput.Blink, m.spin.Tick, m.waitForUpdate())
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case agentUpdateMsg:
		// The transcript is read straight from the controller; the
		// message itself only matters as a repaint trigger.
		return m, m.waitForUpdate()

	case turnDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd bubbletea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case bubbletea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.controller.Cancel()
			m.quitting = true
			return m, bubbletea.Quit

		case key.Matches(msg, m.keys.Cancel):
			m.controller.Cancel()
			return m, nil

		case key.Matches(msg, m.keys.Send):
			return m.submit()
		}
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (bubbletea.Model, bubbletea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if text == "/exit" {
		m.controller.Cancel()
		m.quitting = true
		return m, bubbletea.Quit
	}
	if m.controller.Streaming() {
		return m, nil
	}

	m.input.Reset()
	controller := m.controller
	ctx := m.ctx
	return m, func() bubbletea.Msg {
		controller.Submit(ctx, text)
		return turnDoneMsg{}
	}
}

// waitForUpdate delivers the next streamed snapshot as a bubbletea message.
func (m Model) waitForUpdate() bubbletea.Cmd {
	updates := m.updates
	return func() bubbletea.Msg {
		return agentUpdateMsg(<-updates)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("partdeck chat") + "\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, msg := range m.controller.Messages() {
		b.WriteString(renderMessage(msg, width))
	}

	if m.controller.Streaming() {
		b.WriteString(m.spin.View() + mutedStyle.Render(" streaming") + "\n")
	}

	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderMessage renders one transcript entry: role label, wrapped text, and
// any structured payload below it.
func renderMessage(msg agent.Message, width int) string {
	var b strings.Builder

	switch msg.Sender {
	case agent.SenderUser:
		b.WriteString(userRoleStyle.Render("○ you") + "\n")
	default:
		b.WriteString(agentRoleStyle.Render("● partdeck") + "\n")
	}

	for _, line := range wrapText(msg.Text, max(20, width-2)) {
		b.WriteString("  " + line + "\n")
	}

	if rendered := cliui.RenderPayload(msg.UI); rendered != "" {
		for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
			current = current + " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
