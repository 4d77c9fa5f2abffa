// Package chatcmder provides the chat command for interactive sessions with
// the PartDeck parts agent.
package chatcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/partdeck/partdeck/pkg/agent"
	"github.com/partdeck/partdeck/pkg/config"
	"github.com/partdeck/partdeck/pkg/dotdir"
	"github.com/partdeck/partdeck/pkg/logger"
	"github.com/partdeck/partdeck/pkg/widget"
)

type chatCommander struct {
	target string
	plain  bool
	reset  bool
	debug  bool
}

// chatFlags defines the config-backed flags for the chat command.
var chatFlags = config.FlagSet{
	config.FlagTarget: {
		Name:        "target",
		Shorthand:   "t",
		ViperKey:    "agent.target",
		Description: "Agent server base URL",
	},
}

const chatLongDesc string = `Start an interactive chat session with the PartDeck agent.

The chat command streams agent replies token by token and renders
structured results (part lists, compatibility checks, carts, shipping
options) beneath the reply text. Conversation identity persists in the
.partdeck/ directory so the agent remembers you across sessions.

By default a full-screen TUI runs when stdout is a terminal; use
--plain for a line-oriented session suitable for pipes and scripts.

Examples:
  partdeck chat
  partdeck chat --target http://localhost:8001
  partdeck chat --plain --reset`

const chatShortDesc string = "Interactive chat with the PartDeck agent"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, chatFlags, []string{config.FlagTarget})
			cmder.target = v.GetString("agent.target")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	config.AddStringFlag(cmd, chatFlags, config.FlagTarget, &cmder.target)
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Line-oriented session without the TUI")
	cmd.Flags().BoolVar(&cmder.reset, "reset", false, "Start a fresh conversation on the first message")

	return cmd
}

func (c *chatCommander) run(configDir string) error {
	var log = logger.Nop()
	if c.debug {
		log = logger.New(logger.WithDebug(true), logger.WithPretty(true), logger.WithWriter(os.Stderr))
	}

	identity, err := dotdir.NewManager().EnsureIdentity(configDir)
	if err != nil {
		return fmt.Errorf("loading identity: %w", err)
	}

	sessionID := uuid.NewString()
	log.Debug("starting chat session",
		"target", c.target,
		"user_id", identity.UserID,
		"session_id", sessionID,
	)

	controller := agent.NewController(c.target, identity.UserID, sessionID, log)
	if c.reset {
		controller.Reset()
	}

	ctx := context.Background()

	if c.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return c.runPlain(ctx, controller)
	}

	return widget.Run(ctx, controller)
}
