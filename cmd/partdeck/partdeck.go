// Package partdeckcmder
package partdeckcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/partdeck/partdeck/cmd/partdeck/chat"
	configcmder "github.com/partdeck/partdeck/cmd/partdeck/config"
	servecmder "github.com/partdeck/partdeck/cmd/partdeck/serve"
	versioncmder "github.com/partdeck/partdeck/cmd/version"
)

const partdeckLongDesc string = `PartDeck is a chat client for the PartDeck parts agent.

Chat with the agent:
  partdeck chat            Interactive chat session
  partdeck chat --plain    Plain stdin/stdout session, no TUI

Run a local agent for development:
  partdeck serve           Serve canned and scripted agent replies`

const partdeckShortDesc string = "PartDeck - Appliance parts agent chat"

func NewPartdeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partdeck",
		Short: partdeckShortDesc,
		Long:  partdeckLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .partdeck/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
