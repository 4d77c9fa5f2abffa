// Package servecmder provides the serve command for running a local PartDeck
// agent server with canned and scripted replies.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/partdeck/partdeck/pkg/config"
	"github.com/partdeck/partdeck/pkg/logger"
	"github.com/partdeck/partdeck/pkg/mockagent"
)

type ServeCommander struct {
	listen     string
	scriptsDir string
	logFile    string
	frameDelay time.Duration
	debug      bool

	logger *slog.Logger
}

// serveFlags defines the config-backed flags for the serve command.
var serveFlags = config.FlagSet{
	config.FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "serve.listen",
		Description: "Address for the agent server to listen on",
	},
	config.FlagScripts: {
		Name:        "scripts",
		Shorthand:   "s",
		ViperKey:    "serve.scripts",
		Description: "Directory of .sse reply scripts, hot-reloaded on change",
	},
	config.FlagLogFile: {
		Name:        "log-file",
		ViperKey:    "serve.log_file",
		Description: "Append JSON logs to this file in addition to stderr",
	},
}

const serveLongDesc string = `Run a local PartDeck agent server.

The server speaks the same streaming protocol as the production agent and
answers from canned replies keyed on message keywords. Drop .sse files in a
scripts directory to override replies: a file named cart.sse answers any
message containing "cart", and edits are picked up without a restart.

Examples:
  partdeck serve
  partdeck serve --listen :9000
  partdeck serve --scripts ./scripts --frame-delay 50ms`

const serveShortDesc string = "Run a local PartDeck agent server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			keys := []string{config.FlagListen, config.FlagScripts, config.FlagLogFile}
			config.BindRegisteredFlags(v, cmd, serveFlags, keys)

			cmder.listen = v.GetString("serve.listen")
			cmder.scriptsDir = v.GetString("serve.scripts")
			cmder.logFile = v.GetString("serve.log_file")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagScripts, &cmder.scriptsDir)
	config.AddStringFlag(cmd, serveFlags, config.FlagLogFile, &cmder.logFile)
	cmd.Flags().DurationVar(&cmder.frameDelay, "frame-delay", 0, "Pause between streamed frames, for demoing token flow")

	return cmd
}

func (c *ServeCommander) run() error {
	log, closer, err := c.buildLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	c.logger = log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var scripts *mockagent.ScriptSet
	if c.scriptsDir != "" {
		scripts = mockagent.NewScriptSet(c.scriptsDir, c.logger)
		if err := scripts.Load(); err != nil {
			return fmt.Errorf("loading scripts: %w", err)
		}
		c.logger.Info("loaded reply scripts",
			"dir", c.scriptsDir,
			"count", scripts.Len(),
		)

		go func() {
			if err := scripts.Watch(ctx); err != nil {
				c.logger.Warn("script watcher stopped", "error", err)
			}
		}()
	}

	server := mockagent.NewServer(mockagent.Config{
		ListenAddr: c.listen,
		ScriptsDir: c.scriptsDir,
		FrameDelay: c.frameDelay,
	}, scripts, c.logger)

	c.logger.Info("starting agent server", "listen", c.listen)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("agent server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

// buildLogger builds the serve logger: pretty output on stderr, plus a JSON
// stream appended to the configured log file when one is set.
func (c *ServeCommander) buildLogger() (*slog.Logger, io.Closer, error) {
	pretty := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile == "" {
		return pretty, nil, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	jsonLog := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)

	return logger.Multi(pretty, jsonLog), f, nil
}
