// Package cli implements the blockgrid command-line interface.
//
// This package provides commands for running the engine as an HTTP service
// for a host canvas UI, exercising snap geometry from the terminal, and
// exploring the drag constraints interactively. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP API the host canvas framework talks to
//   - snap: Compute grid snapping for a position
//   - demo: Interactive terminal playground for snapping and constraints
//   - sessions: Inspect and delete stored editor sessions
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, and
// --config for a TOML configuration file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/buildinfo"
	"github.com/matzehuels/blockgrid/pkg/config"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "blockgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blockgrid keeps block-diagram geometry consistent",
		Long:         `Blockgrid is the spatial-consistency engine behind a block-diagram editor: it snaps dragged nodes to the grid, keeps group containers around their members, and allocates collision-free identifiers for duplicated blocks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration named by --config, or the defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newStore builds the session store selected by the configuration.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "file":
		dir := cfg.Store.Dir
		if dir == "" {
			dir = defaultSessionDir()
		}
		return store.NewFileStore(dir)
	case "redis":
		return store.NewRedisStore(ctx, cfg.Store.Redis)
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Store.Mongo)
	default:
		return store.NewMemoryStore(), nil
	}
}
