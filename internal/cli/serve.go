package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for a host canvas framework",
		Long: `Serve exposes the engine over HTTP: the host canvas UI creates an
editor session, pushes node geometry, forwards drag gestures, and applies
the corrected positions and group containers the engine returns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			c.Logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"grid_enabled", cfg.Grid.Enabled)
			return server.New(cfg, st, c.Logger).ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
