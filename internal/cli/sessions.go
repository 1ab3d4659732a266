package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/store"
)

// sessionsCommand creates the sessions command group for managing
// persisted editor sessions.
func (c *CLI) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage persisted editor sessions",
	}

	cmd.AddCommand(c.sessionsListCommand())
	cmd.AddCommand(c.sessionsShowCommand())
	cmd.AddCommand(c.sessionsDeleteCommand())
	return cmd
}

func (c *CLI) sessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored session IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			pr := newProgress(c.Logger)
			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			pr.done("listed sessions")
			if len(ids) == 0 {
				printInfo("No sessions stored")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func (c *CLI) sessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeyValue("ID", s.ID)
			if s.Name != "" {
				printKeyValue("Name", s.Name)
			}
			printKeyValue("Nodes", fmt.Sprintf("%d", len(s.Document.Nodes)))
			groupCount := 0
			if s.Document.Groups != nil {
				groupCount = len(s.Document.Groups.Groups)
			}
			printKeyValue("Groups", fmt.Sprintf("%d", groupCount))
			printKeyValue("Grid", fmt.Sprintf("size=%g enabled=%t", s.Document.Grid.Size, s.Document.Grid.Enabled))
			printKeyValue("Created", s.CreatedAt.Format("2006-01-02 15:04:05"))
			printKeyValue("Updated", s.UpdatedAt.Format("2006-01-02 15:04:05"))
			if s.Document.Groups != nil {
				for _, g := range s.Document.Groups.Groups {
					printDetail("%s %q (%d nodes)", g.ID, g.Title, len(g.NodeIDs))
				}
			}
			return nil
		},
	}
}

func (c *CLI) sessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					printError("No session %s", args[0])
					return nil
				}
				return err
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}
}

// openStore builds the configured store backend for a command.
func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.newStore(cmd.Context(), cfg)
}
