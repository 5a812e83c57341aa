package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdxmph/todo-tui/internal/db"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the task database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, _ := cmd.Flags().GetBool("fixtures")

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			path := cfg.Database.Path
			if fixtures {
				if err := db.CreateFixturesDatabase(path, cfg.Keys()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created database with demo tasks at %s\n", path)
				return nil
			}

			if err := db.Initialize(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created database at %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("fixtures", false, "Pre-load the demo tasks")
	return cmd
}
