package initdb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clanops/muster/cmd/muster/internal"
	"github.com/clanops/muster/pkg/store"
)

func NewInitDBCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the match/ignore database and apply the schema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if path == "" {
				cfg, err := internal.LoadConfig()
				if err != nil {
					return fmt.Errorf("error loading config: %w", err)
				}
				path = cfg.Store.Path
			}

			s, err := store.Open(path)
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Println("Database ready at", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Database path (defaults to the configured store path)")

	return cmd
}
