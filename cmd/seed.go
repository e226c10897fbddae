package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/utils"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default tables that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, true)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			created, err := database.SeedTables(context.Background(), database.NewStore(db), database.DefaultTables, utils.InfoLogger)
			if err != nil {
				return fmt.Errorf("seed tables: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d tables\n", created, len(database.DefaultTables))
			return nil
		},
	}
}
