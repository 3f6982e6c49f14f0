package cmd

import (
	"github.com/assetkid/gallery/src/utils/model"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Applies database migrations of the ledger and the event journal",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			direction := migrate.Up
			if down {
				direction = migrate.Down
			}
			_, err = model.ExecMigrations(applicationCtx, conf, direction, steps)
			return
		},
	}

	down  bool
	steps int
)

func init() {
	migrateCmd.Flags().BoolVar(&down, "down", false, "roll migrations back")
	migrateCmd.Flags().IntVar(&steps, "steps", 0, "max number of migrations to apply, 0 is all")
	RootCmd.AddCommand(migrateCmd)
}
