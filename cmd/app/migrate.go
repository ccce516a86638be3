package main

import (
	"fmt"

	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/db"
	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded database schema",
	}
	for _, dir := range []db.Direction{db.Up, db.Down} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(dir),
			Short: fmt.Sprintf("Migrate %s", dir),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := opts.load()
				if err != nil {
					return err
				}
				return db.Migrate(cfg.Postgres.URL("pgx5"), dir, log)
			},
		})
	}
	return cmd
}
