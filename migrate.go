package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/feira-troca/backend/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured storage driver",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		s, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, s.Close(context.WithoutCancel(ctx)))
		}()
		return database.Migrate(ctx, s)
	},
}
