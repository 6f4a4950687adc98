package main

import (
	"context"
	"fmt"

	"github.com/PrintfR/HardCode/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the database",
	Long:  `Apply the PostgreSQL schema or create the MongoDB indexes for the store DATABASE_URL selects.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var migrate func(context.Context) error
	switch s := st.store.(type) {
	case interface{ Migrate(context.Context) error }:
		migrate = s.Migrate
	case interface{ EnsureIndexes(context.Context) error }:
		migrate = s.EnsureIndexes
	default:
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backend %s needs no migration\n", cfg.Backend())
		return nil
	}

	if err := migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s store\n", cfg.Backend())
	return nil
}
