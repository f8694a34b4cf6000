package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/taskmanager-api/internal/config"
	"github.com/redmonkez12/taskmanager-api/internal/database"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	rollback, _ := cmd.Flags().GetBool("rollback")
	yes, _ := cmd.Flags().GetBool("yes")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if !rollback {
		applied, err := database.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		printMigrations("Applied", applied)
		return nil
	}

	if !yes {
		confirmed := false
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Roll back the last migration group on %s?", cfg.Database.Driver)).
			Description("Tables dropped by a rollback lose their data.").
			Affirmative("Roll back").
			Negative("Cancel").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !confirmed {
			printSubtle("Aborted.")
			return nil
		}
	}

	reverted, err := database.Rollback(cmd.Context(), db)
	if err != nil {
		return err
	}
	printMigrations("Rolled back", reverted)
	return nil
}
