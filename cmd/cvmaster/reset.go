package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ronaldsalkes/cvmaster/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved draft",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(cfg.StoragePath, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("failed to open draft slot: %w", err)
	}

	if err := st.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear draft slot: %w", err)
	}
	fmt.Println("Draft cleared.")
	return nil
}
