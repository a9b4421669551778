package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ronaldsalkes/cvmaster/internal/preview"
	"github.com/ronaldsalkes/cvmaster/internal/store"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the saved draft as it will appear in the résumé",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(cfg.StoragePath, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("failed to open draft slot: %w", err)
	}

	d := st.Load(context.Background())
	preview.NewPrinter(os.Stdout).Print(preview.Render(d))
	return nil
}
