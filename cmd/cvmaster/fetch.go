package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/jobfetch"
	"github.com/ronaldsalkes/cvmaster/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch-job <url>",
	Short: "Import a job posting into the target-job field of the saved draft",
	Long: `Download a job posting page, extract its text, and store it as the
draft's target job description. The next optimization run uses it.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetchJob,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetchJob(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(cfg.StoragePath, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("failed to open draft slot: %w", err)
	}

	ctx := context.Background()
	text, err := jobfetch.New().Posting(ctx, args[0])
	if err != nil {
		return err
	}

	d := st.Load(ctx)
	d = d.Apply(draft.Patch{TargetJob: draft.String(text)})
	if err := st.Save(ctx, d); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	fmt.Printf("Imported %d characters into the target job description.\n", len(text))
	return nil
}
