package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ronaldsalkes/cvmaster/internal/config"
	"github.com/ronaldsalkes/cvmaster/internal/server"
)

var (
	servePort  int
	serveModel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the optimization collaborator server",
	Long: `Start the HTTP server the wizard posts drafts to for optimization.
Without GEMINI_API_KEY the server answers with stub rewrites, which keeps the
full flow usable in development.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "LLM model override")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveModel != "" {
		cfg.Model = serveModel
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, server.Config{
		Port:      cfg.Port,
		APIKey:    config.APIKey(),
		Model:     cfg.Model,
		JWTSecret: config.JWTSecret(),
		Logger:    newLogger(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}
