package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// @title Disposal Back Office API
// @version 1.0
// @description Invoices, estimates, jobs, expenses and certificates of destruction for a disposal company.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "disposal_backend",
	Short: "Back office API for a document destruction and disposal company",
	Long: `disposal_backend serves the back-office HTTP API and manages its database schema.

Configuration is read from the environment and an optional .env file in the working directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
}

// newLogger builds the process logger: JSON in production, text otherwise.
func newLogger(production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
