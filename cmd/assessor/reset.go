package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assessor/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved assessment",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cache, err := session.Open(cmd.Context(), cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open session cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	if err := session.NewStore(cache, nil).Clear(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved assessment cleared (%s cache)\n", cfg.Cache.Driver)
	return nil
}
