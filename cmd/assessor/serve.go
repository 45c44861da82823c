package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-assessor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes one assessment session over REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	a, err := newApp(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	found, err := a.orch.Rehydrate(cmd.Context())
	if err != nil {
		return err
	}
	a.logger.Info("session loaded", zap.Bool("previous_report", found), zap.Bool("offline", cfg.LLM.UseOffline()))

	srv, err := server.New(server.Config{
		Server:       cfg.Server,
		Orchestrator: a.orch,
		Logger:       a.logger,
		Metrics:      a.metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
