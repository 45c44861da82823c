package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assessor/internal/observability"
)

// errNoSession is returned by show when nothing has been saved yet.
var errNoSession = errors.New("no saved assessment found (run 'assessor take' first)")

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the scores and report of the last completed assessment",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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
	if !found {
		return errNoSession
	}

	scores, err := a.orch.Scores()
	if err != nil {
		return err
	}
	report, err := a.orch.Report()
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintScores(scores)
	printer.PrintReport(report)
	if verbose {
		printer.PrintAnalyses(report)
	}
	return nil
}
