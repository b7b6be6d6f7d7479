package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
	"github.com/at-ishikawa/certquiz/internal/session"
)

func newStatsCommand() *cobra.Command {
	statsCommand := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics derived from past sessions",
	}

	statsCommand.AddCommand(
		newStatsOverallCommand(),
		newStatsDomainsCommand(),
		newStatsWeakCommand(),
		newStatsHistoryCommand(),
		newStatsResultsCommand(),
	)
	return statsCommand
}

func newStatsOverallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overall",
		Short: "Show overall accuracy and session counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				printer.PrintOverall(engine.Statistics.OverallStats(ctx, engine.Bank.Len()))
				return nil
			})
		},
	}
}

func newStatsDomainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "Show accuracy per domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				printer.PrintDomainStats(engine.Statistics.StatsByDomain(ctx))
				return nil
			})
		},
	}
}

func newStatsWeakCommand() *cobra.Command {
	var (
		minAttempts int
		limit       int
	)

	command := &cobra.Command{
		Use:   "weak",
		Short: "Show the topics with the lowest accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				weakAreas := engine.Config.Progress.WeakAreas
				if cmd.Flags().Changed("min-attempts") {
					weakAreas.MinAttempts = minAttempts
				}
				if cmd.Flags().Changed("limit") {
					weakAreas.Limit = limit
				}
				printer.PrintWeakAreas(engine.Statistics.WeakAreas(ctx, weakAreas.MinAttempts, weakAreas.Limit))
				return nil
			})
		},
	}

	command.Flags().IntVar(&minAttempts, "min-attempts", 0, "Minimum attempts for a topic to be considered (default from config)")
	command.Flags().IntVar(&limit, "limit", 0, "Maximum number of topics, 0 for all (default from config)")
	return command
}

func newStatsHistoryCommand() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "history",
		Short: "List the most recent completed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				historyLimit := engine.Config.Progress.HistoryLimit
				if cmd.Flags().Changed("limit") {
					historyLimit = limit
				}
				printer.PrintSessions(engine.Statistics.SessionHistory(ctx, historyLimit), engine.Statistics.Passed)
				return nil
			})
		},
	}

	command.Flags().IntVar(&limit, "limit", 0, "Maximum number of sessions, 0 for all (default from config)")
	return command
}

func newStatsResultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "results <session-id>",
		Short: "Show the domain breakdown and incorrect questions of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				results, ok := engine.Statistics.SessionResults(ctx, args[0])
				if !ok {
					return fmt.Errorf("session %s: %w", args[0], session.ErrNotFound)
				}
				printer.PrintSessionResults(results)
				return nil
			})
		},
	}
}
