package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
)

func newReviewCommand() *cobra.Command {
	reviewCommand := &cobra.Command{
		Use:   "review",
		Short: "Inspect the questions answered wrong",
	}

	reviewCommand.AddCommand(
		newReviewStatsCommand(),
		newReviewListCommand(),
		newReviewRemoveCommand(),
	)
	return reviewCommand
}

func newReviewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the questions waiting for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				printer.PrintReviewStats(engine.Review.Stats(ctx))
				return nil
			})
		},
	}
}

func newReviewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the questions waiting for review, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				printer.PrintReviewDetails(engine.Review.QuestionDetails(ctx))
				return nil
			})
		},
	}
}

func newReviewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <question-id>",
		Short: "Drop the wrong answers of a question from the review queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseQuestionIDs(args)
			if err != nil {
				return err
			}

			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				removed, ok := engine.Review.RemoveFromReview(ctx, ids[0])
				if !ok {
					return fmt.Errorf("review entries of question %d could not be removed", ids[0])
				}
				printer.Printf("Removed %d answer(s) of question %d from review.\n", removed, ids[0])
				return nil
			})
		},
	}
}
