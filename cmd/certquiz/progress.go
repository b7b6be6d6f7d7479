package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
)

func newProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [question-id]...",
		Short: "Show the mastery status of questions, all questions when no id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseQuestionIDs(args)
			if err != nil {
				return err
			}

			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				if len(ids) == 0 {
					for _, q := range engine.Bank.All() {
						ids = append(ids, q.ID)
					}
				}
				printer.PrintProgress(ids, engine.Mastery.GetProgressForMany(ctx, ids))
				printer.Println()
				printer.PrintMasterySummary(engine.Mastery.Summarize(ctx, ids))
				return nil
			})
		},
	}
}

func newLearnedCommand() *cobra.Command {
	learnedCommand := &cobra.Command{
		Use:   "learned",
		Short: "Manage the questions marked as learned",
	}

	learnedCommand.AddCommand(
		newLearnedUpdateCommand("mark", "Mark questions as learned", true),
		newLearnedUpdateCommand("unmark", "Remove the learned mark from questions", false),
		newLearnedListCommand(),
	)
	return learnedCommand
}

func newLearnedUpdateCommand(use, short string, learned bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <question-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseQuestionIDs(args)
			if err != nil {
				return err
			}

			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				for _, id := range ids {
					if _, ok := engine.Bank.ResolveQuestionByID(id); !ok {
						return fmt.Errorf("question %d is not in the question banks", id)
					}
					update := engine.Sessions.UnmarkLearned
					if learned {
						update = engine.Sessions.MarkLearned
					}
					if !update(ctx, id) {
						return fmt.Errorf("question %d could not be updated", id)
					}
				}
				printer.PrintLearned(engine.Sessions.LearnedQuestionIDs(ctx))
				return nil
			})
		},
	}
}

func newLearnedListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the questions marked as learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				printer.PrintLearned(engine.Sessions.LearnedQuestionIDs(ctx))
				return nil
			})
		},
	}
}
