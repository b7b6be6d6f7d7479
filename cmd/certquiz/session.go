package main

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/session"
)

func newSessionCommand() *cobra.Command {
	sessionCommand := &cobra.Command{
		Use:   "session",
		Short: "Start, answer and manage quiz sessions",
	}

	sessionCommand.AddCommand(
		newSessionStartCommand(),
		newSessionRunCommand(),
		newSessionAnswerCommand(),
		newSessionEndCommand(),
		newSessionListCommand(),
		newSessionShowCommand(),
		newSessionDeleteCommand(),
	)
	return sessionCommand
}

func newSessionStartCommand() *cobra.Command {
	var (
		sessionType string
		count       int
		domains     []string
		noShuffle   bool
		interactive bool
	)

	command := &cobra.Command{
		Use:   "start",
		Short: "Start a new session from the question banks or the review queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				questionIDs := selectQuestions(ctx, engine, session.Type(sessionType), domains, count, !noShuffle)
				if len(questionIDs) == 0 {
					return fmt.Errorf("no questions match the selection")
				}

				s, err := engine.Sessions.CreateSession(ctx, session.Type(sessionType), len(questionIDs), domains, questionIDs)
				if err != nil {
					return fmt.Errorf("Sessions.CreateSession() > %w", err)
				}
				printer.Printf("Started %s session %s with %d question(s).\n", s.SessionType, s.ID, s.TotalQuestions)
				if !interactive {
					return nil
				}
				return runQuiz(ctx, cmd, engine, printer, s.ID)
			})
		},
	}

	command.Flags().StringVar(&sessionType, "type", string(session.TypePractice), "Session type: practice, exam or review")
	command.Flags().IntVar(&count, "count", 0, "Number of questions (0 for all)")
	command.Flags().StringSliceVar(&domains, "domain", nil, "Only use questions of these domains")
	command.Flags().BoolVar(&noShuffle, "no-shuffle", false, "Keep the question bank order")
	command.Flags().BoolVar(&interactive, "run", false, "Answer the questions right away")
	return command
}

// selectQuestions picks the questions of a new session.
// Review sessions draw from the review queue instead of the question banks.
func selectQuestions(ctx context.Context, engine *bootstrap.Engine, sessionType session.Type, domains []string, count int, shuffle bool) []int64 {
	var shuffleFunc func(ids []int64)
	if shuffle {
		shuffleFunc = func(ids []int64) {
			rand.Shuffle(len(ids), func(i, j int) {
				ids[i], ids[j] = ids[j], ids[i]
			})
		}
	}

	if sessionType != session.TypeReview {
		return engine.Bank.Select(question.Filter{Domains: domains, Limit: count}, shuffleFunc)
	}

	var ids []int64
	for _, id := range engine.Review.Stats(ctx).QuestionIDs {
		q, ok := engine.Bank.ResolveQuestionByID(id)
		if !ok {
			continue
		}
		if len(domains) > 0 && !slices.Contains(domains, q.Domain) {
			continue
		}
		ids = append(ids, id)
	}
	if shuffleFunc != nil {
		shuffleFunc(ids)
	}
	if count > 0 && len(ids) > count {
		ids = ids[:count]
	}
	return ids
}

func newSessionRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <session-id>",
		Short: "Answer the remaining questions of a session interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				return runQuiz(ctx, cmd, engine, printer, args[0])
			})
		},
	}
}

func runQuiz(ctx context.Context, cmd *cobra.Command, engine *bootstrap.Engine, printer *cli.Printer, sessionID string) error {
	quiz := cli.NewQuizCLI(engine.Sessions, engine.Bank, cmd.InOrStdin(), printer)
	_, finished, err := quiz.Run(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("quiz.Run(%s) > %w", sessionID, err)
	}
	if !finished {
		return nil
	}

	results, ok := engine.Statistics.SessionResults(ctx, sessionID)
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, session.ErrNotFound)
	}
	printer.Println()
	printer.PrintSessionResults(results)
	return nil
}

func newSessionAnswerCommand() *cobra.Command {
	var seconds int

	command := &cobra.Command{
		Use:   "answer <session-id> <question-id> <answer-id>...",
		Short: "Record the answer to one question of a session",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseQuestionIDs(args[1:])
			if err != nil {
				return err
			}
			sessionID, questionID, answerIDs := args[0], ids[0], ids[1:]

			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				result, err := engine.Sessions.RecordAttempt(ctx, sessionID, questionID, answerIDs, optionalSeconds(seconds))
				if err != nil {
					return fmt.Errorf("Sessions.RecordAttempt() > %w", err)
				}
				q, _ := engine.Bank.ResolveQuestionByID(questionID)
				printer.PrintAttemptResult(q, result)
				return nil
			})
		},
	}

	command.Flags().IntVar(&seconds, "time", -1, "Seconds spent on the question")
	return command
}

func newSessionEndCommand() *cobra.Command {
	var seconds int

	command := &cobra.Command{
		Use:   "end <session-id>",
		Short: "Mark a session as completed and show its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				if _, err := engine.Sessions.EndSession(ctx, args[0], optionalSeconds(seconds)); err != nil {
					return fmt.Errorf("Sessions.EndSession() > %w", err)
				}
				results, ok := engine.Statistics.SessionResults(ctx, args[0])
				if !ok {
					return fmt.Errorf("session %s: %w", args[0], session.ErrNotFound)
				}
				printer.PrintSessionResults(results)
				return nil
			})
		},
	}

	command.Flags().IntVar(&seconds, "time", -1, "Seconds spent on the whole session")
	return command
}

func newSessionListCommand() *cobra.Command {
	var (
		incomplete bool
		completed  bool
	)

	command := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				var sessions []session.Session
				switch {
				case incomplete:
					sessions = engine.Sessions.ListIncompleteSessions(ctx)
				case completed:
					sessions = engine.Sessions.ListCompletedSessions(ctx)
				default:
					sessions = engine.Sessions.ListSessions(ctx)
				}
				printer.PrintSessions(sessions, engine.Statistics.Passed)
				return nil
			})
		},
	}

	command.Flags().BoolVar(&incomplete, "incomplete", false, "Only list sessions in progress")
	command.Flags().BoolVar(&completed, "completed", false, "Only list completed sessions")
	command.MarkFlagsMutuallyExclusive("incomplete", "completed")
	return command
}

func newSessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the results of a session",
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

func newSessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				if !engine.Sessions.DeleteSession(ctx, args[0]) {
					return fmt.Errorf("session %s could not be deleted", args[0])
				}
				printer.Printf("Deleted session %s.\n", args[0])
				return nil
			})
		},
	}
}
