package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/session"
)

var (
	errEnd  = errors.New("end")
	errQuit = errors.New("quit")
)

// QuizStore is the part of the session store an interactive quiz needs.
type QuizStore interface {
	GetSession(ctx context.Context, id string) (session.Session, bool)
	AttemptsForSession(ctx context.Context, sessionID string) []session.Attempt
	RecordAttempt(ctx context.Context, sessionID string, questionID int64, selectedAnswerIDs []int64, timeSpentSeconds *int) (session.AttemptResult, error)
	EndSession(ctx context.Context, sessionID string, timeSpentSeconds *int) (session.Session, error)
}

// QuizCLI asks the unanswered questions of a session one by one on the terminal.
type QuizCLI struct {
	store       QuizStore
	bank        question.Bank
	stdinReader *bufio.Reader
	printer     *Printer
	now         func() time.Time

	sessionID    string
	pending      []int64
	total        int
	spentSeconds int
}

func NewQuizCLI(store QuizStore, bank question.Bank, stdin io.Reader, printer *Printer) *QuizCLI {
	return &QuizCLI{
		store:       store,
		bank:        bank,
		stdinReader: bufio.NewReader(stdin),
		printer:     printer,
		now:         time.Now,
	}
}

// Run asks every unanswered question of the session and ends it once all are answered.
// finished is false when the user quit early, leaving the session in progress.
func (cli *QuizCLI) Run(ctx context.Context, sessionID string) (s session.Session, finished bool, err error) {
	s, err = cli.start(ctx, sessionID)
	if err != nil {
		return session.Session{}, false, err
	}
	if s.IsCompleted() {
		cli.printer.Println("Session is already completed.")
		return s, true, nil
	}

	for {
		select {
		case <-ctx.Done():
			return s, false, ctx.Err()
		default:
		}

		err := cli.Session(ctx)
		if errors.Is(err, errEnd) {
			break
		}
		if errors.Is(err, errQuit) {
			cli.printer.Println("Session paused. Resume it later with the same session id.")
			s, _ = cli.store.GetSession(ctx, sessionID)
			return s, false, nil
		}
		if err != nil {
			return s, false, err
		}
	}

	spent := cli.spentSeconds
	if s.TimeSpentSeconds != nil {
		spent += *s.TimeSpentSeconds
	}
	ended, err := cli.store.EndSession(ctx, sessionID, &spent)
	if err != nil {
		return s, false, fmt.Errorf("store.EndSession(%s) > %w", sessionID, err)
	}
	return ended, true, nil
}

func (cli *QuizCLI) start(ctx context.Context, sessionID string) (session.Session, error) {
	s, ok := cli.store.GetSession(ctx, sessionID)
	if !ok {
		return session.Session{}, fmt.Errorf("session %s: %w", sessionID, session.ErrNotFound)
	}
	answered := make(map[int64]bool)
	for _, a := range cli.store.AttemptsForSession(ctx, sessionID) {
		answered[a.QuestionID] = true
	}

	cli.sessionID = sessionID
	cli.total = len(s.QuestionIDs)
	cli.pending = nil
	cli.spentSeconds = 0
	for _, id := range s.QuestionIDs {
		if !answered[id] {
			cli.pending = append(cli.pending, id)
		}
	}
	return s, nil
}

// Session asks the next pending question. It returns errEnd when none is left
// and errQuit when the user stops.
func (cli *QuizCLI) Session(ctx context.Context) error {
	for len(cli.pending) > 0 {
		q, ok := cli.bank.ResolveQuestionByID(cli.pending[0])
		if ok {
			return cli.ask(ctx, q)
		}
		cli.printer.Printf("Question %d is no longer in the question bank, skipping.\n", cli.pending[0])
		cli.pending = cli.pending[1:]
	}
	return errEnd
}

func (cli *QuizCLI) ask(ctx context.Context, q *question.Question) error {
	index := cli.total - len(cli.pending) + 1
	cli.printer.PrintQuestion(index, cli.total, q)

	startedAt := cli.now()
	var selected []int64
	for {
		cli.printer.Printf("Answer (ids, q to quit): ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
		input := strings.TrimSpace(line)
		if input == "q" || input == "quit" || (input == "" && errors.Is(err, io.EOF)) {
			return errQuit
		}

		selected, err = parseAnswerIDs(input, q)
		if err == nil {
			break
		}
		cli.printer.Println(err.Error())
	}

	spent := int(cli.now().Sub(startedAt).Round(time.Second) / time.Second)
	result, err := cli.store.RecordAttempt(ctx, cli.sessionID, q.ID, selected, &spent)
	if err != nil {
		return fmt.Errorf("store.RecordAttempt(%s, %d) > %w", cli.sessionID, q.ID, err)
	}
	cli.printer.PrintAttemptResult(q, result)
	cli.spentSeconds += spent
	cli.pending = cli.pending[1:]
	return nil
}

// parseAnswerIDs reads answer ids separated by spaces or commas and checks them against q.
func parseAnswerIDs(input string, q *question.Question) ([]int64, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("enter at least one answer id")
	}

	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an answer id", f)
		}
		if _, ok := q.AnswerByID(id); !ok {
			return nil, fmt.Errorf("%d is not an answer of this question", id)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if q.Type == question.TypeSingle && len(ids) > 1 {
		return nil, fmt.Errorf("choose exactly one answer")
	}
	return ids, nil
}
