// Package review builds the queue of questions answered wrong or out of time.
package review

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/session"
)

// AttemptLog is the part of the session store the review queue reads and prunes.
type AttemptLog interface {
	ListAttempts(ctx context.Context) []session.Attempt
	DeleteAttempts(ctx context.Context, match func(session.Attempt) bool) (removed int, ok bool)
}

type Queue struct {
	log  AttemptLog
	bank question.Bank
}

func NewQueue(log AttemptLog, bank question.Bank) *Queue {
	return &Queue{log: log, bank: bank}
}

type Stats struct {
	TotalToReview int
	WrongCount    int
	TimedOutCount int
	// QuestionIDs lists every question to review in ascending order.
	QuestionIDs []int64
}

// Stats counts distinct questions. A question both answered wrong and timed out counts once in TotalToReview.
func (q *Queue) Stats(ctx context.Context) Stats {
	wrong := make(map[int64]struct{})
	timedOut := make(map[int64]struct{})
	union := make(map[int64]struct{})
	for _, a := range q.log.ListAttempts(ctx) {
		if !a.IsCorrect {
			wrong[a.QuestionID] = struct{}{}
			union[a.QuestionID] = struct{}{}
		}
		if a.TimedOut {
			timedOut[a.QuestionID] = struct{}{}
			union[a.QuestionID] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return Stats{
		TotalToReview: len(union),
		WrongCount:    len(wrong),
		TimedOutCount: len(timedOut),
		QuestionIDs:   ids,
	}
}

type Detail struct {
	QuestionID int64
	Question   *question.Question
	// SelectedAnswerIDs is the selection of the most recent wrong or timed-out attempt.
	SelectedAnswerIDs []int64
	WrongCount        int
	TimedOutCount     int
	LastAttemptedAt   time.Time
}

// QuestionDetails returns one entry per question to review, most recently missed first.
// Questions missing from the bank are left out.
func (q *Queue) QuestionDetails(ctx context.Context) []Detail {
	details := make(map[int64]*Detail)
	for _, a := range q.log.ListAttempts(ctx) {
		if !a.NeedsReview() {
			continue
		}
		d, seen := details[a.QuestionID]
		if !seen {
			d = &Detail{QuestionID: a.QuestionID}
			details[a.QuestionID] = d
		}
		if !a.IsCorrect {
			d.WrongCount++
		}
		if a.TimedOut {
			d.TimedOutCount++
		}
		if !seen || !a.AttemptedAt.Before(d.LastAttemptedAt) {
			d.SelectedAnswerIDs = append([]int64{}, a.SelectedAnswerIDs...)
			d.LastAttemptedAt = a.AttemptedAt
		}
	}

	result := make([]Detail, 0, len(details))
	for id, d := range details {
		resolved, ok := q.bank.ResolveQuestionByID(id)
		if !ok {
			slog.Default().Debug("Skipping review entry for unknown question", "question_id", id)
			continue
		}
		d.Question = resolved
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastAttemptedAt.Equal(result[j].LastAttemptedAt) {
			return result[i].LastAttemptedAt.After(result[j].LastAttemptedAt)
		}
		return result[i].QuestionID < result[j].QuestionID
	})
	return result
}

// RemoveFromReview deletes the wrong and timed-out attempts of questionID.
// Correct attempts of the question are kept.
func (q *Queue) RemoveFromReview(ctx context.Context, questionID int64) (removed int, ok bool) {
	return q.log.DeleteAttempts(ctx, func(a session.Attempt) bool {
		return a.QuestionID == questionID && a.NeedsReview()
	})
}
