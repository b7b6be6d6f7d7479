package mastery

import (
	"context"
	"slices"

	"github.com/at-ishikawa/certquiz/internal/session"
)

// AttemptLog is the part of the session store the tracker reads.
type AttemptLog interface {
	ListAttempts(ctx context.Context) []session.Attempt
	LearnedQuestionIDs(ctx context.Context) []int64
}

type Tracker struct {
	log AttemptLog
}

func NewTracker(log AttemptLog) *Tracker {
	return &Tracker{log: log}
}

func (t *Tracker) GetProgress(ctx context.Context, questionID int64) QuestionProgress {
	var attempts []session.Attempt
	for _, a := range t.log.ListAttempts(ctx) {
		if a.QuestionID == questionID {
			attempts = append(attempts, a)
		}
	}
	learned := slices.Contains(t.log.LearnedQuestionIDs(ctx), questionID)
	return progressOf(questionID, attempts, learned)
}

// GetProgressForMany reads the log once and returns the same records GetProgress
// would return for each id.
func (t *Tracker) GetProgressForMany(ctx context.Context, questionIDs []int64) map[int64]QuestionProgress {
	wanted := make(map[int64][]session.Attempt, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = nil
	}
	for _, a := range t.log.ListAttempts(ctx) {
		if attempts, ok := wanted[a.QuestionID]; ok {
			wanted[a.QuestionID] = append(attempts, a)
		}
	}
	learned := make(map[int64]bool)
	for _, id := range t.log.LearnedQuestionIDs(ctx) {
		learned[id] = true
	}

	result := make(map[int64]QuestionProgress, len(wanted))
	for id, attempts := range wanted {
		result[id] = progressOf(id, attempts, learned[id])
	}
	return result
}

// Summary counts questions per mastery status.
type Summary struct {
	Total       int
	Unattempted int
	Attempted   int
	Incorrect   int
	Mastered    int
}

func (t *Tracker) Summarize(ctx context.Context, questionIDs []int64) Summary {
	var summary Summary
	for _, p := range t.GetProgressForMany(ctx, questionIDs) {
		summary.Total++
		switch p.MasteryStatus {
		case StatusUnattempted:
			summary.Unattempted++
		case StatusAttempted:
			summary.Attempted++
		case StatusIncorrect:
			summary.Incorrect++
		case StatusMastered:
			summary.Mastered++
		}
	}
	return summary
}
