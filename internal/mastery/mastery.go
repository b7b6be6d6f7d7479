// Package mastery derives per-question mastery from the attempt log and the learned marks.
package mastery

import (
	"slices"
	"time"

	"github.com/at-ishikawa/certquiz/internal/session"
)

type Status string

const (
	StatusUnattempted Status = "unattempted"
	StatusAttempted   Status = "attempted"
	StatusIncorrect   Status = "incorrect"
	StatusMastered    Status = "mastered"
)

const (
	masteryStreak      = 2
	masteryMinAttempts = 3
)

// Classify applies the mastery rules in precedence order:
//  1. a learned mark always wins
//  2. no attempts is unattempted
//  3. two correct answers in a row is mastered
//  4. at least three attempts with 75% or more correct is mastered
//  5. any wrong answer left is incorrect
//  6. everything else is attempted
func Classify(attemptCount, correctCount, recentCorrectStreak int, markedAsLearned bool) Status {
	switch {
	case markedAsLearned:
		return StatusMastered
	case attemptCount == 0:
		return StatusUnattempted
	case recentCorrectStreak >= masteryStreak:
		return StatusMastered
	case attemptCount >= masteryMinAttempts && correctCount*4 >= attemptCount*3:
		return StatusMastered
	case correctCount < attemptCount:
		return StatusIncorrect
	}
	return StatusAttempted
}

// countsAsCorrect is the correctness used for mastery. A timed-out answer never counts.
func countsAsCorrect(a session.Attempt) bool {
	return a.IsCorrect && !a.TimedOut
}

// CorrectStreak counts the run of correct answers starting from the most recent attempt.
func CorrectStreak(attempts []session.Attempt) int {
	sorted := slices.Clone(attempts)
	slices.SortStableFunc(sorted, func(a, b session.Attempt) int {
		return b.AttemptedAt.Compare(a.AttemptedAt)
	})

	count := 0
	for _, a := range sorted {
		if !countsAsCorrect(a) {
			break
		}
		count++
	}
	return count
}

// QuestionProgress is computed on every request and never stored.
type QuestionProgress struct {
	QuestionID      int64
	MasteryStatus   Status
	AttemptCount    int
	CorrectCount    int
	LastAttemptedAt *time.Time
	MarkedAsLearned bool
}

func progressOf(questionID int64, attempts []session.Attempt, learned bool) QuestionProgress {
	p := QuestionProgress{
		QuestionID:      questionID,
		AttemptCount:    len(attempts),
		MarkedAsLearned: learned,
	}
	for _, a := range attempts {
		if countsAsCorrect(a) {
			p.CorrectCount++
		}
		if p.LastAttemptedAt == nil || a.AttemptedAt.After(*p.LastAttemptedAt) {
			attemptedAt := a.AttemptedAt
			p.LastAttemptedAt = &attemptedAt
		}
	}
	p.MasteryStatus = Classify(p.AttemptCount, p.CorrectCount, CorrectStreak(attempts), learned)
	return p
}
