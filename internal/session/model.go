// Package session records quiz sessions and the answers submitted in them.
package session

import "time"

type Type string

const (
	TypePractice Type = "practice"
	TypeExam     Type = "exam"
	TypeReview   Type = "review"
)

func (t Type) Valid() bool {
	switch t {
	case TypePractice, TypeExam, TypeReview:
		return true
	}
	return false
}

// Session is one quiz run. A nil CompletedAt means the run is still in progress.
type Session struct {
	ID               string     `json:"id" validate:"required"`
	SessionType      Type       `json:"sessionType" validate:"required,oneof=practice exam review"`
	TotalQuestions   int        `json:"totalQuestions" validate:"gte=0"`
	CorrectAnswers   int        `json:"correctAnswers" validate:"gte=0"`
	TimeSpentSeconds *int       `json:"timeSpentSeconds"`
	DomainsFilter    []string   `json:"domainsFilter"`
	QuestionIDs      []int64    `json:"questionIds"`
	StartedAt        time.Time  `json:"startedAt" validate:"required"`
	CompletedAt      *time.Time `json:"completedAt"`
}

func (s Session) IsCompleted() bool {
	return s.CompletedAt != nil
}

// Attempt is the answer recorded for one question in one session.
type Attempt struct {
	ID                string    `json:"id" validate:"required"`
	SessionID         string    `json:"sessionId" validate:"required"`
	QuestionID        int64     `json:"questionId" validate:"required"`
	SelectedAnswerIDs []int64   `json:"selectedAnswerIds"`
	IsCorrect         bool      `json:"isCorrect"`
	TimeSpentSeconds  *int      `json:"timeSpentSeconds"`
	TimedOut          bool      `json:"timedOut"`
	AttemptedAt       time.Time `json:"attemptedAt" validate:"required"`
}

// NeedsReview reports whether the attempt was answered wrong or ran out of time.
func (a Attempt) NeedsReview() bool {
	return !a.IsCorrect || a.TimedOut
}

// AttemptResult is returned when an answer is recorded.
type AttemptResult struct {
	IsCorrect        bool
	CorrectAnswerIDs []int64
	// Persisted is false when the backing store rejected the write.
	Persisted bool
}
