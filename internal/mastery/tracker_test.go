package mastery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/session"
)

type fakeLog struct {
	attempts []session.Attempt
	learned  []int64
}

func (f fakeLog) ListAttempts(context.Context) []session.Attempt {
	return f.attempts
}

func (f fakeLog) LearnedQuestionIDs(context.Context) []int64 {
	return f.learned
}

func newFakeLog() fakeLog {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := func(questionID int64, minutes int, correct bool) session.Attempt {
		return session.Attempt{
			ID:          "a",
			SessionID:   "s",
			QuestionID:  questionID,
			IsCorrect:   correct,
			AttemptedAt: base.Add(time.Duration(minutes) * time.Minute),
		}
	}
	return fakeLog{
		attempts: []session.Attempt{
			attempt(1, 1, true),
			attempt(2, 2, false),
			attempt(1, 3, true),
			attempt(3, 4, true),
			attempt(2, 5, true),
			attempt(2, 6, false),
		},
		learned: []int64{4},
	}
}

func TestTracker_GetProgress(t *testing.T) {
	tracker := NewTracker(newFakeLog())
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		questionID int64
		want       QuestionProgress
	}{
		{
			questionID: 1,
			want: QuestionProgress{
				QuestionID: 1, MasteryStatus: StatusMastered,
				AttemptCount: 2, CorrectCount: 2,
				LastAttemptedAt: timePtr(base.Add(3 * time.Minute)),
			},
		},
		{
			questionID: 2,
			want: QuestionProgress{
				QuestionID: 2, MasteryStatus: StatusIncorrect,
				AttemptCount: 3, CorrectCount: 1,
				LastAttemptedAt: timePtr(base.Add(6 * time.Minute)),
			},
		},
		{
			questionID: 3,
			want: QuestionProgress{
				QuestionID: 3, MasteryStatus: StatusAttempted,
				AttemptCount: 1, CorrectCount: 1,
				LastAttemptedAt: timePtr(base.Add(4 * time.Minute)),
			},
		},
		{
			questionID: 4,
			want:       QuestionProgress{QuestionID: 4, MasteryStatus: StatusMastered, MarkedAsLearned: true},
		},
		{
			questionID: 5,
			want:       QuestionProgress{QuestionID: 5, MasteryStatus: StatusUnattempted},
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("question %d", tt.questionID), func(t *testing.T) {
			assert.Equal(t, tt.want, tracker.GetProgress(context.Background(), tt.questionID))
		})
	}
}

func TestTracker_GetProgressForManyMatchesSingle(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(newFakeLog())
	ids := []int64{1, 2, 3, 4, 5, 2}

	many := tracker.GetProgressForMany(ctx, ids)
	require.Len(t, many, 5)
	for _, id := range ids {
		assert.Equal(t, tracker.GetProgress(ctx, id), many[id], "question %d", id)
	}
}

func TestTracker_Summarize(t *testing.T) {
	tracker := NewTracker(newFakeLog())

	got := tracker.Summarize(context.Background(), []int64{1, 2, 3, 4, 5})
	assert.Equal(t, Summary{Total: 5, Unattempted: 1, Attempted: 1, Incorrect: 1, Mastered: 2}, got)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
