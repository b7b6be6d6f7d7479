package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/kvstore"
	"github.com/at-ishikawa/certquiz/internal/persistence"
	"github.com/at-ishikawa/certquiz/internal/session"
	"github.com/at-ishikawa/certquiz/internal/testutil"
)

var base = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func attempt(id string, questionID int64, minutes int, correct, timedOut bool, selected ...int64) session.Attempt {
	return session.Attempt{
		ID:                id,
		SessionID:         "s",
		QuestionID:        questionID,
		SelectedAnswerIDs: selected,
		IsCorrect:         correct,
		TimedOut:          timedOut,
		AttemptedAt:       base.Add(time.Duration(minutes) * time.Minute),
	}
}

// newQueue seeds the attempts bucket directly, since no write path produces timed-out attempts.
func newQueue(t *testing.T, attempts ...session.Attempt) (*Queue, *session.Store) {
	t.Helper()
	ctx := context.Background()
	adapter := persistence.NewAdapter(kvstore.NewMemoryStore(0))
	store := session.NewStore(persistence.NewCache(adapter), testutil.SampleCatalog(t))
	require.True(t, adapter.Write(ctx, store.Buckets().Attempts, attempts))
	return NewQueue(store, testutil.SampleCatalog(t)), store
}

func TestQueue_Stats(t *testing.T) {
	tests := []struct {
		name     string
		attempts []session.Attempt
		want     Stats
	}{
		{
			name: "nothing to review",
			attempts: []session.Attempt{
				attempt("a1", 1, 1, true, false),
			},
			want: Stats{QuestionIDs: []int64{}},
		},
		{
			name: "wrong and timed out on one question counts once",
			attempts: []session.Attempt{
				attempt("a1", 1, 1, false, false, 102),
				attempt("a2", 1, 2, false, true),
				attempt("a3", 1, 3, true, false, 101),
			},
			want: Stats{TotalToReview: 1, WrongCount: 1, TimedOutCount: 1, QuestionIDs: []int64{1}},
		},
		{
			name: "separate questions",
			attempts: []session.Attempt{
				attempt("a1", 3, 1, false, false, 302),
				attempt("a2", 2, 2, true, true, 201, 202),
				attempt("a3", 3, 3, false, false, 302),
			},
			want: Stats{TotalToReview: 2, WrongCount: 1, TimedOutCount: 1, QuestionIDs: []int64{2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue, _ := newQueue(t, tt.attempts...)
			assert.Equal(t, tt.want, queue.Stats(context.Background()))
		})
	}
}

func TestQueue_QuestionDetails(t *testing.T) {
	queue, _ := newQueue(t,
		attempt("a1", 2, 1, false, false, 203),
		attempt("a2", 2, 4, false, false, 201),
		attempt("a3", 2, 5, true, false, 201, 202),
		attempt("a4", 3, 2, false, true),
		attempt("a5", 99, 6, false, false, 1),
		attempt("a6", 1, 3, true, false, 101),
	)

	got := queue.QuestionDetails(context.Background())
	require.Len(t, got, 2)

	assert.Equal(t, int64(2), got[0].QuestionID)
	assert.Equal(t, int64(2), got[0].Question.ID)
	assert.Equal(t, []int64{201}, got[0].SelectedAnswerIDs)
	assert.Equal(t, 2, got[0].WrongCount)
	assert.Equal(t, 0, got[0].TimedOutCount)
	assert.Equal(t, base.Add(4*time.Minute), got[0].LastAttemptedAt)

	assert.Equal(t, int64(3), got[1].QuestionID)
	assert.Equal(t, []int64{}, got[1].SelectedAnswerIDs)
	assert.Equal(t, 1, got[1].WrongCount)
	assert.Equal(t, 1, got[1].TimedOutCount)
}

func TestQueue_RemoveFromReview(t *testing.T) {
	ctx := context.Background()
	queue, store := newQueue(t,
		attempt("a1", 1, 1, false, false, 102),
		attempt("a2", 1, 2, false, true),
		attempt("a3", 1, 3, true, false, 101),
		attempt("a4", 3, 4, false, false, 302),
	)

	removed, ok := queue.RemoveFromReview(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, 2, removed)

	var remaining []string
	for _, a := range store.ListAttempts(ctx) {
		remaining = append(remaining, a.ID)
	}
	assert.Equal(t, []string{"a3", "a4"}, remaining)
	assert.Equal(t, Stats{TotalToReview: 1, WrongCount: 1, QuestionIDs: []int64{3}}, queue.Stats(ctx))

	removed, ok = queue.RemoveFromReview(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, removed)
}
