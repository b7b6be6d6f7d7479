package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/kvstore"
)

func TestStore_Learned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.Empty(t, f.store.LearnedQuestionIDs(ctx))

	require.True(t, f.store.MarkLearned(ctx, 3))
	require.True(t, f.store.MarkLearned(ctx, 1))
	require.True(t, f.store.MarkLearned(ctx, 3), "marking twice is a no-op")
	assert.Equal(t, []int64{3, 1}, f.reopen(t).LearnedQuestionIDs(ctx))

	require.True(t, f.store.UnmarkLearned(ctx, 3))
	assert.False(t, f.store.IsLearned(ctx, 3))
	assert.Equal(t, []int64{1}, f.reopen(t).LearnedQuestionIDs(ctx))

	learned, ok := f.store.ToggleLearned(ctx, 1)
	assert.True(t, ok)
	assert.False(t, learned)
	learned, ok = f.store.ToggleLearned(ctx, 1)
	assert.True(t, ok)
	assert.True(t, learned)
	assert.True(t, f.reopen(t).IsLearned(ctx, 1))
}

func TestStore_Learned_WriteFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithStore(t, kvstore.Unavailable{})

	assert.False(t, f.store.MarkLearned(ctx, 1))
	assert.False(t, f.store.IsLearned(ctx, 1), "unsaved marks are not reported as learned")
}
