package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_filePath(t *testing.T) {
	store := NewFileStore("data", 0)

	assert.Equal(t, filepath.Join("data", "certquiz.sessions.json"), store.filePath("certquiz.sessions"))
	assert.Equal(t, filepath.Join("data", "a_b.json"), store.filePath("a"+string(filepath.Separator)+"b"))
}

func TestFileStore_GetSet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileStore(dir, 0)

	_, found, err := store.Get(ctx, "certquiz.sessions")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "certquiz.sessions", `[{"id":"a"}]`))
	value, found, err := store.Get(ctx, "certquiz.sessions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)

	require.NoError(t, store.Set(ctx, "certquiz.sessions", `[]`))
	value, _, err = store.Get(ctx, "certquiz.sessions")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_Quota(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir(), 10)

	require.NoError(t, store.Set(ctx, "a", "12345"))
	require.NoError(t, store.Set(ctx, "a", "1234567890"))
	err := store.Set(ctx, "b", "1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, found, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, found)
}
