package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "backend: file")
	assert.Contains(t, string(content), filepath.Join(tmpDir, "banks"))

	for _, d := range []string{"banks", "data", "reports"} {
		info, err := os.Stat(filepath.Join(tmpDir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err = os.Stat(filepath.Join(tmpDir, "banks", "sample.yml"))
	assert.NoError(t, err)
}

func TestSampleCatalog(t *testing.T) {
	catalog := SampleCatalog(t)
	assert.Equal(t, 4, catalog.Len())
	assert.Equal(t, []string{"Networking", "Security"}, catalog.Domains())
}

func TestStepClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewStepClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Now())
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs("session")
	assert.Equal(t, "session-1", next())
	assert.Equal(t, "session-2", next())
}
