// Package testutil provides shared test helpers for config files, question banks and deterministic clocks.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/question"
)

// SampleBankYAML holds four questions:
// 1 (Networking/VPC, single), 2 (Networking without topic, multi with 201 and 202 correct),
// 3 (Security/IAM, single) and 4 (no domain, single).
const SampleBankYAML = `questions:
  - id: 1
    domain: Networking
    topic: VPC
    difficulty: easy
    type: single
    text: Which component routes traffic between subnets?
    answers:
      - id: 101
        text: Route table
        correct: true
      - id: 102
        text: Security group
  - id: 2
    domain: Networking
    difficulty: medium
    type: multi
    text: Which are transport layer protocols?
    answers:
      - id: 201
        text: TCP
        correct: true
      - id: 202
        text: UDP
        correct: true
      - id: 203
        text: HTTP
  - id: 3
    domain: Security
    topic: IAM
    difficulty: hard
    type: single
    text: Which policy type is attached to a user?
    answers:
      - id: 301
        text: Identity-based policy
        correct: true
      - id: 302
        text: Bucket policy
  - id: 4
    type: single
    text: Which command lists files?
    answers:
      - id: 401
        text: ls
        correct: true
      - id: 402
        text: cd
`

// WriteSampleBank writes SampleBankYAML into dir and returns the file path.
func WriteSampleBank(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "sample.yml")
	require.NoError(t, os.WriteFile(path, []byte(SampleBankYAML), 0644))
	return path
}

// SampleCatalog loads SampleBankYAML into a catalog.
func SampleCatalog(t *testing.T) *question.Catalog {
	t.Helper()
	dir := t.TempDir()
	WriteSampleBank(t, dir)
	catalog, err := question.LoadDirectories(dir)
	require.NoError(t, err)
	return catalog
}

// SetupTestConfig creates a config file using file storage under tmpDir and a sample question bank.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"banks", "data", "reports"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}
	WriteSampleBank(t, filepath.Join(tmpDir, "banks"))

	configContent := fmt.Sprintf(`storage:
  backend: file
  directory: %s
question_banks:
  directories:
    - %s
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "banks"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// StepClock returns start on the first call and advances by step on every call after it.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// SequentialIDs returns a generator of ids prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
