package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionReportTemplate(t *testing.T) {
	tests := []struct {
		name         string
		templatePath string

		wantTemplateName string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Custom: {{ .SessionID }}`), 0644))
				return templatePath
			}(t),
			wantTemplateName: "custom.md.go.tmpl",
		},
		{
			name:             "uses embedded template when file doesn't exist",
			templatePath:     "/non/existent/invalid.md.go.tmpl",
			wantTemplateName: sessionReportTemplateName,
		},
		{
			name:             "uses embedded template when no path is configured",
			wantTemplateName: sessionReportTemplateName,
		},
		{
			name: "falls back when the filesystem template is broken",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "broken.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`{{ .SessionID `), 0644))
				return templatePath
			}(t),
			wantTemplateName: sessionReportTemplateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseSessionReportTemplate(tt.templatePath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())
		})
	}
}

func TestWriteSessionReport(t *testing.T) {
	data := SessionReport{
		Title:          "Exam session",
		SessionID:      "session-1",
		SessionType:    "exam",
		StartedAt:      "2025-01-01 09:00",
		CompletedAt:    "2025-01-01 09:30",
		CorrectAnswers: 1,
		TotalQuestions: 2,
		Accuracy:       50,
		TimeSpent:      "1m35s",
		Domains: []DomainRow{
			{Domain: "Networking", Correct: 1, Total: 2, Accuracy: 50},
		},
		IncorrectQuestions: []IncorrectQuestion{
			{
				QuestionID:  3,
				Text:        "Which policy type is attached to a user?",
				Explanation: "Identity-based policies attach to principals.",
				Selected:    []string{"Bucket policy"},
				Correct:     []string{"Identity-based policy"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSessionReport(&buf, "", data))
	got := buf.String()

	for _, want := range []string{
		"# Exam session",
		"- Completed: 2025-01-01 09:30",
		"- Score: 1 / 2 (50.0%)",
		"- Result: Not passed",
		"- Time spent: 1m35s",
		"| Networking | 1 | 2 | 50.0% |",
		"### Q3. Which policy type is attached to a user?",
		"- Your answer: Bucket policy",
		"- Correct answer: Identity-based policy",
		"Identity-based policies attach to principals.",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "All answered questions were correct.")
}

func TestWriteSessionReport_NoMistakes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSessionReport(&buf, "", SessionReport{Title: "Practice", Passed: true}))

	got := buf.String()
	assert.Contains(t, got, "- Result: Passed")
	assert.Contains(t, got, "All answered questions were correct.")
	assert.Contains(t, got, "No answers were recorded for a domain.")
	assert.NotContains(t, got, "- Completed:")
}
