// Package report exports the results of a session as markdown and PDF files.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/certquiz/internal/assets"
	"github.com/at-ishikawa/certquiz/internal/statistics"
)

const timeLayout = "2006-01-02 15:04"

// Exporter writes session reports into a directory.
type Exporter struct {
	directory    string
	templatePath string
}

// NewExporter returns an exporter writing into directory. An empty templatePath uses the built-in template.
func NewExporter(directory, templatePath string) *Exporter {
	return &Exporter{
		directory:    directory,
		templatePath: templatePath,
	}
}

// Export writes <session id>.md and, when generatePDF is set, <session id>.pdf next to it.
func (e *Exporter) Export(results statistics.SessionResults, generatePDF bool) (markdownPath, pdfPath string, err error) {
	if err := os.MkdirAll(e.directory, 0755); err != nil {
		return "", "", fmt.Errorf("os.MkdirAll(%s) > %w", e.directory, err)
	}

	var markdown bytes.Buffer
	if err := assets.WriteSessionReport(&markdown, e.templatePath, NewSessionReport(results)); err != nil {
		return "", "", fmt.Errorf("assets.WriteSessionReport(%s) > %w", results.Session.ID, err)
	}
	markdownPath = filepath.Join(e.directory, results.Session.ID+".md")
	if err := os.WriteFile(markdownPath, markdown.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}
	if !generatePDF {
		return markdownPath, "", nil
	}

	pdfPath = filepath.Join(e.directory, results.Session.ID+".pdf")
	if err := writePDF(markdown.Bytes(), pdfPath); err != nil {
		return "", "", fmt.Errorf("writePDF(%s) > %w", results.Session.ID, err)
	}
	return markdownPath, pdfPath, nil
}

// NewSessionReport converts session results into template data.
func NewSessionReport(results statistics.SessionResults) assets.SessionReport {
	s := results.Session
	report := assets.SessionReport{
		Title:          titleCase(string(s.SessionType)) + " session",
		SessionID:      s.ID,
		SessionType:    string(s.SessionType),
		StartedAt:      s.StartedAt.Format(timeLayout),
		CorrectAnswers: s.CorrectAnswers,
		TotalQuestions: s.TotalQuestions,
		Passed:         results.Passed,
	}
	if s.TotalQuestions > 0 {
		report.Accuracy = float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
	}
	if s.CompletedAt != nil {
		report.CompletedAt = s.CompletedAt.Format(timeLayout)
	}
	if s.TimeSpentSeconds != nil {
		report.TimeSpent = (time.Duration(*s.TimeSpentSeconds) * time.Second).String()
	}

	for _, d := range results.DomainBreakdown {
		report.Domains = append(report.Domains, assets.DomainRow{
			Domain:   d.Domain,
			Correct:  d.Correct,
			Total:    d.Total,
			Accuracy: d.Accuracy,
		})
	}
	for _, q := range results.IncorrectQuestions {
		report.IncorrectQuestions = append(report.IncorrectQuestions, assets.IncorrectQuestion{
			QuestionID:  q.Question.ID,
			Text:        q.Question.Text,
			Explanation: q.Question.Explanation,
			Selected:    answerTexts(q.Selected),
			Correct:     answerTexts(q.Correct),
		})
	}
	return report
}

func answerTexts(refs []statistics.AnswerRef) []string {
	texts := make([]string, 0, len(refs))
	for _, ref := range refs {
		texts = append(texts, ref.Text)
	}
	return texts
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
