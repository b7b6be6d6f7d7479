package assets

import (
	"fmt"
	"io"
)

// SessionReport is the data rendered into a session report.
type SessionReport struct {
	Title          string
	SessionID      string
	SessionType    string
	StartedAt      string
	CompletedAt    string
	CorrectAnswers int
	TotalQuestions int
	Accuracy       float64
	Passed         bool
	TimeSpent      string
	Domains        []DomainRow
	// IncorrectQuestions are in the order the session asked them
	IncorrectQuestions []IncorrectQuestion
}

type DomainRow struct {
	Domain   string
	Correct  int
	Total    int
	Accuracy float64
}

type IncorrectQuestion struct {
	QuestionID  int64
	Text        string
	Explanation string
	Selected    []string
	Correct     []string
}

func WriteSessionReport(output io.Writer, templatePath string, data SessionReport) error {
	tmpl, err := ParseSessionReportTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseSessionReportTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
