// Package cli renders progress data in the terminal and runs interactive quiz sessions.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/certquiz/internal/mastery"
	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/review"
	"github.com/at-ishikawa/certquiz/internal/session"
	"github.com/at-ishikawa/certquiz/internal/statistics"
)

const timeLayout = "2006-01-02 15:04"

// Printer writes human readable tables and messages.
type Printer struct {
	out   io.Writer
	bold  *color.Color
	faint *color.Color
	green *color.Color
	red   *color.Color
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		bold:  color.New(color.Bold),
		faint: color.New(color.Faint),
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
	}
}

func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

func (p *Printer) heading(title string) {
	_, _ = p.bold.Fprintln(p.out, title)
	p.Println(strings.Repeat("=", len(title)))
	p.Println()
}

func formatSpent(seconds *int) string {
	if seconds == nil {
		return "-"
	}
	return fmt.Sprintf("%dm%02ds", *seconds/60, *seconds%60)
}

func formatIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ",")
}

// PrintSessions lists sessions, one per line.
func (p *Printer) PrintSessions(sessions []session.Session, passed func(session.Session) bool) {
	if len(sessions) == 0 {
		p.Println("No sessions found.")
		return
	}
	p.Printf("%-36s  %-8s  %-16s  %-16s  %-7s  %-8s  %s\n", "ID", "Type", "Started", "Completed", "Score", "Time", "Result")
	for _, s := range sessions {
		completed := "-"
		result := "in progress"
		if s.CompletedAt != nil {
			completed = s.CompletedAt.Format(timeLayout)
			result = "failed"
			if passed(s) {
				result = "passed"
			}
		}
		p.Printf("%-36s  %-8s  %-16s  %-16s  %-7s  %-8s  ",
			s.ID,
			s.SessionType,
			s.StartedAt.Format(timeLayout),
			completed,
			fmt.Sprintf("%d/%d", s.CorrectAnswers, s.TotalQuestions),
			formatSpent(s.TimeSpentSeconds),
		)
		switch result {
		case "passed":
			_, _ = p.green.Fprintln(p.out, result)
		case "failed":
			_, _ = p.red.Fprintln(p.out, result)
		default:
			p.Println(result)
		}
	}
}

// PrintQuestion shows a question with its answer options.
func (p *Printer) PrintQuestion(index, total int, q *question.Question) {
	p.Println()
	_, _ = p.bold.Fprintf(p.out, "Q%d/%d (#%d)", index, total, q.ID)
	if q.Domain != "" {
		_, _ = p.faint.Fprintf(p.out, " [%s]", q.Domain)
	}
	p.Println()
	p.Println(q.Text)
	for _, a := range q.Answers {
		p.Printf("  %d) %s\n", a.ID, a.Text)
	}
	if q.Type == question.TypeMulti {
		_, _ = p.faint.Fprintln(p.out, "Select all that apply.")
	}
}

// PrintAttemptResult tells whether the answer was right and shows the correct options otherwise.
func (p *Printer) PrintAttemptResult(q *question.Question, result session.AttemptResult) {
	if result.IsCorrect {
		_, _ = p.green.Fprintln(p.out, "Correct.")
	} else {
		var texts []string
		for _, id := range result.CorrectAnswerIDs {
			if a, ok := q.AnswerByID(id); ok {
				texts = append(texts, fmt.Sprintf("%d) %s", a.ID, a.Text))
			}
		}
		_, _ = p.red.Fprintf(p.out, "Wrong. The correct answer is %s\n", strings.Join(texts, ", "))
	}
	if q.Explanation != "" {
		_, _ = p.faint.Fprintln(p.out, q.Explanation)
	}
	if !result.Persisted {
		_, _ = p.red.Fprintln(p.out, "Warning: the answer could not be saved.")
	}
}

func (p *Printer) PrintOverall(o statistics.Overall) {
	p.heading("Overall Statistics")
	p.Printf("%-28s %d\n", "Attempts:", o.TotalAttempts)
	p.Printf("%-28s %d\n", "Correct attempts:", o.CorrectAttempts)
	p.Printf("%-28s %.1f%%\n", "Accuracy:", o.OverallAccuracy)
	p.Printf("%-28s %d / %d\n", "Questions attempted:", o.UniqueQuestionsAttempted, o.TotalQuestions)
	p.Printf("%-28s %d\n", "Completed sessions:", o.TotalSessions)
	p.Printf("%-28s %d\n", "Passed sessions:", o.PassedSessions)
}

func (p *Printer) PrintDomainStats(stats []statistics.DomainStats) {
	p.heading("Statistics by Domain")
	if len(stats) == 0 {
		p.Println("No attempts found.")
		return
	}
	p.Printf("%-24s  %-16s  %s\n", "Domain", "Correct/Total", "Accuracy")
	p.Printf("%-24s  %-16s  %s\n", "------", "-------------", "--------")
	for _, d := range stats {
		p.Printf("%-24s  %-16s  %.1f%%\n", d.Domain, fmt.Sprintf("%d / %d", d.Correct, d.Total), d.Accuracy)
	}
}

func (p *Printer) PrintWeakAreas(areas []statistics.TopicStats) {
	p.heading("Weak Areas")
	if len(areas) == 0 {
		p.Println("Not enough attempts to find weak areas.")
		return
	}
	p.Printf("%-24s  %-16s  %s\n", "Topic", "Correct/Total", "Accuracy")
	p.Printf("%-24s  %-16s  %s\n", "-----", "-------------", "--------")
	for _, a := range areas {
		p.Printf("%-24s  %-16s  ", a.Topic, fmt.Sprintf("%d / %d", a.Correct, a.Total))
		_, _ = p.red.Fprintf(p.out, "%.1f%%\n", a.Accuracy)
	}
}

// PrintSessionResults shows the breakdown of one session and the questions answered wrong.
func (p *Printer) PrintSessionResults(results statistics.SessionResults) {
	s := results.Session
	p.heading(fmt.Sprintf("Session %s", s.ID))
	p.Printf("%-12s %s\n", "Type:", s.SessionType)
	p.Printf("%-12s %d / %d\n", "Score:", s.CorrectAnswers, s.TotalQuestions)
	p.Printf("%-12s %s\n", "Time spent:", formatSpent(s.TimeSpentSeconds))
	switch {
	case s.CompletedAt == nil:
		p.Printf("%-12s in progress\n", "Result:")
	case results.Passed:
		p.Printf("%-12s ", "Result:")
		_, _ = p.green.Fprintln(p.out, "passed")
	default:
		p.Printf("%-12s ", "Result:")
		_, _ = p.red.Fprintln(p.out, "failed")
	}
	p.Println()

	for _, d := range results.DomainBreakdown {
		p.Printf("  %-24s %d / %d (%.1f%%)\n", d.Domain, d.Correct, d.Total, d.Accuracy)
	}
	if len(results.IncorrectQuestions) == 0 {
		return
	}
	p.Println()
	_, _ = p.bold.Fprintln(p.out, "Incorrect questions")
	for _, q := range results.IncorrectQuestions {
		p.Printf("- #%d %s\n", q.Question.ID, q.Question.Text)
		_, _ = p.red.Fprintf(p.out, "    yours:   %s\n", answerRefTexts(q.Selected))
		_, _ = p.green.Fprintf(p.out, "    correct: %s\n", answerRefTexts(q.Correct))
	}
}

func answerRefTexts(refs []statistics.AnswerRef) string {
	if len(refs) == 0 {
		return "(none)"
	}
	texts := make([]string, 0, len(refs))
	for _, r := range refs {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, ", ")
}

// PrintProgress lists mastery per question in the given order.
func (p *Printer) PrintProgress(ids []int64, progress map[int64]mastery.QuestionProgress) {
	p.Printf("%-10s  %-12s  %-16s  %-16s  %s\n", "Question", "Status", "Correct/Total", "Last attempt", "Learned")
	for _, id := range ids {
		pr := progress[id]
		last := "-"
		if pr.LastAttemptedAt != nil {
			last = pr.LastAttemptedAt.Format(timeLayout)
		}
		learned := ""
		if pr.MarkedAsLearned {
			learned = "yes"
		}
		p.Printf("%-10d  ", id)
		_, _ = p.statusColor(pr.MasteryStatus).Fprintf(p.out, "%-12s", pr.MasteryStatus)
		p.Printf("  %-16s  %-16s  %s\n", fmt.Sprintf("%d / %d", pr.CorrectCount, pr.AttemptCount), last, learned)
	}
}

func (p *Printer) statusColor(status mastery.Status) *color.Color {
	switch status {
	case mastery.StatusMastered:
		return p.green
	case mastery.StatusIncorrect:
		return p.red
	case mastery.StatusUnattempted:
		return p.faint
	}
	return color.New(color.Reset)
}

func (p *Printer) PrintMasterySummary(s mastery.Summary) {
	p.heading("Mastery")
	p.Printf("%-14s %d\n", "Mastered:", s.Mastered)
	p.Printf("%-14s %d\n", "Attempted:", s.Attempted)
	p.Printf("%-14s %d\n", "Incorrect:", s.Incorrect)
	p.Printf("%-14s %d\n", "Unattempted:", s.Unattempted)
	p.Printf("%-14s %d\n", "Total:", s.Total)
}

func (p *Printer) PrintReviewStats(s review.Stats) {
	p.heading("Review Queue")
	p.Printf("%-16s %d\n", "To review:", s.TotalToReview)
	p.Printf("%-16s %d\n", "Answered wrong:", s.WrongCount)
	p.Printf("%-16s %d\n", "Timed out:", s.TimedOutCount)
	if len(s.QuestionIDs) > 0 {
		p.Printf("%-16s %s\n", "Questions:", formatIDs(s.QuestionIDs))
	}
}

func (p *Printer) PrintReviewDetails(details []review.Detail) {
	if len(details) == 0 {
		p.Println("Nothing to review.")
		return
	}
	for _, d := range details {
		_, _ = p.bold.Fprintf(p.out, "#%d %s\n", d.QuestionID, d.Question.Text)
		p.Printf("    wrong: %d, timed out: %d, last: %s, last selection: %s\n",
			d.WrongCount,
			d.TimedOutCount,
			d.LastAttemptedAt.Format(timeLayout),
			formatIDs(d.SelectedAnswerIDs),
		)
	}
}

func (p *Printer) PrintLearned(ids []int64) {
	if len(ids) == 0 {
		p.Println("No questions are marked as learned.")
		return
	}
	p.Printf("Learned questions: %s\n", formatIDs(ids))
}
