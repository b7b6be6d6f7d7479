// Package statistics aggregates the session and attempt log into overall, per-domain and per-topic figures.
package statistics

import (
	"context"
	"slices"
	"sort"

	"github.com/at-ishikawa/certquiz/internal/question"
	"github.com/at-ishikawa/certquiz/internal/session"
)

// DefaultPassThreshold is the share of correct answers a completed session needs to pass.
const DefaultPassThreshold = 0.75

const uncategorized = "Uncategorized"

// Log is the part of the session store the aggregator reads.
type Log interface {
	ListSessions(ctx context.Context) []session.Session
	ListAttempts(ctx context.Context) []session.Attempt
	GetSession(ctx context.Context, id string) (session.Session, bool)
}

type Aggregator struct {
	log           Log
	bank          question.Bank
	passThreshold float64
}

type Option func(*Aggregator)

func WithPassThreshold(threshold float64) Option {
	return func(a *Aggregator) {
		a.passThreshold = threshold
	}
}

func NewAggregator(log Log, bank question.Bank, opts ...Option) *Aggregator {
	a := &Aggregator{
		log:           log,
		bank:          bank,
		passThreshold: DefaultPassThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// accuracy returns correct/total as a percentage, 0 when total is 0.
func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

type Overall struct {
	TotalAttempts            int
	CorrectAttempts          int
	OverallAccuracy          float64
	TotalSessions            int
	PassedSessions           int
	UniqueQuestionsAttempted int
	TotalQuestions           int
}

// OverallStats summarizes every attempt and every completed session.
func (a *Aggregator) OverallStats(ctx context.Context, totalQuestionsInBank int) Overall {
	overall := Overall{TotalQuestions: totalQuestionsInBank}

	unique := make(map[int64]struct{})
	for _, attempt := range a.log.ListAttempts(ctx) {
		overall.TotalAttempts++
		if attempt.IsCorrect {
			overall.CorrectAttempts++
		}
		unique[attempt.QuestionID] = struct{}{}
	}
	overall.UniqueQuestionsAttempted = len(unique)
	overall.OverallAccuracy = accuracy(overall.CorrectAttempts, overall.TotalAttempts)

	for _, s := range a.log.ListSessions(ctx) {
		if !s.IsCompleted() {
			continue
		}
		overall.TotalSessions++
		if a.Passed(s) {
			overall.PassedSessions++
		}
	}
	return overall
}

// Passed reports whether a completed session reached the pass threshold.
// A session without questions never passes.
func (a *Aggregator) Passed(s session.Session) bool {
	if !s.IsCompleted() || s.TotalQuestions <= 0 {
		return false
	}
	return float64(s.CorrectAnswers)/float64(s.TotalQuestions) >= a.passThreshold
}

type DomainStats struct {
	Domain   string
	Total    int
	Correct  int
	Accuracy float64
}

func (a *Aggregator) StatsByDomain(ctx context.Context) []DomainStats {
	return a.domainBreakdown(a.log.ListAttempts(ctx))
}

// domainBreakdown groups attempts by the domain of their question.
// Unknown questions and questions without a domain are left out.
func (a *Aggregator) domainBreakdown(attempts []session.Attempt) []DomainStats {
	groups := make(map[string]*DomainStats)
	for _, attempt := range attempts {
		q, ok := a.bank.ResolveQuestionByID(attempt.QuestionID)
		if !ok || q.Domain == "" {
			continue
		}
		g, ok := groups[q.Domain]
		if !ok {
			g = &DomainStats{Domain: q.Domain}
			groups[q.Domain] = g
		}
		g.Total++
		if attempt.IsCorrect {
			g.Correct++
		}
	}

	result := make([]DomainStats, 0, len(groups))
	for _, g := range groups {
		g.Accuracy = accuracy(g.Correct, g.Total)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Domain < result[j].Domain
	})
	return result
}

type TopicStats struct {
	Topic    string
	Total    int
	Correct  int
	Accuracy float64
}

// WeakAreas returns the topics with at least minAttempts attempts, worst accuracy first.
// A question without a topic is grouped under its domain, and under "Uncategorized"
// when it has neither. limit <= 0 returns every group.
func (a *Aggregator) WeakAreas(ctx context.Context, minAttempts, limit int) []TopicStats {
	groups := make(map[string]*TopicStats)
	for _, attempt := range a.log.ListAttempts(ctx) {
		q, ok := a.bank.ResolveQuestionByID(attempt.QuestionID)
		if !ok {
			continue
		}
		topic := q.Topic
		if topic == "" {
			topic = q.Domain
		}
		if topic == "" {
			topic = uncategorized
		}
		g, ok := groups[topic]
		if !ok {
			g = &TopicStats{Topic: topic}
			groups[topic] = g
		}
		g.Total++
		if attempt.IsCorrect {
			g.Correct++
		}
	}

	var result []TopicStats
	for _, g := range groups {
		if g.Total < minAttempts {
			continue
		}
		g.Accuracy = accuracy(g.Correct, g.Total)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Accuracy != result[j].Accuracy {
			return result[i].Accuracy < result[j].Accuracy
		}
		return result[i].Topic < result[j].Topic
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// SessionHistory returns completed sessions, most recently completed first.
// limit <= 0 returns all of them.
func (a *Aggregator) SessionHistory(ctx context.Context, limit int) []session.Session {
	var completed []session.Session
	for _, s := range a.log.ListSessions(ctx) {
		if s.IsCompleted() {
			completed = append(completed, s)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	if limit > 0 && len(completed) > limit {
		completed = completed[:limit]
	}
	return completed
}

// AnswerRef is an answer option shown next to a wrongly answered question.
type AnswerRef struct {
	ID   int64
	Text string
}

type IncorrectQuestion struct {
	Question *question.Question
	Selected []AnswerRef
	Correct  []AnswerRef
}

type SessionResults struct {
	Session            session.Session
	Passed             bool
	DomainBreakdown    []DomainStats
	IncorrectQuestions []IncorrectQuestion
}

// SessionResults returns the breakdown of one session. ok is false for an unknown session.
// Wrong answers are listed in the session's question order.
func (a *Aggregator) SessionResults(ctx context.Context, sessionID string) (SessionResults, bool) {
	s, ok := a.log.GetSession(ctx, sessionID)
	if !ok {
		return SessionResults{}, false
	}

	var attempts []session.Attempt
	for _, attempt := range a.log.ListAttempts(ctx) {
		if attempt.SessionID == sessionID {
			attempts = append(attempts, attempt)
		}
	}
	slices.SortStableFunc(attempts, func(x, y session.Attempt) int {
		return questionOrder(s.QuestionIDs, x.QuestionID) - questionOrder(s.QuestionIDs, y.QuestionID)
	})

	results := SessionResults{
		Session:         s,
		Passed:          a.Passed(s),
		DomainBreakdown: a.domainBreakdown(attempts),
	}
	for _, attempt := range attempts {
		if attempt.IsCorrect {
			continue
		}
		q, ok := a.bank.ResolveQuestionByID(attempt.QuestionID)
		if !ok {
			continue
		}
		results.IncorrectQuestions = append(results.IncorrectQuestions, IncorrectQuestion{
			Question: q,
			Selected: answerRefs(q, attempt.SelectedAnswerIDs),
			Correct:  answerRefs(q, q.CorrectAnswerIDs()),
		})
	}
	return results, true
}

// questionOrder places questions outside the session's list after the listed ones.
func questionOrder(questionIDs []int64, id int64) int {
	if i := slices.Index(questionIDs, id); i >= 0 {
		return i
	}
	return len(questionIDs)
}

func answerRefs(q *question.Question, ids []int64) []AnswerRef {
	refs := make([]AnswerRef, 0, len(ids))
	for _, id := range ids {
		answer, ok := q.AnswerByID(id)
		if !ok {
			continue
		}
		refs = append(refs, AnswerRef{ID: answer.ID, Text: answer.Text})
	}
	return refs
}
