package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/certquiz/internal/persistence"
	"github.com/at-ishikawa/certquiz/internal/question"
)

// Clock supplies timestamps for every *At field.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// IDGenerator returns a new globally unique id.
type IDGenerator func() string

// Buckets names the storage keys of the persisted collections.
type Buckets struct {
	Sessions           string
	Attempts           string
	LearnedQuestionIDs string
}

func DefaultBuckets(prefix string) Buckets {
	return Buckets{
		Sessions:           prefix + "sessions",
		Attempts:           prefix + "attempts",
		LearnedQuestionIDs: prefix + "learned_question_ids",
	}
}

// Store keeps sessions, attempts and learned question ids.
type Store struct {
	cache   *persistence.Cache
	bank    question.Bank
	buckets Buckets
	clock   Clock
	newID   IDGenerator
	index   sessionIndex
}

type Option func(*Store)

func WithClock(clock Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func WithIDGenerator(newID IDGenerator) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithBuckets(buckets Buckets) Option {
	return func(s *Store) {
		s.buckets = buckets
	}
}

func NewStore(cache *persistence.Cache, bank question.Bank, opts ...Option) *Store {
	s := &Store{
		cache:   cache,
		bank:    bank,
		buckets: DefaultBuckets("certquiz."),
		clock: ClockFunc(func() time.Time {
			return time.Now().UTC()
		}),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Buckets() Buckets {
	return s.buckets
}

// ListSessions returns every stored session in storage order.
func (s *Store) ListSessions(ctx context.Context) []Session {
	return persistence.Get(ctx, s.cache, s.buckets.Sessions, []Session{})
}

// ListAttempts returns every stored attempt in storage order.
func (s *Store) ListAttempts(ctx context.Context) []Attempt {
	return persistence.Get(ctx, s.cache, s.buckets.Attempts, []Attempt{})
}

// loadSessions reads the sessions bucket for a read-modify-write.
// ok is false when the read failed, and the bucket must then be left untouched.
func (s *Store) loadSessions(ctx context.Context) ([]Session, bool) {
	sessions, err := persistence.Fetch(ctx, s.cache, s.buckets.Sessions, []Session{})
	if err != nil {
		slog.Default().Error("Sessions could not be read, leaving them untouched", "error", err)
		return nil, false
	}
	return sessions, true
}

// loadAttempts reads the attempts bucket for a read-modify-write.
// ok is false when the read failed, and the bucket must then be left untouched.
func (s *Store) loadAttempts(ctx context.Context) ([]Attempt, bool) {
	attempts, err := persistence.Fetch(ctx, s.cache, s.buckets.Attempts, []Attempt{})
	if err != nil {
		slog.Default().Error("Attempts could not be read, leaving them untouched", "error", err)
		return nil, false
	}
	return attempts, true
}

// replaceSessions invalidates the cached bucket and the index, then writes sessions.
func (s *Store) replaceSessions(ctx context.Context, sessions []Session) bool {
	s.index.invalidate()
	s.cache.Invalidate(s.buckets.Sessions)
	return s.cache.Adapter().Write(ctx, s.buckets.Sessions, sessions)
}

// replaceAttempts invalidates the cached bucket, then writes attempts.
func (s *Store) replaceAttempts(ctx context.Context, attempts []Attempt) bool {
	s.cache.Invalidate(s.buckets.Attempts)
	return s.cache.Adapter().Write(ctx, s.buckets.Attempts, attempts)
}

// CreateSession starts a new in-progress session.
func (s *Store) CreateSession(ctx context.Context, sessionType Type, totalQuestions int, domainsFilter []string, questionIDs []int64) (Session, error) {
	if !sessionType.Valid() {
		return Session{}, fmt.Errorf("session type %q: %w", sessionType, ErrInvalidSession)
	}
	if totalQuestions < 0 {
		return Session{}, fmt.Errorf("total questions %d: %w", totalQuestions, ErrInvalidSession)
	}

	session := Session{
		ID:             s.newID(),
		SessionType:    sessionType,
		TotalQuestions: totalQuestions,
		DomainsFilter:  slices.Clone(domainsFilter),
		QuestionIDs:    slices.Clone(questionIDs),
		StartedAt:      s.clock.Now(),
	}
	if !s.SaveSession(ctx, session) {
		slog.Default().Warn("Session was created but could not be saved", "session_id", session.ID)
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (Session, bool) {
	sessions := s.ListSessions(ctx)
	pos, ok := s.index.lookup(sessions, id)
	if !ok {
		return Session{}, false
	}
	return sessions[pos], true
}

// SaveSession replaces the session with the same id, or appends it.
func (s *Store) SaveSession(ctx context.Context, session Session) bool {
	stored, ok := s.loadSessions(ctx)
	if !ok {
		return false
	}
	sessions := slices.Clone(stored)
	if pos, ok := s.index.lookup(sessions, session.ID); ok {
		sessions[pos] = session
	} else {
		sessions = append(sessions, session)
	}
	return s.replaceSessions(ctx, sessions)
}

// ListIncompleteSessions returns in-progress sessions, most recently started first.
func (s *Store) ListIncompleteSessions(ctx context.Context) []Session {
	var incomplete []Session
	for _, session := range s.ListSessions(ctx) {
		if !session.IsCompleted() {
			incomplete = append(incomplete, session)
		}
	}
	sort.SliceStable(incomplete, func(i, j int) bool {
		return incomplete[i].StartedAt.After(incomplete[j].StartedAt)
	})
	return incomplete
}

func (s *Store) ListCompletedSessions(ctx context.Context) []Session {
	var completed []Session
	for _, session := range s.ListSessions(ctx) {
		if session.IsCompleted() {
			completed = append(completed, session)
		}
	}
	return completed
}

// DeleteSession removes a session and then its attempts.
// Attempts are only touched once the session removal has been stored.
func (s *Store) DeleteSession(ctx context.Context, id string) bool {
	sessions, ok := s.loadSessions(ctx)
	if !ok {
		return false
	}
	remaining := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != id {
			remaining = append(remaining, session)
		}
	}
	if !s.replaceSessions(ctx, remaining) {
		return false
	}

	_, ok = s.DeleteAttempts(ctx, func(a Attempt) bool {
		return a.SessionID == id
	})
	if !ok {
		slog.Default().Error("Session was deleted but its attempts could not be removed", "session_id", id)
	}
	return ok
}

// RecordAttempt stores the answer to questionID in sessionID.
// Submitting again for the same pair updates the earlier attempt, and the
// session score only moves when the correctness changes.
func (s *Store) RecordAttempt(ctx context.Context, sessionID string, questionID int64, selectedAnswerIDs []int64, timeSpentSeconds *int) (AttemptResult, error) {
	q, ok := s.bank.ResolveQuestionByID(questionID)
	if !ok {
		return AttemptResult{}, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
	}
	correctAnswerIDs := q.CorrectAnswerIDs()
	isCorrect := question.IsAnswerCorrect(selectedAnswerIDs, correctAnswerIDs)
	result := AttemptResult{
		IsCorrect:        isCorrect,
		CorrectAnswerIDs: correctAnswerIDs,
	}

	sessions, sessionsOK := s.loadSessions(ctx)
	stored, attemptsOK := s.loadAttempts(ctx)
	if !sessionsOK || !attemptsOK {
		slog.Default().Warn("Answer could not be saved",
			"session_id", sessionID,
			"question_id", questionID,
		)
		return result, nil
	}
	pos, ok := s.index.lookup(sessions, sessionID)
	if !ok {
		return AttemptResult{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	session := sessions[pos]
	now := s.clock.Now()

	attempts := slices.Clone(stored)
	delta := 0
	existing := slices.IndexFunc(attempts, func(a Attempt) bool {
		return a.SessionID == sessionID && a.QuestionID == questionID
	})
	if existing >= 0 {
		previous := attempts[existing].IsCorrect
		attempts[existing].SelectedAnswerIDs = slices.Clone(selectedAnswerIDs)
		attempts[existing].IsCorrect = isCorrect
		attempts[existing].TimeSpentSeconds = timeSpentSeconds
		attempts[existing].AttemptedAt = now
		switch {
		case !previous && isCorrect:
			delta = 1
		case previous && !isCorrect:
			delta = -1
		}
	} else {
		attempts = append(attempts, Attempt{
			ID:                s.newID(),
			SessionID:         sessionID,
			QuestionID:        questionID,
			SelectedAnswerIDs: slices.Clone(selectedAnswerIDs),
			IsCorrect:         isCorrect,
			TimeSpentSeconds:  timeSpentSeconds,
			AttemptedAt:       now,
		})
		if isCorrect {
			delta = 1
		}
	}

	result.Persisted = s.replaceAttempts(ctx, attempts)
	if result.Persisted && delta != 0 {
		session.CorrectAnswers = max(session.CorrectAnswers+delta, 0)
		if !s.SaveSession(ctx, session) {
			// keep the score and the attempts in step
			if !s.replaceAttempts(ctx, stored) {
				slog.Default().Error("Attempt was stored but the session score could not be updated",
					"session_id", sessionID,
					"question_id", questionID,
				)
			}
			result.Persisted = false
		}
	}
	if !result.Persisted {
		slog.Default().Warn("Answer could not be saved",
			"session_id", sessionID,
			"question_id", questionID,
		)
	}
	return result, nil
}

// EndSession marks the session completed. Ending it again overwrites the completion time.
func (s *Store) EndSession(ctx context.Context, sessionID string, timeSpentSeconds *int) (Session, error) {
	session, ok := s.GetSession(ctx, sessionID)
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	completedAt := s.clock.Now()
	session.CompletedAt = &completedAt
	session.TimeSpentSeconds = timeSpentSeconds
	if !s.SaveSession(ctx, session) {
		slog.Default().Warn("Session end could not be saved", "session_id", sessionID)
	}
	return session, nil
}

func (s *Store) AttemptsForSession(ctx context.Context, sessionID string) []Attempt {
	return s.filterAttempts(ctx, func(a Attempt) bool {
		return a.SessionID == sessionID
	})
}

func (s *Store) AttemptsForQuestion(ctx context.Context, questionID int64) []Attempt {
	return s.filterAttempts(ctx, func(a Attempt) bool {
		return a.QuestionID == questionID
	})
}

func (s *Store) filterAttempts(ctx context.Context, match func(Attempt) bool) []Attempt {
	var matched []Attempt
	for _, a := range s.ListAttempts(ctx) {
		if match(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// DeleteAttempts removes every attempt for which match returns true.
// ok is false when the attempts could not be read or the store rejected the write.
func (s *Store) DeleteAttempts(ctx context.Context, match func(Attempt) bool) (removed int, ok bool) {
	attempts, ok := s.loadAttempts(ctx)
	if !ok {
		return 0, false
	}
	remaining := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		if match(a) {
			removed++
			continue
		}
		remaining = append(remaining, a)
	}
	if removed == 0 {
		return 0, true
	}
	if !s.replaceAttempts(ctx, remaining) {
		return 0, false
	}
	return removed, true
}
