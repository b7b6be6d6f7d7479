package session

import (
	"context"
	"log/slog"
	"slices"

	"github.com/at-ishikawa/certquiz/internal/persistence"
)

// LearnedQuestionIDs returns the ids the user marked as learned.
func (s *Store) LearnedQuestionIDs(ctx context.Context) []int64 {
	return persistence.Get(ctx, s.cache, s.buckets.LearnedQuestionIDs, []int64{})
}

func (s *Store) IsLearned(ctx context.Context, questionID int64) bool {
	return slices.Contains(s.LearnedQuestionIDs(ctx), questionID)
}

func (s *Store) MarkLearned(ctx context.Context, questionID int64) bool {
	return s.setLearned(ctx, questionID, true)
}

func (s *Store) UnmarkLearned(ctx context.Context, questionID int64) bool {
	return s.setLearned(ctx, questionID, false)
}

// ToggleLearned flips the learned mark and returns the new state.
func (s *Store) ToggleLearned(ctx context.Context, questionID int64) (learned bool, ok bool) {
	learned = !s.IsLearned(ctx, questionID)
	return learned, s.setLearned(ctx, questionID, learned)
}

func (s *Store) setLearned(ctx context.Context, questionID int64, learned bool) bool {
	ids, err := persistence.Fetch(ctx, s.cache, s.buckets.LearnedQuestionIDs, []int64{})
	if err != nil {
		slog.Default().Error("Learned marks could not be read, leaving them untouched",
			"question_id", questionID,
			"error", err,
		)
		return false
	}
	has := slices.Contains(ids, questionID)
	if has == learned {
		return true
	}

	if learned {
		ids = append(slices.Clone(ids), questionID)
	} else {
		ids = slices.DeleteFunc(slices.Clone(ids), func(id int64) bool {
			return id == questionID
		})
	}
	s.cache.Set(s.buckets.LearnedQuestionIDs, ids)
	if err := s.cache.Flush(ctx); err != nil {
		slog.Default().Warn("Learned mark could not be saved",
			"question_id", questionID,
			"error", err,
		)
		// drop the unsaved value so reads reflect what is stored
		s.cache.Invalidate(s.buckets.LearnedQuestionIDs)
		return false
	}
	return true
}
