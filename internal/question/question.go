// Package question provides the read-only question bank the progress engine resolves ids against.
package question

import "slices"

type Type string

const (
	TypeSingle Type = "single"
	TypeMulti  Type = "multi"
)

type Answer struct {
	ID      int64  `yaml:"id" json:"id" validate:"required"`
	Text    string `yaml:"text" json:"text" validate:"required"`
	Correct bool   `yaml:"correct" json:"correct"`
}

type Question struct {
	ID          int64    `yaml:"id" json:"id" validate:"required"`
	Domain      string   `yaml:"domain,omitempty" json:"domain,omitempty"`
	Topic       string   `yaml:"topic,omitempty" json:"topic,omitempty"`
	Difficulty  string   `yaml:"difficulty,omitempty" json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Type        Type     `yaml:"type" json:"type" validate:"required,oneof=single multi"`
	Text        string   `yaml:"text" json:"text" validate:"required"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Answers     []Answer `yaml:"answers" json:"answers" validate:"required,min=2,dive"`
}

// CorrectAnswerIDs returns the ids of the correct answers in answer order.
func (q Question) CorrectAnswerIDs() []int64 {
	ids := make([]int64, 0, 1)
	for _, a := range q.Answers {
		if a.Correct {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (q Question) AnswerByID(id int64) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

// Bank resolves questions by id.
type Bank interface {
	ResolveQuestionByID(id int64) (*Question, bool)
}

// IsAnswerCorrect reports whether selected and correct contain the same ids, as sets.
func IsAnswerCorrect(selected, correct []int64) bool {
	s := uniqueSorted(selected)
	c := uniqueSorted(correct)
	return slices.Equal(s, c)
}

func uniqueSorted(ids []int64) []int64 {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
