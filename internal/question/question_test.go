package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAnswerCorrect(t *testing.T) {
	tests := []struct {
		name     string
		selected []int64
		correct  []int64
		want     bool
	}{
		{name: "exact multi-select", selected: []int64{201, 202}, correct: []int64{201, 202}, want: true},
		{name: "order does not matter", selected: []int64{202, 201}, correct: []int64{201, 202}, want: true},
		{name: "subset", selected: []int64{201}, correct: []int64{201, 202}, want: false},
		{name: "superset", selected: []int64{201, 202, 203}, correct: []int64{201, 202}, want: false},
		{name: "nothing selected", selected: []int64{}, correct: []int64{201, 202}, want: false},
		{name: "nil selection", selected: nil, correct: []int64{101}, want: false},
		{name: "single choice", selected: []int64{101}, correct: []int64{101}, want: true},
		{name: "wrong single choice", selected: []int64{102}, correct: []int64{101}, want: false},
		{name: "duplicated selection", selected: []int64{101, 101}, correct: []int64{101}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnswerCorrect(tt.selected, tt.correct))
		})
	}
}

func TestIsAnswerCorrect_DoesNotReorderInput(t *testing.T) {
	selected := []int64{3, 1, 2}
	IsAnswerCorrect(selected, []int64{1, 2, 3})
	assert.Equal(t, []int64{3, 1, 2}, selected)
}

func TestQuestion_CorrectAnswerIDs(t *testing.T) {
	q := Question{
		Answers: []Answer{
			{ID: 201, Text: "a", Correct: true},
			{ID: 202, Text: "b"},
			{ID: 203, Text: "c", Correct: true},
		},
	}
	assert.Equal(t, []int64{201, 203}, q.CorrectAnswerIDs())

	answer, ok := q.AnswerByID(202)
	assert.True(t, ok)
	assert.Equal(t, "b", answer.Text)

	_, ok = q.AnswerByID(999)
	assert.False(t, ok)
}
