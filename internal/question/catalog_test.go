package question

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion(id int64, domain, topic string) Question {
	return Question{
		ID:     id,
		Domain: domain,
		Topic:  topic,
		Type:   TypeSingle,
		Text:   "question",
		Answers: []Answer{
			{ID: id*100 + 1, Text: "right", Correct: true},
			{ID: id*100 + 2, Text: "wrong"},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name         string
		questions    []Question
		wantErr      bool
		wantContains string
	}{
		{
			name:      "valid questions",
			questions: []Question{sampleQuestion(1, "Networking", "VPC"), sampleQuestion(2, "Security", "")},
		},
		{
			name:         "duplicated question id",
			questions:    []Question{sampleQuestion(1, "Networking", ""), sampleQuestion(1, "Security", "")},
			wantErr:      true,
			wantContains: "duplicated id",
		},
		{
			name: "unknown type",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Type = "essay"
				return q
			}()},
			wantErr:      true,
			wantContains: "Type",
		},
		{
			name: "no correct answer",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Answers[0].Correct = false
				return q
			}()},
			wantErr:      true,
			wantContains: "no correct answer",
		},
		{
			name: "single choice with two correct answers",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Answers[1].Correct = true
				return q
			}()},
			wantErr:      true,
			wantContains: "2 correct answers",
		},
		{
			name: "multi choice with two correct answers",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Type = TypeMulti
				q.Answers[1].Correct = true
				return q
			}()},
		},
		{
			name: "duplicated answer id",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Answers[1].ID = q.Answers[0].ID
				return q
			}()},
			wantErr:      true,
			wantContains: "duplicated",
		},
		{
			name: "single answer",
			questions: []Question{func() Question {
				q := sampleQuestion(1, "", "")
				q.Answers = q.Answers[:1]
				return q
			}()},
			wantErr:      true,
			wantContains: "Answers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := NewCatalog(tt.questions)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBank)
				assert.ErrorContains(t, err, tt.wantContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.questions), catalog.Len())
		})
	}
}

func TestCatalog_ResolveQuestionByID(t *testing.T) {
	catalog, err := NewCatalog([]Question{sampleQuestion(1, "Networking", "VPC")})
	require.NoError(t, err)

	q, ok := catalog.ResolveQuestionByID(1)
	require.True(t, ok)
	assert.Equal(t, "VPC", q.Topic)

	_, ok = catalog.ResolveQuestionByID(2)
	assert.False(t, ok)
}

func TestCatalog_DomainsAndSelect(t *testing.T) {
	catalog, err := NewCatalog([]Question{
		sampleQuestion(1, "Security", ""),
		sampleQuestion(2, "Networking", ""),
		sampleQuestion(3, "Security", ""),
		sampleQuestion(4, "", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Networking", "Security"}, catalog.Domains())

	tests := []struct {
		name    string
		filter  Filter
		shuffle func([]int64)
		want    []int64
	}{
		{name: "all", want: []int64{1, 2, 3, 4}},
		{name: "by domain", filter: Filter{Domains: []string{"Security"}}, want: []int64{1, 3}},
		{name: "limit", filter: Filter{Limit: 2}, want: []int64{1, 2}},
		{name: "limit after shuffle", filter: Filter{Limit: 2}, shuffle: func(ids []int64) { slices.Reverse(ids) }, want: []int64{4, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Select(tt.filter, tt.shuffle))
		})
	}
}

func TestMerge(t *testing.T) {
	first, err := NewCatalog([]Question{sampleQuestion(1, "Networking", "VPC")})
	require.NoError(t, err)
	second, err := NewCatalog([]Question{sampleQuestion(2, "Security", "IAM")})
	require.NoError(t, err)

	merged, err := Merge(first, nil, second)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, []string{"Networking", "Security"}, merged.Domains())

	_, err = Merge(first, first)
	assert.ErrorIs(t, err, ErrInvalidBank)
}
