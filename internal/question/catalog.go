package question

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidBank is returned when question bank data violates its schema.
var ErrInvalidBank = errors.New("invalid question bank")

// Catalog is an in-memory Bank.
type Catalog struct {
	questions []Question
	byID      map[int64]int
}

// NewCatalog validates questions and indexes them by id.
func NewCatalog(questions []Question) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[int64]int, len(questions)),
	}
	var errs []error
	for _, q := range questions {
		if err := validateQuestion(validate, q); err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", q.ID, err))
			continue
		}
		if _, ok := c.byID[q.ID]; ok {
			errs = append(errs, fmt.Errorf("question %d: duplicated id", q.ID))
			continue
		}
		c.byID[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBank, errors.Join(errs...))
	}
	return c, nil
}

func validateQuestion(validate *validator.Validate, q Question) error {
	if err := validate.Struct(q); err != nil {
		return err
	}

	seen := make(map[int64]bool, len(q.Answers))
	for _, a := range q.Answers {
		if seen[a.ID] {
			return fmt.Errorf("answer %d is duplicated", a.ID)
		}
		seen[a.ID] = true
	}

	correct := len(q.CorrectAnswerIDs())
	switch {
	case correct == 0:
		return fmt.Errorf("no correct answer")
	case q.Type == TypeSingle && correct != 1:
		return fmt.Errorf("single choice question has %d correct answers", correct)
	}
	return nil
}

func (c *Catalog) ResolveQuestionByID(id int64) (*Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.questions[i], true
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// All returns every question in load order.
func (c *Catalog) All() []Question {
	return slices.Clone(c.questions)
}

// Domains returns the distinct non-empty domains in lexical order.
func (c *Catalog) Domains() []string {
	set := make(map[string]struct{})
	for _, q := range c.questions {
		if q.Domain != "" {
			set[q.Domain] = struct{}{}
		}
	}
	domains := make([]string, 0, len(set))
	for d := range set {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// Filter narrows the questions picked for a session.
type Filter struct {
	Domains []string
	// Limit caps the number of questions; zero or negative means all.
	Limit int
}

// Select returns the ids of the questions matching filter.
// shuffle, when non-nil, reorders the candidates before the limit is applied.
func (c *Catalog) Select(filter Filter, shuffle func(ids []int64)) []int64 {
	ids := make([]int64, 0, len(c.questions))
	for _, q := range c.questions {
		if len(filter.Domains) > 0 && !slices.Contains(filter.Domains, q.Domain) {
			continue
		}
		ids = append(ids, q.ID)
	}
	if shuffle != nil {
		shuffle(ids)
	}
	if filter.Limit > 0 && len(ids) > filter.Limit {
		ids = ids[:filter.Limit]
	}
	return ids
}

// Merge combines catalogs into one. Question ids must stay unique across them.
func Merge(catalogs ...*Catalog) (*Catalog, error) {
	var questions []Question
	for _, c := range catalogs {
		if c != nil {
			questions = append(questions, c.questions...)
		}
	}
	return NewCatalog(questions)
}
