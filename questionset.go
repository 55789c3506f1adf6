package quizpath

import (
	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/internal/runtime"
	"github.com/aretw0/quizpath/pkg/domain"
)

// QuestionSet is an ordered, validated and immutable collection of
// questions. Every condition is parsed once when the set is built.
type QuestionSet struct {
	program *compiler.Program
	// plain answers the package-level queries with no logger or hooks.
	plain *runtime.Engine
}

// NewQuestionSet validates and compiles questions in declaration order.
// It rejects empty or duplicate ids, branch/default targets that name no
// question, condition syntax errors and relevance dependency cycles. All
// problems are returned together as a *domain.ValidationError.
func NewQuestionSet(questions ...domain.Question) (*QuestionSet, error) {
	return newQuestionSet(questions)
}

func newQuestionSet(questions []domain.Question, opts ...compiler.Option) (*QuestionSet, error) {
	prog, err := compiler.Compile(questions, opts...)
	if err != nil {
		return nil, err
	}
	return &QuestionSet{program: prog, plain: runtime.NewEngine(prog)}, nil
}

// MustQuestionSet is like NewQuestionSet but panics on error.
func MustQuestionSet(questions ...domain.Question) *QuestionSet {
	s, err := NewQuestionSet(questions...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of questions.
func (s *QuestionSet) Len() int {
	if s == nil {
		return 0
	}
	return s.program.Len()
}

// IDs returns the question ids in declaration order.
func (s *QuestionSet) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, s.program.Len())
	for _, q := range s.program.Questions() {
		ids = append(ids, q.ID())
	}
	return ids
}

// Question returns the question with the given id.
func (s *QuestionSet) Question(id string) (domain.Question, bool) {
	if s == nil {
		return domain.Question{}, false
	}
	q, ok := s.program.Lookup(id)
	if !ok {
		return domain.Question{}, false
	}
	return q.Source, true
}

// Questions returns a copy of the questions in declaration order.
func (s *QuestionSet) Questions() []domain.Question {
	if s == nil {
		return nil
	}
	out := make([]domain.Question, 0, s.program.Len())
	for _, q := range s.program.Questions() {
		out = append(out, q.Source)
	}
	return out
}
