package dsl

import (
	"github.com/aretw0/quizpath/pkg/adapters/memory"
	"github.com/aretw0/quizpath/pkg/domain"
)

// Builder manages questionnaire construction.
// Questions keep the order in which they were first added.
type Builder struct {
	order     []*QuestionBuilder
	questions map[string]*QuestionBuilder
}

// New creates a new questionnaire builder.
func New() *Builder {
	return &Builder{
		questions: make(map[string]*QuestionBuilder),
	}
}

// Add declares a question.
// If the question already exists, it returns the existing builder and
// the question keeps its original position.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			ID: id,
		},
		builder: b,
	}
	b.questions[id] = qb
	b.order = append(b.order, qb)
	return qb
}

// Questions returns the declared questions in order.
func (b *Builder) Questions() []domain.Question {
	out := make([]domain.Question, 0, len(b.order))
	for _, qb := range b.order {
		out = append(out, qb.Build())
	}
	return out
}

// Build returns a MemoryLoader serving the declared questions.
func (b *Builder) Build() *memory.Loader {
	return memory.NewLoader(b.Questions()...)
}
