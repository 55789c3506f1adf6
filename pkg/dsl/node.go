package dsl

import "github.com/aretw0/quizpath/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// Text sets the prompt shown to the respondent.
func (q *QuestionBuilder) Text(text string) *QuestionBuilder {
	q.question.Text = text
	return q
}

// Branch adds a conditional route to the target question.
func (q *QuestionBuilder) Branch(condition string, target string) *QuestionBuilder {
	q.question.Branches = append(q.question.Branches, domain.Branch{
		Condition: condition,
		Target:    target,
	})
	return q
}

// Go adds an unconditional branch to the target question.
func (q *QuestionBuilder) Go(target string) *QuestionBuilder {
	return q.Branch("", target)
}

// Default sets the fallback target used when no branch matches.
func (q *QuestionBuilder) Default(target string) *QuestionBuilder {
	q.question.DefaultNext = target
	return q
}

// When sets the relevance expression.
func (q *QuestionBuilder) When(relevance string) *QuestionBuilder {
	q.question.Relevance = relevance
	return q
}

// Priority sets the ordering weight used by NextPriority.
func (q *QuestionBuilder) Priority(p int) *QuestionBuilder {
	q.question.Priority = p
	return q
}

// Meta adds a metadata entry.
func (q *QuestionBuilder) Meta(key, value string) *QuestionBuilder {
	if q.question.Metadata == nil {
		q.question.Metadata = make(map[string]string)
	}
	q.question.Metadata[key] = value
	return q
}

// Terminal drops every route; the sequential fallback still applies.
func (q *QuestionBuilder) Terminal() *QuestionBuilder {
	q.question.Branches = nil
	q.question.DefaultNext = ""
	return q
}

// Add declares the next question, allowing chains across questions.
func (q *QuestionBuilder) Add(id string) *QuestionBuilder {
	return q.builder.Add(id)
}

// Build returns a copy of the underlying domain.Question.
// This is primarily used by the Builder, but exposed for advanced usage.
func (q *QuestionBuilder) Build() domain.Question {
	out := q.question
	if out.Branches != nil {
		out.Branches = append([]domain.Branch(nil), out.Branches...)
	}
	if out.Metadata != nil {
		meta := make(map[string]string, len(out.Metadata))
		for k, v := range out.Metadata {
			meta[k] = v
		}
		out.Metadata = meta
	}
	return out
}
