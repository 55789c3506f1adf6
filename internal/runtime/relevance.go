package runtime

import (
	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/pkg/domain"
)

// IsRelevant reports whether q currently belongs to the questionnaire.
// A question without a relevance expression is always relevant. The
// expression is evaluated with no current answer, so `answer` never
// resolves inside it; relevance only reads answers and profile.
//
// Relevance is recomputed from the answers on every call. Nothing is
// cached, so edits and retractions are reflected immediately.
func (e *Engine) IsRelevant(q *compiler.Question, answers domain.Answers, profile domain.Profile) bool {
	if q.Relevance == nil {
		return true
	}
	return e.evaluate(q, -1, q.Relevance, contextFor(nil, answers, profile))
}

// Relevant returns the relevant question ids in declaration order.
func (e *Engine) Relevant(answers domain.Answers, profile domain.Profile) []string {
	var ids []string
	for _, q := range e.program.Questions() {
		if e.IsRelevant(q, answers, profile) {
			ids = append(ids, q.ID())
		}
	}
	return ids
}
