package runtime

import (
	"sort"

	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/pkg/domain"
)

// Progress returns the percentage of relevant questions that have a
// non-empty answer, rounded half up. It is 0 for an empty relevant set.
//
// Progress is not monotonic: an answer can make more questions relevant
// and so lower the percentage.
func (e *Engine) Progress(answers domain.Answers, profile domain.Profile) int {
	answered, relevant := e.tally(answers, profile)
	percent := 0
	if relevant > 0 {
		percent = (200*answered + relevant) / (2 * relevant)
	}
	if e.hooks.OnProgress != nil {
		e.hooks.OnProgress(domain.ProgressEvent{Answered: answered, Relevant: relevant, Percent: percent})
	}
	return percent
}

// Remaining returns the number of relevant questions still unanswered.
func (e *Engine) Remaining(answers domain.Answers, profile domain.Profile) int {
	answered, relevant := e.tally(answers, profile)
	return relevant - answered
}

// NextPriority returns the relevant unanswered question with the highest
// priority, ties broken by declaration order, or "" if none is left.
func (e *Engine) NextPriority(answers domain.Answers, profile domain.Profile) string {
	var candidates []*compiler.Question
	for _, q := range e.program.Questions() {
		if answers.IsAnswered(q.ID()) {
			continue
		}
		if e.IsRelevant(q, answers, profile) {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Source.Priority > candidates[j].Source.Priority
	})
	return candidates[0].ID()
}

// tally is a single relevance pass over the set. Relevance reads recorded
// answers only, never other questions' relevance, so one pass is enough.
func (e *Engine) tally(answers domain.Answers, profile domain.Profile) (answered, relevant int) {
	for _, q := range e.program.Questions() {
		if !e.IsRelevant(q, answers, profile) {
			continue
		}
		relevant++
		if answers.IsAnswered(q.ID()) {
			answered++
		}
	}
	return answered, relevant
}
