package runtime

import (
	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/pkg/domain"
)

// ResolveNext returns the id of the question that follows currentID once
// answer has been given, or "" when the questionnaire is complete.
//
// answers must already contain the new answer: relevance of candidate
// targets is judged against the map as it is after recording it.
//
// Priority:
//  1. Branches in declared order. The first whose condition holds and whose
//     target is relevant wins; a matching branch to an irrelevant target
//     counts as no match.
//  2. The default link, if relevant.
//  3. The next relevant question in declaration order after currentID.
func (e *Engine) ResolveNext(currentID string, answer any, answers domain.Answers, profile domain.Profile) (string, error) {
	current, ok := e.program.Lookup(currentID)
	if !ok {
		return "", &domain.UnknownQuestionError{ID: currentID}
	}

	ctx := contextFor(answer, answers, profile)

	// Priority 1: Branches
	for i, b := range current.Branches {
		if b.Condition != nil && !e.evaluate(current, i, b.Condition, ctx) {
			continue
		}
		target := e.program.At(b.TargetIndex)
		if !e.IsRelevant(target, answers, profile) {
			e.skipped(current, i, target)
			continue
		}
		e.logger.Debug("branch matched", "question", currentID, "branch", i, "next", target.ID())
		return e.resolved(current, target.ID(), domain.OutcomeBranch, i), nil
	}

	// Priority 2: Default link
	if current.DefaultIndex >= 0 {
		target := e.program.At(current.DefaultIndex)
		if e.IsRelevant(target, answers, profile) {
			return e.resolved(current, target.ID(), domain.OutcomeDefault, -1), nil
		}
		e.skipped(current, -1, target)
	}

	// Priority 3: Declaration order
	if next := e.nextRelevantAfter(current.Index, answers, profile); next != nil {
		return e.resolved(current, next.ID(), domain.OutcomeSequential, -1), nil
	}

	return e.resolved(current, "", domain.OutcomeComplete, -1), nil
}

// Start returns the first relevant question in declaration order, or ""
// if no question is relevant.
func (e *Engine) Start(answers domain.Answers, profile domain.Profile) string {
	if q := e.nextRelevantAfter(-1, answers, profile); q != nil {
		return q.ID()
	}
	return ""
}

// Resume replays the recorded answers along the path from Start and returns
// the first question on that path without an answer, or "" if the path is
// complete. It fails with domain.ErrPathCycle if the walk revisits a question.
func (e *Engine) Resume(answers domain.Answers, profile domain.Profile) (string, error) {
	path, err := e.Trace(answers, profile)
	if err != nil {
		return "", err
	}
	if len(path) == 0 {
		return "", nil
	}
	last := path[len(path)-1]
	if answers.IsAnswered(last) {
		return "", nil
	}
	return last, nil
}

// Trace returns the path a respondent with these answers has walked: from
// Start, each answered question is resolved with its recorded answer until
// an unanswered question (included) or completion.
func (e *Engine) Trace(answers domain.Answers, profile domain.Profile) ([]string, error) {
	current := e.Start(answers, profile)
	var path []string
	visited := make(map[string]bool)
	for current != "" {
		if visited[current] {
			return path, domain.ErrPathCycle
		}
		visited[current] = true
		path = append(path, current)

		if !answers.IsAnswered(current) {
			return path, nil
		}
		next, err := e.ResolveNext(current, answers[current], answers, profile)
		if err != nil {
			return path, err
		}
		current = next
	}
	return path, nil
}

func (e *Engine) nextRelevantAfter(index int, answers domain.Answers, profile domain.Profile) *compiler.Question {
	for i := index + 1; i < e.program.Len(); i++ {
		q := e.program.At(i)
		if e.IsRelevant(q, answers, profile) {
			return q
		}
	}
	return nil
}

func (e *Engine) skipped(from *compiler.Question, branchIndex int, target *compiler.Question) {
	e.logger.Debug("target not relevant, skipping",
		"question", from.ID(),
		"branch", branchIndex,
		"target", target.ID(),
	)
	if e.hooks.OnBranchSkipped != nil {
		e.hooks.OnBranchSkipped(domain.SkipEvent{FromID: from.ID(), Target: target.ID(), BranchIndex: branchIndex})
	}
}

func (e *Engine) resolved(from *compiler.Question, next string, outcome domain.ResolveOutcome, branchIndex int) string {
	if e.hooks.OnResolve != nil {
		e.hooks.OnResolve(domain.ResolveEvent{
			FromID:      from.ID(),
			NextID:      next,
			Outcome:     outcome,
			BranchIndex: branchIndex,
		})
	}
	return next
}
