package runtime

import (
	"errors"
	"testing"

	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, questions []domain.Question, opts ...EngineOption) *Engine {
	t.Helper()
	prog, err := compiler.Compile(questions)
	require.NoError(t, err)
	return NewEngine(prog, opts...)
}

// immigrationSet is the branching fixture shared by the navigation tests.
func immigrationSet() []domain.Question {
	return []domain.Question{
		{
			ID:   "q1",
			Text: "What is your age range?",
			Branches: []domain.Branch{
				{Condition: "answer === 'under-18'", Target: "q8"},
				{Condition: "answer === '18-24' || answer === '25-29'", Target: "q2"},
			},
			DefaultNext: "q2",
		},
		{
			ID:          "q2",
			Text:        "What is your highest level of education?",
			Branches:    []domain.Branch{{Condition: "answer === 'high-school'", Target: "q4"}},
			DefaultNext: "q3",
		},
		{ID: "q3", Text: "How many years of work experience do you have?", DefaultNext: "q4"},
		{ID: "q4", Text: "What is your current occupation?"},
		{ID: "q8", Text: "What is your family status?"},
		{
			ID:   "q10",
			Text: "Which immigration pathways are you most interested in?",
			Branches: []domain.Branch{
				{Condition: "answer.includes('business')", Target: "q-business"},
				{Condition: "answer.includes('study')", Target: "q-study"},
			},
			DefaultNext: "q11",
		},
		{
			ID:          "q-business",
			Text:        "What is your investment budget for business immigration?",
			Relevance:   "Array.isArray(answers.q10) && answers.q10.includes('business')",
			DefaultNext: "q11",
		},
		{
			ID:        "q-study",
			Text:      "Which level of study?",
			Relevance: "Array.isArray(answers.q10) && answers.q10.includes('study')",
		},
		{ID: "q11", Text: "Anything else?"},
	}
}

func TestResolveNext_ConcreteScenarios(t *testing.T) {
	eng := newTestEngine(t, immigrationSet())

	tests := []struct {
		name    string
		from    string
		answer  any
		answers domain.Answers
		want    string
	}{
		{"under 18 skips to q8", "q1", "under-18", domain.Answers{}, "q8"},
		{"25-29 goes to q2", "q1", "25-29", domain.Answers{}, "q2"},
		{"unmatched age uses default", "q1", "40+", domain.Answers{}, "q2"},
		{"high school skips to q4", "q2", "high-school", domain.Answers{}, "q4"},
		{"other education uses default", "q2", "masters", domain.Answers{}, "q3"},
		{
			"multi-select: first match wins",
			"q10", []any{"business", "study"},
			domain.Answers{"q10": []any{"business", "study"}},
			"q-business",
		},
		{
			"multi-select: second branch",
			"q10", []string{"study"},
			domain.Answers{"q10": []string{"study"}},
			"q-study",
		},
		{
			"multi-select: no match uses default",
			"q10", []any{"family"},
			domain.Answers{"q10": []any{"family"}},
			"q11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.ResolveNext(tt.from, tt.answer, tt.answers, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNext_BranchOrderPrecedence(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{
		{ID: "start", Branches: []domain.Branch{
			{Condition: "true", Target: "A"},
			{Condition: "true", Target: "B"},
		}},
		{ID: "A"},
		{ID: "B"},
	})

	got, err := eng.ResolveNext("start", "anything", domain.Answers{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestResolveNext_IrrelevantTargetFallsThrough(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Branches: []domain.Branch{
			{Condition: "answer === 'yes'", Target: "gated"},
			{Condition: "answer === 'yes'", Target: "open"},
		}, DefaultNext: "fallback"},
		{ID: "gated", Relevance: "profile.vip === true"},
		{ID: "open", Relevance: "answers.q1 === 'maybe'"},
		{ID: "fallback"},
		{ID: "tail"},
	}

	var skips []domain.SkipEvent
	eng := newTestEngine(t, questions, WithLifecycleHooks(domain.LifecycleHooks{
		OnBranchSkipped: func(e domain.SkipEvent) { skips = append(skips, e) },
	}))

	// gated is irrelevant (not vip), open is irrelevant (q1 is 'yes'): default wins.
	got, err := eng.ResolveNext("q1", "yes", domain.Answers{"q1": "yes"}, domain.Profile{"vip": false})
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
	require.Len(t, skips, 2)
	assert.Equal(t, domain.SkipEvent{FromID: "q1", Target: "gated", BranchIndex: 0}, skips[0])
	assert.Equal(t, domain.SkipEvent{FromID: "q1", Target: "open", BranchIndex: 1}, skips[1])

	// With a vip profile the first branch target becomes relevant.
	got, err = eng.ResolveNext("q1", "yes", domain.Answers{"q1": "yes"}, domain.Profile{"vip": true})
	require.NoError(t, err)
	assert.Equal(t, "gated", got)
}

func TestResolveNext_IrrelevantDefaultAdvancesInDeclarationOrder(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{
		{ID: "q1", DefaultNext: "q4"},
		{ID: "q2", Relevance: "answers.q1 === 'no'"},
		{ID: "q3"},
		{ID: "q4", Relevance: "answers.q1 === 'no'"},
	})

	got, err := eng.ResolveNext("q1", "yes", domain.Answers{"q1": "yes"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "q3", got)
}

func TestResolveNext_SequentialFallback(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	got, err := eng.ResolveNext("a", "x", domain.Answers{"a": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = eng.ResolveNext("b", "x", domain.Answers{"a": "x", "b": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "c", got)
}

func TestResolveNext_TerminalState(t *testing.T) {
	var events []domain.ResolveEvent
	eng := newTestEngine(t, []domain.Question{
		{ID: "a"},
		{ID: "last", Branches: []domain.Branch{{Condition: "answer === 'back'", Target: "a"}}},
	}, WithLifecycleHooks(domain.LifecycleHooks{
		OnResolve: func(e domain.ResolveEvent) { events = append(events, e) },
	}))

	got, err := eng.ResolveNext("last", "done", domain.Answers{"last": "done"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	require.Len(t, events, 1)
	assert.Equal(t, domain.OutcomeComplete, events[0].Outcome)

	// Loops are legal for path walking when a branch routes back.
	got, err = eng.ResolveNext("last", "back", domain.Answers{"last": "back"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestResolveNext_TrailingIrrelevantQuestionsComplete(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{
		{ID: "a"},
		{ID: "b", Relevance: "answers.a === 'more'"},
		{ID: "c", Relevance: "answers.a === 'more'"},
	})

	got, err := eng.ResolveNext("a", "enough", domain.Answers{"a": "enough"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestResolveNext_UnknownQuestion(t *testing.T) {
	eng := newTestEngine(t, immigrationSet())

	_, err := eng.ResolveNext("nope", "x", domain.Answers{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownQuestion))

	var unknown *domain.UnknownQuestionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.ID)
}

func TestResolveNext_UnresolvedConditionDoesNotMatch(t *testing.T) {
	var issues []domain.IssueEvent
	eng := newTestEngine(t, []domain.Question{
		{ID: "q1", Branches: []domain.Branch{
			{Condition: "answers.q0 === 'x'", Target: "q3"},
			{Condition: "answer.includes('y')", Target: "q3"},
		}},
		{ID: "q2"},
		{ID: "q3"},
	}, WithLifecycleHooks(domain.LifecycleHooks{
		OnConditionIssue: func(e domain.IssueEvent) { issues = append(issues, e) },
	}))

	got, err := eng.ResolveNext("q1", "scalar", domain.Answers{"q1": "scalar"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "q2", got)

	require.Len(t, issues, 2)
	assert.Equal(t, 0, issues[0].BranchIndex)
	assert.Contains(t, issues[0].Issue, "answers.q0")
	assert.Equal(t, 1, issues[1].BranchIndex)
}

func TestResolveNext_Deterministic(t *testing.T) {
	eng := newTestEngine(t, immigrationSet())
	answers := domain.Answers{"q10": []any{"study", "business"}}

	first, err := eng.ResolveNext("q10", answers["q10"], answers, nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := eng.ResolveNext("q10", answers["q10"], answers, nil)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestResolveNext_DoesNotMutateAnswers(t *testing.T) {
	eng := newTestEngine(t, immigrationSet())
	answers := domain.Answers{"q1": "under-18"}

	_, err := eng.ResolveNext("q1", "under-18", answers, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Answers{"q1": "under-18"}, answers)
}

func TestStartTraceResume(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{
		{ID: "intro", Relevance: "!(profile.returning === true)"},
		{ID: "q1", Branches: []domain.Branch{{Condition: "answer === 'under-18'", Target: "q8"}}, DefaultNext: "q2"},
		{ID: "q2"},
		{ID: "q8"},
	})

	assert.Equal(t, "intro", eng.Start(domain.Answers{}, domain.Profile{}))
	assert.Equal(t, "q1", eng.Start(domain.Answers{}, domain.Profile{"returning": true}))

	answers := domain.Answers{"intro": "ok", "q1": "under-18"}
	path, err := eng.Trace(answers, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro", "q1", "q8"}, path)

	next, err := eng.Resume(answers, nil)
	require.NoError(t, err)
	assert.Equal(t, "q8", next)

	answers["q8"] = "single"
	next, err = eng.Resume(answers, nil)
	require.NoError(t, err)
	assert.Equal(t, "", next, "q8 is last in declaration order")
}

func TestTrace_DetectsCycle(t *testing.T) {
	eng := newTestEngine(t, []domain.Question{
		{ID: "a", DefaultNext: "b"},
		{ID: "b", Branches: []domain.Branch{{Condition: "answer === 'again'", Target: "a"}}},
	})

	path, err := eng.Trace(domain.Answers{"a": "x", "b": "again"}, nil)
	assert.ErrorIs(t, err, domain.ErrPathCycle)
	assert.Equal(t, []string{"a", "b"}, path)

	_, err = eng.Resume(domain.Answers{"a": "x", "b": "again"}, nil)
	assert.ErrorIs(t, err, domain.ErrPathCycle)
}

func TestStart_EmptySet(t *testing.T) {
	eng := newTestEngine(t, nil)
	assert.Equal(t, "", eng.Start(nil, nil))

	next, err := eng.Resume(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", next)
}
