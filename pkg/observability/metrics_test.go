package observability_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()

	hooks.OnResolve(domain.ResolveEvent{FromID: "q1", NextID: "q8", Outcome: domain.OutcomeBranch})
	hooks.OnResolve(domain.ResolveEvent{FromID: "q8", NextID: "q9", Outcome: domain.OutcomeSequential, BranchIndex: -1})
	hooks.OnResolve(domain.ResolveEvent{FromID: "q9", Outcome: domain.OutcomeComplete, BranchIndex: -1})
	hooks.OnBranchSkipped(domain.SkipEvent{FromID: "q10", Target: "q-business"})
	hooks.OnConditionIssue(domain.IssueEvent{QuestionID: "q2", Issue: "unresolved"})
	hooks.OnProgress(domain.ProgressEvent{Answered: 1, Relevant: 2, Percent: 50})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("branch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("sequential")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BranchSkips.WithLabelValues("q10")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConditionIssues.WithLabelValues("q2")))

	count, err := testutil.GatherAndCount(reg, "quizpath_progress_percent")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_ExpositionFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.Hooks().OnResolve(domain.ResolveEvent{Outcome: domain.OutcomeDefault})

	expected := `
# HELP quizpath_resolutions_total Total number of next-question resolutions by outcome
# TYPE quizpath_resolutions_total counter
quizpath_resolutions_total{outcome="default"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "quizpath_resolutions_total")
	assert.NoError(t, err)
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotPanics(t, func() {
		m.Hooks().OnProgress(domain.ProgressEvent{Percent: 100})
	})
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnResolve: func(domain.ResolveEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{
		OnResolve:  func(domain.ResolveEvent) { order = append(order, "b") },
		OnProgress: func(domain.ProgressEvent) { order = append(order, "b-progress") },
	}

	combined := observability.Combine(a, b)
	combined.OnResolve(domain.ResolveEvent{})
	combined.OnProgress(domain.ProgressEvent{})

	assert.Equal(t, []string{"a", "b", "b-progress"}, order)
	assert.Nil(t, combined.OnBranchSkipped)
	assert.Nil(t, combined.OnConditionIssue)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)

	hooks.OnResolve(domain.ResolveEvent{FromID: "q1", NextID: "q2", Outcome: domain.OutcomeDefault, BranchIndex: -1})
	hooks.OnConditionIssue(domain.IssueEvent{QuestionID: "q2", Issue: "answers.x: unresolved"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"resolve"`)
	assert.Contains(t, out, `"outcome":"default"`)
	assert.Contains(t, out, `"msg":"condition_issue"`)
	assert.Contains(t, out, `"question_id":"q2"`)
	assert.NotContains(t, out, `"level":"WARN"`)
}

func TestLoggingHooks_ConditionIssuesAreQuietAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	hooks := observability.LoggingHooks(logger)

	hooks.OnConditionIssue(domain.IssueEvent{QuestionID: "q2", Issue: "answers.q1: path not found in context"})
	hooks.OnProgress(domain.ProgressEvent{Answered: 0, Relevant: 1, Percent: 0})

	assert.Empty(t, buf.String())
}
