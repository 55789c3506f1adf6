package observability

import (
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	BranchSkips     *prometheus.CounterVec
	ConditionIssues *prometheus.CounterVec
	Progress        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizpath_resolutions_total",
				Help: "Total number of next-question resolutions by outcome",
			},
			[]string{"outcome"},
		),
		BranchSkips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizpath_branch_skips_total",
				Help: "Matched branches skipped because their target was not relevant",
			},
			[]string{"question_id"},
		),
		ConditionIssues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizpath_condition_issues_total",
				Help: "Conditions that read unresolved paths or mismatched types",
			},
			[]string{"question_id"},
		),
		Progress: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quizpath_progress_percent",
				Help:    "Distribution of computed completion percentages",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Resolutions, m.BranchSkips, m.ConditionIssues, m.Progress)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(e domain.ResolveEvent) {
			m.Resolutions.WithLabelValues(string(e.Outcome)).Inc()
		},
		OnBranchSkipped: func(e domain.SkipEvent) {
			m.BranchSkips.WithLabelValues(e.FromID).Inc()
		},
		OnConditionIssue: func(e domain.IssueEvent) {
			m.ConditionIssues.WithLabelValues(e.QuestionID).Inc()
		},
		OnProgress: func(e domain.ProgressEvent) {
			m.Progress.Observe(float64(e.Percent))
		},
	}
}
