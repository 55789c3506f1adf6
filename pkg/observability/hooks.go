package observability

import (
	"log/slog"

	"github.com/aretw0/quizpath/pkg/domain"
)

// LoggingHooks returns hooks that write each event as a structured log line.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(e domain.ResolveEvent) {
			logger.Info("resolve",
				"from", e.FromID,
				"next", e.NextID,
				"outcome", e.Outcome,
				"branch", e.BranchIndex,
			)
		},
		OnBranchSkipped: func(e domain.SkipEvent) {
			logger.Debug("branch_skipped", "from", e.FromID, "target", e.Target, "branch", e.BranchIndex)
		},
		OnConditionIssue: func(e domain.IssueEvent) {
			logger.Debug("condition_issue",
				"question_id", e.QuestionID,
				"branch", e.BranchIndex,
				"condition", e.Condition,
				"issue", e.Issue,
			)
		},
		OnProgress: func(e domain.ProgressEvent) {
			logger.Debug("progress", "answered", e.Answered, "relevant", e.Relevant, "percent", e.Percent)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var resolve []func(domain.ResolveEvent)
	var skip []func(domain.SkipEvent)
	var issue []func(domain.IssueEvent)
	var progress []func(domain.ProgressEvent)
	for _, s := range sets {
		if s.OnResolve != nil {
			resolve = append(resolve, s.OnResolve)
		}
		if s.OnBranchSkipped != nil {
			skip = append(skip, s.OnBranchSkipped)
		}
		if s.OnConditionIssue != nil {
			issue = append(issue, s.OnConditionIssue)
		}
		if s.OnProgress != nil {
			progress = append(progress, s.OnProgress)
		}
	}

	if len(resolve) > 0 {
		out.OnResolve = func(e domain.ResolveEvent) {
			for _, f := range resolve {
				f(e)
			}
		}
	}
	if len(skip) > 0 {
		out.OnBranchSkipped = func(e domain.SkipEvent) {
			for _, f := range skip {
				f(e)
			}
		}
	}
	if len(issue) > 0 {
		out.OnConditionIssue = func(e domain.IssueEvent) {
			for _, f := range issue {
				f(e)
			}
		}
	}
	if len(progress) > 0 {
		out.OnProgress = func(e domain.ProgressEvent) {
			for _, f := range progress {
				f(e)
			}
		}
	}
	return out
}
