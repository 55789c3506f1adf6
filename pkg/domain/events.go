package domain

// ResolveOutcome says which rule produced the next question.
type ResolveOutcome string

const (
	OutcomeBranch     ResolveOutcome = "branch"
	OutcomeDefault    ResolveOutcome = "default"
	OutcomeSequential ResolveOutcome = "sequential"
	OutcomeComplete   ResolveOutcome = "complete"
)

// ResolveEvent is emitted once per successful ResolveNext call.
type ResolveEvent struct {
	FromID  string         `json:"from_id"`
	NextID  string         `json:"next_id,omitempty"`
	Outcome ResolveOutcome `json:"outcome"`
	// BranchIndex is the index of the winning branch, or -1.
	BranchIndex int `json:"branch_index"`
}

// SkipEvent is emitted when a branch or default matched but its target was
// not relevant and the walk moved on.
type SkipEvent struct {
	FromID string `json:"from_id"`
	Target string `json:"target"`
	// BranchIndex is the index of the skipped branch, or -1 for the default link.
	BranchIndex int `json:"branch_index"`
}

// IssueEvent reports a soft evaluation problem (unresolved path, type
// mismatch). These never change navigation; they help authors find typos.
type IssueEvent struct {
	QuestionID string `json:"question_id"`
	// BranchIndex is the branch whose condition had the issue, or -1 for relevance.
	BranchIndex int    `json:"branch_index"`
	Condition   string `json:"condition"`
	Issue       string `json:"issue"`
}

// ProgressEvent is emitted by progress computations.
type ProgressEvent struct {
	Answered int `json:"answered"`
	Relevant int `json:"relevant"`
	Percent  int `json:"percent"`
}

// LifecycleHooks defines callbacks for engine observability.
// All fields are optional.
type LifecycleHooks struct {
	OnResolve        func(ResolveEvent)
	OnBranchSkipped  func(SkipEvent)
	OnConditionIssue func(IssueEvent)
	OnProgress       func(ProgressEvent)
}
