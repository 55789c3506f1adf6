package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/internal/logging"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/expr"
)

// Engine answers path, relevance and progress queries over a compiled
// question set. It holds no per-session state: answers and profile are
// passed to every call and only read.
type Engine struct {
	program *compiler.Program
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Nil keeps the no-op default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine over a compiled program.
func NewEngine(program *compiler.Program, opts ...EngineOption) *Engine {
	e := &Engine{
		program: program,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program returns the compiled question set.
func (e *Engine) Program() *compiler.Program { return e.program }

// evaluate runs a condition permissively. Soft failures are logged and
// reported through OnConditionIssue but never change the boolean.
func (e *Engine) evaluate(q *compiler.Question, branchIndex int, cond *expr.Expression, ctx expr.Context) bool {
	if !e.wantsIssues() {
		return expr.Evaluate(cond, ctx)
	}
	result, err := expr.Check(cond, ctx)
	for _, issue := range expr.Issues(err) {
		e.logger.Debug("condition issue",
			"question", q.ID(),
			"branch", branchIndex,
			"condition", cond.Source(),
			"issue", issue.Error(),
		)
		if e.hooks.OnConditionIssue != nil {
			e.hooks.OnConditionIssue(domain.IssueEvent{
				QuestionID:  q.ID(),
				BranchIndex: branchIndex,
				Condition:   cond.Source(),
				Issue:       issue.Error(),
			})
		}
	}
	return result
}

func (e *Engine) wantsIssues() bool {
	return e.hooks.OnConditionIssue != nil || e.logger.Enabled(context.Background(), slog.LevelDebug)
}

func contextFor(answer any, answers domain.Answers, profile domain.Profile) expr.Context {
	return expr.Context{
		Answer:  answer,
		Answers: map[string]any(answers),
		Profile: map[string]any(profile),
	}
}
