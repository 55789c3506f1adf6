package quizpath

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/quizpath/internal/compiler"
	"github.com/aretw0/quizpath/internal/logging"
	"github.com/aretw0/quizpath/internal/runtime"
	"github.com/aretw0/quizpath/pkg/adapters/file"
	loamAdapter "github.com/aretw0/quizpath/pkg/adapters/loam"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/expr"
	"github.com/aretw0/quizpath/pkg/ports"
)

// Engine is the high-level entry point for the quizpath library.
// It wraps the internal runtime over one QuestionSet and provides a
// simplified API for consumers. It holds no session state and is safe for
// concurrent use; the caller owns and serializes writes to its Answers.
type Engine struct {
	runtime *runtime.Engine
	set     *QuestionSet
	loader  ports.QuestionLoader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	checkRelevanceCycles bool

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom QuestionLoader, bypassing path-based loading.
func WithLoader(l ports.QuestionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithQuestionSet uses an already compiled set; no loader is consulted.
func WithQuestionSet(set *QuestionSet) Option {
	return func(e *Engine) {
		e.set = set
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRelevanceCycleCheck toggles rejection of relevance expressions that
// depend on each other's answers in a loop. Enabled by default.
func WithRelevanceCycleCheck(enabled bool) Option {
	return func(e *Engine) {
		e.checkRelevanceCycles = enabled
	}
}

// New initializes a new Engine.
// By default it loads the question set found at source: a directory is read
// as a Loam repository of Markdown questions, a file as YAML, JSON or TOML.
// If WithLoader or WithQuestionSet is provided, source can be empty.
func New(source string, opts ...Option) (*Engine, error) {
	eng := &Engine{checkRelevanceCycles: true}

	// Apply Options first to check if a loader or set is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if source != "" {
		eng.Name = filepath.Base(source)
	}

	if eng.set == nil {
		if eng.loader == nil {
			if source == "" {
				return nil, fmt.Errorf("source is required when no loader or question set is provided")
			}
			loader, err := NewLoader(source)
			if err != nil {
				return nil, err
			}
			eng.loader = loader
		}

		questions, err := eng.loader.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load questions: %w", err)
		}

		set, err := newQuestionSet(questions, compiler.WithRelevanceCycleCheck(eng.checkRelevanceCycles))
		if err != nil {
			return nil, err
		}
		eng.set = set
	}

	logger := eng.logger
	if eng.Name != "" {
		logger = logger.With("questionnaire", eng.Name)
	}

	eng.runtime = runtime.NewEngine(eng.set.program,
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	logger.Debug("question set ready", "questions", eng.set.Len())

	return eng, nil
}

// NewLoader picks the default adapter for a path: the Loam adapter for a
// directory, the file adapter otherwise.
func NewLoader(source string) (ports.QuestionLoader, error) {
	absPath, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read question set: %w", err)
	}
	if !info.IsDir() {
		return file.New(absPath), nil
	}

	// The engine never modifies questions, so the repository is read-only.
	// Strict mode makes numbers decode as json.Number consistently.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	typedRepo := loam.NewTypedRepository[loamAdapter.QuestionMetadata](repo)
	return loamAdapter.New(typedRepo), nil
}

// Watch returns a channel that signals when the underlying questions change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	return Watch(ctx, e.loader)
}

// Watch starts watching loader if it implements ports.Watchable.
func Watch(ctx context.Context, loader ports.QuestionLoader) (<-chan string, error) {
	if w, ok := loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the QuestionLoader configured on the engine, or nil when
// it was built from a compiled QuestionSet alone.
func (e *Engine) Loader() ports.QuestionLoader {
	return e.loader
}

// QuestionSet returns the compiled set the engine navigates.
func (e *Engine) QuestionSet() *QuestionSet { return e.set }

// ResolveNext returns the id of the question to present after answer was
// given to currentID, or "" when the questionnaire is complete. answers
// must already include the new answer.
func (e *Engine) ResolveNext(currentID string, answer any, answers domain.Answers, profile domain.Profile) (string, error) {
	return e.runtime.ResolveNext(currentID, answer, answers, profile)
}

// IsRelevant reports whether the question id currently belongs to the
// questionnaire.
func (e *Engine) IsRelevant(id string, answers domain.Answers, profile domain.Profile) (bool, error) {
	q, ok := e.set.program.Lookup(id)
	if !ok {
		return false, &domain.UnknownQuestionError{ID: id}
	}
	return e.runtime.IsRelevant(q, answers, profile), nil
}

// Relevant returns the currently relevant question ids in declaration order.
func (e *Engine) Relevant(answers domain.Answers, profile domain.Profile) []string {
	return e.runtime.Relevant(answers, profile)
}

// Progress returns the completion percentage (0..100) over relevant questions.
func (e *Engine) Progress(answers domain.Answers, profile domain.Profile) int {
	return e.runtime.Progress(answers, profile)
}

// Remaining returns how many relevant questions are still unanswered.
func (e *Engine) Remaining(answers domain.Answers, profile domain.Profile) int {
	return e.runtime.Remaining(answers, profile)
}

// NextPriority returns the highest-priority relevant unanswered question.
func (e *Engine) NextPriority(answers domain.Answers, profile domain.Profile) string {
	return e.runtime.NextPriority(answers, profile)
}

// Start returns the first relevant question, or "" for an empty questionnaire.
func (e *Engine) Start(answers domain.Answers, profile domain.Profile) string {
	return e.runtime.Start(answers, profile)
}

// Resume returns the first unanswered question on the path the recorded
// answers describe, or "" if that path is complete.
func (e *Engine) Resume(answers domain.Answers, profile domain.Profile) (string, error) {
	return e.runtime.Resume(answers, profile)
}

// Trace returns the path the recorded answers describe.
func (e *Engine) Trace(answers domain.Answers, profile domain.Profile) ([]string, error) {
	return e.runtime.Trace(answers, profile)
}

// ParseExpression compiles a condition string. Syntax errors are returned
// as *expr.SyntaxError.
func ParseExpression(source string) (*expr.Expression, error) {
	return expr.Parse(source)
}

// IsRelevant evaluates a standalone question's relevance expression. A
// question that was never validated may carry a malformed expression; it
// then counts as not relevant, like a branch whose condition cannot be
// evaluated. Use a QuestionSet to have such errors reported at load time.
func IsRelevant(q domain.Question, answers domain.Answers, profile domain.Profile) bool {
	if q.Relevance == "" {
		return true
	}
	e, err := expr.Parse(q.Relevance)
	if err != nil {
		return false
	}
	return expr.Evaluate(e, expr.Context{Answers: answers, Profile: profile})
}

// ResolveNext is the functional form of Engine.ResolveNext.
func ResolveNext(currentID string, answer any, answers domain.Answers, set *QuestionSet, profile domain.Profile) (string, error) {
	if set == nil {
		return "", &domain.UnknownQuestionError{ID: currentID}
	}
	return set.plain.ResolveNext(currentID, answer, answers, profile)
}

// ComputeProgress is the functional form of Engine.Progress. An empty or
// nil set yields 0.
func ComputeProgress(answers domain.Answers, set *QuestionSet, profile domain.Profile) int {
	if set == nil {
		return 0
	}
	return set.plain.Progress(answers, profile)
}
