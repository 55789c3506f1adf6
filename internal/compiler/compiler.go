package compiler

import (
	"sort"

	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/aretw0/quizpath/pkg/expr"
)

// Branch is a branch with its condition parsed.
// A nil Condition means the branch always matches.
type Branch struct {
	Condition *expr.Expression
	Target    string
	// TargetIndex is the declaration index of Target.
	TargetIndex int
}

// Question is the compiled form of a domain.Question.
type Question struct {
	Source    domain.Question
	Index     int
	Branches  []Branch
	Relevance *expr.Expression // nil means always relevant
	// DefaultIndex is the declaration index of DefaultNext, or -1.
	DefaultIndex int
}

// ID returns the question id.
func (q *Question) ID() string { return q.Source.ID }

// Program is an immutable, validated question set. Expressions are parsed
// once here and reused for the lifetime of the Program.
type Program struct {
	questions []*Question
	index     map[string]int

	// relevanceOrder lists question indices so that every question comes
	// after the questions its relevance expression reads. It falls out of
	// the cycle check. The runtime does not consult it: relevance reads
	// recorded answers only, never another question's relevance, so any
	// evaluation order gives the same result. It is reserved for relevance
	// rules that chain on other questions' relevance.
	relevanceOrder []int
}

// Option configures compilation.
type Option func(*options)

type options struct {
	checkRelevanceCycles bool
}

// WithRelevanceCycleCheck toggles rejection of relevance dependency cycles
// (enabled by default).
func WithRelevanceCycleCheck(enabled bool) Option {
	return func(o *options) {
		o.checkRelevanceCycles = enabled
	}
}

// Compile validates the questions and parses every condition. All problems
// are collected and returned together as a *domain.ValidationError.
func Compile(questions []domain.Question, opts ...Option) (*Program, error) {
	o := options{checkRelevanceCycles: true}
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error
	p := &Program{
		questions: make([]*Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}

	// 1. Identity
	for i, q := range questions {
		if q.ID == "" {
			errs = append(errs, &domain.DuplicateIDError{First: -1, Second: i})
			continue
		}
		if first, exists := p.index[q.ID]; exists {
			errs = append(errs, &domain.DuplicateIDError{ID: q.ID, First: first, Second: i})
			continue
		}
		p.index[q.ID] = i
	}

	// 2. Conditions and targets
	for i, q := range questions {
		cq := &Question{
			Source:       q,
			Index:        i,
			Branches:     make([]Branch, 0, len(q.Branches)),
			DefaultIndex: -1,
		}

		for bi, b := range q.Branches {
			branch := Branch{Target: b.Target, TargetIndex: -1}
			if b.Condition != "" {
				parsed, err := expr.Parse(b.Condition)
				if err != nil {
					errs = append(errs, &domain.ConditionError{QuestionID: q.ID, BranchIndex: bi, Condition: b.Condition, Err: err})
				}
				branch.Condition = parsed
			}
			if idx, ok := p.index[b.Target]; ok {
				branch.TargetIndex = idx
			} else {
				errs = append(errs, &domain.DanglingTargetError{QuestionID: q.ID, BranchIndex: bi, Target: b.Target})
			}
			cq.Branches = append(cq.Branches, branch)
		}

		if q.DefaultNext != "" {
			if idx, ok := p.index[q.DefaultNext]; ok {
				cq.DefaultIndex = idx
			} else {
				errs = append(errs, &domain.DanglingTargetError{QuestionID: q.ID, BranchIndex: -1, Target: q.DefaultNext})
			}
		}

		if q.Relevance != "" {
			parsed, err := expr.Parse(q.Relevance)
			if err != nil {
				errs = append(errs, &domain.ConditionError{QuestionID: q.ID, BranchIndex: -1, Condition: q.Relevance, Err: err})
			}
			cq.Relevance = parsed
		}

		p.questions = append(p.questions, cq)
	}

	// 3. Relevance dependency graph. Unparsable expressions have no
	// dependencies, so this also runs when earlier steps failed.
	order, cycle := p.relevanceTopology()
	switch {
	case cycle != nil && o.checkRelevanceCycles:
		errs = append(errs, &domain.RelevanceCycleError{Cycle: cycle})
	case cycle != nil:
		// No valid order exists; fall back to declaration order.
		order = make([]int, len(p.questions))
		for i := range order {
			order[i] = i
		}
	}
	p.relevanceOrder = order

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	return p, nil
}

// Len returns the number of questions.
func (p *Program) Len() int { return len(p.questions) }

// At returns the question at a declaration index.
func (p *Program) At(i int) *Question { return p.questions[i] }

// Questions returns the compiled questions in declaration order.
// The slice must not be modified.
func (p *Program) Questions() []*Question { return p.questions }

// Lookup finds a question by id.
func (p *Program) Lookup(id string) (*Question, bool) {
	i, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.questions[i], true
}

// RelevanceOrder returns declaration indices in dependency order, or
// declaration order when the cycle check is disabled and a cycle exists.
func (p *Program) RelevanceOrder() []int { return p.relevanceOrder }

// relevanceTopology orders questions so that each comes after the questions
// whose answers its relevance reads. Dependencies on ids outside the set are
// ignored (they simply never resolve). Returns the first cycle found, if any.
func (p *Program) relevanceTopology() ([]int, []string) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(p.questions))
	order := make([]int, 0, len(p.questions))
	var stack []string
	var cycle []string

	var visit func(i int)
	visit = func(i int) {
		if cycle != nil {
			return
		}
		state[i] = visiting
		q := p.questions[i]
		stack = append(stack, q.ID())

		if q.Relevance != nil {
			deps := q.Relevance.Dependencies()
			sort.Strings(deps) // deterministic cycle reports
			for _, dep := range deps {
				j, ok := p.index[dep]
				if !ok {
					continue
				}
				switch state[j] {
				case visiting:
					start := 0
					for k, id := range stack {
						if id == dep {
							start = k
							break
						}
					}
					cycle = append(append([]string{}, stack[start:]...), dep)
					return
				case unvisited:
					visit(j)
					if cycle != nil {
						return
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[i] = done
		order = append(order, i)
	}

	for i := range p.questions {
		if state[i] == unvisited {
			visit(i)
		}
		if cycle != nil {
			break
		}
	}
	return order, cycle
}
