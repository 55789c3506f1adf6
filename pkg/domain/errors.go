package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownQuestion is returned when a caller names a question id that is
// not part of the question set.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrPathCycle is returned when walking recorded answers revisits a question.
var ErrPathCycle = errors.New("path revisits a question")

// UnknownQuestionError names the id that could not be found.
type UnknownQuestionError struct {
	ID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question %q", e.ID)
}

func (e *UnknownQuestionError) Unwrap() error { return ErrUnknownQuestion }

// DuplicateIDError reports two questions sharing an id.
type DuplicateIDError struct {
	ID     string
	First  int // Declaration index of the first occurrence
	Second int
}

func (e *DuplicateIDError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("question at index %d has an empty id", e.Second)
	}
	return fmt.Sprintf("duplicate question id %q at indices %d and %d", e.ID, e.First, e.Second)
}

// DanglingTargetError reports a branch or default link to a missing question.
type DanglingTargetError struct {
	QuestionID  string
	BranchIndex int // -1 for the default link
	Target      string
}

func (e *DanglingTargetError) Error() string {
	if e.BranchIndex < 0 {
		return fmt.Sprintf("question %q: default_next targets unknown question %q", e.QuestionID, e.Target)
	}
	return fmt.Sprintf("question %q: branch %d targets unknown question %q", e.QuestionID, e.BranchIndex, e.Target)
}

// ConditionError attributes a condition syntax error to its question.
type ConditionError struct {
	QuestionID  string
	BranchIndex int // -1 for the relevance expression
	Condition   string
	Err         error
}

func (e *ConditionError) Error() string {
	where := fmt.Sprintf("branch %d condition", e.BranchIndex)
	if e.BranchIndex < 0 {
		where = "relevance"
	}
	return fmt.Sprintf("question %q: %s %q: %v", e.QuestionID, where, e.Condition, e.Err)
}

func (e *ConditionError) Unwrap() error { return e.Err }

// RelevanceCycleError reports relevance expressions that depend on each
// other's answers in a loop, e.g. q2 relevant on answers.q3 and q3 on answers.q2.
type RelevanceCycleError struct {
	Cycle []string // q2 -> q3 -> q2
}

func (e *RelevanceCycleError) Error() string {
	return fmt.Sprintf("relevance dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// ValidationError aggregates every load-time problem of a question set.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d question set errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap lets errors.Is/As look through the aggregate.
func (e *ValidationError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all errors if err is a ValidationError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Errors
	}
	return nil
}
