package expr

import (
	"errors"
	"fmt"
)

// SyntaxError reports a condition string that does not match the grammar.
type SyntaxError struct {
	Source string // Full condition text
	Pos    int    // Byte offset of the offending token
	Token  string // Offending token text ("" at end of input)
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error at position %d near %q: %s", e.Pos, e.Token, e.Msg)
}

func newSyntaxError(src string, pos int, tok, msg string) *SyntaxError {
	return &SyntaxError{Source: src, Pos: pos, Token: tok, Msg: msg}
}

// EvaluationError describes why part of an expression could not be applied
// to a context. Evaluate never returns it: an unresolved path or a type
// mismatch simply makes the comparison false. Check surfaces it for
// diagnostics.
type EvaluationError struct {
	Path   string
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Reasons reported by EvaluationError.
const (
	ReasonUnresolved   = "path not found in context"
	ReasonNotSequence  = "includes applied to a non-sequence value"
	ReasonTypeMismatch = "type mismatch in equality"
)

// Issues returns the individual evaluation problems carried by an error
// returned from Check.
func Issues(err error) []*EvaluationError {
	if err == nil {
		return nil
	}
	var out []*EvaluationError
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			var ee *EvaluationError
			if errors.As(e, &ee) {
				out = append(out, ee)
			}
		}
		return out
	}
	var ee *EvaluationError
	if errors.As(err, &ee) {
		out = append(out, ee)
	}
	return out
}
