package domain

import "github.com/aretw0/quizpath/pkg/expr"

// Answers maps question id to the recorded answer. A value is a scalar
// (string, number, bool) or a sequence of scalars for multi-select questions.
// The caller owns it; the engine only reads it.
type Answers map[string]any

// Profile holds user profile data readable as profile.<key> in conditions.
type Profile map[string]any

// IsAnswered reports whether id has a non-empty answer. Overwriting an
// answer with nil, "" or an empty sequence retracts it.
func (a Answers) IsAnswered(id string) bool {
	v, ok := a[id]
	return ok && !expr.IsEmpty(v)
}

// Clone returns a shallow copy, used by hosts that want to record an answer
// without touching the map they were given.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of the answers with id set to value.
func (a Answers) With(id string, value any) Answers {
	out := a.Clone()
	out[id] = value
	return out
}
