package expr

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
)

// Context is the data a condition is evaluated against. It is built fresh
// for every call and never retained.
type Context struct {
	// Answer is the value just supplied to the question being processed.
	// Nil for relevance checks.
	Answer any
	// Answers maps question id to recorded answer.
	Answers map[string]any
	// Profile holds user profile data; nested maps are addressable.
	Profile map[string]any
}

// Evaluate applies the expression to ctx. It never fails: a path that
// cannot be resolved, an includes on a non-sequence and a type mismatch
// each make the comparison they appear in false.
func Evaluate(e *Expression, ctx Context) bool {
	if e == nil {
		return false
	}
	ev := evaluator{ctx: ctx}
	return ev.eval(e.root)
}

// Check evaluates like Evaluate and also reports every soft failure met on
// the way, joined into one error. The boolean is always the Evaluate result.
func Check(e *Expression, ctx Context) (bool, error) {
	if e == nil {
		return false, errors.New("nil expression")
	}
	ev := evaluator{ctx: ctx, record: true}
	result := ev.eval(e.root)
	if len(ev.issues) == 0 {
		return result, nil
	}
	return result, errors.Join(ev.issues...)
}

type evaluator struct {
	ctx    Context
	record bool
	issues []error
}

func (ev *evaluator) note(p Operand, reason string) {
	if ev.record {
		ev.issues = append(ev.issues, &EvaluationError{Path: p.String(), Reason: reason})
	}
}

// Both sides of && and || are always evaluated so Check sees every issue;
// evaluation has no side effects so this does not change the result.
func (ev *evaluator) eval(n Node) bool {
	switch v := n.(type) {
	case Const:
		return v.Value
	case Not:
		return !ev.eval(v.Operand)
	case And:
		l := ev.eval(v.Left)
		r := ev.eval(v.Right)
		return l && r
	case Or:
		l := ev.eval(v.Left)
		r := ev.eval(v.Right)
		return l || r
	case Equals:
		eq, ok := ev.compare(v.Left, v.Right)
		return ok && eq
	case NotEquals:
		eq, ok := ev.compare(v.Left, v.Right)
		return ok && !eq
	case Includes:
		target, ok := ev.resolve(v.Target)
		if !ok {
			return false
		}
		seq, isSeq := asSequence(target)
		if !isSeq {
			ev.note(v.Target, ReasonNotSequence)
			return false
		}
		needle, ok := ev.operand(v.Value)
		if !ok {
			return false
		}
		for _, item := range seq {
			if eq, comparable := scalarEqual(item, needle); comparable && eq {
				return true
			}
		}
		return false
	case IsArray:
		target, ok := ev.resolve(v.Target)
		if !ok {
			return false
		}
		_, isSeq := asSequence(target)
		return isSeq
	}
	return false
}

// compare resolves both operands. ok is false when either side is missing
// or the values are not comparable scalars.
func (ev *evaluator) compare(left, right Operand) (equal bool, ok bool) {
	l, lok := ev.operand(left)
	r, rok := ev.operand(right)
	if !lok || !rok {
		return false, false
	}
	eq, comparable := scalarEqual(l, r)
	if !comparable {
		ev.note(left, ReasonTypeMismatch)
		return false, false
	}
	return eq, true
}

func (ev *evaluator) operand(o Operand) (any, bool) {
	switch v := o.(type) {
	case Literal:
		return v.Value, true
	case Path:
		return ev.resolve(v)
	}
	return nil, false
}

func (ev *evaluator) resolve(p Path) (any, bool) {
	var cur any
	switch p.Root {
	case RootAnswer:
		cur = ev.ctx.Answer
	case RootAnswers:
		cur = ev.ctx.Answers
	case RootProfile:
		cur = ev.ctx.Profile
	}
	if cur == nil || isNilMap(cur) {
		ev.note(p, ReasonUnresolved)
		return nil, false
	}
	for _, seg := range p.Segments {
		next, ok := lookup(cur, seg)
		if !ok || next == nil {
			ev.note(p, ReasonUnresolved)
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func isNilMap(v any) bool {
	switch m := v.(type) {
	case map[string]any:
		return m == nil
	}
	return false
}

// lookup indexes into maps and, for numeric segments, into sequences.
func lookup(container any, key string) (any, bool) {
	switch m := container.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	case map[any]any:
		v, ok := m[key]
		return v, ok
	}
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// asSequence returns the elements of a slice or array value. Strings and
// byte slices are scalars.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// scalarEqual compares two values with strict equality. comparable is false
// when either side is not a scalar or the kinds differ.
func scalarEqual(a, b any) (equal bool, comparable bool) {
	as, aok := normalizeScalar(a)
	bs, bok := normalizeScalar(b)
	if !aok || !bok {
		return false, false
	}
	switch x := as.(type) {
	case string:
		y, ok := bs.(string)
		return ok && x == y, ok
	case float64:
		y, ok := bs.(float64)
		return ok && x == y, ok
	case bool:
		y, ok := bs.(bool)
		return ok && x == y, ok
	}
	return false, false
}

// normalizeScalar maps every numeric kind (and json.Number) onto float64.
func normalizeScalar(v any) (any, bool) {
	switch x := v.(type) {
	case string, bool, float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}

// IsSequence reports whether v is a multi-select answer.
func IsSequence(v any) bool {
	_, ok := asSequence(v)
	return ok
}

// IsEmpty reports whether v counts as "no answer": nil, the empty string
// or an empty sequence.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	if seq, ok := asSequence(v); ok {
		return len(seq) == 0
	}
	return false
}
