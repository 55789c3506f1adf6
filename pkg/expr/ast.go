package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Root names the part of the evaluation context a Path starts from.
type Root string

const (
	// RootAnswer is the answer just supplied to the question being processed.
	RootAnswer Root = "answer"
	// RootAnswers is the recorded answer map, addressed by question id.
	RootAnswers Root = "answers"
	// RootProfile is the user profile map.
	RootProfile Root = "profile"
)

// Node is a boolean-valued AST node.
type Node interface {
	node()
	String() string
}

// Operand is a value-producing AST node: a Path or a Literal.
type Operand interface {
	operand()
	String() string
}

// Path is an identifier path such as answers.q10 or profile.address.country.
type Path struct {
	Root     Root
	Segments []string
}

// Literal is a string, number or boolean constant.
type Literal struct {
	Value any // string, float64 or bool
}

// Equals is `Left === Right`.
type Equals struct{ Left, Right Operand }

// NotEquals is `Left !== Right`.
type NotEquals struct{ Left, Right Operand }

// Includes is `Target.includes(Value)`.
type Includes struct {
	Target Path
	Value  Operand
}

// IsArray is `Array.isArray(Target)`.
type IsArray struct{ Target Path }

// And is `Left && Right`.
type And struct{ Left, Right Node }

// Or is `Left || Right`.
type Or struct{ Left, Right Node }

// Not is `!Operand`.
type Not struct{ Operand Node }

// Const is a bare `true` or `false`.
type Const struct{ Value bool }

func (Equals) node()    {}
func (NotEquals) node() {}
func (Includes) node()  {}
func (IsArray) node()   {}
func (And) node()       {}
func (Or) node()        {}
func (Not) node()       {}
func (Const) node()     {}

func (Path) operand()    {}
func (Literal) operand() {}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(string(p.Root))
	for _, s := range p.Segments {
		if isPlainSegment(s) {
			sb.WriteByte('.')
			sb.WriteString(s)
			continue
		}
		sb.WriteString("[")
		sb.WriteString(strconv.Quote(s))
		sb.WriteString("]")
	}
	return sb.String()
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func (l Literal) String() string {
	switch v := l.Value.(type) {
	case string:
		return "'" + literalEscaper.Replace(v) + "'"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (n Equals) String() string    { return n.Left.String() + " === " + n.Right.String() }
func (n NotEquals) String() string { return n.Left.String() + " !== " + n.Right.String() }
func (n Includes) String() string  { return n.Target.String() + ".includes(" + n.Value.String() + ")" }
func (n IsArray) String() string   { return "Array.isArray(" + n.Target.String() + ")" }
func (n And) String() string       { return "(" + n.Left.String() + " && " + n.Right.String() + ")" }
func (n Or) String() string        { return "(" + n.Left.String() + " || " + n.Right.String() + ")" }
func (n Not) String() string       { return "!" + n.Operand.String() }
func (n Const) String() string     { return strconv.FormatBool(n.Value) }

func isPlainSegment(s string) bool {
	if s == "" || !isIdentStart(s[0]) && !isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// Expression is a parsed condition. It is immutable after Parse and safe to
// evaluate concurrently.
type Expression struct {
	source string
	root   Node
}

// Source returns the original condition text.
func (e *Expression) Source() string { return e.source }

// Root returns the top AST node.
func (e *Expression) Root() Node { return e.root }

func (e *Expression) String() string { return e.root.String() }

// Dependencies returns the question ids read through answers.<id>, in order
// of first appearance. Only the first segment after "answers" is an id.
func (e *Expression) Dependencies() []string {
	var out []string
	seen := make(map[string]bool)
	e.walkPaths(func(p Path) {
		if p.Root != RootAnswers || len(p.Segments) == 0 {
			return
		}
		if id := p.Segments[0]; !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	})
	return out
}

// ReadsAnswer reports whether the expression refers to the answer just given.
func (e *Expression) ReadsAnswer() bool {
	found := false
	e.walkPaths(func(p Path) {
		if p.Root == RootAnswer {
			found = true
		}
	})
	return found
}

func (e *Expression) walkPaths(fn func(Path)) {
	visit := func(o Operand) {
		if p, ok := o.(Path); ok {
			fn(p)
		}
	}
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case Equals:
			visit(v.Left)
			visit(v.Right)
		case NotEquals:
			visit(v.Left)
			visit(v.Right)
		case Includes:
			fn(v.Target)
			visit(v.Value)
		case IsArray:
			fn(v.Target)
		case And:
			walk(v.Left)
			walk(v.Right)
		case Or:
			walk(v.Left)
			walk(v.Right)
		case Not:
			walk(v.Operand)
		}
	}
	walk(e.root)
}
