package expr

import (
	"strconv"
	"strings"
)

// Parse compiles a condition string into an Expression.
//
// Grammar:
//
//	expr       := or
//	or         := and ( "||" and )*
//	and        := unary ( "&&" unary )*
//	unary      := "!" unary | primary
//	primary    := "(" expr ")" | "true" | "false" | isArray | comparison
//	isArray    := "Array" "." "isArray" "(" path ")"
//	comparison := operand ( "===" | "!==" ) operand | path ".includes" "(" operand ")"
//	operand    := path | literal
//	path       := ("answer" | "answers" | "profile") ( "." segment | "[" string "]" )*
func Parse(source string) (*Expression, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{src: source, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, newSyntaxError(source, 0, "", "empty expression")
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorAt(tok, "unexpected token after expression")
	}
	return &Expression{source: source, root: root}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(source string) *Expression {
	e, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, context string) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, p.errorAt(tok, "expected "+kind.String()+" "+context)
	}
	return p.next(), nil
}

func (p *parser) errorAt(tok token, msg string) *SyntaxError {
	return newSyntaxError(p.src, tok.pos, tok.text, msg)
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.peek().kind == tokNot {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "to close '('"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		switch tok.text {
		case "true", "false":
			// A bare boolean; a comparison such as `true === answer` is still allowed.
			if k := p.peekAt(1).kind; k != tokStrictEq && k != tokStrictNeq {
				p.next()
				return Const{Value: tok.text == "true"}, nil
			}
		case "Array":
			return p.parseIsArray()
		}
	case tokEOF:
		return nil, p.errorAt(tok, "unexpected end of expression")
	case tokRParen:
		return nil, p.errorAt(tok, "unbalanced ')'")
	}
	return p.parseComparison()
}

func (p *parser) parseIsArray() (Node, error) {
	p.next() // Array
	if _, err := p.expect(tokDot, "after 'Array'"); err != nil {
		return nil, err
	}
	fn := p.next()
	if fn.kind != tokIdent || fn.text != "isArray" {
		return nil, p.errorAt(fn, "only Array.isArray is supported")
	}
	if _, err := p.expect(tokLParen, "after 'Array.isArray'"); err != nil {
		return nil, err
	}
	target, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if target.includes {
		return nil, p.errorAt(p.peek(), "Array.isArray takes a path")
	}
	if _, err := p.expect(tokRParen, "to close 'Array.isArray('"); err != nil {
		return nil, err
	}
	return IsArray{Target: target.path}, nil
}

func (p *parser) parseComparison() (Node, error) {
	start := p.peek()
	left, includes, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if includes != nil {
		return *includes, nil
	}

	op := p.peek()
	switch op.kind {
	case tokStrictEq, tokStrictNeq:
		p.next()
	default:
		return nil, p.errorAt(op, "expected '===', '!==' or '.includes(...)' after "+strconv.Quote(start.text))
	}

	right, rincludes, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if rincludes != nil {
		return nil, p.errorAt(op, "cannot compare the result of '.includes(...)'")
	}

	if op.kind == tokStrictEq {
		return Equals{Left: left, Right: right}, nil
	}
	return NotEquals{Left: left, Right: right}, nil
}

// parseOperand reads a literal or a path. When the path ends in a
// .includes(...) call the membership node is returned instead.
func (p *parser) parseOperand() (Operand, *Includes, error) {
	tok := p.peek()
	switch tok.kind {
	case tokString:
		p.next()
		return Literal{Value: tok.val}, nil, nil
	case tokNumber:
		p.next()
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, nil, p.errorAt(tok, "invalid number")
		}
		return Literal{Value: f}, nil, nil
	case tokIdent:
		if tok.text == "true" || tok.text == "false" {
			p.next()
			return Literal{Value: tok.text == "true"}, nil, nil
		}
		target, err := p.parsePath()
		if err != nil {
			return nil, nil, err
		}
		if !target.includes {
			return target.path, nil, nil
		}
		arg, nested, err := p.parseOperand()
		if err != nil {
			return nil, nil, err
		}
		if nested != nil {
			return nil, nil, p.errorAt(p.peek(), "'.includes' argument must be a value")
		}
		if _, err := p.expect(tokRParen, "to close '.includes('"); err != nil {
			return nil, nil, err
		}
		return nil, &Includes{Target: target.path, Value: arg}, nil
	case tokEOF:
		return nil, nil, p.errorAt(tok, "unexpected end of expression")
	}
	return nil, nil, p.errorAt(tok, "expected a path or a literal")
}

type parsedPath struct {
	path     Path
	includes bool // path was followed by ".includes(" which has been consumed
}

func (p *parser) parsePath() (parsedPath, error) {
	tok := p.next()
	if tok.kind != tokIdent {
		return parsedPath{}, p.errorAt(tok, "expected 'answer', 'answers' or 'profile'")
	}
	var root Root
	switch tok.text {
	case "answer":
		root = RootAnswer
	case "answers":
		root = RootAnswers
	case "profile", "userProfile":
		root = RootProfile
	default:
		return parsedPath{}, p.errorAt(tok, "unknown identifier (expected 'answer', 'answers' or 'profile')")
	}

	path := Path{Root: root}
	for {
		switch p.peek().kind {
		case tokDot:
			p.next()
			seg := p.next()
			if seg.kind != tokIdent && seg.kind != tokNumber {
				return parsedPath{}, p.errorAt(seg, "expected a name after '.'")
			}
			if seg.text == "includes" && p.peek().kind == tokLParen {
				p.next()
				return parsedPath{path: path, includes: true}, nil
			}
			path.Segments = append(path.Segments, seg.text)
		case tokLBracket:
			p.next()
			seg := p.next()
			var key string
			switch seg.kind {
			case tokString:
				key = seg.val
			case tokNumber, tokIdent:
				key = strings.TrimSpace(seg.text)
			default:
				return parsedPath{}, p.errorAt(seg, "expected a key inside '[...]'")
			}
			if _, err := p.expect(tokRBracket, "to close '['"); err != nil {
				return parsedPath{}, err
			}
			path.Segments = append(path.Segments, key)
		default:
			return parsedPath{path: path}, nil
		}
	}
}
