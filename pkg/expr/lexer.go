package expr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokDot
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokNot
	tokAnd
	tokOr
	tokStrictEq
	tokStrictNeq
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokDot:
		return "'.'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokNot:
		return "'!'"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	case tokStrictEq:
		return "'==='"
	case tokStrictNeq:
		return "'!=='"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string // raw source text
	val  string // decoded value for strings
	pos  int    // byte offset in the source
}

// lex splits the source into tokens. Unknown operators and unterminated
// literals are reported here so the parser only ever sees well-formed tokens.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '.':
			toks = append(toks, token{kind: tokDot, text: ".", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBracket, text: "[", pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBracket, text: "]", pos: i})
			i++
		case c == '&':
			if !strings.HasPrefix(src[i:], "&&") {
				return nil, newSyntaxError(src, i, "&", "unknown operator (did you mean '&&'?)")
			}
			toks = append(toks, token{kind: tokAnd, text: "&&", pos: i})
			i += 2
		case c == '|':
			if !strings.HasPrefix(src[i:], "||") {
				return nil, newSyntaxError(src, i, "|", "unknown operator (did you mean '||'?)")
			}
			toks = append(toks, token{kind: tokOr, text: "||", pos: i})
			i += 2
		case c == '=':
			if !strings.HasPrefix(src[i:], "===") {
				op := operatorRun(src, i)
				return nil, newSyntaxError(src, i, op, "unknown operator (only '===' and '!==' compare values)")
			}
			toks = append(toks, token{kind: tokStrictEq, text: "===", pos: i})
			i += 3
		case c == '!':
			if strings.HasPrefix(src[i:], "!==") {
				toks = append(toks, token{kind: tokStrictNeq, text: "!==", pos: i})
				i += 3
				continue
			}
			if strings.HasPrefix(src[i:], "!=") {
				return nil, newSyntaxError(src, i, "!=", "unknown operator (only '===' and '!==' compare values)")
			}
			toks = append(toks, token{kind: tokNot, text: "!", pos: i})
			i++
		case c == '\'' || c == '"':
			tok, next, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case isDigit(c) || (c == '-' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			i++
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			// Segments such as "1st-choice" are identifiers, not numbers.
			if i < len(src) && isIdentPart(src[i]) {
				for i < len(src) && isIdentPart(src[i]) {
					i++
				}
				toks = append(toks, token{kind: tokIdent, text: src[start:i], val: src[start:i], pos: start})
				continue
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], val: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], val: src[start:i], pos: start})
		default:
			op := operatorRun(src, i)
			return nil, newSyntaxError(src, i, op, "unexpected character")
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func lexString(src string, start int) (token, int, error) {
	quote := src[start]
	var sb strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\':
			if i+1 >= len(src) {
				return token{}, 0, newSyntaxError(src, start, src[start:], "unterminated string literal")
			}
			switch esc := src[i+1]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(esc)
			}
			i += 2
		case c == quote:
			return token{kind: tokString, text: src[start : i+1], val: sb.String(), pos: start}, i + 1, nil
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return token{}, 0, newSyntaxError(src, start, src[start:], "unterminated string literal")
}

// operatorRun returns the run of punctuation starting at i, used to name
// the offending operator in error messages.
func operatorRun(src string, i int) string {
	j := i
	for j < len(src) && strings.IndexByte("=!<>&|+*/%^~?:;,", src[j]) >= 0 {
		j++
	}
	if j == i {
		return fmt.Sprintf("%c", src[i])
	}
	return src[i:j]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Hyphens are allowed inside identifiers because question ids such as
// "q-business" are addressed as answers.q-business. The grammar has no
// subtraction so this is unambiguous.
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}
