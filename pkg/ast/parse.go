package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/orca/pkg/errors"
)

// Parse reads program text into a Body.
//
// Grammar:
//
//	body := stmt { ";" stmt } [ ";" ]
//	stmt := "let" ident "=" expr | "print" "(" expr ")" | "print" expr
//	expr := term { ("+" | "-") term }
//	term := [ "-" ] int | ident | "_" | "(" expr ")"
//
// Identifiers must name a variable bound by an earlier let; the latest
// binding with that name wins. Errors carry errors.ErrCodeInvalidSource and
// a line:column position.
func Parse(src string) (*Body, error) {
	if err := errors.ValidateSource(src); err != nil {
		return nil, err
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.body()
}

type kind int

const (
	kEOF kind = iota
	kIdent
	kInt
	kLet
	kPrint
	kHole
	kSemi
	kAssign
	kLParen
	kRParen
	kPlus
	kMinus
)

var kindNames = map[kind]string{
	kEOF: "end of input", kIdent: "identifier", kInt: "integer", kLet: "let",
	kPrint: "print", kHole: "_", kSemi: ";", kAssign: "=", kLParen: "(",
	kRParen: ")", kPlus: "+", kMinus: "-",
}

type token struct {
	kind      kind
	text      string
	line, col int
}

func (t token) pos() string { return fmt.Sprintf("%d:%d", t.line, t.col) }

var punct = map[rune]kind{
	';': kSemi, '=': kAssign, '(': kLParen, ')': kRParen, '+': kPlus, '-': kMinus,
}

// isDigit accepts ASCII digits only; integers go through strconv.
func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	line, col := 1, 1
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '\n':
			i++
			line, col = line+1, 1
			continue
		case unicode.IsSpace(r):
			i++
			col++
			continue
		}

		start := token{line: line, col: col}
		if k, ok := punct[r]; ok {
			start.kind, start.text = k, string(r)
			toks = append(toks, start)
			i++
			col++
			continue
		}

		j := i
		switch {
		case isDigit(r):
			for j < len(rs) && isDigit(rs[j]) {
				j++
			}
			start.kind = kInt
		case r == '_' || unicode.IsLetter(r):
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || isDigit(rs[j])) {
				j++
			}
			start.kind = kIdent
		default:
			return nil, errors.New(errors.ErrCodeInvalidSource, "%d:%d: unexpected character %q", line, col, r)
		}

		start.text = string(rs[i:j])
		switch start.text {
		case "let":
			start.kind = kLet
		case "print":
			start.kind = kPrint
		case "_":
			start.kind = kHole
		}
		toks = append(toks, start)
		col += j - i
		i = j
	}
	return append(toks, token{kind: kEOF, line: line, col: col}), nil
}

type parser struct {
	toks  []token
	pos   int
	scope []string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != kEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k kind) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, p.errorf(t, "expected %s, found %s", kindNames[k], describe(t))
	}
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidSource, "%s: %s", t.pos(), fmt.Sprintf(format, args...))
}

func describe(t token) string {
	if t.kind == kEOF {
		return kindNames[kEOF]
	}
	return strconv.Quote(t.text)
}

func (p *parser) body() (*Body, error) {
	b := &Body{}
	for {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)

		if p.peek().kind != kSemi {
			break
		}
		p.next()
		if p.peek().kind == kEOF {
			break
		}
	}
	if t := p.peek(); t.kind != kEOF {
		return nil, p.errorf(t, "expected ; or end of input, found %s", describe(t))
	}
	return b, nil
}

func (p *parser) stmt() (Stmt, error) {
	t := p.next()
	switch t.kind {
	case kLet:
		name, err := p.expect(kIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(kAssign); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		// The name is bound after its initializer, so `let x = x` is an error.
		p.scope = append(p.scope, name.text)
		return Let{Var: Var{Name: name.text}, Expr: e}, nil
	case kPrint:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		return Print{Expr: e}, nil
	default:
		return nil, p.errorf(t, "expected let or print, found %s", describe(t))
	}
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case kPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = Plus{Left: left, Right: right}
		case kMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left = Minus{Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (Expr, error) {
	t := p.next()
	switch t.kind {
	case kInt:
		return p.integer(t, "")
	case kMinus:
		lit, err := p.expect(kInt)
		if err != nil {
			return nil, err
		}
		return p.integer(lit, "-")
	case kHole:
		return Hole{}, nil
	case kIdent:
		for i := len(p.scope) - 1; i >= 0; i-- {
			if p.scope[i] == t.text {
				return Bind{Ref: RefID(i), Name: t.text}, nil
			}
		}
		return nil, p.errorf(t, "undefined variable %q", t.text)
	case kLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(kRParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf(t, "expected expression, found %s", describe(t))
	}
}

func (p *parser) integer(t token, sign string) (Expr, error) {
	v, err := strconv.Atoi(sign + t.text)
	if err != nil {
		return nil, p.errorf(t, "integer %s%s out of range", sign, t.text)
	}
	return Int{Value: v}, nil
}

// Format prints b in the syntax accepted by Parse.
func Format(b *Body) string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = formatStmt(s)
	}
	return strings.Join(parts, "; ")
}

func formatStmt(s Stmt) string {
	switch s := s.(type) {
	case Let:
		name := s.Var.Name
		if name == "" {
			name = TokenVar
		}
		return fmt.Sprintf("let %s = %s", name, formatExpr(s.Expr, false))
	case Print:
		return fmt.Sprintf("print(%s)", formatExpr(s.Expr, false))
	default:
		return fmt.Sprintf("%v", s)
	}
}

func formatExpr(e Expr, nested bool) string {
	var op string
	var l, r Expr
	switch e := e.(type) {
	case nil, Hole:
		return TokenHole
	case Int:
		return strconv.Itoa(e.Value)
	case Bind:
		if e.Name == "" {
			return TokenBind
		}
		return e.Name
	case Plus:
		op, l, r = TokenPlus, e.Left, e.Right
	case Minus:
		op, l, r = TokenMinus, e.Left, e.Right
	default:
		return fmt.Sprintf("%v", e)
	}
	s := formatExpr(l, false) + " " + op + " " + formatExpr(r, true)
	if nested {
		return "(" + s + ")"
	}
	return s
}
