// Package ast defines the statement/expression trees orca lays out.
//
// Every node kind implements [seed.Seed]. The set of kinds is closed:
//
//	Body   -> Stmt*
//	Stmt   =  Let(Var, Expr) | Print(Expr)
//	Expr   =  Hole | Bind | Int | Minus(Expr, Expr) | Plus(Expr, Expr)
//
// A nil Expr germinates as a [Hole].
package ast

import (
	"strconv"

	"github.com/matzehuels/orca/pkg/seed"
)

// Tokens emitted for fixed node kinds.
const (
	TokenBody  = "body: "
	TokenLet   = "let"
	TokenPrint = "print"
	TokenHole  = "_"
	TokenPlus  = "+"
	TokenMinus = "-"
	TokenVar   = "var"
	TokenBind  = "x"
)

// RefID identifies a variable binding by its position among the body's lets.
type RefID int

// Var is a variable introduced by a Let.
type Var struct {
	Name string
}

// Germinate emits the variable as a leaf.
func (v Var) Germinate(shoot seed.Shoot) {
	tok := v.Name
	if tok == "" {
		tok = TokenVar
	}
	seed.Sprout(shoot, seed.Bark{Token: tok})
}

// Expr is an expression node.
type Expr interface {
	seed.Seed
	exprNode()
}

// Hole is an expression not filled in yet.
type Hole struct{}

// Bind refers to a variable bound by an earlier Let.
type Bind struct {
	Ref  RefID
	Name string
}

// Int is an integer literal.
type Int struct {
	Value int
}

// Minus is binary subtraction.
type Minus struct {
	Left, Right Expr
}

// Plus is binary addition.
type Plus struct {
	Left, Right Expr
}

func (Hole) exprNode()  {}
func (Bind) exprNode()  {}
func (Int) exprNode()   {}
func (Minus) exprNode() {}
func (Plus) exprNode()  {}

func (Hole) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: TokenHole})
}

func (b Bind) Germinate(shoot seed.Shoot) {
	tok := b.Name
	if tok == "" {
		tok = TokenBind
	}
	seed.Sprout(shoot, seed.Bark{Token: tok})
}

func (i Int) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: strconv.Itoa(i.Value)})
}

func (m Minus) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: TokenMinus, N: 2}, orHole(m.Left), orHole(m.Right))
}

func (p Plus) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: TokenPlus, N: 2}, orHole(p.Left), orHole(p.Right))
}

// Stmt is a statement node.
type Stmt interface {
	seed.Seed
	stmtNode()
}

// Let binds Var to the value of Expr.
type Let struct {
	Var  Var
	Expr Expr
}

// Print prints the value of Expr.
type Print struct {
	Expr Expr
}

func (Let) stmtNode()   {}
func (Print) stmtNode() {}

func (l Let) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: TokenLet, N: 2}, l.Var, orHole(l.Expr))
}

func (p Print) Germinate(shoot seed.Shoot) {
	seed.Sprout(shoot, seed.Bark{Token: TokenPrint, N: 1}, orHole(p.Expr))
}

// Body is a sequence of statements; it is the root of every program.
type Body struct {
	Stmts []Stmt
}

// Germinate emits the body followed by each statement in order.
func (b *Body) Germinate(shoot seed.Shoot) {
	kids := make([]seed.Seed, len(b.Stmts))
	for i, s := range b.Stmts {
		kids[i] = s
	}
	seed.Sprout(shoot, seed.Bark{Token: TokenBody, N: len(kids)}, kids...)
}

// Example returns the demo program `let var = 1; print(4 + (2 - x))`.
func Example() *Body {
	return &Body{Stmts: []Stmt{
		Let{Var: Var{}, Expr: Int{Value: 1}},
		Print{Expr: Plus{
			Left:  Int{Value: 4},
			Right: Minus{Left: Int{Value: 2}, Right: Bind{Ref: 0}},
		}},
	}}
}

func orHole(e Expr) seed.Seed {
	if e == nil {
		return Hole{}
	}
	return e
}
