// Package parser builds a typed abstract syntax tree from a token.Info
// sequence. ast.go carries the expression variants; stmt.go carries the
// statement variants. Every back end (internal/transpiler, internal/interp,
// internal/printer) consumes these via a direct type switch over the
// concrete node types, rather than a double-dispatch visitor.
package parser

import "vireo/internal/token"

// Expr is any SrcLang expression node.
type Expr interface {
	exprNode()
}

// Number is an integer literal; Lexeme is parsed to int64 by consumers.
type Number struct {
	Lexeme string
	Start  token.Position
}

func (*Number) exprNode() {}

// String is a string literal; Lexeme includes the surrounding quotes exactly
// as the tokenizer stored them.
type String struct {
	Lexeme string
	Start  token.Position
}

func (*String) exprNode() {}

// Boolean has no production in the parser, so it never appears in a parsed
// program; the back ends still handle it (the interpreter as 1/0, the
// transpiler as true/false).
type Boolean struct {
	Value bool
	Start token.Position
}

func (*Boolean) exprNode() {}

// Variable is a bare identifier reference.
type Variable struct {
	Name  string
	Start token.Position
}

func (*Variable) exprNode() {}

// Unary applies a prefix operator (`-` or `~`) to Operand.
type Unary struct {
	Op      token.Kind
	Lexeme  string
	Operand Expr
	Start   token.Position
}

func (*Unary) exprNode() {}

// Binary applies an infix operator to Left and Right, built by the
// precedence-climbing parser using the precedence table in parser.go.
type Binary struct {
	Op     token.Kind
	Lexeme string
	Left   Expr
	Right  Expr
	Start  token.Position
}

func (*Binary) exprNode() {}

// Parenthesized wraps Inner; it exists as a distinct node so back ends can
// choose whether to re-emit the parentheses.
type Parenthesized struct {
	Inner Expr
	Start token.Position
}

func (*Parenthesized) exprNode() {}

// Assignment stores Value under Target's name and evaluates to the stored
// value.
type Assignment struct {
	Target string
	Value  Expr
	Start  token.Position
}

func (*Assignment) exprNode() {}

// ArrayAssignment writes Value into Index (which must be an *ArrayIndex
// whose Array side is a *Variable) and writes the updated array back.
type ArrayAssignment struct {
	Index *ArrayIndex
	Value Expr
	Start token.Position
}

func (*ArrayAssignment) exprNode() {}

// Call invokes a user-defined function by name.
type Call struct {
	Name  string
	Args  []Expr
	Start token.Position
}

func (*Call) exprNode() {}

// StdCall invokes a namespaced `std::name(args...)` builtin.
type StdCall struct {
	Name  string
	Args  []Expr
	Start token.Position
}

func (*StdCall) exprNode() {}

// Range is the half-open integer sequence produced by `start..end`.
type Range struct {
	StartExpr Expr
	EndExpr   Expr
	Start     token.Position
}

func (*Range) exprNode() {}

// Array is an array literal.
type Array struct {
	Elements []Expr
	Start    token.Position
}

func (*Array) exprNode() {}

// ArrayIndex reads ArrayExpr[Index].
type ArrayIndex struct {
	ArrayExpr Expr
	Index     Expr
	Start     token.Position
}

func (*ArrayIndex) exprNode() {}

// TypeAnnotation is Base with zero or more Generics, e.g. `Array<i32>`.
type TypeAnnotation struct {
	Base     string
	Generics []string
	Start    token.Position
}

func (*TypeAnnotation) exprNode() {}
