// Package printer pretty-prints a parsed program back into SrcLang source
// text. It is a supplemental AST consumer alongside the transpiler and the
// interpreter, useful for debugging and behind the CLI's `ast` subcommand.
// Structure (indent tracking, one Builder, a blank-line heuristic between
// top-level declarations) is grounded on the teacher's original
// formatter.go.
package printer

import (
	"fmt"
	"strings"

	"vireo/internal/parser"
)

type Printer struct {
	indent    int
	indentStr string
	lineBreak string
	output    strings.Builder
}

func New() *Printer {
	return &Printer{indentStr: "    ", lineBreak: "\n"}
}

// Print renders stmts as SrcLang source, inserting a blank line between two
// consecutive top-level statements whenever either of them is a function
// declaration, so a multi-function program doesn't read as one run-on block.
func (p *Printer) Print(stmts []parser.Stmt) string {
	p.output.Reset()
	p.indent = 0
	for i, stmt := range stmts {
		p.printStmt(stmt)
		if i < len(stmts)-1 && p.needsBlankLine(stmt, stmts[i+1]) {
			p.output.WriteString(p.lineBreak)
		}
	}
	return p.output.String()
}

func (p *Printer) needsBlankLine(curr, next parser.Stmt) bool {
	_, currIsFunc := curr.(*parser.FuncDeclStmt)
	_, nextIsFunc := next.(*parser.FuncDeclStmt)
	return currIsFunc || nextIsFunc
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString(p.indentStr)
	}
}

func (p *Printer) printStmt(stmt parser.Stmt) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *parser.LetStmt:
		p.writeIndent()
		p.output.WriteString("let ")
		if s.Mutable {
			p.output.WriteString("mut ")
		}
		p.output.WriteString(s.Name)
		if s.Annotation != nil {
			p.output.WriteString(": ")
			p.printTypeAnnotation(s.Annotation)
		}
		p.output.WriteString(" = ")
		p.printExpr(s.Init)
		p.output.WriteString(p.lineBreak)

	case *parser.FuncDeclStmt:
		p.writeIndent()
		p.output.WriteString("fn ")
		p.output.WriteString(s.Name)
		p.output.WriteString("(")
		for i, param := range s.Params {
			if i > 0 {
				p.output.WriteString(", ")
			}
			p.output.WriteString(param.Identifier)
			if param.TypeAnnotation != nil {
				p.output.WriteString(": ")
				p.printTypeAnnotation(param.TypeAnnotation)
			}
		}
		p.output.WriteString(")")
		if s.ReturnAnnotation != nil {
			p.output.WriteString(": ")
			p.printTypeAnnotation(s.ReturnAnnotation)
		}
		p.output.WriteString(" ")
		p.printStmt(s.Body)

	case *parser.ReturnStmt:
		p.writeIndent()
		p.output.WriteString("return")
		if s.Value != nil {
			p.output.WriteString(" ")
			p.printExpr(s.Value)
		}
		p.output.WriteString(p.lineBreak)

	case *parser.IfStmt:
		p.writeIndent()
		p.output.WriteString("if ")
		p.printExpr(s.Cond)
		p.output.WriteString(" ")
		p.printStmt(s.Then)
		if s.Else != nil {
			p.output.WriteString(" else ")
			p.printStmt(s.Else)
		}

	case *parser.WhileStmt:
		p.writeIndent()
		p.output.WriteString("while ")
		p.printExpr(s.Cond)
		p.output.WriteString(" ")
		p.printStmt(s.Body)

	case *parser.ForStmt:
		p.writeIndent()
		p.output.WriteString("for ")
		p.output.WriteString(s.Ident)
		if s.Annotation != nil {
			p.output.WriteString(": ")
			p.printTypeAnnotation(s.Annotation)
		}
		p.output.WriteString(" in ")
		p.printExpr(s.Iterable)
		p.output.WriteString(" ")
		p.printStmt(s.Body)

	case *parser.BlockStmt:
		p.output.WriteString("{")
		p.output.WriteString(p.lineBreak)
		p.indent++
		for _, inner := range s.Stmts {
			p.printStmt(inner)
		}
		p.indent--
		p.writeIndent()
		p.output.WriteString("}")
		p.output.WriteString(p.lineBreak)

	case *parser.ExpressionStmt:
		p.writeIndent()
		p.printExpr(s.Expr)
		p.output.WriteString(p.lineBreak)
	}
}

func (p *Printer) printTypeAnnotation(ann *parser.TypeAnnotation) {
	p.output.WriteString(ann.Base)
	if len(ann.Generics) > 0 {
		p.output.WriteString("<")
		p.output.WriteString(strings.Join(ann.Generics, ", "))
		p.output.WriteString(">")
	}
}

func (p *Printer) printExpr(expr parser.Expr) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *parser.Number:
		p.output.WriteString(e.Lexeme)
	case *parser.String:
		p.output.WriteString(e.Lexeme)
	case *parser.Boolean:
		p.output.WriteString(fmt.Sprintf("%v", e.Value))
	case *parser.Variable:
		p.output.WriteString(e.Name)
	case *parser.Unary:
		p.output.WriteString(e.Lexeme)
		p.printExpr(e.Operand)
	case *parser.Binary:
		p.printExpr(e.Left)
		p.output.WriteString(" ")
		p.output.WriteString(e.Lexeme)
		p.output.WriteString(" ")
		p.printExpr(e.Right)
	case *parser.Parenthesized:
		p.output.WriteString("(")
		p.printExpr(e.Inner)
		p.output.WriteString(")")
	case *parser.Assignment:
		p.output.WriteString(e.Target)
		p.output.WriteString(" = ")
		p.printExpr(e.Value)
	case *parser.ArrayAssignment:
		p.printExpr(e.Index)
		p.output.WriteString(" = ")
		p.printExpr(e.Value)
	case *parser.Call:
		p.output.WriteString(e.Name)
		p.printArgs(e.Args)
	case *parser.StdCall:
		p.output.WriteString("std::")
		p.output.WriteString(e.Name)
		p.printArgs(e.Args)
	case *parser.Range:
		p.printExpr(e.StartExpr)
		p.output.WriteString("..")
		p.printExpr(e.EndExpr)
	case *parser.Array:
		p.output.WriteString("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.output.WriteString(", ")
			}
			p.printExpr(el)
		}
		p.output.WriteString("]")
	case *parser.ArrayIndex:
		p.printExpr(e.ArrayExpr)
		p.output.WriteString("[")
		p.printExpr(e.Index)
		p.output.WriteString("]")
	case *parser.TypeAnnotation:
		p.printTypeAnnotation(e)
	}
}

func (p *Printer) printArgs(args []parser.Expr) {
	p.output.WriteString("(")
	for i, a := range args {
		if i > 0 {
			p.output.WriteString(", ")
		}
		p.printExpr(a)
	}
	p.output.WriteString(")")
}
