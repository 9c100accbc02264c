// Package transpiler walks the AST and emits TgtLang source text, tracking
// the ordered set of headers implied by the types and std-calls it
// encounters. The visitor-over-an-output-buffer shape is grounded on the
// teacher's internal/compiler/compiler.go (an AST visitor that accumulates
// into a single output structure as it walks); the emission rules
// themselves follow original_source/src/evaluator/cpptranspiler.rs.
package transpiler

import (
	"strconv"
	"strings"

	"vireo/internal/mapping"
	"vireo/internal/parser"
)

// Transpiler emits TgtLang text for a parsed SrcLang program.
type Transpiler struct {
	tables *mapping.Tables

	body strings.Builder

	typeHeaders    []string
	seenTypeHeader map[string]bool
	funcHeaders    []string
	seenFuncHeader map[string]bool
}

func New(tables *mapping.Tables) *Transpiler {
	return &Transpiler{
		tables:         tables,
		seenTypeHeader: make(map[string]bool),
		seenFuncHeader: make(map[string]bool),
	}
}

// Transpile emits every top-level statement in order and returns the
// finalized output string, headers prepended.
func (t *Transpiler) Transpile(stmts []parser.Stmt) string {
	for i, s := range stmts {
		if i > 0 {
			t.body.WriteString(" ")
		}
		t.emitStmt(s)
	}
	return t.finalize()
}

func (t *Transpiler) finalize() string {
	var out strings.Builder
	for _, h := range t.typeHeaders {
		out.WriteString("#include <")
		out.WriteString(h)
		out.WriteString(">\n")
	}
	if len(t.typeHeaders) > 0 && len(t.funcHeaders) > 0 {
		out.WriteString("\n")
	}
	for _, h := range t.funcHeaders {
		out.WriteString("#include <")
		out.WriteString(h)
		out.WriteString(">\n")
	}
	out.WriteString(t.body.String())
	return out.String()
}

func (t *Transpiler) addTypeHeader(h string) {
	if h == "" || t.seenTypeHeader[h] {
		return
	}
	t.seenTypeHeader[h] = true
	t.typeHeaders = append(t.typeHeaders, h)
}

func (t *Transpiler) addFuncHeader(h string) {
	if h == "" || t.seenFuncHeader[h] {
		return
	}
	t.seenFuncHeader[h] = true
	t.funcHeaders = append(t.funcHeaders, h)
}

// mapType resolves a type annotation to its TgtLang text. If the mapped
// base is the Array sentinel, isArray is true and text is the ELEMENT
// type — the caller (emitLet) is responsible for appending the `[]`
// declarator suffix instead of emitting `Array<T>` directly.
func (t *Transpiler) mapType(ann *parser.TypeAnnotation) (text string, isArray bool) {
	if ann == nil {
		return "auto", false
	}
	entry, ok := t.tables.LookupType(ann.Base)
	if !ok {
		if len(ann.Generics) > 0 {
			return ann.Base + "<" + strings.Join(ann.Generics, ", ") + ">", false
		}
		return ann.Base, false
	}
	if entry.TgtName == mapping.ArraySentinel {
		t.addTypeHeader(entry.Header)
		elemText := "auto"
		if len(ann.Generics) > 0 {
			if elemEntry, ok2 := t.tables.LookupType(ann.Generics[0]); ok2 {
				t.addTypeHeader(elemEntry.Header)
				elemText = elemEntry.TgtName
			} else {
				elemText = ann.Generics[0]
			}
		}
		return elemText, true
	}
	t.addTypeHeader(entry.Header)
	if len(ann.Generics) > 0 {
		return entry.TgtName + "<" + strings.Join(ann.Generics, ", ") + ">", false
	}
	return entry.TgtName, false
}

// --- statements ---

func (t *Transpiler) emitStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.LetStmt:
		t.emitLet(s)
	case *parser.IfStmt:
		t.emitIf(s)
	case *parser.BlockStmt:
		t.emitBlock(s)
	case *parser.WhileStmt:
		t.emitWhile(s)
	case *parser.ForStmt:
		t.emitFor(s)
	case *parser.FuncDeclStmt:
		t.emitFuncDecl(s)
	case *parser.ReturnStmt:
		t.emitReturn(s)
	case *parser.ExpressionStmt:
		t.emitExpressionStmt(s)
	}
}

func (t *Transpiler) emitLet(s *parser.LetStmt) {
	if !s.Mutable {
		t.body.WriteString("const ")
	}
	typeText, isArray := t.mapType(s.Annotation)
	t.body.WriteString(typeText)
	t.body.WriteString(" ")
	t.body.WriteString(s.Name)
	if isArray {
		t.body.WriteString("[]")
	}
	t.body.WriteString(" = ")
	t.emitExpr(s.Init)
	t.body.WriteString(";")
}

func (t *Transpiler) emitIf(s *parser.IfStmt) {
	t.body.WriteString("if ( ")
	t.emitExpr(s.Cond)
	t.body.WriteString(" ) ")
	t.emitStmt(s.Then)
	if s.Else != nil {
		t.body.WriteString(" else ")
		t.emitStmt(s.Else)
	}
}

func (t *Transpiler) emitBlock(s *parser.BlockStmt) {
	t.body.WriteString("{")
	for _, inner := range s.Stmts {
		t.body.WriteString(" ")
		t.emitStmt(inner)
	}
	t.body.WriteString(" }")
}

func (t *Transpiler) emitWhile(s *parser.WhileStmt) {
	t.body.WriteString("while ")
	t.emitExpr(s.Cond)
	t.body.WriteString(" ")
	t.emitStmt(s.Body)
}

func (t *Transpiler) emitFor(s *parser.ForStmt) {
	typeText, _ := t.mapType(s.Annotation)
	t.body.WriteString("for ( ")
	t.body.WriteString(typeText)
	t.body.WriteString(" ")
	t.body.WriteString(s.Ident)
	switch it := s.Iterable.(type) {
	case *parser.Range:
		t.body.WriteString(" = ")
		t.emitExpr(it.StartExpr)
		t.body.WriteString("; ")
		t.body.WriteString(s.Ident)
		t.body.WriteString(" < ")
		t.emitExpr(it.EndExpr)
		t.body.WriteString("; ")
		t.body.WriteString(s.Ident)
		t.body.WriteString("++")
	case *parser.Variable:
		t.body.WriteString(" : ")
		t.body.WriteString(it.Name)
	default:
		t.body.WriteString(" : ")
		t.emitExpr(it)
	}
	t.body.WriteString(" ) ")
	t.emitStmt(s.Body)
}

func (t *Transpiler) emitFuncDecl(s *parser.FuncDeclStmt) {
	typeText, _ := t.mapType(s.ReturnAnnotation)
	t.body.WriteString(typeText)
	t.body.WriteString(" ")
	t.body.WriteString(s.Name)
	t.body.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			t.body.WriteString(", ")
		}
		t.body.WriteString(p.Identifier)
	}
	t.body.WriteString(") ")
	t.emitStmt(s.Body)
}

func (t *Transpiler) emitReturn(s *parser.ReturnStmt) {
	if s.Value == nil {
		t.body.WriteString("return;")
		return
	}
	t.body.WriteString("return ")
	t.emitExpr(s.Value)
	t.body.WriteString(";")
}

func (t *Transpiler) emitExpressionStmt(s *parser.ExpressionStmt) {
	t.emitExpr(s.Expr)
	t.body.WriteString(";")
}

// --- expressions ---

func (t *Transpiler) emitExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Number:
		t.body.WriteString(e.Lexeme)
	case *parser.String:
		t.body.WriteString(e.Lexeme)
	case *parser.Boolean:
		t.body.WriteString(strconv.FormatBool(e.Value))
	case *parser.Variable:
		t.body.WriteString(e.Name)
	case *parser.Unary:
		t.body.WriteString(e.Lexeme)
		t.emitExpr(e.Operand)
	case *parser.Binary:
		t.emitExpr(e.Left)
		t.body.WriteString(" ")
		t.body.WriteString(e.Lexeme)
		t.body.WriteString(" ")
		t.emitExpr(e.Right)
	case *parser.Parenthesized:
		t.body.WriteString("(")
		t.emitExpr(e.Inner)
		t.body.WriteString(")")
	case *parser.Assignment:
		t.body.WriteString(e.Target)
		t.body.WriteString(" = ")
		t.emitExpr(e.Value)
	case *parser.ArrayAssignment:
		t.emitExpr(e.Index)
		t.body.WriteString(" = ")
		t.emitExpr(e.Value)
	case *parser.Call:
		t.body.WriteString(e.Name)
		t.emitArgs(e.Args)
	case *parser.StdCall:
		t.body.WriteString("std::")
		t.body.WriteString(e.Name)
		t.emitArgs(e.Args)
		if header, ok := t.tables.LookupFunction("std::" + e.Name); ok {
			t.addFuncHeader(header)
		}
	case *parser.Range:
		t.emitExpr(e.StartExpr)
		t.body.WriteString("..")
		t.emitExpr(e.EndExpr)
	case *parser.Array:
		t.body.WriteString("{ ")
		for i, el := range e.Elements {
			if i > 0 {
				t.body.WriteString(", ")
			}
			t.emitExpr(el)
		}
		t.body.WriteString(" }")
	case *parser.ArrayIndex:
		t.emitExpr(e.ArrayExpr)
		t.body.WriteString("[")
		t.emitExpr(e.Index)
		t.body.WriteString("]")
	case *parser.TypeAnnotation:
		text, _ := t.mapType(e)
		t.body.WriteString(text)
	}
}

func (t *Transpiler) emitArgs(args []parser.Expr) {
	t.body.WriteString("(")
	for i, a := range args {
		if i > 0 {
			t.body.WriteString(", ")
		}
		t.emitExpr(a)
	}
	t.body.WriteString(")")
}
