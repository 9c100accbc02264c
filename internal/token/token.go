// Package token defines the closed set of lexical token kinds shared by the
// tokenizer and parser.
package token

import "fmt"

// Position is a 1-based row/column into the source stream.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Kind is a closed tagged set of lexical categories. States in the
// tokenizer's DFA are exactly the terminal Kind values, plus the internal
// markers None, EOT and Bang declared below.
type Kind string

const (
	// Literals & names.
	Number     Kind = "Number"
	String     Kind = "String"
	Identifier Kind = "Identifier"

	// Keywords.
	Let    Kind = "Let"
	Mut    Kind = "Mut"
	Fn     Kind = "Fn"
	Return Kind = "Return"
	If     Kind = "If"
	Else   Kind = "Else"
	For    Kind = "For"
	While  Kind = "While"
	In     Kind = "In"
	Match  Kind = "Match"
	Struct Kind = "Struct"
	Std    Kind = "Std"

	// Punctuation.
	Colon       Kind = "Colon"
	DoubleColon Kind = "DoubleColon"
	Comma       Kind = "Comma"
	Dot         Kind = "Dot"
	Range       Kind = "Range"
	Arrow       Kind = "Arrow"
	LParen      Kind = "LParen"
	RParen      Kind = "RParen"
	LBrace      Kind = "LBrace"
	RBrace      Kind = "RBrace"
	LBracket    Kind = "LBracket"
	RBracket    Kind = "RBracket"

	// Operators.
	Assignment Kind = "Assignment"
	Equals     Kind = "Equals"
	Inequal    Kind = "Inequal"
	LowerThan  Kind = "LowerThan"
	GreaterThan Kind = "GreaterThan"
	Addition   Kind = "Addition"
	Subtraction Kind = "Subtraction"
	Star       Kind = "Star"
	Division   Kind = "Division"
	Modulo     Kind = "Modulo"
	BwAnd      Kind = "BwAnd"
	BwOr       Kind = "BwOr"
	BwXor      Kind = "BwXor"
	BwNot      Kind = "BwNot"
	BwShl      Kind = "BwShl"
	BwShr      Kind = "BwShr"
	And        Kind = "And"
	Or         Kind = "Or"

	// Control.
	EOF Kind = "EOF"

	// Internal DFA markers. LowerEqual and GreaterEqual are produced by the
	// transition table but never reach the parser's grammar — SrcLang has no
	// `<=`/`>=` operator, so a token of this kind is always a parse error if
	// it surfaces. None and EOT are pseudo-states used only inside the DFA.
	LowerEqual   Kind = "LowerEqual"
	GreaterEqual Kind = "GreaterEqual"
	none         Kind = ""
	eot          Kind = "EOT"
	bang         Kind = "Bang"
)

// None is the DFA's start state.
func None() Kind { return none }

// EOT is the DFA's whitespace-run state.
func EOT() Kind { return eot }

// Bang is the intermediate state after a lone '!', pending a possible '='
// to complete Inequal. It never survives to become a token on its own.
func Bang() Kind { return bang }

var keywords = map[string]Kind{
	"let":    Let,
	"mut":    Mut,
	"fn":     Fn,
	"return": Return,
	"if":     If,
	"else":   Else,
	"for":    For,
	"while":  While,
	"in":     In,
	"match":  Match,
	"struct": Struct,
	"std":    Std,
}

// ReclassifyKeyword returns the keyword Kind for lexeme if it is a reserved
// word, or ok=false otherwise.
func ReclassifyKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// Info is a single scanned token: its kind, its exact source text, and the
// position of its first character.
type Info struct {
	Kind   Kind
	Lexeme string
	Start  Position
}

func (t Info) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Lexeme, t.Start)
}
