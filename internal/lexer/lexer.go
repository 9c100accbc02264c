// Package lexer implements the table-driven DFA tokenizer. States are
// exactly the terminal token.Kind values, plus the internal None/EOT/Bang
// markers defined in package token. The transition table is built once from
// declarative rules and the scan loop is a thin driver over it; only String
// literals get special-cased handling, since "every byte but the closing
// quote continues the token" does not fit a single-byte lookahead cleanly.
package lexer

import (
	"bufio"
	"fmt"
	"io"

	"vireo/internal/errors"
	"vireo/internal/token"
)

type transitionTable map[token.Kind]map[byte]token.Kind

func (t transitionTable) set(from token.Kind, b byte, to token.Kind) {
	m, ok := t[from]
	if !ok {
		m = make(map[byte]token.Kind)
		t[from] = m
	}
	m[b] = to
}

func (t transitionTable) setRange(from token.Kind, lo, hi byte, to token.Kind) {
	for b := lo; b <= hi; b++ {
		t.set(from, b, to)
	}
}

func (t transitionTable) lookup(from token.Kind, b byte) (token.Kind, bool) {
	m, ok := t[from]
	if !ok {
		return token.None(), false
	}
	to, ok := m[b]
	return to, ok
}

func buildTransitions() transitionTable {
	t := make(transitionTable)

	// Single-character transitions out of the start state.
	single := map[byte]token.Kind{
		'=': token.Assignment,
		'*': token.Star,
		'/': token.Division,
		'+': token.Addition,
		'-': token.Subtraction,
		'%': token.Modulo,
		',': token.Comma,
		':': token.Colon,
		'.': token.Dot,
		'(': token.LParen,
		')': token.RParen,
		'{': token.LBrace,
		'}': token.RBrace,
		'[': token.LBracket,
		']': token.RBracket,
		'<': token.LowerThan,
		'>': token.GreaterThan,
		'&': token.BwAnd,
		'|': token.BwOr,
		'^': token.BwXor,
		'~': token.BwNot,
		'"': token.String,
	}
	for b, k := range single {
		t.set(token.None(), b, k)
	}
	t.set(token.None(), '!', token.Bang())

	// Whitespace runs: None enters EOT on any whitespace byte, EOT
	// self-loops on further whitespace. skipWhitespace drives this exactly
	// like any other state/byte lookup rather than hand-rolling a switch.
	for _, ws := range []byte{' ', '\t', '\n'} {
		t.set(token.None(), ws, token.EOT())
		t.set(token.EOT(), ws, token.EOT())
	}

	// Identifier and number start states.
	t.setRange(token.None(), 'a', 'z', token.Identifier)
	t.setRange(token.None(), 'A', 'Z', token.Identifier)
	t.set(token.None(), '_', token.Identifier)
	t.setRange(token.None(), '0', '9', token.Number)

	// Identifier/number bodies self-loop.
	t.setRange(token.Identifier, 'a', 'z', token.Identifier)
	t.setRange(token.Identifier, 'A', 'Z', token.Identifier)
	t.setRange(token.Identifier, '0', '9', token.Identifier)
	t.set(token.Identifier, '_', token.Identifier)
	t.setRange(token.Number, '0', '9', token.Number)

	// Two-character extensions.
	t.set(token.Assignment, '=', token.Equals)
	t.set(token.Assignment, '>', token.Arrow)
	t.set(token.Bang(), '=', token.Inequal)
	t.set(token.Colon, ':', token.DoubleColon)
	t.set(token.Dot, '.', token.Range)
	t.set(token.LowerThan, '<', token.BwShl)
	t.set(token.GreaterThan, '>', token.BwShr)
	t.set(token.BwAnd, '&', token.And)
	t.set(token.BwOr, '|', token.Or)
	t.set(token.LowerThan, '=', token.LowerEqual)
	t.set(token.GreaterThan, '=', token.GreaterEqual)

	return t
}

// Lexer scans a byte source into a flat token.Info sequence terminated by
// exactly one EOF record.
type Lexer struct {
	r           *bufio.Reader
	pos         token.Position
	transitions transitionTable
}

func New(r io.Reader) *Lexer {
	return &Lexer{
		r:           bufio.NewReader(r),
		pos:         token.Position{Row: 1, Col: 1},
		transitions: buildTransitions(),
	}
}

// Tokenize drives the scan loop to completion. It stops and returns the
// first TokenizerError encountered; otherwise the returned slice always
// ends in exactly one EOF record.
func (l *Lexer) Tokenize() ([]token.Info, error) {
	var out []token.Info
	for {
		if err := l.skipWhitespace(); err != nil {
			return nil, err
		}
		start := l.pos
		b, err := l.r.ReadByte()
		if err == io.EOF {
			out = append(out, token.Info{Kind: token.EOF, Lexeme: "", Start: start})
			return out, nil
		}
		if err != nil {
			return nil, errors.NewTokenizerError(errors.InvalidStream, "", start)
		}

		state, ok := l.transitions.lookup(token.None(), b)
		if !ok {
			return nil, errors.NewTokenizerError(errors.InvalidPattern, string(b), start)
		}
		l.advancePosition(b)

		if state == token.String {
			info, err := l.scanString(start)
			if err != nil {
				return nil, err
			}
			out = append(out, info)
			continue
		}

		lexeme := []byte{b}
		for {
			peeked, err := l.r.Peek(1)
			if err != nil { // io.EOF or other: nothing more to extend with
				break
			}
			next, ok := l.transitions.lookup(state, peeked[0])
			if !ok {
				break
			}
			consumed, _ := l.r.ReadByte()
			l.advancePosition(consumed)
			lexeme = append(lexeme, consumed)
			state = next
		}

		if state == token.Bang() {
			return nil, errors.NewTokenizerError(errors.InvalidPattern, string(lexeme), start)
		}

		kind := state
		text := string(lexeme)
		if kind == token.Identifier {
			if kw, ok := token.ReclassifyKeyword(text); ok {
				kind = kw
			}
		}
		out = append(out, token.Info{Kind: kind, Lexeme: text, Start: start})
	}
}

// scanString consumes bytes until the closing quote, per the spec's "every
// byte except the closing quote re-enters String" rule; an EOF before the
// closing quote is an UnclosedString error.
func (l *Lexer) scanString(start token.Position) (token.Info, error) {
	lexeme := []byte{'"'}
	for {
		b, err := l.r.ReadByte()
		if err == io.EOF {
			return token.Info{}, errors.NewTokenizerError(errors.UnclosedString, "", start)
		}
		if err != nil {
			return token.Info{}, errors.NewTokenizerError(errors.InvalidStream, "", start)
		}
		l.advancePosition(b)
		lexeme = append(lexeme, b)
		if b == '"' {
			break
		}
	}
	return token.Info{Kind: token.String, Lexeme: string(lexeme), Start: start}, nil
}

// skipWhitespace drives the None/EOT corner of the transition table rather
// than special-casing whitespace bytes, so the DFA description in
// buildTransitions stays the single source of truth for what counts as a
// separator.
func (l *Lexer) skipWhitespace() error {
	state := token.None()
	for {
		peeked, err := l.r.Peek(1)
		if err != nil {
			return nil
		}
		next, ok := l.transitions.lookup(state, peeked[0])
		if !ok || next != token.EOT() {
			return nil
		}
		b, _ := l.r.ReadByte()
		l.advancePosition(b)
		state = token.EOT()
	}
}

func (l *Lexer) advancePosition(b byte) {
	switch b {
	case '\n':
		l.pos.Row++
		l.pos.Col = 1
	case '\t':
		l.pos.Col += 4
	default:
		l.pos.Col++
	}
}

func (l *Lexer) String() string {
	return fmt.Sprintf("lexer@%s", l.pos)
}
