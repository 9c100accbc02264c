package lexer

import (
	"strings"
	"testing"

	"vireo/internal/token"
)

func tokenize(t *testing.T, src string) []token.Info {
	t.Helper()
	toks, err := New(strings.NewReader(src)).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", src, err)
	}
	return toks
}

func TestEndsInSingleEOF(t *testing.T) {
	toks := tokenize(t, "let x = 1")
	last := toks[len(toks)-1]
	if last.Kind != token.EOF || last.Lexeme != "" {
		t.Fatalf("expected trailing empty EOF, got %+v", last)
	}
	for _, tk := range toks[:len(toks)-1] {
		if tk.Kind == token.EOF {
			t.Fatalf("EOF kind appeared before the end: %+v", toks)
		}
	}
}

func TestKeywordReclassification(t *testing.T) {
	toks := tokenize(t, "let mut fn return if else for while in match struct std")
	want := []token.Kind{token.Let, token.Mut, token.Fn, token.Return, token.If, token.Else,
		token.For, token.While, token.In, token.Match, token.Struct, token.Std, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks := tokenize(t, "== != => :: ..")
	want := []token.Kind{token.Equals, token.Inequal, token.Arrow, token.DoubleColon, token.Range, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	toks := tokenize(t, `"hello world"`)
	if toks[0].Kind != token.String {
		t.Fatalf("expected String, got %s", toks[0].Kind)
	}
	if toks[0].Lexeme != `"hello world"` {
		t.Fatalf("expected quotes retained in lexeme, got %q", toks[0].Lexeme)
	}
}

func TestUnclosedStringFails(t *testing.T) {
	_, err := New(strings.NewReader(`"never closes`)).Tokenize()
	if err == nil {
		t.Fatal("expected an UnclosedString error")
	}
}

func TestInvalidPatternFails(t *testing.T) {
	_, err := New(strings.NewReader("@")).Tokenize()
	if err == nil {
		t.Fatal("expected an InvalidPattern error")
	}
}

func TestPositionTracksTabsAndNewlines(t *testing.T) {
	toks := tokenize(t, "a\n\tb")
	// "a" at 1:1, "b" after a tab on row 2: col starts at 1, +4 = 5
	if toks[0].Start.Row != 1 || toks[0].Start.Col != 1 {
		t.Errorf("token 'a' position = %+v", toks[0].Start)
	}
	if toks[1].Start.Row != 2 || toks[1].Start.Col != 5 {
		t.Errorf("token 'b' position = %+v, want row 2 col 5", toks[1].Start)
	}
}
