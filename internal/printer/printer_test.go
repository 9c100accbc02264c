package printer

import (
	"strings"
	"testing"

	"vireo/internal/lexer"
	"vireo/internal/parser"
)

func parseSrc(t *testing.T, src string) []parser.Stmt {
	t.Helper()
	toks, err := lexer.New(strings.NewReader(src)).Tokenize()
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	stmts, err := parser.NewParser(toks).Parse()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return stmts
}

func TestPrintLetRoundTripsAnnotationAndMutability(t *testing.T) {
	got := New().Print(parseSrc(t, "let mut arr: Array<i32> = [1, 2, 3]"))
	if !strings.Contains(got, "let mut arr: Array<i32> = [1, 2, 3]") {
		t.Fatalf("got: %q", got)
	}
}

func TestPrintInsertsBlankLineBetweenFunctions(t *testing.T) {
	got := New().Print(parseSrc(t, "fn a {} fn b {}"))
	if !strings.Contains(got, "}\n\nfn b") {
		t.Fatalf("expected a blank line between function decls, got: %q", got)
	}
}

func TestPrintForAndIf(t *testing.T) {
	got := New().Print(parseSrc(t, "for i in 0..10 { if i < 5 { x = i } }"))
	if !strings.Contains(got, "for i in 0..10 {") || !strings.Contains(got, "if i < 5 {") {
		t.Fatalf("got: %q", got)
	}
}
