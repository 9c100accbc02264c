package transpiler

import (
	"strings"
	"testing"

	"vireo/internal/lexer"
	"vireo/internal/mapping"
	"vireo/internal/parser"
)

func transpileSrc(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.New(strings.NewReader(src)).Tokenize()
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	stmts, err := parser.NewParser(toks).Parse()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	tables, err := mapping.Load("../../testdata/types.csv", "../../testdata/functions.csv")
	if err != nil {
		t.Fatalf("load mapping tables: %v", err)
	}
	return New(tables).Transpile(stmts)
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "let with unary-free binary chain",
			src:  "let i: u32 = u - 10 * (i)",
			want: "#include <cstdint>\nconst uint32_t i = u - 10 * (i);",
		},
		{
			name: "func decl with return value",
			src:  "fn main(): i32 { return 0 }",
			want: "#include <cstdint>\nint32_t main() { return 0; }",
		},
		{
			name: "if-else with parenthesized condition",
			src:  "if i < 10 { i = 20 } else { i = i + 20 }",
			want: "if ( i < 10 ) { i = 20; } else { i = i + 20; }",
		},
		{
			name: "std call records a second header group",
			src:  `fn main(): i32 { std::println("hello") }`,
			want: "#include <cstdint>\n\n#include <print>\nint32_t main() { std::println(\"hello\"); }",
		},
		{
			name: "for-range rewrite to C-style loop",
			src:  `for i: i32 in 10..20 { std::println("{}", i) }`,
			want: "#include <cstdint>\n\n#include <print>\nfor ( int32_t i = 10; i < 20; i++ ) { std::println(\"{}\", i); }",
		},
		{
			name: "nested call as a let initializer carries no stray semicolon",
			src:  "let x: i32 = add(1, 2) + 3",
			want: "#include <cstdint>\nconst int32_t x = add(1, 2) + 3;",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := transpileSrc(t, tc.src)
			if got != tc.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tc.want)
			}
		})
	}
}

func TestLetWithArrayAnnotationEmitsDeclaratorSuffix(t *testing.T) {
	got := transpileSrc(t, "let mut arr: Array<i32> = [1, 2, 3]")
	if !strings.Contains(got, "int32_t arr[] = { 1, 2, 3 };") {
		t.Fatalf("expected T ident[] declarator, got: %s", got)
	}
	if strings.Contains(got, "const ") {
		t.Fatalf("mutable let must not emit const: %s", got)
	}
}

func TestHeaderAppearsExactlyOnce(t *testing.T) {
	got := transpileSrc(t, "let a: i32 = 1 let b: i32 = 2")
	if n := strings.Count(got, "#include <cstdint>"); n != 1 {
		t.Fatalf("expected exactly one cstdint include, found %d in: %s", n, got)
	}
}
