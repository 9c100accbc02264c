package interp

import (
	"bytes"
	"strings"
	"testing"

	"vireo/internal/lexer"
	"vireo/internal/parser"
)

func runSrc(t *testing.T, src string) (Value, string) {
	t.Helper()
	toks, err := lexer.New(strings.NewReader(src)).Tokenize()
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	stmts, err := parser.NewParser(toks).Parse()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	var out bytes.Buffer
	val, err := New(&out).Run(stmts)
	if err != nil {
		t.Fatalf("run(%q): %v", src, err)
	}
	return val, out.String()
}

func TestArithmeticAndRelational(t *testing.T) {
	val, _ := runSrc(t, "let a: i32 = 2 + 3 * 4 return a")
	if val.Kind != KindNumber || val.Number != 14 {
		t.Fatalf("got %+v, want Number 14", val)
	}

	val, _ = runSrc(t, "let a = 5 let b = 10 return a < b")
	if val.Number != 1 {
		t.Fatalf("got %+v, want truthy 1", val)
	}
}

func TestDivisionByZeroFails(t *testing.T) {
	toks, _ := lexer.New(strings.NewReader("let a = 1 / 0")).Tokenize()
	stmts, _ := parser.NewParser(toks).Parse()
	if _, err := New(&bytes.Buffer{}).Run(stmts); err == nil {
		t.Fatal("expected a division by zero error")
	}
}

func TestArrayIndexingVisibility(t *testing.T) {
	// Scenario: indexing into an Array<i32> literal returns the element at
	// the given position.
	val, _ := runSrc(t, "let mut arr: Array<i32> = [5, 6, 7, 3, 10] let i = 1 return arr[i]")
	if val.Number != 6 {
		t.Fatalf("got %+v, want Number 6", val)
	}
}

func TestArrayAssignmentIsVisibleAfterMutation(t *testing.T) {
	val, _ := runSrc(t, "let mut arr: Array<i32> = [1, 2, 3] arr[1] = 9 return arr[1]")
	if val.Number != 9 {
		t.Fatalf("got %+v, want Number 9", val)
	}
}

func TestRangeIsHalfOpen(t *testing.T) {
	val, _ := runSrc(t, "let mut sum = 0 for i in 0..3 { sum = sum + i } return sum")
	if val.Number != 3 { // 0 + 1 + 2, excludes 3
		t.Fatalf("got %+v, want Number 3 (half-open range)", val)
	}
}

func TestFunctionCallFreshFrame(t *testing.T) {
	src := `
		fn add(a, b) {
			return a + b
		}
		let result = add(4, 5)
		return result
	`
	val, _ := runSrc(t, src)
	if val.Number != 9 {
		t.Fatalf("got %+v, want Number 9", val)
	}
}

func TestFunctionMayBeCalledBeforeItsDeclaration(t *testing.T) {
	src := `
		let result = twice(21)
		fn twice(n) {
			return n * 2
		}
		return result
	`
	val, _ := runSrc(t, src)
	if val.Number != 42 {
		t.Fatalf("got %+v, want Number 42", val)
	}
}

func TestStdCallPrintsRenderedArguments(t *testing.T) {
	_, output := runSrc(t, `std::println("hello")`)
	if strings.TrimSpace(output) != `"hello"` {
		t.Fatalf("got output %q", output)
	}
}

func TestBubbleSortScenario(t *testing.T) {
	src := `
		let mut arr: Array<i32> = [5, 6, 7, 3, 10]
		let n = 5
		for i in 0..n {
			for j in 0..(n - i - 1) {
				if arr[j] > arr[j + 1] {
					let tmp = arr[j]
					arr[j] = arr[j + 1]
					arr[j + 1] = tmp
				}
			}
		}
		return arr
	`
	val, _ := runSrc(t, src)
	if Render(val) != "[3, 5, 6, 7, 10]" {
		t.Fatalf("got %s, want [3, 5, 6, 7, 10]", Render(val))
	}
}

func TestCalleeExplicitReturnDoesNotLeakIntoCallerLastValue(t *testing.T) {
	// f's explicit `return 99` must not overwrite the interpreter's observed
	// "last value" past the call: the program's last top-level construct is
	// a `let`, which reports nothing, so the final value stays the
	// zero Value, not the 99 that only existed inside f's own frame.
	src := `
		fn f() {
			return 99
		}
		let y = f() + 1
	`
	val, _ := runSrc(t, src)
	if val.Kind != KindNumber || val.Number != 0 {
		t.Fatalf("got %+v, want the zero Value (callee's return must not leak)", val)
	}
}

func TestUndefinedVariableFails(t *testing.T) {
	toks, _ := lexer.New(strings.NewReader("return missing")).Tokenize()
	stmts, _ := parser.NewParser(toks).Parse()
	if _, err := New(&bytes.Buffer{}).Run(stmts); err == nil {
		t.Fatal("expected an undefined variable error")
	}
}

func TestIndexOutOfRangeFails(t *testing.T) {
	toks, _ := lexer.New(strings.NewReader("let mut arr: Array<i32> = [1, 2] return arr[5]")).Tokenize()
	stmts, _ := parser.NewParser(toks).Parse()
	if _, err := New(&bytes.Buffer{}).Run(stmts); err == nil {
		t.Fatal("expected an index out of range error")
	}
}
