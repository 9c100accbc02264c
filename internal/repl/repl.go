// Package repl implements the interactive read-eval-print loop: each line
// is tokenized, parsed, and evaluated by a single long-lived interpreter
// session, so bindings and function declarations persist across lines the
// way a shell's variables do.
package repl

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"vireo/internal/history"
	"vireo/internal/interp"
	"vireo/internal/lexer"
	"vireo/internal/parser"
)

// Start runs the REPL against stdin/stdout until "exit" or EOF. store may be
// nil, in which case no run history is recorded.
func Start(store *history.Store) {
	fmt.Println("vireo REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)
	session := interp.New(os.Stdout)

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		val, err := evalLine(session, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			if store != nil {
				store.Record("repl-line", "<repl>", false, err.Error())
			}
			continue
		}
		fmt.Println(interp.Render(val))
		if store != nil {
			store.Record("repl-line", "<repl>", true, "")
		}
	}
}

func evalLine(session *interp.Interp, line string) (interp.Value, error) {
	toks, err := lexer.New(strings.NewReader(line)).Tokenize()
	if err != nil {
		return interp.Value{}, err
	}
	stmts, err := parser.NewParser(toks).Parse()
	if err != nil {
		return interp.Value{}, err
	}
	return session.Run(stmts)
}
