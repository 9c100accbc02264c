// cmd/vireoc/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vireo/internal/errors"
	"vireo/internal/history"
	"vireo/internal/interp"
	"vireo/internal/lexer"
	"vireo/internal/mapping"
	"vireo/internal/parser"
	"vireo/internal/printer"
	"vireo/internal/repl"
	"vireo/internal/transpiler"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Printf("vireoc %s\n", version)
	case "repl":
		repl.Start(store)
	case "tokenize":
		runTokenize(rest, store)
	case "ast":
		runAST(rest, store)
	case "transpile":
		runTranspile(rest, store)
	case "run":
		runInterpret(rest, store)
	case "history":
		runHistory(rest, store)
	default:
		fmt.Fprintf(os.Stderr, "vireoc: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("vireoc - SrcLang compiler front-end")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vireoc tokenize <file>                         Print the token stream")
	fmt.Println("  vireoc ast <file>                              Pretty-print the parsed AST")
	fmt.Println("  vireoc transpile <file> [-types f] [-functions f] [-o out]")
	fmt.Println("                                                  Transpile to TgtLang source")
	fmt.Println("  vireoc run <file>                               Interpret and print the result")
	fmt.Println("  vireoc repl                                     Start the interactive REPL")
	fmt.Println("  vireoc history [-n count]                       Show recent compiler-driver runs")
	fmt.Println("  vireoc version                                  Print the version")
}

// openHistory opens the run-history database under $HOME/.vireo and returns
// nil (vireoc then runs without history) on any failure — a missing or
// unwritable home directory should never prevent compilation. Only a failure
// to open the database itself is logged as a warning.
func openHistory() *history.Store {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".vireo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	store, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		log.Printf("vireoc: run history disabled: %v", err)
		return nil
	}
	return store
}

func record(store *history.Store, command, target string, err error) {
	if store == nil {
		return
	}
	detail := ""
	success := err == nil
	if err != nil {
		detail = err.Error()
	}
	store.Record(command, target, success, detail)
}

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("vireoc: cannot read %s: %v", path, err)
	}
	return string(data)
}

func runTokenize(args []string, store *history.Store) {
	if len(args) == 0 {
		log.Fatal("vireoc tokenize: missing file argument")
	}
	path := args[0]
	src := readSource(path)

	toks, err := lexer.New(strings.NewReader(src)).Tokenize()
	record(store, "tokenize", path, err)
	if err != nil {
		fail(err)
	}
	for _, tok := range toks {
		fmt.Println(tok.String())
	}
}

func runAST(args []string, store *history.Store) {
	if len(args) == 0 {
		log.Fatal("vireoc ast: missing file argument")
	}
	path := args[0]
	stmts, err := parseFile(path)
	record(store, "parse", path, err)
	if err != nil {
		fail(err)
	}
	fmt.Print(printer.New().Print(stmts))
}

func runTranspile(args []string, store *history.Store) {
	fs := newFlagArgs(args)
	path := fs.positional(0, "vireoc transpile: missing file argument")
	typesPath := fs.option("-types", "types.csv")
	functionsPath := fs.option("-functions", "functions.csv")
	outPath := fs.option("-o", "")

	stmts, err := parseFile(path)
	if err != nil {
		record(store, "transpile", path, err)
		fail(err)
	}

	tables, err := mapping.Load(typesPath, functionsPath)
	if err != nil {
		record(store, "transpile", path, err)
		fail(err)
	}

	out := transpiler.New(tables).Transpile(stmts)
	record(store, "transpile", path, nil)

	if outPath == "" {
		fmt.Println(out)
		return
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		log.Fatalf("vireoc: cannot write %s: %v", outPath, err)
	}
}

func runInterpret(args []string, store *history.Store) {
	if len(args) == 0 {
		log.Fatal("vireoc run: missing file argument")
	}
	path := args[0]
	stmts, err := parseFile(path)
	if err != nil {
		record(store, "run", path, err)
		fail(err)
	}

	val, err := interp.New(os.Stdout).Run(stmts)
	record(store, "run", path, err)
	if err != nil {
		fail(err)
	}
	fmt.Println(interp.Render(val))
}

func runHistory(args []string, store *history.Store) {
	if store == nil {
		fmt.Println("run history is unavailable")
		return
	}
	fs := newFlagArgs(args)
	n := 20
	if v := fs.option("-n", ""); v != "" {
		fmt.Sscanf(v, "%d", &n)
	}
	runs, err := store.Recent(n)
	if err != nil {
		log.Fatalf("vireoc: history: %v", err)
	}
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "FAILED: " + r.Detail
		}
		fmt.Printf("%s  %-10s %-20s %s\n", r.RanAt.Format(time.RFC3339), r.Command, r.Target, status)
	}
}

func parseFile(path string) ([]parser.Stmt, error) {
	src := readSource(path)
	toks, err := lexer.New(strings.NewReader(src)).Tokenize()
	if err != nil {
		return nil, err
	}
	return parser.NewParser(toks).Parse()
}

func fail(err error) {
	if ve, ok := err.(*errors.VireoError); ok {
		fmt.Fprintln(os.Stderr, ve.Error())
		os.Exit(1)
	}
	log.Fatal(err)
}

// flagArgs is a minimal positional/`-flag value` argument splitter, enough
// for this CLI's handful of subcommand options without pulling in the flag
// package's subcommand-unfriendly global FlagSet model.
type flagArgs struct {
	positionals []string
	options     map[string]string
}

func newFlagArgs(args []string) *flagArgs {
	fa := &flagArgs{options: make(map[string]string)}
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") && i+1 < len(args) {
			fa.options[a] = args[i+1]
			i++
			continue
		}
		fa.positionals = append(fa.positionals, a)
	}
	return fa
}

func (fa *flagArgs) positional(i int, missingMsg string) string {
	if i >= len(fa.positionals) {
		log.Fatal(missingMsg)
	}
	return fa.positionals[i]
}

func (fa *flagArgs) option(name, def string) string {
	if v, ok := fa.options[name]; ok {
		return v
	}
	return def
}
