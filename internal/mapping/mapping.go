// Package mapping loads the two static lookup tables the transpiler
// consults: SrcLang type name to {TgtLang name, header}, and qualified
// std-call name to header. Both are delimited text, `;`-separated, with a
// header row — the same shape the teacher loads dataframes and report rows
// from in internal/dataframe/dataframe.go, so this package reaches for the
// standard library's encoding/csv rather than a third-party CSV reader,
// using its Comma field to switch the delimiter.
package mapping

import (
	"encoding/csv"
	"io"
	"os"

	"vireo/internal/errors"
)

// TypeEntry is one row of types.csv: a SrcLang type name maps to a TgtLang
// name and, optionally, a header that must be included to use it.
type TypeEntry struct {
	TgtName string
	Header  string
}

// Tables holds both mapping tables, read-only after construction and safe
// to share by reference across multiple transpiler instances.
type Tables struct {
	types     map[string]TypeEntry
	functions map[string]string
}

// ArraySentinel is the mapped TgtLang name (types.csv maps `Array` to
// itself) that triggers the transpiler's array-declaration rewrite
// (`T ident[]` instead of `Array<T> ident`).
const ArraySentinel = "Array"

// Load reads typesPath and functionsPath and builds the combined table.
// Either file failing to open or containing a malformed row is fatal.
func Load(typesPath, functionsPath string) (*Tables, error) {
	types, err := loadTypes(typesPath)
	if err != nil {
		return nil, err
	}
	functions, err := loadFunctions(functionsPath)
	if err != nil {
		return nil, err
	}
	return &Tables{types: types, functions: functions}, nil
}

func loadTypes(path string) (map[string]TypeEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMappingError(errors.OpenFailed, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 3

	if _, err := r.Read(); err != nil { // header row
		return nil, errors.NewMappingError(errors.MalformedRow, path)
	}

	out := make(map[string]TypeEntry)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewMappingError(errors.MalformedRow, path)
		}
		out[row[0]] = TypeEntry{TgtName: row[1], Header: row[2]}
	}
	return out, nil
}

func loadFunctions(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMappingError(errors.OpenFailed, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 2

	if _, err := r.Read(); err != nil { // header row
		return nil, errors.NewMappingError(errors.MalformedRow, path)
	}

	out := make(map[string]string)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewMappingError(errors.MalformedRow, path)
		}
		out[row[0]] = row[1]
	}
	return out, nil
}

// LookupType returns the mapped entry for a SrcLang type name. Missing
// entries are not fatal: ok is false and the caller (the transpiler) falls
// back to emitting the name verbatim with no header.
func (t *Tables) LookupType(name string) (TypeEntry, bool) {
	e, ok := t.types[name]
	return e, ok
}

// LookupFunction returns the header required for a qualified std-call name
// (e.g. "std::println").
func (t *Tables) LookupFunction(qualifiedName string) (string, bool) {
	h, ok := t.functions[qualifiedName]
	return h, ok
}
