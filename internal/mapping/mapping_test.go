package mapping

import "testing"

func TestLoadAndLookup(t *testing.T) {
	tbl, err := Load("../../testdata/types.csv", "../../testdata/functions.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	entry, ok := tbl.LookupType("i32")
	if !ok || entry.TgtName != "int32_t" || entry.Header != "cstdint" {
		t.Fatalf("unexpected i32 entry: %+v ok=%v", entry, ok)
	}

	if _, ok := tbl.LookupType("does_not_exist"); ok {
		t.Fatal("expected lookup miss for unknown type")
	}

	header, ok := tbl.LookupFunction("std::println")
	if !ok || header != "print" {
		t.Fatalf("unexpected std::println header: %q ok=%v", header, ok)
	}
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	if _, err := Load("nope.csv", "../../testdata/functions.csv"); err == nil {
		t.Fatal("expected an OpenFailed error")
	}
}
