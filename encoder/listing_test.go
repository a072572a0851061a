package encoder_test

import (
	"strings"
	"testing"

	"github.com/Matthew-McRaven/pep10/encoder"
	"github.com/Matthew-McRaven/pep10/parser"
)

func generateListing(t *testing.T, source string) []string {
	t.Helper()
	tree := parser.Parse(source, nil, nil)
	ir, errs := encoder.Generate(tree)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	return encoder.Listing(ir)
}

func TestListing_Unary(t *testing.T) {
	lines := generateListing(t, "cat: RET\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if got := strings.TrimRight(lines[0], " "); got != "0000 01     cat:   RET" {
		t.Errorf("unexpected listing %q", got)
	}
}

func TestListing_Nonunary(t *testing.T) {
	lines := generateListing(t, "ADDA 0x10,d\n")
	if got := strings.TrimRight(lines[0], " "); got != "0000 510010        ADDA   0x0010,d" {
		t.Errorf("unexpected listing %q", got)
	}
}

func TestListing_NoBytesColumn(t *testing.T) {
	lines := generateListing(t, ";only a comment\n")
	// Six blank columns where bytes would go, then the empty source fields.
	want := "0000" + strings.Repeat(" ", 34) + ";only a comment"
	if got := strings.TrimRight(lines[0], " "); got != want {
		t.Errorf("unexpected listing %q", got)
	}
}

func TestListing_ContinuationRows(t *testing.T) {
	lines := generateListing(t, ".ASCII \"hello\"\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "0000 6865 ") && !strings.HasPrefix(lines[0], "0000 6865  ") {
		t.Errorf("unexpected first row %q", lines[0])
	}
	if got := strings.TrimRight(lines[1], " "); got != "     6C6C6F" {
		t.Errorf("unexpected continuation row %q", got)
	}
}

func TestListing_ErrorLine(t *testing.T) {
	tree := parser.Parse("RETS\n", nil, nil)
	ir, _ := encoder.Generate(tree)
	lines := encoder.Listing(ir)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	want := "            ;ERROR: Unrecognized mnemonic: RETS"
	if got := strings.TrimRight(lines[0], " "); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListing_Program(t *testing.T) {
	lines := generateListing(t, "cat:BR 3,i\ndog:ADDA 0x10,d\nCALL cat,i\n")
	want := []string{
		"0000 240003 cat:   BR     3,i",
		"0003 510010 dog:   ADDA   0x0010,d",
		"0006 360000        CALL   cat,i",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if got := strings.TrimRight(lines[i], " "); got != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestSourceLines_Idempotence(t *testing.T) {
	source := "cat:BR 3,i ;jump\n\n;note\ndog:ADDA 0x10,d\n.ASCII \"hi\"\n"
	first := parser.Parse(source, nil, nil)
	reprinted := strings.Join(encoder.SourceLines(first), "\n") + "\n"
	second := parser.Parse(reprinted, parser.NewSymbolTable(), nil)

	if len(first) != len(second) {
		t.Fatalf("expected %d nodes, got %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Source() != second[i].Source() {
			t.Errorf("node %d: %q != %q", i, first[i].Source(), second[i].Source())
		}
	}
}
