package nfa

import (
	"testing"

	"github.com/vecstream/vsed/internal/regexsyntax"
)

func compilePattern(t *testing.T, pattern string, dialect regexsyntax.Dialect, fold bool) *Program {
	t.Helper()
	node, err := regexsyntax.Parse([]byte(pattern), dialect, fold)
	if err != nil {
		t.Fatalf("parse(%q): %v", pattern, err)
	}
	prog, err := Compile(node, fold)
	if err != nil {
		t.Fatalf("compile(%q): %v", pattern, err)
	}
	return prog
}

func TestMatcherLiteralFind(t *testing.T) {
	prog := compilePattern(t, "abc", regexsyntax.Extended, false)
	m := New(prog)
	start, end, ok := m.FindFrom([]byte("xxabcxx"), 0)
	if !ok || start != 2 || end != 5 {
		t.Fatalf("FindFrom = (%d,%d,%v), want (2,5,true)", start, end, ok)
	}
}

func TestMatcherStarGreedy(t *testing.T) {
	prog := compilePattern(t, "a*", regexsyntax.Extended, false)
	m := New(prog)
	// Searching from offset 1: at offset 0 the leftmost match of a* is the
	// empty match at 0.
	start, end, ok := m.FindFrom([]byte("xaaab"), 1)
	if !ok || start != 1 || end != 4 {
		t.Fatalf("FindFrom = (%d,%d,%v), want (1,4,true)", start, end, ok)
	}
}

func TestMatcherAlternation(t *testing.T) {
	prog := compilePattern(t, "cat|dog", regexsyntax.Extended, false)
	m := New(prog)
	_, _, ok := m.FindFrom([]byte("I have a dog"), 0)
	if !ok {
		t.Fatal("expected match for alternation")
	}
}

func TestMatcherAnchors(t *testing.T) {
	prog := compilePattern(t, "^abc$", regexsyntax.Extended, false)
	m := New(prog)
	if _, ok := m.MatchAt([]byte("abc"), 0); !ok {
		t.Fatal("expected anchored match")
	}
	if _, ok := m.MatchAt([]byte("abcd"), 0); ok {
		t.Fatal("expected no match: trailing content before end anchor")
	}
}

func TestMatcherClassAndPlus(t *testing.T) {
	prog := compilePattern(t, "[0-9]+", regexsyntax.Extended, false)
	m := New(prog)
	start, end, ok := m.FindFrom([]byte("abc123def"), 0)
	if !ok || start != 3 || end != 6 {
		t.Fatalf("FindFrom = (%d,%d,%v), want (3,6,true)", start, end, ok)
	}
}

func TestMatcherShorthandWordBoundary(t *testing.T) {
	prog := compilePattern(t, `\bcat\b`, regexsyntax.Extended, false)
	m := New(prog)
	if _, _, ok := m.FindFrom([]byte("concatenate"), 0); ok {
		t.Fatal("did not expect a match inside a larger word")
	}
	if _, _, ok := m.FindFrom([]byte("a cat sat"), 0); !ok {
		t.Fatal("expected a match on a standalone word")
	}
}

func TestMatcherBasicDialectLiteralPlus(t *testing.T) {
	prog := compilePattern(t, "a+", regexsyntax.Basic, false)
	m := New(prog)
	start, end, ok := m.FindFrom([]byte("xa+y"), 0)
	if !ok || start != 1 || end != 3 {
		t.Fatalf("basic dialect '+' should be literal: got (%d,%d,%v)", start, end, ok)
	}
}

func TestMatcherCaseInsensitive(t *testing.T) {
	node, err := regexsyntax.Parse([]byte("hello"), regexsyntax.Extended, true)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := Compile(node, true)
	if err != nil {
		t.Fatal(err)
	}
	m := New(prog)
	if _, _, ok := m.FindFrom([]byte("HELLO"), 0); !ok {
		t.Fatal("expected case-insensitive match")
	}
}

func TestMatcherStateLimitExceeded(t *testing.T) {
	// A long mandatory repeat count forces state duplication past the cap.
	node, err := regexsyntax.Parse([]byte("a{300}"), regexsyntax.Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compile(node, false); err == nil {
		t.Fatal("expected StateLimitExceeded error")
	}
}
