package script

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseSubstituteBasic(t *testing.T) {
	cmds, err := ParseScript([]string{"s/foo/bar/g"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 1 {
		t.Fatalf("len(cmds) = %d", len(cmds))
	}
	c := cmds[0]
	if c.Kind != Substitute || string(c.Pattern) != "foo" || string(c.Replacement) != "bar" || !c.Global {
		t.Fatalf("cmd = %+v", c)
	}
	if c.Address.Kind != AddrNone {
		t.Fatalf("expected no address, got %+v", c.Address)
	}
}

func TestParseSubstituteWithLineAddress(t *testing.T) {
	cmds, err := ParseScript([]string{"3s/a/b/"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Address.Kind != AddrLine || c.Address.Single.Line != 3 {
		t.Fatalf("address = %+v", c.Address)
	}
}

func TestParseSubstituteWithRangeAddress(t *testing.T) {
	cmds, err := ParseScript([]string{"2,$s/a/b/"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Address.Kind != AddrRange || c.Address.RangeStart.Line != 2 || !c.Address.RangeEnd.IsLast {
		t.Fatalf("address = %+v", c.Address)
	}
}

func TestParseSubstituteAlternateDelimiter(t *testing.T) {
	cmds, err := ParseScript([]string{"s#/usr/bin#/usr/local/bin#"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if string(c.Pattern) != "/usr/bin" || string(c.Replacement) != "/usr/local/bin" {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseSubstituteFlags(t *testing.T) {
	cmds, err := ParseScript([]string{"s/a/b/gi"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if !c.Global || !c.CaseInsensitive {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseSubstituteUnknownFlagIgnored(t *testing.T) {
	cmds, err := ParseScript([]string{"s/a/b/gz"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !cmds[0].Global {
		t.Fatalf("cmd = %+v", cmds[0])
	}
}

func TestParseSubstituteEscapes(t *testing.T) {
	cmds, err := ParseScript([]string{`s/a\nb/x\ty\\z\&w/`}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if string(c.Pattern) != "a\nb" {
		t.Fatalf("pattern = %q", c.Pattern)
	}
	// \& is deliberately left as the raw two bytes here — see Expand, which
	// is the one that must tell \& apart from a bare &.
	if string(c.Replacement) != "x\ty\\z\\&w" {
		t.Fatalf("replacement = %q", c.Replacement)
	}
}

func TestExpandEscapedAmpersandIsLiteral(t *testing.T) {
	cmds, err := ParseScript([]string{`s/foo/X\&Y/`}, false)
	if err != nil {
		t.Fatal(err)
	}
	got := Expand(cmds[0].Replacement, []byte("foo"))
	if string(got) != "X&Y" {
		t.Fatalf("Expand = %q, want %q", got, "X&Y")
	}
}

func TestExpandBareAmpersandInsertsMatch(t *testing.T) {
	cmds, err := ParseScript([]string{`s/foo/X&Y/`}, false)
	if err != nil {
		t.Fatal(err)
	}
	got := Expand(cmds[0].Replacement, []byte("foo"))
	if string(got) != "XfooY" {
		t.Fatalf("Expand = %q, want %q", got, "XfooY")
	}
}

func TestExpandMixedEscapedAndBareAmpersand(t *testing.T) {
	cmds, err := ParseScript([]string{`s/foo/\&&\&/`}, false)
	if err != nil {
		t.Fatal(err)
	}
	got := Expand(cmds[0].Replacement, []byte("foo"))
	if string(got) != "&foo&" {
		t.Fatalf("Expand = %q, want %q", got, "&foo&")
	}
}

func TestParseSubstitutePreservesRegexMetaEscape(t *testing.T) {
	cmds, err := ParseScript([]string{`s/a\+/x/`}, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(cmds[0].Pattern) != `a\+` {
		t.Fatalf("pattern = %q", cmds[0].Pattern)
	}
}

func TestParseDelete(t *testing.T) {
	cmds, err := ParseScript([]string{"3d"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Kind != Delete || c.Address.Kind != AddrLine || c.Address.Single.Line != 3 {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseDeleteBareNoAddressFails(t *testing.T) {
	_, err := ParseScript([]string{"d"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrEmptyPatternWithNoAddress) {
		t.Fatalf("err = %v", err)
	}
}

func TestParsePrintRangeAddress(t *testing.T) {
	cmds, err := ParseScript([]string{"1,3p"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Kind != Print || c.Address.Kind != AddrRange {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseAddressedPatternDelete(t *testing.T) {
	cmds, err := ParseScript([]string{"/TODO/d"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Kind != Delete || c.Address.Kind != AddrPattern || string(c.Address.Pattern) != "TODO" {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseAddressedPatternPrint(t *testing.T) {
	cmds, err := ParseScript([]string{"/foo/p"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if cmds[0].Kind != Print {
		t.Fatalf("cmd = %+v", cmds[0])
	}
}

func TestParseTransliterate(t *testing.T) {
	cmds, err := ParseScript([]string{"y/abc/xyz/"}, false)
	if err != nil {
		t.Fatal(err)
	}
	c := cmds[0]
	if c.Kind != Transliterate || !bytes.Equal(c.TranslitFrom, []byte("abc")) || !bytes.Equal(c.TranslitTo, []byte("xyz")) {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseTransliterateLengthMismatch(t *testing.T) {
	_, err := ParseScript([]string{"y/abc/xy/"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrMalformedTransliterate) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseMalformedSubstituteUnterminated(t *testing.T) {
	_, err := ParseScript([]string{"s/foo/bar"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrMalformedExpression) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseEmptyPatternSubstituteWithNoAddressFails(t *testing.T) {
	_, err := ParseScript([]string{"s///"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrEmptyPatternWithNoAddress) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseExtendedDialectPropagates(t *testing.T) {
	cmds, err := ParseScript([]string{"s/a+/b/"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if cmds[0].Dialect != RegexExtended {
		t.Fatalf("dialect = %v", cmds[0].Dialect)
	}
}

func TestParseHoldSpaceCommandUnsupported(t *testing.T) {
	_, err := ParseScript([]string{"1h"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrUnsupportedCommand) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseAppendCommandUnsupported(t *testing.T) {
	_, err := ParseScript([]string{"1a"}, false)
	var se *Error
	if !errors.As(err, &se) || !errors.Is(se.Kind, ErrUnsupportedCommand) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseMultipleExpressions(t *testing.T) {
	cmds, err := ParseScript([]string{"s/foo/X/", "s/bar/Y/"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 2 {
		t.Fatalf("len(cmds) = %d", len(cmds))
	}
}
