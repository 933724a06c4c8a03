package regexsyntax

import "testing"

func TestParseLiteralConcat(t *testing.T) {
	n, err := Parse([]byte("abc"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := n.(Concat)
	if !ok || len(c.Subs) != 3 {
		t.Fatalf("got %#v", n)
	}
}

func TestParseExtendedMeta(t *testing.T) {
	n, err := Parse([]byte("ab+c?"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := n.(Concat)
	if !ok || len(c.Subs) != 3 {
		t.Fatalf("got %#v", n)
	}
	if _, ok := c.Subs[1].(Plus); !ok {
		t.Fatalf("expected Plus, got %#v", c.Subs[1])
	}
	if _, ok := c.Subs[2].(Quest); !ok {
		t.Fatalf("expected Quest, got %#v", c.Subs[2])
	}
}

func TestParseBasicLiteralPlus(t *testing.T) {
	// In basic dialect, unescaped '+' is literal.
	n, err := Parse([]byte("a+"), Basic, false)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := n.(Concat)
	if !ok || len(c.Subs) != 2 {
		t.Fatalf("got %#v", n)
	}
	lit, ok := c.Subs[1].(Literal)
	if !ok || lit.Byte != '+' {
		t.Fatalf("expected literal '+', got %#v", c.Subs[1])
	}
}

func TestParseBasicEscapedPlusIsMeta(t *testing.T) {
	n, err := Parse([]byte(`a\+`), Basic, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(Plus); !ok {
		t.Fatalf("expected Plus, got %#v", n)
	}
}

func TestParseAlternation(t *testing.T) {
	n, err := Parse([]byte("foo|bar"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	alt, ok := n.(Alternate)
	if !ok || len(alt.Subs) != 2 {
		t.Fatalf("got %#v", n)
	}
}

func TestParseGroupExtended(t *testing.T) {
	n, err := Parse([]byte("(ab)+"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	plus, ok := n.(Plus)
	if !ok {
		t.Fatalf("expected Plus, got %#v", n)
	}
	if _, ok := plus.Sub.(Group); !ok {
		t.Fatalf("expected Group inside Plus, got %#v", plus.Sub)
	}
}

func TestParseClassRangeAndNegate(t *testing.T) {
	n, err := Parse([]byte("[a-c]"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	cls, ok := n.(Class)
	if !ok {
		t.Fatalf("got %#v", n)
	}
	for _, b := range []byte("abc") {
		if !cls.Bitmap[b] {
			t.Errorf("expected %q in class", b)
		}
	}
	if cls.Bitmap['d'] {
		t.Error("did not expect 'd' in class")
	}

	n2, err := Parse([]byte("[^a-c]"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	cls2 := n2.(Class)
	if cls2.Bitmap['a'] || !cls2.Bitmap['d'] {
		t.Errorf("negated class wrong: %#v", cls2)
	}
}

func TestParseShorthandClasses(t *testing.T) {
	n, err := Parse([]byte(`\d`), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	cls := n.(Class)
	if !cls.Bitmap['5'] || cls.Bitmap['a'] {
		t.Errorf("digit class wrong: %#v", cls)
	}
}

func TestParseBraceRepeat(t *testing.T) {
	n, err := Parse([]byte("a{2,4}"), Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	rep, ok := n.(Repeat)
	if !ok || rep.Min != 2 || rep.Max != 4 {
		t.Fatalf("got %#v", n)
	}
}

func TestParseUnbalancedGroupError(t *testing.T) {
	_, err := Parse([]byte("(ab"), Extended, false)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseUnbalancedClassError(t *testing.T) {
	_, err := Parse([]byte("[ab"), Extended, false)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseInvalidRangeError(t *testing.T) {
	_, err := Parse([]byte("[z-a]"), Extended, false)
	if err == nil {
		t.Fatal("expected error")
	}
}
