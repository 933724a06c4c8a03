package compute

import (
	"errors"
	"testing"

	"github.com/vecstream/vsed/internal/device"
	"github.com/vecstream/vsed/internal/nfa"
	"github.com/vecstream/vsed/internal/regexsyntax"
)

func TestFindLiteralBasic(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBackend(cfg)
	buf := []byte("the quick brown fox jumps over the lazy dog, the end")
	res, err := b.FindLiteral(buf, []byte("the"), DispatchOptions{Global: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(res.Matches), res.Matches)
	}
}

func TestFindLiteralTextTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextBytes = 4
	b := NewBackend(cfg)
	_, err := b.FindLiteral([]byte("hello world"), []byte("hello"), DispatchOptions{})
	if err == nil {
		t.Fatal("expected TextTooLarge error")
	}
	var tle *TextTooLargeError
	if !asTextTooLarge(err, &tle) {
		t.Fatalf("expected *TextTooLargeError, got %T: %v", err, err)
	}
}

func asTextTooLarge(err error, target **TextTooLargeError) bool {
	e, ok := err.(*TextTooLargeError)
	if ok {
		*target = e
	}
	return ok
}

func TestBackendUnavailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeviceAvailable = false
	b := NewBackend(cfg)
	_, err := b.FindLiteral([]byte("hello world"), []byte("hello"), DispatchOptions{})
	if err == nil {
		t.Fatal("expected BackendUnavailable error")
	}
}

func TestFindLiteralFirstOnlyPerLine(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBackend(cfg)
	buf := []byte("foo foo\nfoo\n")
	res, err := b.FindLiteral(buf, []byte("foo"), DispatchOptions{Global: true, FirstOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(res.Matches), res.Matches)
	}
}

func TestFindRegexLineParallel(t *testing.T) {
	node, err := regexsyntax.Parse([]byte("[0-9]+"), regexsyntax.Extended, false)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := nfa.Compile(node, false)
	if err != nil {
		t.Fatal(err)
	}
	dp := device.Encode(prog)

	cfg := DefaultConfig()
	b := NewBackend(cfg)
	buf := []byte("a1\nb22\nc333\n")
	res, err := b.FindRegex(buf, dp, DispatchOptions{Global: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(res.Matches), res.Matches)
	}
	wantLines := []int{0, 1, 2}
	for i, m := range res.Matches {
		if m.Line != wantLines[i] {
			t.Errorf("match %d: line = %d, want %d", i, m.Line, wantLines[i])
		}
	}
}

func TestDispatchResultTotalExceedsWrittenOnSaturation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	b := NewBackend(cfg)
	buf := []byte("aaaaaa")
	res, err := b.FindLiteral(buf, []byte("a"), DispatchOptions{Global: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 6 {
		t.Fatalf("Total = %d, want 6", res.Total)
	}
	if res.Written != 2 {
		t.Fatalf("Written = %d, want 2 (saturated)", res.Written)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestConfigValidateReportsConfigError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkgroupSize = 0
	err := cfg.Validate()

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Validate() = %v (%T), want *ConfigError", err, err)
	}
	if cfgErr.Field != "WorkgroupSize" || cfgErr.Got != 0 {
		t.Fatalf("cfgErr = %+v", cfgErr)
	}
	if !errors.Is(err, ErrConfigOutOfRange) {
		t.Fatalf("errors.Is(err, ErrConfigOutOfRange) = false")
	}
}
