package exec

import (
	"github.com/vecstream/vsed/internal/compute"
	"github.com/vecstream/vsed/internal/matchspan"
	"github.com/vecstream/vsed/internal/regexsyntax"
	"github.com/vecstream/vsed/internal/script"
)

// CompiledCommand is one pipeline step with its matcher(s) already built,
// ready to run against successive buffers (spec §4.8).
type CompiledCommand struct {
	Kind    script.Kind
	Address script.Address

	// AddressMatcher is set only when Address.Kind is AddrPattern.
	AddressMatcher matchspan.Finder

	// Matcher is set for Substitute (the command's own pattern).
	Matcher matchspan.Finder

	Replacement     []byte
	Global          bool
	CaseInsensitive bool
	FirstOnly       bool
	AnchorLineStart bool

	TranslitTable [256]byte

	// LiteralPattern is set when Kind is Substitute and the pattern reduced
	// to a plain literal (regexsyntax.ExtractLiteral succeeded). Used to
	// build the combined prefilter in NewPipeline.
	LiteralPattern []byte
}

// Compile builds one CompiledCommand per parsed script.Command. textSize is
// the size of the buffer this pipeline will first run against — used by the
// backend selector (spec §4.7) to decide host vs device dispatch for each
// command's matcher. bk is the compute backend those device-dispatched
// matchers run against.
func Compile(cmds []script.Command, textSize int, bk *compute.Backend) ([]CompiledCommand, error) {
	out := make([]CompiledCommand, 0, len(cmds))
	for _, c := range cmds {
		cc := CompiledCommand{
			Kind:            c.Kind,
			Address:         c.Address,
			Replacement:     c.Replacement,
			Global:          c.Global,
			CaseInsensitive: c.CaseInsensitive,
			FirstOnly:       c.FirstOnly,
		}

		if c.Address.Kind == script.AddrPattern {
			m, err := compileMatcher(c.Address.Pattern, c.Address.Dialect, false, textSize, bk)
			if err != nil {
				return nil, err
			}
			cc.AddressMatcher = m
		}

		switch c.Kind {
		case script.Substitute:
			m, err := compileMatcher(c.Pattern, c.Dialect, c.CaseInsensitive, textSize, bk)
			if err != nil {
				return nil, err
			}
			cc.Matcher = m
			cc.LiteralPattern, cc.AnchorLineStart = patternShapeOf(c)
		case script.Transliterate:
			cc.TranslitTable = transliterateTable(c.TranslitFrom, c.TranslitTo)
		}

		out = append(out, cc)
	}
	return out, nil
}

// patternShapeOf re-parses a Substitute command's pattern to recover two
// properties compileMatcher's own parse already determined internally but
// did not surface: the literal byte sequence the pattern reduces to, if any
// (used to build the combined prefilter in NewPipeline), and whether the
// pattern is outermost-anchored at `^` (spec §4.3's anchored-start — the
// condition under which spec §4.2's traversal policy restricts candidate
// positions to line starts instead of probing every byte offset).
func patternShapeOf(c script.Command) (literal []byte, anchoredStart bool) {
	rxDialect := regexsyntax.Basic
	if c.Dialect == script.RegexExtended {
		rxDialect = regexsyntax.Extended
	}
	node, err := regexsyntax.Parse(c.Pattern, rxDialect, c.CaseInsensitive)
	if err != nil {
		return nil, false
	}
	lit, _, _ := regexsyntax.ExtractLiteral(node)
	return lit, startsWithAnchor(node)
}

// startsWithAnchor reports whether node begins with an outermost ^, mirroring
// internal/nfa's own anchored-start detection used to build Program.AnchoredStart.
func startsWithAnchor(node regexsyntax.Node) bool {
	switch v := node.(type) {
	case regexsyntax.StartAnchor:
		return true
	case regexsyntax.Concat:
		if len(v.Subs) == 0 {
			return false
		}
		return startsWithAnchor(v.Subs[0])
	case regexsyntax.Group:
		return startsWithAnchor(v.Sub)
	}
	return false
}
