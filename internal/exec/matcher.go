package exec

import (
	"github.com/vecstream/vsed/internal/backend"
	"github.com/vecstream/vsed/internal/compute"
	"github.com/vecstream/vsed/internal/device"
	"github.com/vecstream/vsed/internal/literal"
	"github.com/vecstream/vsed/internal/matchspan"
	"github.com/vecstream/vsed/internal/nfa"
	"github.com/vecstream/vsed/internal/regexsyntax"
	"github.com/vecstream/vsed/internal/script"
)

// compileMatcher builds the matchspan.Finder for one pattern, choosing
// between the literal fast path and the regex NFA per spec §1 and §4.7:
// every pattern is parsed as a regex first; if its AST reduces to a plain
// literal byte sequence, the BMH matcher is used instead of compiling an
// NFA. backend.Select then decides, from the pipeline's input size and the
// resolved pattern kind, whether this matcher runs host-side or is
// dispatched through the compute backend.
func compileMatcher(pattern []byte, dialect script.Dialect, caseInsensitive bool, textSize int, bk *compute.Backend) (matchspan.Finder, error) {
	rxDialect := regexsyntax.Basic
	if dialect == script.RegexExtended {
		rxDialect = regexsyntax.Extended
	}
	node, err := regexsyntax.Parse(pattern, rxDialect, caseInsensitive)
	if err != nil {
		return nil, err
	}

	if lit, fold, ok := regexsyntax.ExtractLiteral(node); ok {
		strategy := backend.Select(textSize, len(lit), backend.Literal, bk.Available())
		m := literal.Compile(lit, fold)
		if strategy == backend.DeviceLiteral {
			return &deviceLiteralFinder{backend: bk, pattern: lit, foldCase: fold, host: m}, nil
		}
		return m, nil
	}

	prog, err := nfa.Compile(node, caseInsensitive)
	if err != nil {
		return nil, err
	}
	strategy := backend.Select(textSize, len(pattern), backend.Regex, bk.Available())
	if strategy == backend.DeviceRegex {
		return &deviceRegexFinder{backend: bk, program: device.Encode(prog), host: nfa.New(prog)}, nil
	}
	return nfa.New(prog), nil
}

// deviceLiteralFinder dispatches through the compute backend's literal
// kernel, falling back to the host BMH matcher on a recoverable dispatch
// error (spec §7: BackendUnavailable/TextTooLarge are never fatal).
type deviceLiteralFinder struct {
	backend  *compute.Backend
	pattern  []byte
	foldCase bool
	host     matchspan.Finder
}

func (f *deviceLiteralFinder) FindFrom(buf []byte, from int) (int, int, bool) {
	res, err := f.backend.FindLiteral(buf[from:], f.pattern, compute.DispatchOptions{
		CaseInsensitive: f.foldCase,
		Global:          true,
	})
	if err != nil {
		return f.host.FindFrom(buf, from)
	}
	if len(res.Matches) == 0 {
		return 0, 0, false
	}
	m := res.Matches[0]
	return m.Start + from, m.End + from, true
}

func (f *deviceLiteralFinder) MatchAt(buf []byte, pos int) (int, bool) {
	start, end, ok := f.FindFrom(buf, pos)
	if !ok || start != pos {
		return 0, false
	}
	return end, true
}

// deviceRegexFinder dispatches through the compute backend's flattened-NFA
// regex kernel, with the same host fallback policy as deviceLiteralFinder.
type deviceRegexFinder struct {
	backend *compute.Backend
	program *device.Program
	host    matchspan.Finder
}

func (f *deviceRegexFinder) FindFrom(buf []byte, from int) (int, int, bool) {
	res, err := f.backend.FindRegex(buf[from:], f.program, compute.DispatchOptions{Global: true})
	if err != nil {
		return f.host.FindFrom(buf, from)
	}
	if len(res.Matches) == 0 {
		return 0, 0, false
	}
	m := res.Matches[0]
	return m.Start + from, m.End + from, true
}

func (f *deviceRegexFinder) MatchAt(buf []byte, pos int) (int, bool) {
	start, end, ok := f.FindFrom(buf, pos)
	if !ok || start != pos {
		return 0, false
	}
	return end, true
}
