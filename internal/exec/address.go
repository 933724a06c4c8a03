package exec

import (
	"github.com/samber/lo"

	"github.com/vecstream/vsed/internal/linebuf"
	"github.com/vecstream/vsed/internal/matchspan"
	"github.com/vecstream/vsed/internal/script"
)

// lineSet reports whether a 0-based line number is addressed, resolved
// fresh against the current buffer on every command (spec §4.8 step 1):
// line counts shrink as Delete commands run, so `$` and numeric bounds
// cannot be resolved once at compile time.
type lineSet struct {
	kind       script.AddressKind
	start, end int // 0-based, inclusive, resolved AddrLine/AddrRange bounds
	matched    map[int]bool
}

func resolveAddress(addr script.Address, addrMatcher matchspan.Finder, idx *linebuf.Index, buf []byte) lineSet {
	resolveRef := func(r script.LineRef) int {
		if r.IsLast {
			return idx.Count() - 1
		}
		return r.Line - 1
	}

	switch addr.Kind {
	case script.AddrNone:
		return lineSet{kind: script.AddrNone}
	case script.AddrLine:
		l := resolveRef(addr.Single)
		return lineSet{kind: script.AddrLine, start: l, end: l}
	case script.AddrRange:
		return lineSet{kind: script.AddrRange, start: resolveRef(addr.RangeStart), end: resolveRef(addr.RangeEnd)}
	case script.AddrPattern:
		lines := lo.Range(idx.Count())
		matchedLines := lo.Filter(lines, func(line int, _ int) bool {
			start, end := idx.Span(line + 1)
			_, _, ok := addrMatcher.FindFrom(buf[start:end], 0)
			return ok
		})
		matched := make(map[int]bool, len(matchedLines))
		for _, line := range matchedLines {
			matched[line] = true
		}
		return lineSet{kind: script.AddrPattern, matched: matched}
	}
	return lineSet{kind: script.AddrNone}
}

// contains reports whether 0-based line number is in the resolved set.
func (s lineSet) contains(line int) bool {
	switch s.kind {
	case script.AddrNone:
		return true
	case script.AddrLine, script.AddrRange:
		return line >= s.start && line <= s.end
	case script.AddrPattern:
		return s.matched[line]
	}
	return false
}
