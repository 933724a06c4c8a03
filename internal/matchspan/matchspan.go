// Package matchspan defines the match record shared by every matcher
// (literal, host regex, device regex) and the line-oriented traversal
// policy that turns a matcher's raw find primitive into a stream of
// per-line match records.
//
// Line numbers on Match are 0-based internally, per spec §3; callers that
// surface line numbers externally (e.g. -V diagnostics) convert to 1-based.
package matchspan

import "github.com/vecstream/vsed/internal/simd"

// Match is one matcher hit: the half-open byte range [Start, End) in the
// searched buffer, and the 0-based line it falls on.
type Match struct {
	Start, End int
	Line       int
}

// Len returns the byte length of the match.
func (m Match) Len() int { return m.End - m.Start }

// Finder is the primitive every matcher (literal BMH, host PikeVM, device
// dispatch's post-pass consumer) implements. It knows nothing about lines,
// addresses, or flags beyond case-folding — Scan layers the per-line policy
// from spec §4.2/§4.4 on top.
type Finder interface {
	// FindFrom returns the leftmost match starting at or after `from` in buf.
	// ok is false when no further match exists.
	FindFrom(buf []byte, from int) (start, end int, ok bool)

	// MatchAt reports whether the pattern matches starting exactly at pos,
	// returning the match end if so. Used for anchor-at-line-start mode,
	// where only line-start positions are ever tried.
	MatchAt(buf []byte, pos int) (end int, ok bool)
}

// Options controls the traversal policy shared by the literal and regex
// host matchers (spec §4.2, §4.4).
type Options struct {
	// Global applies the matcher to every non-overlapping match in a line.
	Global bool

	// FirstOnly collapses to at most one match per line regardless of Global.
	FirstOnly bool

	// AnchorLineStart restricts candidate positions to line starts.
	AnchorLineStart bool
}

// Scan drives Finder over buf according to opts, producing match records in
// ascending start order. It implements the traversal policy from spec §4.2:
// a monotonic line counter, anchor-at-line-start gating, and the
// global/first-only advance rules. A zero-length match always advances the
// search position by at least one byte, satisfying invariant 5 in spec §8.
func Scan(buf []byte, f Finder, opts Options) []Match {
	var out []Match
	n := len(buf)
	pos := 0
	line := 0
	lastCounted := 0
	lineStart := 0
	matchedThisLine := false

	advanceLine := func(upto int) {
		line += simd.CountNewlines(buf, lastCounted, upto)
		lastCounted = upto
	}

	nextLineStart := func(from int) int {
		idx := simd.IndexByte(buf, from, '\n')
		if idx == -1 {
			return n
		}
		return idx + 1
	}

	for pos <= n {
		if opts.AnchorLineStart {
			if pos != lineStart {
				pos = nextLineStart(pos)
				if pos > n {
					break
				}
				advanceLine(pos)
				lineStart = pos
				matchedThisLine = false
				continue
			}
			end, ok := f.MatchAt(buf, pos)
			if !ok {
				ls := nextLineStart(pos)
				if ls <= pos {
					break
				}
				advanceLine(ls)
				lineStart = ls
				pos = ls
				matchedThisLine = false
				continue
			}
			advanceLine(pos)
			if opts.FirstOnly && matchedThisLine {
				ls := nextLineStart(pos)
				advanceLine(ls)
				lineStart = ls
				pos = ls
				matchedThisLine = false
				continue
			}
			out = append(out, Match{Start: pos, End: end, Line: line})
			matchedThisLine = true
			if opts.Global && !opts.FirstOnly {
				pos = advancePast(pos, end)
			} else {
				ls := nextLineStart(pos)
				advanceLine(ls)
				lineStart = ls
				pos = ls
				matchedThisLine = false
			}
			continue
		}

		start, end, ok := f.FindFrom(buf, pos)
		if !ok {
			break
		}
		advanceLine(start)
		curLine := line
		if opts.FirstOnly && matchedThisLineFor(out, curLine) {
			pos = advancePast(start, end)
			continue
		}
		out = append(out, Match{Start: start, End: end, Line: curLine})
		if opts.Global && !opts.FirstOnly {
			pos = advancePast(start, end)
			continue
		}
		// Not global: first-per-line. Skip to the next line start.
		ls := nextLineStart(start)
		advanceLine(ls)
		pos = ls
	}

	return out
}

// advancePast returns the next search position after a match [start,end),
// guaranteeing forward progress for zero-length matches.
func advancePast(start, end int) int {
	if end > start {
		return end
	}
	return start + 1
}

// matchedThisLineFor reports whether the last recorded match (if any) is on
// the same line as curLine, used by the unanchored first-only policy.
func matchedThisLineFor(out []Match, curLine int) bool {
	if len(out) == 0 {
		return false
	}
	return out[len(out)-1].Line == curLine
}
