// Package literal implements the fixed-string matcher used whenever a
// substitute or delete command's pattern is plain text (spec §4.2): a
// Boyer-Moore-Horspool search with a 256-entry bad-character skip table,
// verified with the wide-vector equality check from internal/simd.
package literal

import (
	"github.com/vecstream/vsed/internal/simd"
)

// Matcher is a compiled BMH searcher for one literal pattern. It implements
// matchspan.Finder.
type Matcher struct {
	pattern    []byte
	foldCase   bool
	skip       [256]int
	lastFolded byte
}

// Compile builds a Matcher for pattern. An empty pattern is valid: it
// matches the zero-length span at every position, per spec §8 invariant 5.
func Compile(pattern []byte, foldCase bool) *Matcher {
	m := &Matcher{
		pattern:  pattern,
		foldCase: foldCase,
	}
	m.buildSkipTable()
	if len(pattern) > 0 {
		last := pattern[len(pattern)-1]
		if foldCase {
			last = simd.Fold(last)
		}
		m.lastFolded = last
	}
	return m
}

// buildSkipTable fills the bad-character table: for each byte, the number
// of positions the window may safely advance when that byte is found at the
// window's final position but does not complete a match. Bytes not present
// in the pattern (besides its last character) get the full pattern length.
func (m *Matcher) buildSkipTable() {
	n := len(m.pattern)
	for i := range m.skip {
		m.skip[i] = n
	}
	if n == 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		b := m.pattern[i]
		if m.foldCase {
			b = simd.Fold(b)
		}
		m.skip[b] = n - 1 - i
	}
}

// FindFrom returns the leftmost match at or after `from`, implementing
// matchspan.Finder.
func (m *Matcher) FindFrom(buf []byte, from int) (start, end int, ok bool) {
	n := len(m.pattern)
	if n == 0 {
		if from > len(buf) {
			return 0, 0, false
		}
		return from, from, true
	}
	if from < 0 {
		from = 0
	}
	limit := len(buf) - n
	pos := from
	for pos <= limit {
		window := pos + n - 1
		last := buf[window]
		folded := last
		if m.foldCase {
			folded = simd.Fold(last)
		}
		if folded == m.lastFolded && simd.Equal(buf[pos:pos+n], m.pattern, m.foldCase) {
			return pos, pos + n, true
		}
		pos += m.skip[folded]
	}
	return 0, 0, false
}

// MatchAt reports whether the pattern matches exactly at pos.
func (m *Matcher) MatchAt(buf []byte, pos int) (end int, ok bool) {
	n := len(m.pattern)
	if pos < 0 || pos+n > len(buf) {
		return 0, false
	}
	if !simd.Equal(buf[pos:pos+n], m.pattern, m.foldCase) {
		return 0, false
	}
	return pos + n, true
}

// Len returns the compiled pattern's byte length.
func (m *Matcher) Len() int { return len(m.pattern) }
