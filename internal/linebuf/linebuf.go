// Package linebuf provides the lazy line index over a byte buffer described
// in spec §3: a derived mapping from line number to (start offset, length).
// Lines are '\n'-terminated runs; a trailing fragment without a terminating
// newline counts as the last line.
//
// Line numbers are 1-based in this package's public API (Count, Span) to
// match the CLI-facing numeric addresses of spec §4.1 (e.g. "2,4d"); callers
// working with internal 0-based match-record line numbers (spec §3) convert
// at the boundary.
package linebuf

import "github.com/vecstream/vsed/internal/simd"

// Index is the line offset table for one buffer, built in full by New.
type Index struct {
	buf    []byte
	starts []int // starts[i] = offset of line i+1 (0-based slice, 1-based line number)
}

// New builds an Index over buf. Construction is O(n) and occurs once per
// command invocation, per spec §3's lifecycle note.
func New(buf []byte) *Index {
	idx := &Index{buf: buf}
	idx.starts = append(idx.starts, 0)
	pos := 0
	for {
		nl := simd.IndexByte(buf, pos, '\n')
		if nl == -1 {
			break
		}
		pos = nl + 1
		if pos < len(buf) {
			idx.starts = append(idx.starts, pos)
		}
	}
	return idx
}

// Count returns the number of lines in the buffer. An empty buffer has zero
// lines; a buffer with content but no trailing newline still counts its
// final fragment as one line.
func (idx *Index) Count() int {
	if len(idx.buf) == 0 {
		return 0
	}
	return len(idx.starts)
}

// Span returns the half-open byte range [start, end) of the given 1-based
// line number. Panics if n is out of [1, Count()].
func (idx *Index) Span(n int) (start, end int) {
	start = idx.starts[n-1]
	if n < len(idx.starts) {
		end = idx.starts[n]
	} else {
		end = len(idx.buf)
	}
	return start, end
}

// LineAt returns the 1-based line number containing byte offset pos.
func (idx *Index) LineAt(pos int) int {
	// binary search over starts
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
