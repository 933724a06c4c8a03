package nfa

import "github.com/vecstream/vsed/internal/simd"

// Matcher simulates a Program using the two-work-set PikeVM style described
// in spec §4.4: a current/next thread list advanced one byte at a time, with
// epsilon closure resolving splits and anchors before each byte is
// consumed. It implements matchspan.Finder.
type Matcher struct {
	prog *Program
}

// New returns a Matcher for prog.
func New(prog *Program) *Matcher { return &Matcher{prog: prog} }

// thread is one live simulation path: the NFA state it is waiting in, and
// the byte position where this path's match attempt began.
type thread struct {
	state StateID
	start int
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isLineStart(buf []byte, pos int, prevByte int) bool {
	return pos == 0 || prevByte == '\n'
}

func isLineEnd(buf []byte, pos int) bool {
	return pos == len(buf) || buf[pos] == '\n'
}

func isWordBoundary(buf []byte, pos int, prevByte int) bool {
	before := prevByte != -1 && isWordByte(byte(prevByte))
	after := pos < len(buf) && isWordByte(buf[pos])
	return before != after
}

// closure expands seeds through epsilon transitions (splits and anchors),
// appending consuming states (literal/any-byte/class) to frontier in
// priority order. It reports the earliest seed start that reached an
// accept state, if any, during this expansion.
func (m *Matcher) closure(buf []byte, pos int, prevByte int, seeds []thread, frontier *[]thread) (matchStart int, matched bool) {
	var visited [MaxStates]bool
	list := make([]thread, 0, len(seeds))
	for i := len(seeds) - 1; i >= 0; i-- {
		list = append(list, seeds[i])
	}
	matchStart = -1
	for len(list) > 0 {
		th := list[len(list)-1]
		list = list[:len(list)-1]
		if visited[th.state] {
			continue
		}
		visited[th.state] = true
		st := m.prog.States[th.state]
		switch st.Kind {
		case KindSplit:
			list = append(list, thread{st.Out2, th.start}, thread{st.Out1, th.start})
		case KindLineStart:
			if isLineStart(buf, pos, prevByte) {
				list = append(list, thread{st.Out1, th.start})
			}
		case KindLineEnd:
			if isLineEnd(buf, pos) {
				list = append(list, thread{st.Out1, th.start})
			}
		case KindWordBoundary:
			if isWordBoundary(buf, pos, prevByte) {
				list = append(list, thread{st.Out1, th.start})
			}
		case KindAccept:
			if !matched || th.start < matchStart {
				matchStart = th.start
				matched = true
			}
		default: // KindLiteral, KindAnyByte, KindClass: consuming states
			*frontier = append(*frontier, th)
		}
	}
	return matchStart, matched
}

// consumes reports whether state st accepts byte b, and if so the state it
// transitions to.
func (m *Matcher) consumes(st State, b byte) (StateID, bool) {
	switch st.Kind {
	case KindLiteral:
		want, got := st.Byte, b
		if st.Fold {
			want, got = simd.Fold(want), simd.Fold(got)
		}
		if want == got {
			return st.Out1, true
		}
	case KindAnyByte:
		if b != '\n' {
			return st.Out1, true
		}
	case KindClass:
		if m.prog.Classes[st.ClassIdx][b] {
			return st.Out1, true
		}
	}
	return None, false
}

// search is the shared leftmost-longest engine. When anchoredOnly is true,
// the start state is seeded only once, at `from`; callers use this for
// MatchAt. Otherwise the start state is re-seeded at every position until a
// match is found, implementing unanchored find semantics.
func (m *Matcher) search(buf []byte, from int, anchoredOnly bool) (start, end int, ok bool) {
	n := len(buf)
	if from < 0 || from > n {
		return 0, 0, false
	}
	var current []thread
	haveMatch := false
	matchStart, matchEnd := -1, -1
	pos := from

	for {
		var seeds []thread
		seeds = append(seeds, current...)
		canReseed := !haveMatch && (pos == from || (!anchoredOnly && !m.prog.AnchoredStart))
		if canReseed {
			seeds = append(seeds, thread{m.prog.Start, pos})
		}

		prevByte := -1
		if pos > 0 {
			prevByte = int(buf[pos-1])
		}
		var frontier []thread
		ms, matched := m.closure(buf, pos, prevByte, seeds, &frontier)
		if matched {
			switch {
			case !haveMatch:
				haveMatch = true
				matchStart, matchEnd = ms, pos
			case ms < matchStart:
				matchStart, matchEnd = ms, pos
			case ms == matchStart && pos > matchEnd:
				matchEnd = pos
			}
		}

		if pos >= n {
			break
		}
		b := buf[pos]
		var next []thread
		for _, th := range frontier {
			if haveMatch && th.start > matchStart {
				continue
			}
			if tgt, ok := m.consumes(m.prog.States[th.state], b); ok {
				next = append(next, thread{tgt, th.start})
			}
		}
		current = next
		pos++
		if haveMatch && len(current) == 0 {
			break
		}
		if !haveMatch && len(current) == 0 && !canReseedAt(pos, from, anchoredOnly, m.prog.AnchoredStart) {
			break
		}
	}

	if haveMatch {
		return matchStart, matchEnd, true
	}
	return 0, 0, false
}

// canReseedAt reports whether the outer loop should keep running with no
// live threads, purely to re-seed a fresh start attempt at a later
// position.
func canReseedAt(pos, from int, anchoredOnly, progAnchored bool) bool {
	if anchoredOnly || progAnchored {
		return false
	}
	return true
}

// FindFrom implements matchspan.Finder: the leftmost-longest match at or
// after from.
func (m *Matcher) FindFrom(buf []byte, from int) (start, end int, ok bool) {
	return m.search(buf, from, false)
}

// MatchAt implements matchspan.Finder: whether the pattern matches starting
// exactly at pos.
func (m *Matcher) MatchAt(buf []byte, pos int) (end int, ok bool) {
	s, e, ok := m.search(buf, pos, true)
	if ok && s == pos {
		return e, true
	}
	return 0, false
}
