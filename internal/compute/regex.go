package compute

import (
	"sync"

	"github.com/vecstream/vsed/internal/device"
	"github.com/vecstream/vsed/internal/linebuf"
	"github.com/vecstream/vsed/internal/nfa"
	"github.com/vecstream/vsed/internal/simd"
)

// FindRegex dispatches a line-parallel regex search over buf using the
// flattened device encoding, per spec §4.6: one thread walks one line's
// bytes against the flattened NFA tables, starting from state_start.
//
// Threads are throttled to LineWorkgroupSize concurrent workers (spec's
// "workgroups of 64 threads") via a semaphore rather than one goroutine per
// line, since a pattern file can have far more lines than is reasonable to
// schedule at once.
func (b *Backend) FindRegex(buf []byte, dp *device.Program, opts DispatchOptions) (*DispatchResult, error) {
	if err := b.checkDispatchable(len(buf)); err != nil {
		return nil, err
	}

	idx := linebuf.New(buf)
	results := newResultSlots(b.cfg.MaxResults)
	lines := idx.Count()
	if lines == 0 {
		return &DispatchResult{}, nil
	}

	sem := make(chan struct{}, b.cfg.LineWorkgroupSize)
	var wg sync.WaitGroup
	for lineNo := 1; lineNo <= lines; lineNo++ {
		start, end := idx.Span(lineNo)
		wg.Add(1)
		sem <- struct{}{}
		go func(lineStart, lineEnd int) {
			defer wg.Done()
			defer func() { <-sem }()
			runLineKernel(dp, buf, lineStart, lineEnd, opts, results)
		}(start, end)
	}
	wg.Wait()

	matches := postPass(buf, results.slots[:results.writtenCount()], opts)
	return &DispatchResult{Matches: matches, Written: results.writtenCount(), Total: results.totalCount()}, nil
}

// runLineKernel walks [lineStart, lineEnd) against dp's flattened NFA,
// recording every non-overlapping match the thread finds, respecting
// AnchorLineStart/Global the same way the host matcher's traversal policy
// does (spec §4.2/§4.4 apply identically per line).
func runLineKernel(dp *device.Program, buf []byte, lineStart, lineEnd int, opts DispatchOptions, results *resultSlots) {
	pos := lineStart
	for pos <= lineEnd {
		var s, e int
		var ok bool
		if opts.AnchorLineStart {
			if pos != lineStart {
				break
			}
			e, ok = deviceMatchAt(dp, buf, pos, lineEnd)
			s = pos
		} else {
			s, e, ok = deviceFind(dp, buf, pos, lineEnd)
		}
		if !ok {
			break
		}
		results.record(rawMatch{start: s, end: e})
		if !opts.Global {
			break
		}
		if e > s {
			pos = e
		} else {
			pos = s + 1
		}
	}
}

type devThread struct {
	state nfa.StateID
	start int
}

func deviceIsWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// deviceClosure mirrors internal/nfa's epsilon closure, but reads state
// information through device.Program's decode methods, exercising the
// actual flattened encoding rather than the host Program.
func deviceClosure(dp *device.Program, buf []byte, pos int, prevByte int, seeds []devThread, frontier *[]devThread) (matchStart int, matched bool) {
	var visited [nfa.MaxStates]bool
	list := make([]devThread, 0, len(seeds))
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
		si := int(th.state)
		kind := dp.Kind(si)
		out1 := nfa.StateID(dp.Out1(si))
		out2 := nfa.StateID(dp.Out2(si))
		switch kind {
		case nfa.KindSplit:
			list = append(list, devThread{out2, th.start}, devThread{out1, th.start})
		case nfa.KindLineStart:
			if pos == 0 || prevByte == '\n' {
				list = append(list, devThread{out1, th.start})
			}
		case nfa.KindLineEnd:
			if pos == len(buf) || buf[pos] == '\n' {
				list = append(list, devThread{out1, th.start})
			}
		case nfa.KindWordBoundary:
			before := prevByte != -1 && deviceIsWordByte(byte(prevByte))
			after := pos < len(buf) && deviceIsWordByte(buf[pos])
			if before != after {
				list = append(list, devThread{out1, th.start})
			}
		case nfa.KindAccept:
			if !matched || th.start < matchStart {
				matchStart = th.start
				matched = true
			}
		default:
			*frontier = append(*frontier, th)
		}
	}
	return matchStart, matched
}

func deviceConsumes(dp *device.Program, th devThread, b byte) (nfa.StateID, bool) {
	si := int(th.state)
	kind := dp.Kind(si)
	out1 := nfa.StateID(dp.Out1(si))
	switch kind {
	case nfa.KindLiteral:
		want, got := dp.Byte(si), b
		if dp.Fold(si) {
			want, got = simd.Fold(want), simd.Fold(got)
		}
		if want == got {
			return out1, true
		}
	case nfa.KindAnyByte:
		if b != '\n' {
			return out1, true
		}
	case nfa.KindClass:
		if dp.ClassMember(si, b) {
			return out1, true
		}
	}
	return nfa.None, false
}

// deviceSearch is the shared leftmost-longest engine, bounded to
// [from, limit), used by both deviceFind (unanchored) and deviceMatchAt
// (anchored).
func deviceSearch(dp *device.Program, buf []byte, from, limit int, anchoredOnly bool) (start, end int, ok bool) {
	var current []devThread
	haveMatch := false
	matchStart, matchEnd := -1, -1
	pos := from

	for {
		var seeds []devThread
		seeds = append(seeds, current...)
		canReseed := !haveMatch && (pos == from || (!anchoredOnly && !dp.Header.AnchoredStart))
		if canReseed {
			seeds = append(seeds, devThread{nfa.StateID(dp.Header.StartState), pos})
		}

		prevByte := -1
		if pos > 0 {
			prevByte = int(buf[pos-1])
		}
		var frontier []devThread
		ms, matched := deviceClosure(dp, buf, pos, prevByte, seeds, &frontier)
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

		if pos >= limit {
			break
		}
		b := buf[pos]
		var next []devThread
		for _, th := range frontier {
			if haveMatch && th.start > matchStart {
				continue
			}
			if tgt, ok := deviceConsumes(dp, th, b); ok {
				next = append(next, devThread{tgt, th.start})
			}
		}
		current = next
		pos++
		if haveMatch && len(current) == 0 {
			break
		}
		if !haveMatch && len(current) == 0 && (anchoredOnly || dp.Header.AnchoredStart) {
			break
		}
	}

	if haveMatch {
		return matchStart, matchEnd, true
	}
	return 0, 0, false
}

func deviceFind(dp *device.Program, buf []byte, from, limit int) (start, end int, ok bool) {
	return deviceSearch(dp, buf, from, limit, false)
}

func deviceMatchAt(dp *device.Program, buf []byte, pos, limit int) (end int, ok bool) {
	s, e, ok := deviceSearch(dp, buf, pos, limit, true)
	if ok && s == pos {
		return e, true
	}
	return 0, false
}
