package compute

import (
	"sort"

	"github.com/vecstream/vsed/internal/matchspan"
	"github.com/vecstream/vsed/internal/simd"
)

// DispatchResult is what a dispatch call returns: the post-passed matches
// actually usable, plus the true total so callers can detect truncation
// (spec §4.6, §9: "a conservative implementation should expose total
// distinctly from written").
type DispatchResult struct {
	Matches []matchspan.Match
	Written int
	Total   int
}

// postPass implements spec §4.6's "host post-pass": sort the raw matches by
// start, reconstruct line numbers with a single linear newline scan, apply
// the anchor-at-line-start filter, and — unless Global is set without
// FirstOnly — collapse each line to its earliest match.
func postPass(buf []byte, raw []rawMatch, opts DispatchOptions) []matchspan.Match {
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].start != raw[j].start {
			return raw[i].start < raw[j].start
		}
		return raw[i].end < raw[j].end
	})

	lastPos := 0
	line := 0
	out := make([]matchspan.Match, 0, len(raw))
	lastEmittedLine := -1

	for _, m := range raw {
		if opts.AnchorLineStart {
			atLineStart := m.start == 0 || buf[m.start-1] == '\n'
			if !atLineStart {
				continue
			}
		}
		line += simd.CountNewlines(buf, lastPos, m.start)
		lastPos = m.start

		collapseToFirst := !opts.Global || opts.FirstOnly
		if collapseToFirst && line == lastEmittedLine {
			continue
		}
		out = append(out, matchspan.Match{Start: m.start, End: m.end, Line: line})
		lastEmittedLine = line
	}
	return out
}
