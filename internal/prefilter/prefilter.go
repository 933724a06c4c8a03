// Package prefilter provides a multi-command literal prefilter: when a
// script carries several literal-pattern commands, an Aho-Corasick
// automaton over all of their patterns at once lets the executor skip a
// line entirely without invoking any individual command's matcher, instead
// of re-scanning the line once per command.
//
// This is a supplemental enrichment beyond spec §4's per-command matcher
// design — the spec only requires one matcher per command — grounded on
// the coregx-coregex matcher family's own use of Aho-Corasick for
// multi-literal extraction (coregx's meta package composes literal sets the
// same way).
package prefilter

import "github.com/coregx/ahocorasick"

// MultiLiteral is a compiled Aho-Corasick automaton over a set of literal
// patterns. It reports where a pattern occurs, not which command it came
// from.
type MultiLiteral struct {
	automaton *ahocorasick.Automaton
	patterns  [][]byte
}

// Build compiles an automaton over patterns. Patterns must be non-empty;
// callers filter out regex/empty-pattern commands before calling Build.
func Build(patterns [][]byte) (*MultiLiteral, error) {
	b := ahocorasick.NewBuilder()
	for _, p := range patterns {
		b.AddPattern(p)
	}
	automaton, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &MultiLiteral{automaton: automaton, patterns: patterns}, nil
}

// AnyMatch reports whether any of the compiled patterns occurs anywhere in
// line. Used as a cheap gate before running a line through the full command
// pipeline: if none of the literal commands' patterns appear and no command
// in the pipeline is regex-based or address-only, the line is guaranteed
// unchanged.
func (m *MultiLiteral) AnyMatch(line []byte) bool {
	return m.automaton.IsMatch(line)
}

// FindFirst returns the position of the first occurrence of any compiled
// pattern in line at or after from, and the byte length of that match.
func (m *MultiLiteral) FindFirst(line []byte, from int) (start, length int, ok bool) {
	match := m.automaton.Find(line, from)
	if match == nil {
		return 0, 0, false
	}
	return match.Start, match.End - match.Start, true
}
