// Package nfa implements the Thompson NFA construction and host matcher
// described in spec §3, §4.3, and §4.4: an arena-and-indices automaton with
// at most 256 states, cyclic via back-indices, simulated without recursion.
package nfa

// StateID indexes into a Program's state array. None is the sentinel for an
// absent outgoing edge, matching the device encoding's 0xFFFF sentinel
// (spec §4.5) so host and device share one "no edge" representation.
type StateID uint16

// None marks an absent outgoing edge.
const None StateID = 0xFFFF

// MaxStates is the hard cap on states per program (spec §3, §8 invariant 12).
const MaxStates = 256

// StateKind is the state's discriminant, exactly the kind set named in
// spec §3.
type StateKind uint8

const (
	KindLiteral StateKind = iota
	KindAnyByte
	KindClass
	KindSplit
	KindAccept
	KindLineStart
	KindLineEnd
	KindWordBoundary
)

// State is one NFA node: a kind, up to two outgoing edges, and kind-specific
// payload. GroupIndex is carried only to round-trip with the parser per
// spec §3 — the matcher never reads it.
type State struct {
	Kind StateKind
	Out1 StateID
	Out2 StateID

	Byte byte // KindLiteral payload
	Fold bool // KindLiteral / KindClass case-fold flag

	ClassIdx int // KindClass: index into Program.Classes

	GroupIndex int // round-trip only, 0 = none
}

// Program is a compiled, immutable NFA ready for simulation or device
// encoding.
type Program struct {
	States  []State
	Start   StateID
	Classes [][256]bool

	AnchoredStart   bool
	AnchoredEnd     bool
	CaseInsensitive bool
}
