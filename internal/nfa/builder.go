package nfa

import "github.com/vecstream/vsed/internal/regexsyntax"

// slot identifies which outgoing edge of a state a patch targets.
type slot struct {
	id   StateID
	slot int // 0 = Out1, 1 = Out2
}

// frag is a Thompson construction fragment: a start state plus a list of
// dangling outgoing edges still to be patched to whatever follows. empty is
// set for the zero-width fragment produced by an empty concatenation, which
// has no states of its own — callers splice through it directly.
type frag struct {
	start StateID
	out   []slot
	empty bool
}

// Builder accumulates states for one NFA under construction, enforcing the
// 256-state cap (spec §3, §8 invariant 12) as states are added.
type Builder struct {
	states []State
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) addState(s State) (StateID, error) {
	if len(b.states) >= MaxStates {
		return 0, &LimitError{Requested: len(b.states) + 1}
	}
	b.states = append(b.states, s)
	return StateID(len(b.states) - 1), nil
}

func (b *Builder) patch(out []slot, target StateID) {
	for _, p := range out {
		if p.slot == 0 {
			b.states[p.id].Out1 = target
		} else {
			b.states[p.id].Out2 = target
		}
	}
}

// Compile builds a Program for the given regex AST. anchoredStart and
// anchoredEnd are computed from outermost ^ and $ per spec §4.3.
func Compile(node regexsyntax.Node, caseInsensitive bool) (*Program, error) {
	b := NewBuilder()
	var classes [][256]bool

	f, err := b.compileNode(node, &classes)
	if err != nil {
		return nil, err
	}
	acceptID, err := b.addState(State{Kind: KindAccept, Out1: None, Out2: None})
	if err != nil {
		return nil, err
	}

	var start StateID
	if f.empty {
		start = acceptID
	} else {
		b.patch(f.out, acceptID)
		start = f.start
	}

	prog := &Program{
		States:          b.states,
		Start:           start,
		Classes:         classes,
		AnchoredStart:   startsWithAnchor(node),
		AnchoredEnd:     endsWithAnchor(node),
		CaseInsensitive: caseInsensitive,
	}
	return prog, nil
}

func (b *Builder) compileNode(n regexsyntax.Node, classes *[][256]bool) (frag, error) {
	switch v := n.(type) {
	case regexsyntax.Literal:
		id, err := b.addState(State{Kind: KindLiteral, Byte: v.Byte, Fold: v.Fold, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.AnyByte:
		id, err := b.addState(State{Kind: KindAnyByte, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.Class:
		idx := len(*classes)
		*classes = append(*classes, v.Bitmap)
		id, err := b.addState(State{Kind: KindClass, ClassIdx: idx, Fold: v.Fold, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.StartAnchor:
		id, err := b.addState(State{Kind: KindLineStart, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.EndAnchor:
		id, err := b.addState(State{Kind: KindLineEnd, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.WordBoundary:
		id, err := b.addState(State{Kind: KindWordBoundary, Out1: None, Out2: None})
		if err != nil {
			return frag{}, err
		}
		return frag{start: id, out: []slot{{id, 0}}}, nil

	case regexsyntax.Concat:
		return b.compileConcat(v.Subs, classes)

	case regexsyntax.Alternate:
		return b.compileAlternate(v.Subs, classes)

	case regexsyntax.Star:
		return b.compileStar(v.Sub, classes)

	case regexsyntax.Plus:
		return b.compilePlus(v.Sub, classes)

	case regexsyntax.Quest:
		return b.compileQuest(v.Sub, classes)

	case regexsyntax.Repeat:
		return b.compileRepeat(v, classes)

	case regexsyntax.Group:
		sub, err := b.compileNode(v.Sub, classes)
		if err != nil {
			return frag{}, err
		}
		if !sub.empty {
			b.states[sub.start].GroupIndex = v.Index
		}
		return sub, nil
	}
	return frag{empty: true}, nil
}

func (b *Builder) compileConcat(subs []regexsyntax.Node, classes *[][256]bool) (frag, error) {
	if len(subs) == 0 {
		return frag{empty: true}, nil
	}
	var result frag
	result.empty = true
	for _, s := range subs {
		f, err := b.compileNode(s, classes)
		if err != nil {
			return frag{}, err
		}
		if result.empty {
			result = f
			continue
		}
		if f.empty {
			continue
		}
		b.patch(result.out, f.start)
		result.out = f.out
	}
	return result, nil
}

func (b *Builder) compileAlternate(subs []regexsyntax.Node, classes *[][256]bool) (frag, error) {
	if len(subs) == 0 {
		return frag{empty: true}, nil
	}
	frags := make([]frag, len(subs))
	for i, s := range subs {
		f, err := b.compileNode(s, classes)
		if err != nil {
			return frag{}, err
		}
		frags[i] = f
	}
	// Fold right-to-left with binary splits.
	cur := frags[len(frags)-1]
	for i := len(frags) - 2; i >= 0; i-- {
		left := frags[i]
		leftStart := left.start
		if left.empty {
			// An empty alternative matches immediately; model it with a
			// split whose branch goes straight to the continuation via an
			// Accept-free dummy: represent by treating left.start as cur's
			// start with no consumption (reuse split to carry outs).
			leftStart = cur.start
		}
		id, err := b.addState(State{Kind: KindSplit, Out1: leftStart, Out2: cur.start})
		if err != nil {
			return frag{}, err
		}
		var outs []slot
		if !left.empty {
			outs = append(outs, left.out...)
		} else {
			outs = append(outs, cur.out...)
		}
		outs = append(outs, cur.out...)
		cur = frag{start: id, out: dedupSlots(outs)}
	}
	return cur, nil
}

func dedupSlots(in []slot) []slot {
	seen := make(map[slot]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (b *Builder) compileStar(sub regexsyntax.Node, classes *[][256]bool) (frag, error) {
	f, err := b.compileNode(sub, classes)
	if err != nil {
		return frag{}, err
	}
	if f.empty {
		return frag{empty: true}, nil
	}
	id, err := b.addState(State{Kind: KindSplit, Out1: f.start, Out2: None})
	if err != nil {
		return frag{}, err
	}
	b.patch(f.out, id)
	return frag{start: id, out: []slot{{id, 1}}}, nil
}

func (b *Builder) compilePlus(sub regexsyntax.Node, classes *[][256]bool) (frag, error) {
	f, err := b.compileNode(sub, classes)
	if err != nil {
		return frag{}, err
	}
	if f.empty {
		return frag{empty: true}, nil
	}
	id, err := b.addState(State{Kind: KindSplit, Out1: f.start, Out2: None})
	if err != nil {
		return frag{}, err
	}
	b.patch(f.out, id)
	return frag{start: f.start, out: []slot{{id, 1}}}, nil
}

func (b *Builder) compileQuest(sub regexsyntax.Node, classes *[][256]bool) (frag, error) {
	f, err := b.compileNode(sub, classes)
	if err != nil {
		return frag{}, err
	}
	if f.empty {
		return frag{empty: true}, nil
	}
	id, err := b.addState(State{Kind: KindSplit, Out1: f.start, Out2: None})
	if err != nil {
		return frag{}, err
	}
	out := append([]slot{}, f.out...)
	out = append(out, slot{id, 1})
	return frag{start: id, out: out}, nil
}

// compileRepeat expands `{n}` / `{n,}` / `{n,m}` by duplicating the
// sub-construction min times, followed by either (max-min) optional copies
// or, for an unbounded max, one trailing star copy.
func (b *Builder) compileRepeat(r regexsyntax.Repeat, classes *[][256]bool) (frag, error) {
	var result frag
	result.empty = true
	appendFrag := func(f frag) error {
		if result.empty {
			result = f
			return nil
		}
		if f.empty {
			return nil
		}
		b.patch(result.out, f.start)
		result.out = f.out
		return nil
	}

	for i := 0; i < r.Min; i++ {
		f, err := b.compileNode(r.Sub, classes)
		if err != nil {
			return frag{}, err
		}
		if err := appendFrag(f); err != nil {
			return frag{}, err
		}
	}

	if r.Max == -1 {
		f, err := b.compileStar(r.Sub, classes)
		if err != nil {
			return frag{}, err
		}
		if err := appendFrag(f); err != nil {
			return frag{}, err
		}
		return result, nil
	}

	for i := r.Min; i < r.Max; i++ {
		f, err := b.compileQuest(r.Sub, classes)
		if err != nil {
			return frag{}, err
		}
		if err := appendFrag(f); err != nil {
			return frag{}, err
		}
	}
	return result, nil
}

// startsWithAnchor reports whether node begins with an outermost ^.
func startsWithAnchor(node regexsyntax.Node) bool {
	switch v := node.(type) {
	case regexsyntax.StartAnchor:
		return true
	case regexsyntax.Concat:
		if len(v.Subs) == 0 {
			return false
		}
		return startsWithAnchor(v.Subs[0])
	case regexsyntax.Group:
		return startsWithAnchor(v.Sub)
	}
	return false
}

// endsWithAnchor reports whether node ends with an outermost $.
func endsWithAnchor(node regexsyntax.Node) bool {
	switch v := node.(type) {
	case regexsyntax.EndAnchor:
		return true
	case regexsyntax.Concat:
		if len(v.Subs) == 0 {
			return false
		}
		return endsWithAnchor(v.Subs[len(v.Subs)-1])
	case regexsyntax.Group:
		return endsWithAnchor(v.Sub)
	}
	return false
}
