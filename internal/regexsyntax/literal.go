package regexsyntax

// ExtractLiteral reports whether node is equivalent to a plain sequence of
// literal bytes with no anchors, classes, or repetition — the condition
// under which the executor dispatches to the Boyer-Moore-Horspool fast path
// (spec §1's "literal substring search... that powers the fast path")
// instead of compiling a Thompson NFA. foldCase is the fold flag shared by
// every literal in the sequence (regexsyntax.Parse applies it uniformly).
func ExtractLiteral(node Node) (pattern []byte, foldCase bool, ok bool) {
	switch v := node.(type) {
	case Literal:
		return []byte{v.Byte}, v.Fold, true
	case Concat:
		var out []byte
		fold := false
		for i, s := range v.Subs {
			lit, ok := s.(Literal)
			if !ok {
				return nil, false, false
			}
			if i == 0 {
				fold = lit.Fold
			} else if lit.Fold != fold {
				return nil, false, false
			}
			out = append(out, lit.Byte)
		}
		return out, fold, true
	case Group:
		return ExtractLiteral(v.Sub)
	}
	return nil, false, false
}
