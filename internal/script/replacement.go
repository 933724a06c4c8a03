package script

// Expand renders a Command's Replacement against one match, per the
// replacement mini-language of spec §6. By the time Replacement reaches
// here it has already passed through scanSegment's \X decode (spec §4.1
// step 3) for \n, \t, \\ and \D — but scanSegment deliberately leaves \&
// alone, as the raw two bytes '\', '&', so that Expand can still tell it
// apart from a bare '&'. Expand keeps the one-byte lookahead spec §9 calls
// for: \& emits a literal '&'; an unescaped '&' emits the current match.
func Expand(repl []byte, match []byte) []byte {
	out := make([]byte, 0, len(repl)+len(match))
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '\\' && i+1 < len(repl) && repl[i+1] == '&' {
			out = append(out, '&')
			i++
			continue
		}
		if c == '&' {
			out = append(out, match...)
			continue
		}
		out = append(out, c)
	}
	return out
}
