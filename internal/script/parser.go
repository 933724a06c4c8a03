package script

import "strconv"

// ParseScript parses one Command per entry in exprs (each entry is the
// text of one `-e` expression, or the sole positional script), in the
// order given, producing the pipeline. extended selects the regex dialect
// applied to every pattern in the pipeline — spec §4.1's grammar carries no
// per-command dialect syntax; it is a whole-invocation CLI choice (-E/-r).
func ParseScript(exprs []string, extended bool) ([]Command, error) {
	dialect := RegexBasic
	if extended {
		dialect = RegexExtended
	}
	cmds := make([]Command, 0, len(exprs))
	for _, expr := range exprs {
		cmd, err := parseExpr(expr, dialect)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func parseExpr(expr string, dialect Dialect) (Command, error) {
	b := []byte(expr)
	pos := 0

	addr, next, hasAddr, err := parseAddressPrefix(b, pos)
	if err != nil {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	pos = next

	if pos >= len(b) {
		return Command{}, newError(ErrMalformedExpression, expr)
	}

	switch b[pos] {
	case 's':
		return parseSubstitute(b, pos, addr, dialect, expr)
	case 'y':
		return parseTransliterate(b, pos, addr, expr)
	case '/':
		if hasAddr {
			return Command{}, newError(ErrMalformedExpression, expr)
		}
		return parseAddressedPattern(b, pos, dialect, expr)
	case 'd':
		if !hasAddr || pos != len(b)-1 {
			return Command{}, newError(ErrEmptyPatternWithNoAddress, expr)
		}
		return Command{Kind: Delete, Address: addr}, nil
	case 'p':
		if !hasAddr || pos != len(b)-1 {
			return Command{}, newError(ErrEmptyPatternWithNoAddress, expr)
		}
		return Command{Kind: Print, Address: addr}, nil
	case 'a', 'i', 'c', 'b', ':', 't', 'T', 'h', 'H', 'g', 'G', 'x', 'n', 'N', 'D', 'P', 'q', '=', 'w', 'r', 'l':
		return Command{}, newError(ErrUnsupportedCommand, expr)
	}
	return Command{}, newError(ErrMalformedExpression, expr)
}

// parseAddressPrefix parses an optional leading numeric/`$` address per
// spec §4.1 step 1. hasAddr is false (with pos returned unchanged) when no
// address prefix is present.
func parseAddressPrefix(b []byte, pos int) (addr Address, newPos int, hasAddr bool, err error) {
	start, next, ok := parseLineRef(b, pos)
	if !ok {
		return Address{}, pos, false, nil
	}
	pos = next
	if pos < len(b) && b[pos] == ',' {
		pos++
		end, next2, ok := parseLineRef(b, pos)
		if !ok {
			return Address{}, 0, false, errMalformed
		}
		pos = next2
		if !start.IsLast && !end.IsLast && start.Line > end.Line {
			return Address{}, 0, false, errMalformed
		}
		return Address{Kind: AddrRange, RangeStart: start, RangeEnd: end}, pos, true, nil
	}
	return Address{Kind: AddrLine, Single: start}, pos, true, nil
}

var errMalformed = &sentinelErr{"malformed address"}

type sentinelErr struct{ s string }

func (e *sentinelErr) Error() string { return e.s }

func parseLineRef(b []byte, pos int) (LineRef, int, bool) {
	if pos < len(b) && b[pos] == '$' {
		return LineRef{IsLast: true}, pos + 1, true
	}
	start := pos
	for pos < len(b) && b[pos] >= '0' && b[pos] <= '9' {
		pos++
	}
	if pos == start {
		return LineRef{}, start, false
	}
	n, _ := strconv.Atoi(string(b[start:pos]))
	return LineRef{Line: n}, pos, true
}

// scanSegment decodes one `<D>`-delimited segment starting at pos (which
// must point at the first byte after the opening delimiter), applying the
// \X escape rule of spec §4.1 step 3: \n \t \\ \D expand to newline, tab,
// backslash, and a literal delimiter; any other \X is preserved as both
// characters (so basic-dialect regex meta-escapes like \+ \( \{n\} survive
// untouched for the regex parser).
//
// forReplacement governs \&: PAT has no `&` meta, so \& decodes to a literal
// '&' there same as any other pattern byte. REPL's bare `&` means "the
// current match" (spec §6), so \& must stay distinguishable from it all the
// way to Expand's one-byte lookahead (spec §9) — scanSegment leaves the raw
// two-byte `\&` alone for REPL rather than collapsing it early.
func scanSegment(b []byte, pos int, delim byte, forReplacement bool) (decoded []byte, newPos int, ok bool) {
	var out []byte
	for pos < len(b) {
		c := b[pos]
		if c == delim {
			return out, pos + 1, true
		}
		if c == '\\' && pos+1 < len(b) {
			nc := b[pos+1]
			switch {
			case nc == 'n':
				out = append(out, '\n')
			case nc == 't':
				out = append(out, '\t')
			case nc == '\\':
				out = append(out, '\\')
			case nc == '&':
				if forReplacement {
					out = append(out, '\\', '&')
				} else {
					out = append(out, '&')
				}
			case nc == delim:
				out = append(out, delim)
			default:
				out = append(out, '\\', nc)
			}
			pos += 2
			continue
		}
		out = append(out, c)
		pos++
	}
	return nil, pos, false
}

func parseSubstitute(b []byte, pos int, addr Address, dialect Dialect, expr string) (Command, error) {
	pos++ // 's'
	if pos >= len(b) || isDelimInvalid(b[pos]) {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	delim := b[pos]
	pos++

	pat, pos2, ok := scanSegment(b, pos, delim, false)
	if !ok {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	repl, pos3, ok := scanSegment(b, pos2, delim, true)
	if !ok {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	flags := b[pos3:]

	if len(pat) == 0 && addr.Kind == AddrNone {
		return Command{}, newError(ErrEmptyPatternWithNoAddress, expr)
	}

	cmd := Command{
		Kind:        Substitute,
		Address:     addr,
		Pattern:     pat,
		Dialect:     dialect,
		Replacement: repl,
	}
	for _, f := range flags {
		switch f {
		case 'g':
			cmd.Global = true
		case 'i', 'I':
			cmd.CaseInsensitive = true
		case '1':
			cmd.FirstOnly = true
		default:
			// Unknown flags are silently ignored to match historical
			// behavior (spec §4.1).
		}
	}
	return cmd, nil
}

func isDelimInvalid(c byte) bool {
	if c == '\n' {
		return true
	}
	if c >= '0' && c <= '9' {
		return true
	}
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	return false
}

func parseTransliterate(b []byte, pos int, addr Address, expr string) (Command, error) {
	pos++ // 'y'
	if pos >= len(b) || isDelimInvalid(b[pos]) {
		return Command{}, newError(ErrMalformedTransliterate, expr)
	}
	delim := b[pos]
	pos++

	src, pos2, ok := scanSegment(b, pos, delim, false)
	if !ok {
		return Command{}, newError(ErrMalformedTransliterate, expr)
	}
	dst, pos3, ok := scanSegment(b, pos2, delim, false)
	if !ok {
		return Command{}, newError(ErrMalformedTransliterate, expr)
	}
	if pos3 != len(b) {
		return Command{}, newError(ErrMalformedTransliterate, expr)
	}
	if len(src) != len(dst) {
		return Command{}, newError(ErrMalformedTransliterate, expr)
	}
	return Command{
		Kind:         Transliterate,
		Address:      addr,
		TranslitFrom: src,
		TranslitTo:   dst,
	}, nil
}

// parseAddressedPattern parses the self-contained `/PAT/d` or `/PAT/p`
// form (spec §4.1 step 2, delimiter fixed to '/').
func parseAddressedPattern(b []byte, pos int, dialect Dialect, expr string) (Command, error) {
	const delim = '/'
	pos++ // opening '/'
	pat, pos2, ok := scanSegment(b, pos, delim, false)
	if !ok {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	if len(pat) == 0 {
		return Command{}, newError(ErrEmptyPatternWithNoAddress, expr)
	}
	if pos2 >= len(b) {
		return Command{}, newError(ErrMalformedExpression, expr)
	}
	addr := Address{Kind: AddrPattern, Pattern: pat, Dialect: dialect}
	switch b[pos2] {
	case 'd':
		if pos2 != len(b)-1 {
			return Command{}, newError(ErrMalformedExpression, expr)
		}
		return Command{Kind: Delete, Address: addr}, nil
	case 'p':
		if pos2 != len(b)-1 {
			return Command{}, newError(ErrMalformedExpression, expr)
		}
		return Command{Kind: Print, Address: addr}, nil
	}
	return Command{}, newError(ErrMalformedExpression, expr)
}
