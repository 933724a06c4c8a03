package regexsyntax

// parseClass parses a `[...]` or `[^...]` character class starting at the
// opening bracket, including ranges `a-z` and shorthand escapes `\d \w \s`.
// A literal `]` as the class's first member (optionally after `^`) is
// permitted per classic regex convention.
func (p *parser) parseClass() (Node, error) {
	start := p.pos
	p.pos++ // '['
	var cls Class
	cls.Fold = p.fold
	if !p.eof() && p.byteAt(p.pos) == '^' {
		cls.Negate = true
		p.pos++
	}
	first := true
	for {
		if p.eof() {
			return nil, newSyntaxError(ErrUnbalancedClass, string(p.pattern), start)
		}
		c := p.byteAt(p.pos)
		if c == ']' && !first {
			p.pos++
			break
		}
		first = false
		if c == ']' {
			// literal ']' as first class member
			p.pos++
			cls.Bitmap[']'] = true
			continue
		}
		if c == '\\' && p.pos+1 < len(p.pattern) {
			switch p.byteAt(p.pos + 1) {
			case 'd':
				mergeClass(&cls, digitClass(false))
				p.pos += 2
				continue
			case 'w':
				mergeClass(&cls, wordClass(false))
				p.pos += 2
				continue
			case 's':
				mergeClass(&cls, spaceClass(false))
				p.pos += 2
				continue
			}
			// escaped literal byte inside a class, e.g. `\]` or `\\`
			lo := p.byteAt(p.pos + 1)
			p.pos += 2
			if err := p.addClassMember(&cls, lo, start); err != nil {
				return nil, err
			}
			continue
		}
		lo := c
		p.pos++
		if err := p.addClassMember(&cls, lo, start); err != nil {
			return nil, err
		}
	}
	if cls.Negate {
		for i := range cls.Bitmap {
			cls.Bitmap[i] = !cls.Bitmap[i]
		}
		cls.Negate = false
	}
	return cls, nil
}

// addClassMember adds byte lo to cls, extending it into a range a-z if lo is
// immediately followed by '-' and another byte.
func (p *parser) addClassMember(cls *Class, lo byte, classStart int) error {
	if !p.eof() && p.byteAt(p.pos) == '-' && p.pos+1 < len(p.pattern) && p.byteAt(p.pos+1) != ']' {
		p.pos++ // '-'
		hi := p.byteAt(p.pos)
		p.pos++
		if hi < lo {
			return newSyntaxError(ErrInvalidRange, string(p.pattern), classStart)
		}
		for b := int(lo); b <= int(hi); b++ {
			cls.Bitmap[b] = true
			if cls.Fold {
				cls.Bitmap[foldByte(byte(b))] = true
			}
		}
		return nil
	}
	cls.Bitmap[lo] = true
	if cls.Fold {
		cls.Bitmap[foldByte(lo)] = true
	}
	return nil
}

func foldByte(b byte) byte {
	switch {
	case b >= 'a' && b <= 'z':
		return b - ('a' - 'A')
	case b >= 'A' && b <= 'Z':
		return b + ('a' - 'A')
	}
	return b
}

func mergeClass(dst *Class, src Class) {
	for i := range dst.Bitmap {
		if src.Bitmap[i] {
			dst.Bitmap[i] = true
		}
	}
}
