// Package exec implements the command executor of spec §4.8: it resolves
// each command's address against the buffer it currently sees, runs that
// command's matcher over the addressed lines, and feeds the resulting
// buffer to the next command as pure B_in -> B_out composition.
package exec

import (
	"bytes"

	"github.com/vecstream/vsed/internal/linebuf"
	"github.com/vecstream/vsed/internal/matchspan"
	"github.com/vecstream/vsed/internal/script"
)

// Run threads input through every compiled command in order. quiet mirrors
// the CLI's -n/--quiet/--silent flag (spec §6): it changes only Print's
// behavior, per spec §4.8 step 5's "used in conjunction with the executor's
// suppress-automatic-output mode".
func Run(cmds []CompiledCommand, input []byte, quiet bool) ([]byte, error) {
	buf := input
	for _, cc := range cmds {
		out, err := runCommand(cc, buf, quiet)
		if err != nil {
			return nil, err
		}
		buf = out
	}
	return buf, nil
}

func runCommand(cc CompiledCommand, buf []byte, quiet bool) ([]byte, error) {
	idx := linebuf.New(buf)
	n := idx.Count()
	set := resolveAddress(cc.Address, cc.AddressMatcher, idx, buf)

	var out bytes.Buffer
	out.Grow(len(buf))

	for i := 0; i < n; i++ {
		start, end := idx.Span(i + 1)
		raw := buf[start:end]
		content, nl := splitTerminator(raw)
		addressed := set.contains(i)

		switch cc.Kind {
		case script.Substitute:
			if addressed {
				out.Write(substituteLine(cc, content))
			} else {
				out.Write(content)
			}
			out.Write(nl)

		case script.Delete:
			if addressed {
				continue
			}
			out.Write(raw)

		case script.Print:
			if quiet {
				if addressed {
					out.Write(raw)
				}
				continue
			}
			out.Write(raw)
			if addressed {
				out.Write(raw)
			}

		case script.Transliterate:
			if addressed {
				out.Write(applyTransliterate(cc.TranslitTable, content))
			} else {
				out.Write(content)
			}
			out.Write(nl)
		}
	}

	return out.Bytes(), nil
}

// splitTerminator separates a line span into its content and trailing
// newline byte (empty if the line has none, i.e. the final unterminated
// fragment of the buffer).
func splitTerminator(raw []byte) (content, terminator []byte) {
	if len(raw) > 0 && raw[len(raw)-1] == '\n' {
		return raw[:len(raw)-1], raw[len(raw)-1:]
	}
	return raw, nil
}

// substituteLine implements spec §4.8 step 3 over one line's content.
func substituteLine(cc CompiledCommand, content []byte) []byte {
	matches := matchspan.Scan(content, cc.Matcher, matchspan.Options{
		Global:          cc.Global,
		FirstOnly:       cc.FirstOnly,
		AnchorLineStart: cc.AnchorLineStart,
	})
	if len(matches) == 0 {
		return content
	}

	var out bytes.Buffer
	last := 0
	for _, m := range matches {
		out.Write(content[last:m.Start])
		out.Write(script.Expand(cc.Replacement, content[m.Start:m.End]))
		last = m.End
	}
	out.Write(content[last:])
	return out.Bytes()
}
