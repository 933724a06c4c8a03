package exec

import (
	"bytes"

	"github.com/samber/lo"

	"github.com/vecstream/vsed/internal/compute"
	"github.com/vecstream/vsed/internal/linebuf"
	"github.com/vecstream/vsed/internal/prefilter"
	"github.com/vecstream/vsed/internal/script"
)

// Pipeline is a compiled script ready to run repeatedly (once per input
// file). It additionally wires the multi-literal prefilter: when every
// command is an unaddressed, case-sensitive literal Substitute, a line that
// contains none of their patterns is guaranteed unchanged by the whole
// pipeline, so it is copied through without invoking any command's matcher.
// Case-insensitive commands are excluded: the prefilter automaton is built
// over exact-case pattern bytes, so it cannot soundly reject a line that
// only contains a differently-cased occurrence of the needle.
type Pipeline struct {
	cmds []CompiledCommand
	pre  *prefilter.MultiLiteral
}

// NewPipeline compiles cmds against textSize/bk (see Compile) and builds
// the combined literal prefilter when the pipeline shape allows it.
func NewPipeline(cmds []script.Command, textSize int, bk *compute.Backend) (*Pipeline, error) {
	compiled, err := Compile(cmds, textSize, bk)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{cmds: compiled}

	allUnaddressedLiteral := len(compiled) > 0 && lo.EveryBy(compiled, func(c CompiledCommand) bool {
		return c.Kind == script.Substitute && c.Address.Kind == script.AddrNone &&
			c.LiteralPattern != nil && !c.CaseInsensitive
	})
	if allUnaddressedLiteral {
		patterns := lo.Map(compiled, func(c CompiledCommand, _ int) []byte { return c.LiteralPattern })
		pre, err := prefilter.Build(patterns)
		if err == nil {
			p.pre = pre
		}
	}

	return p, nil
}

// Run executes the pipeline against input, per spec §4.8.
func (p *Pipeline) Run(input []byte, quiet bool) ([]byte, error) {
	if p.pre == nil {
		return Run(p.cmds, input, quiet)
	}
	return p.runFusedLiteral(input)
}

// runFusedLiteral applies every command to each line in a single pass,
// skipping the line entirely when the combined prefilter reports none of
// the patterns present.
func (p *Pipeline) runFusedLiteral(input []byte) ([]byte, error) {
	idx := linebuf.New(input)
	n := idx.Count()

	var out bytes.Buffer
	out.Grow(len(input))

	for i := 0; i < n; i++ {
		start, end := idx.Span(i + 1)
		raw := input[start:end]

		if !p.pre.AnyMatch(raw) {
			out.Write(raw)
			continue
		}

		content, nl := splitTerminator(raw)
		for _, cc := range p.cmds {
			content = substituteLine(cc, content)
		}
		out.Write(content)
		out.Write(nl)
	}

	return out.Bytes(), nil
}
