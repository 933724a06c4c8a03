// Package device implements the flat, GPU-consumable NFA encoding and the
// fixed-width wire records shared with a compute backend, per spec §4.5 and
// §6. Nothing here touches an actual GPU; it produces the byte layouts a
// real backend would bind, and internal/compute's reference backend
// consumes them directly in-process.
package device

import (
	"encoding/binary"

	"github.com/vecstream/vsed/internal/nfa"
)

// EdgeNone is the device-side sentinel for an absent outgoing edge
// (spec §4.5: "unused edges use the sentinel 0xFFFF").
const EdgeNone uint16 = 0xFFFF

// Header carries the program-wide fields of the device encoding (spec §4.5
// item 3).
type Header struct {
	NumStates       uint32
	StartState      uint32
	AnchoredStart   bool
	AnchoredEnd     bool
	CaseInsensitive bool
}

// Program is the three-flat-array device encoding of an nfa.Program:
// states, the concatenated class bitmap bank, and the header.
type Program struct {
	Header   Header
	States   []uint32 // N * 3 words, per spec §4.5 item 1
	Bitmaps  []uint32 // K * 8 words, per spec §4.5 item 2
	wordSize int
}

// Encode flattens an nfa.Program into its device representation. This is a
// pure, deterministic function of the host NFA — no backend-specific
// compilation step, matching spec §4.5's closing note.
func Encode(prog *nfa.Program) *Program {
	dp := &Program{
		Header: Header{
			NumStates:       uint32(len(prog.States)),
			StartState:      uint32(prog.Start),
			AnchoredStart:   prog.AnchoredStart,
			AnchoredEnd:     prog.AnchoredEnd,
			CaseInsensitive: prog.CaseInsensitive,
		},
	}
	dp.States = make([]uint32, 0, len(prog.States)*3)
	for _, st := range prog.States {
		w0, w1, w2 := encodeState(st)
		dp.States = append(dp.States, w0, w1, w2)
	}
	dp.Bitmaps = make([]uint32, 0, len(prog.Classes)*8)
	for _, cls := range prog.Classes {
		dp.Bitmaps = append(dp.Bitmaps, packBitmap(cls)...)
	}
	return dp
}

// encodeState packs one state into three u32 words:
//
//	word0: kind(8b) | flags(8b) | out1(16b)
//	word1: out2(16b) | literalByte(8b) | groupIndex(8b)
//	word2: bitmap word offset (32b), or 0xFFFFFFFF if not a class state
func encodeState(st nfa.State) (w0, w1, w2 uint32) {
	out1 := edgeWord(st.Out1)
	out2 := edgeWord(st.Out2)

	var flags uint32
	if st.Fold {
		flags |= 1
	}

	w0 = uint32(st.Kind)<<24 | flags<<16 | uint32(out1)
	w1 = uint32(out2)<<16 | uint32(st.Byte)<<8 | uint32(st.GroupIndex&0xFF)
	w2 = 0xFFFFFFFF
	if st.Kind == nfa.KindClass {
		w2 = uint32(st.ClassIdx) * 8
	}
	return w0, w1, w2
}

func edgeWord(id nfa.StateID) uint16 {
	if id == nfa.None {
		return EdgeNone
	}
	return uint16(id)
}

// packBitmap packs a 256-bool membership table into 8 u32 words, bit i of
// word i/32 set when byte i is a member.
func packBitmap(cls [256]bool) []uint32 {
	words := make([]uint32, 8)
	for i := 0; i < 256; i++ {
		if cls[i] {
			words[i/32] |= 1 << uint(i%32)
		}
	}
	return words
}

// Kind decodes state i's kind from the packed words, as a kernel would.
func (p *Program) Kind(i int) nfa.StateKind {
	return nfa.StateKind(p.States[i*3] >> 24)
}

// Fold decodes state i's case-fold flag.
func (p *Program) Fold(i int) bool {
	return (p.States[i*3]>>16)&1 != 0
}

// Out1 decodes state i's first outgoing edge, or EdgeNone.
func (p *Program) Out1(i int) uint16 {
	return uint16(p.States[i*3] & 0xFFFF)
}

// Out2 decodes state i's second outgoing edge, or EdgeNone.
func (p *Program) Out2(i int) uint16 {
	return uint16(p.States[i*3+1] >> 16)
}

// Byte decodes state i's literal byte payload.
func (p *Program) Byte(i int) byte {
	return byte((p.States[i*3+1] >> 8) & 0xFF)
}

// ClassMember reports whether byte b is a member of state i's class
// bitmap, reading directly from the packed bitmap bank.
func (p *Program) ClassMember(i int, b byte) bool {
	off := p.States[i*3+2]
	word := p.Bitmaps[int(off)+int(b)/32]
	return word&(1<<uint(b%32)) != 0
}

// ConfigRecord is the fixed 32-byte little-endian layout bound to the
// device per spec §6.
type ConfigRecord struct {
	TextLen         uint32
	PatternLen      uint32
	ReplacementLen  uint32
	Flags           uint32
	MaxMatches      uint32
	NumThreads      uint32
}

// Flag bits within ConfigRecord.Flags, per spec §6.
const (
	FlagCaseInsensitive uint32 = 1 << 0
	FlagGlobal          uint32 = 1 << 1
	FlagFirstOnly       uint32 = 1 << 2
	FlagLineMode        uint32 = 1 << 3
)

// Marshal writes the record in its 32-byte wire layout (24 bytes of fields
// padded to 32, per spec §6).
func (c ConfigRecord) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:], c.TextLen)
	binary.LittleEndian.PutUint32(buf[4:], c.PatternLen)
	binary.LittleEndian.PutUint32(buf[8:], c.ReplacementLen)
	binary.LittleEndian.PutUint32(buf[12:], c.Flags)
	binary.LittleEndian.PutUint32(buf[16:], c.MaxMatches)
	binary.LittleEndian.PutUint32(buf[20:], c.NumThreads)
	return buf
}

// MatchRecord is the fixed 16-byte device-visible match layout per spec §6.
type MatchRecord struct {
	Start uint32
	End   uint32
	Line  uint32
	_pad  uint32
}

// Marshal writes the record in its 16-byte wire layout.
func (m MatchRecord) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], m.Start)
	binary.LittleEndian.PutUint32(buf[4:], m.End)
	binary.LittleEndian.PutUint32(buf[8:], m.Line)
	return buf
}

// UnmarshalMatchRecord reads a 16-byte wire record back into a MatchRecord.
func UnmarshalMatchRecord(buf []byte) MatchRecord {
	return MatchRecord{
		Start: binary.LittleEndian.Uint32(buf[0:]),
		End:   binary.LittleEndian.Uint32(buf[4:]),
		Line:  binary.LittleEndian.Uint32(buf[8:]),
	}
}
