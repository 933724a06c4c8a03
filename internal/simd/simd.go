// Package simd provides wide-vector byte-buffer primitives for the literal
// and regex matchers: newline counting, byte search, and fixed-width
// equality verification.
//
// Every primitive here processes a machine word (8 bytes) at a time using
// the SWAR (SIMD Within A Register) technique, the same fallback strategy
// the retrieved coregx/simd package uses on platforms without AVX2. CPU
// feature detection is wired through golang.org/x/sys/cpu so that a real
// assembly backend can be slotted in later per architecture without
// changing call sites; today every dispatch point resolves to the portable
// SWAR implementation.
package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// HasAVX2 reports whether the host CPU advertises AVX2. No AVX2 code path
// is implemented in this package (see DESIGN.md); the flag is retained so
// callers and future assembly implementations can gate on it the same way
// coregx/simd does.
var HasAVX2 = cpu.X86.HasAVX2

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// IndexByte returns the index of the first occurrence of b in buf at or
// after from, or -1 if not present. Equivalent to bytes.IndexByte(buf[from:])
// offset by from, implemented with the zero-byte SWAR trick instead of a
// byte-by-byte scan.
func IndexByte(buf []byte, from int, b byte) int {
	if from >= len(buf) {
		return -1
	}
	haystack := buf[from:]
	n := len(haystack)
	mask := uint64(b) * lo8

	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		x := chunk ^ mask
		has := (x - lo8) & ^x & hi8
		if has != 0 {
			return from + i + bits.TrailingZeros64(has)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == b {
			return from + i
		}
	}
	return -1
}

// CountNewlines returns the number of '\n' bytes in buf[from:to).
// Used to advance a monotonic line counter in O(chunk) time instead of
// rescanning the whole buffer per match, matching spec §4.2's "vectorised
// 32-byte newline scan" at word granularity.
func CountNewlines(buf []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(buf) {
		to = len(buf)
	}
	count := 0
	i := from
	for i+8 <= to {
		chunk := binary.LittleEndian.Uint64(buf[i:])
		count += countZeroBytesSWAR(chunk ^ (uint64('\n') * lo8))
		i += 8
	}
	for ; i < to; i++ {
		if buf[i] == '\n' {
			count++
		}
	}
	return count
}

// countZeroBytesSWAR returns how many of the 8 bytes packed in x are zero.
func countZeroBytesSWAR(x uint64) int {
	const lo7 = 0x7F7F7F7F7F7F7F7F
	// Bit 7 of each byte of y is set exactly when that byte of x is non-zero;
	// no carry crosses a byte boundary, so every zero byte is counted once.
	y := (x&lo7 + lo7) | x
	return bits.OnesCount64(^y & hi8)
}

// foldTable maps each byte to its ASCII-folded (lowercased) form; bytes
// above 0x7F are left unchanged, matching spec §9's documented ASCII-only
// case folding.
var foldTable = func() [256]byte {
	var t [256]byte
	for i := 0; i < 256; i++ {
		b := byte(i)
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		t[i] = b
	}
	return t
}()

// Fold returns the ASCII-lowercased form of b; non-ASCII bytes pass through
// unchanged.
func Fold(b byte) byte {
	return foldTable[b]
}

// Equal reports whether a and b are equal, optionally under ASCII case
// folding. Without folding it verifies 8 bytes at a time (spec's
// "wide-vector equality"), falling back to a scalar tail comparison for the
// remainder; with folding it compares byte by byte through the fold table.
func Equal(a, b []byte, foldCase bool) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	i := 0
	if !foldCase {
		for i+8 <= n {
			if binary.LittleEndian.Uint64(a[i:]) != binary.LittleEndian.Uint64(b[i:]) {
				return false
			}
			i += 8
		}
		for ; i < n; i++ {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	for ; i < n; i++ {
		if foldTable[a[i]] != foldTable[b[i]] {
			return false
		}
	}
	return true
}
