// Package mojibake repairs text that was UTF-8 encoded but decoded as a
// single-byte charset (Latin-1 and friends) somewhere upstream. Icecast
// servers routinely mis-declare the encoding of icy-name and
// icy-description, so a station called "Ωράριο" arrives as "Î©ÏÎ¬ÏÎ¹Î¿".
package mojibake

import (
	"strings"
	"unicode/utf8"
)

// RuneRange is an inclusive range of code points to build repair entries for.
type RuneRange struct {
	Lo, Hi rune
}

// DefaultRanges covers Greek through Arabic, the scripts most commonly seen
// mangled in station headers.
var DefaultRanges = []RuneRange{{Lo: 0x0370, Hi: 0x06FF}}

// Fixer holds a table mapping corrupted byte-per-rune sequences back to the
// code point they encode. Safe for concurrent use once built.
type Fixer struct {
	table  map[string]rune
	maxLen int
}

// New builds a Fixer for the given ranges, or DefaultRanges when none are
// given. For each code point the corrupted form is computed forward: its
// UTF-8 bytes are re-read one byte per rune, exactly what a Latin-1 decode
// of UTF-8 data produces.
func New(ranges ...RuneRange) *Fixer {
	if len(ranges) == 0 {
		ranges = DefaultRanges
	}

	f := &Fixer{table: make(map[string]rune)}
	var buf [utf8.UTFMax]byte

	for _, rr := range ranges {
		for c := rr.Lo; c <= rr.Hi; c++ {
			if !utf8.ValidRune(c) {
				continue
			}
			n := utf8.EncodeRune(buf[:], c)
			if n < 2 {
				// ASCII is its own corruption.
				continue
			}

			corrupted := make([]rune, n)
			for i := 0; i < n; i++ {
				corrupted[i] = rune(buf[i])
			}

			key := string(corrupted)
			f.table[key] = c
			if n > f.maxLen {
				f.maxLen = n
			}
		}
	}

	return f
}

// Fix replaces corrupted sequences with the code points they encode. Longer
// sequences are tried first so a three-byte encoding is never split into a
// two-byte match plus garbage. Passes repeat until nothing changes, which
// unwinds text that was mangled more than once. Fix is idempotent.
func (f *Fixer) Fix(s string) string {
	if s == "" || f.maxLen == 0 {
		return s
	}

	for {
		fixed, changed := f.pass(s)
		if !changed {
			return fixed
		}
		s = fixed
	}
}

func (f *Fixer) pass(s string) (string, bool) {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	changed := false
	for i := 0; i < len(runes); {
		matched := false
		for w := f.maxLen; w >= 1; w-- {
			if i+w > len(runes) {
				continue
			}
			if c, ok := f.table[string(runes[i:i+w])]; ok {
				b.WriteRune(c)
				i += w
				matched = true
				changed = true
				break
			}
		}
		if !matched {
			b.WriteRune(runes[i])
			i++
		}
	}

	return b.String(), changed
}
