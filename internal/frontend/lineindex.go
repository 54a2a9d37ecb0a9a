package frontend

import (
	"sort"
	"unicode/utf16"
)

// lineIndex records the offset of every newline in a source unit so absolute
// diagnostic offsets can be converted to editor coordinates. Offsets are in
// UTF-16 code units: that is the engine's native unit for positions into the
// source string, and it diverges from byte offsets as soon as the source
// contains a non-ASCII character.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	var ix lineIndex
	pos := 0
	for _, r := range src {
		if r == '\n' {
			ix = append(ix, pos)
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		pos += n
	}
	return ix
}

// position converts an absolute UTF-16 offset to a 1-indexed line and
// 0-indexed column, the column again counted in UTF-16 code units.
func (ix lineIndex) position(off int) (line, column int) {
	// Number of newlines strictly before off.
	n := sort.SearchInts(ix, off)
	if n == 0 {
		return 1, off
	}
	return n + 1, off - (ix[n-1] + 1)
}
