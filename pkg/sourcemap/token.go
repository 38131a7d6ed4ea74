// Package sourcemap implements the Source Map v3 token model, decoder, and
// encoder: an immutable, column-sorted mapping table plus the JSON codec
// that produces and consumes it.
package sourcemap

import "math"

// absent is the sentinel value for Token fields that are not present. It
// must never be written to JSON; the encoder and every accessor treat it as
// "no value" rather than as a real index.
const absent = math.MaxUint32

// Token records one mapping entry: a position in generated output, and
// optionally the original position, source, and symbol name it came from.
//
// Token is a small value type (six uint32 fields) so callers can copy it
// freely instead of holding references into the store.
type Token struct {
	DstLine uint32
	DstCol  uint32

	SrcLine  uint32
	SrcCol   uint32
	SourceID uint32
	NameID   uint32
}

// HasSource reports whether the token carries an original position at all.
// A token with no source is a "pure" segment: it marks "no mapping at or
// after this column" and carries no source line/column/name.
func (t Token) HasSource() bool { return t.SourceID != absent }

// HasName reports whether the token references an interned name. A token
// can only have a name if it also has a source.
func (t Token) HasName() bool { return t.NameID != absent }

// pureToken returns a Token for the given generated position with every
// original-position field absent.
func pureToken(dstLine, dstCol uint32) Token {
	return Token{DstLine: dstLine, DstCol: dstCol, SrcLine: absent, SrcCol: absent, SourceID: absent, NameID: absent}
}

// lessPos reports whether position (aLine, aCol) sorts strictly before
// (bLine, bCol), the order tokens are stored in.
func lessPos(aLine, aCol, bLine, bCol uint32) bool {
	return aLine < bLine || (aLine == bLine && aCol < bCol)
}
