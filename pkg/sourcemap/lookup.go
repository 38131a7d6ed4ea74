package sourcemap

import "sync/atomic"

// lineIndex maps a 0-based generated line to the slice of token indices on
// that line, sorted by dst_col. It is a derived structure, built on first
// lookup and discarded on mutation.
type lineIndex struct {
	// lines[line] is a slice of indices into the owning SourceMap's tokens,
	// in ascending dst_col order. A missing (out-of-range) line has no
	// entry and is treated as having no tokens.
	lines [][]int32
}

// atomicLineIndex lazily builds and publishes a *lineIndex with at-most-once
// initialization: multiple goroutines racing to build the accelerator each
// compute it (cheap, pure), and only the first to win the CompareAndSwap is
// kept.
type atomicLineIndex struct {
	ptr atomic.Pointer[lineIndex]
}

func (a *atomicLineIndex) invalidate() { a.ptr.Store(nil) }

func buildLineIndex(tokens []Token) *lineIndex {
	idx := &lineIndex{}
	for i, t := range tokens {
		line := int(t.DstLine)
		for len(idx.lines) <= line {
			idx.lines = append(idx.lines, nil)
		}
		idx.lines[line] = append(idx.lines[line], int32(i))
	}
	return idx
}

func (sm *SourceMap) ensureLineIndex() *lineIndex {
	if idx := sm.accel.ptr.Load(); idx != nil {
		return idx
	}
	idx := buildLineIndex(sm.tokens)
	// CompareAndSwap publishes our result only if nobody beat us to it; if
	// somebody did, we throw our (equivalent) copy away and use theirs.
	if sm.accel.ptr.CompareAndSwap(nil, idx) {
		return idx
	}
	return sm.accel.ptr.Load()
}

// LookupToken returns the token with the greatest (dst_line, dst_col) at or
// before the query position, or (Token{}, false) if dst_line is past the
// last mapped line, the query precedes every token on that line, or the
// matched token is a pure segment with no source position.
//
// When multiple tokens share a position, the last one by insertion order
// wins: the code generator's most recent statement at that position.
func (sm *SourceMap) LookupToken(dstLine, dstCol uint32) (Token, bool) {
	idx := sm.ensureLineIndex()
	line := int(dstLine)
	if line >= len(idx.lines) {
		return Token{}, false
	}

	onLine := idx.lines[line]
	// Binary search for the greatest index whose dst_col <= dstCol.
	lo, hi := 0, len(onLine)
	for lo < hi {
		mid := (lo + hi) / 2
		if sm.tokens[onLine[mid]].DstCol <= dstCol {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return Token{}, false
	}

	// onLine is built by a single forward pass over tokens in insertion
	// order (buildLineIndex), so among tokens tied at the same dst_col the
	// rightmost index the search above lands on is already the last one by
	// insertion order.
	tok := sm.tokens[onLine[lo-1]]
	if !tok.HasSource() {
		return Token{}, false
	}
	return tok, true
}

// SourceView is the resolved result of a lookup: the original source URL,
// position, and optional symbol name.
type SourceView struct {
	Source string
	Line   uint32
	Column uint32
	Name   string
	HasName bool
}

// LookupSourceView resolves a token's interned ids into their string values.
func (sm *SourceMap) LookupSourceView(tok Token) (SourceView, bool) {
	if !tok.HasSource() {
		return SourceView{}, false
	}
	view := SourceView{
		Source: sm.Source(tok.SourceID),
		Line:   tok.SrcLine,
		Column: tok.SrcCol,
	}
	if tok.HasName() {
		view.Name = sm.Name(tok.NameID)
		view.HasName = true
	}
	return view, true
}
