package builder

import (
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
	"github.com/google/uuid"
)

const absent = ^uint32(0)

// Chunk records the token range a single `token_chunks` entry covers along
// with the accumulator state in effect immediately before it, so the
// encoder can serialize chunks independently and still produce correct
// cross-chunk deltas.
type Chunk struct {
	StartToken, EndToken int

	PrevDstLine uint32
	PrevDstCol  uint32
	PrevSrcID   uint32
	PrevSrcLine uint32
	PrevSrcCol  uint32
	PrevNameID  uint32
}

// SourceMapBuilder accumulates tokens emitted by a code generator into a
// SourceMap.
type SourceMapBuilder struct {
	file       string
	sourceRoot string
	debugID    uuid.UUID
	hasDebugID bool

	sources        Interner
	sourceContents []*string
	names          Interner

	tokens []sourcemap.Token

	chunks     []Chunk
	chunkStart int
}

// NewBuilder returns an empty SourceMapBuilder.
func NewBuilder() *SourceMapBuilder {
	return &SourceMapBuilder{
		sources: *NewInterner(8),
		names:   *NewInterner(8),
	}
}

// SetFile sets the generated file name recorded in the resulting map.
func (b *SourceMapBuilder) SetFile(name string) { b.file = name }

// SetSourceRoot sets the source-root prefix recorded in the resulting map.
func (b *SourceMapBuilder) SetSourceRoot(root string) { b.sourceRoot = root }

// SetDebugID sets the debug id recorded in the resulting map.
func (b *SourceMapBuilder) SetDebugID(id uuid.UUID) {
	b.debugID = id
	b.hasDebugID = true
}

// AddSource interns a source URL, returning the existing id if it was
// already interned.
func (b *SourceMapBuilder) AddSource(url string) uint32 {
	return b.sources.Intern(url)
}

// AddSourceContent extends source_contents as needed with absent entries,
// then sets the content at sourceID.
func (b *SourceMapBuilder) AddSourceContent(sourceID uint32, content *string) {
	for len(b.sourceContents) <= int(sourceID) {
		b.sourceContents = append(b.sourceContents, nil)
	}
	b.sourceContents[sourceID] = content
}

// AddSourceAndContent is the combined form of AddSource + AddSourceContent:
// one hash, one probe, regardless of hit or miss.
func (b *SourceMapBuilder) AddSourceAndContent(url string, content *string) uint32 {
	id, _ := b.sources.InternNew(url)
	if content != nil {
		b.AddSourceContent(id, content)
	}
	return id
}

// AddName interns a symbol name, returning the existing id if already
// interned.
func (b *SourceMapBuilder) AddName(name string) uint32 {
	return b.names.Intern(name)
}

// NoSource and NoName are sentinels callers pass to AddToken to mean "this
// token has no original position" / "no symbol name".
const (
	NoSource = absent
	NoName   = absent
)

// AddToken appends one token. If sourceID is NoSource, srcLine/srcCol/
// nameID are forced absent regardless of what the caller passed, since a
// token with no source can't carry a source position or name either.
func (b *SourceMapBuilder) AddToken(dstLine, dstCol, srcLine, srcCol, sourceID, nameID uint32) {
	tok := sourcemap.Token{DstLine: dstLine, DstCol: dstCol}
	if sourceID == NoSource {
		tok.SrcLine, tok.SrcCol, tok.SourceID, tok.NameID = absent, absent, absent, absent
	} else {
		tok.SrcLine = srcLine
		tok.SrcCol = srcCol
		tok.SourceID = sourceID
		if nameID == NoName {
			tok.NameID = absent
		} else {
			tok.NameID = nameID
		}
	}
	b.tokens = append(b.tokens, tok)
}

// BeginChunk marks the start of a new token_chunks entry at the builder's
// current position. EndChunk then records the accumulator state a parallel
// encoder would need to start this chunk with correct cross-chunk deltas.
func (b *SourceMapBuilder) BeginChunk() {
	b.chunkStart = len(b.tokens)
}

// EndChunk closes the chunk started by the last BeginChunk call and
// records it. If this chunk starts on the same generated line the previous
// chunk ended on, PrevDstCol carries the previous chunk's final column so
// the encoder does not emit a spurious negative first delta; if the lines
// differ, PrevDstCol is 0 because the line break itself resets the column.
func (b *SourceMapBuilder) EndChunk() {
	start := b.chunkStart
	end := len(b.tokens)

	chunk := Chunk{
		StartToken: start,
		EndToken:   end,
	}
	if start > 0 {
		prev := b.tokens[start-1]
		chunk.PrevDstLine = prev.DstLine
		if end > start && b.tokens[start].DstLine == prev.DstLine {
			chunk.PrevDstCol = prev.DstCol
		}
		foundSrc, foundName := false, false
		for j := start - 1; j >= 0 && !(foundSrc && foundName); j-- {
			if !foundSrc && b.tokens[j].HasSource() {
				chunk.PrevSrcID = b.tokens[j].SourceID
				chunk.PrevSrcLine = b.tokens[j].SrcLine
				chunk.PrevSrcCol = b.tokens[j].SrcCol
				foundSrc = true
			}
			if !foundName && b.tokens[j].HasName() {
				chunk.PrevNameID = b.tokens[j].NameID
				foundName = true
			}
		}
	}
	b.chunks = append(b.chunks, chunk)
}

// Chunks returns the recorded token_chunks side-channel.
func (b *SourceMapBuilder) Chunks() []Chunk { return b.chunks }

// IntoSourceMap consumes the builder, producing its SourceMap.
func (b *SourceMapBuilder) IntoSourceMap() *sourcemap.SourceMap {
	sm := sourcemap.New()
	sm.SetFile(b.file)
	sm.SetSourceRoot(b.sourceRoot)
	for _, url := range b.sources.Values() {
		u := url
		sourcemap.AppendSource(sm, &u)
	}
	for id, content := range b.sourceContents {
		if content != nil {
			sm.AppendSourceContent(uint32(id), content)
		}
	}
	sourcemap.AppendNames(sm, b.names.Values())
	sourcemap.AppendTokens(sm, b.tokens)
	if b.hasDebugID {
		sm.SetDebugID(b.debugID)
	}
	return sm
}
