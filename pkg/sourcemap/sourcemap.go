package sourcemap

import "github.com/google/uuid"

// SourceContent is the stored content of one source file, or the absence of
// it. A nil *string means "no content recorded", distinct from an empty
// string (content is the empty file).
type SourceContent = *string

// SourceMap is the token store: an immutable, column-sorted table of Token
// records plus the interned sources/source-contents/names tables it indexes
// into.
//
// A SourceMap produced by a Builder or Decoder is logically immutable for
// lookups; the explicit mutators below (SetFile, SetSourceRoot, ...)
// invalidate the lazily-built lookup accelerator.
type SourceMap struct {
	file       string
	sourceRoot string

	// sources holds one entry per interned source; nil means the wire form
	// was a literal JSON null (preserved on round-trip), distinct from an
	// interned empty-string URL.
	sources        []*string
	sourceContents []SourceContent
	names          []string

	tokens []Token

	debugID    uuid.UUID
	hasDebugID bool

	ignoreList []uint32

	accel atomicLineIndex
}

// New returns an empty SourceMap. Builders and the decoder are the usual
// way to populate one; direct field-by-field construction is for this
// package's tests, and the builder package fills one through the exported
// AppendSource/AppendNames/AppendTokens helpers.
func New() *SourceMap {
	return &SourceMap{}
}

// File returns the optional name of the generated file this map describes.
func (sm *SourceMap) File() string { return sm.file }

// SetFile sets the generated file name and invalidates the lookup
// accelerator. File doesn't affect dst positions, but every mutator
// invalidates the accelerator uniformly rather than reasoning field by
// field about which ones matter.
func (sm *SourceMap) SetFile(name string) {
	sm.file = name
	sm.accel.invalidate()
}

// SourceRoot returns the optional prefix URL prepended to every source.
func (sm *SourceMap) SourceRoot() string { return sm.sourceRoot }

// SetSourceRoot sets the source-root prefix.
func (sm *SourceMap) SetSourceRoot(root string) {
	sm.sourceRoot = root
	sm.accel.invalidate()
}

// LenSources returns the number of interned source URLs.
func (sm *SourceMap) LenSources() int { return len(sm.sources) }

// Source returns the interned source URL at id, or "" if id is out of
// range or the entry is a literal null.
func (sm *SourceMap) Source(id uint32) string {
	if int(id) >= len(sm.sources) || sm.sources[id] == nil {
		return ""
	}
	return *sm.sources[id]
}

// SourceIsNull reports whether the source at id is a literal JSON null
// rather than an interned URL (possibly empty-string).
func (sm *SourceMap) SourceIsNull(id uint32) bool {
	return int(id) < len(sm.sources) && sm.sources[id] == nil
}

// appendSource interns one raw source entry (nil means literal null).
func (sm *SourceMap) appendSource(s *string) uint32 {
	id := uint32(len(sm.sources))
	sm.sources = append(sm.sources, s)
	sm.accel.invalidate()
	return id
}

// AppendSource appends one raw source entry (nil means literal null) and
// returns its id. Exported for the builder package, which assembles a
// SourceMap's sources table from its own interner.
func AppendSource(sm *SourceMap, s *string) uint32 {
	return sm.appendSource(s)
}

// AppendNames appends a batch of already-deduplicated names in order.
// Exported for the builder package.
func AppendNames(sm *SourceMap, names []string) {
	sm.names = append(sm.names, names...)
	sm.accel.invalidate()
}

// AppendTokens appends a batch of tokens, already in ascending (dst_line,
// dst_col) order. Exported for the builder package.
func AppendTokens(sm *SourceMap, tokens []Token) {
	sm.tokens = append(sm.tokens, tokens...)
	sm.accel.invalidate()
}

// SourceContentAt returns the recorded content for source id, or ("",
// false) if none was recorded.
func (sm *SourceMap) SourceContentAt(id uint32) (string, bool) {
	if int(id) >= len(sm.sourceContents) || sm.sourceContents[id] == nil {
		return "", false
	}
	return *sm.sourceContents[id], true
}

// AppendSourceContent extends the source-contents table as needed with
// absent entries, then sets the content at id.
func (sm *SourceMap) AppendSourceContent(id uint32, content *string) {
	for len(sm.sourceContents) <= int(id) {
		sm.sourceContents = append(sm.sourceContents, nil)
	}
	sm.sourceContents[id] = content
	sm.accel.invalidate()
}

// LenNames returns the number of interned symbol names.
func (sm *SourceMap) LenNames() int { return len(sm.names) }

// Name returns the interned name at id, or "" if id is out of range.
func (sm *SourceMap) Name(id uint32) string {
	if int(id) >= len(sm.names) {
		return ""
	}
	return sm.names[id]
}

// LenTokens returns the number of stored tokens.
func (sm *SourceMap) LenTokens() int { return len(sm.tokens) }

// TokenAt returns the i'th token in insertion order.
func (sm *SourceMap) TokenAt(i int) Token { return sm.tokens[i] }

// Tokens returns the underlying token slice. Callers must not mutate it;
// SourceMap.accel.invalidate() is the only way to signal a change and the
// accessor intentionally does not defend against a caller sorting this
// slice behind the map's back.
func (sm *SourceMap) Tokens() []Token { return sm.tokens }

// IgnoreList returns the set of source ids the x_google_ignoreList
// extension marks as framework/third-party.
func (sm *SourceMap) IgnoreList() []uint32 { return sm.ignoreList }

// SetIgnoreList replaces the ignore list.
func (sm *SourceMap) SetIgnoreList(ids []uint32) {
	sm.ignoreList = ids
	sm.accel.invalidate()
}

// DebugID returns the map's debug id and whether one is set.
func (sm *SourceMap) DebugID() (uuid.UUID, bool) { return sm.debugID, sm.hasDebugID }

// SetDebugID sets the map's debug id.
func (sm *SourceMap) SetDebugID(id uuid.UUID) {
	sm.debugID = id
	sm.hasDebugID = true
	sm.accel.invalidate()
}
