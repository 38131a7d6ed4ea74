package builder

import (
	"github.com/MadAppGang/sourcemap/pkg/sourcemap"
)

// ConcatSourceMapBuilder splices N existing source maps end-to-end into a
// single output whose generated content is the concatenation of the N
// generated texts at their given line offsets.
//
// The default join strategy is disjoint append: each contribution's
// sources and names are appended to the output tables without
// deduplication by value. WithDedupe switches both tables to resolve
// through a shared lookup table instead (a plain map for sources, an
// Interner for names), so a source URL or name already seen
// in an earlier contribution collapses to its existing id rather than
// being appended again.
type ConcatSourceMapBuilder struct {
	dedupe bool

	sources        []*string
	sourceContents []*string
	names          []string
	tokens         []sourcemap.Token
	ignoreList     []uint32
	file           string
	sourceRoot     string

	// sourceDedupe maps an already-seen source URL to its output id. A plain
	// map, not the Interner used elsewhere: sources can contain literal-null
	// entries that are never interned, so an Interner's own internal id
	// counter would drift out of step with this table's actual positions.
	sourceDedupe map[string]uint32
	nameIntern   *Interner
}

// ConcatOption configures a ConcatSourceMapBuilder.
type ConcatOption func(*ConcatSourceMapBuilder)

// WithDedupe switches the sources and names joins to use a single shared
// lookup table each (a plain map for sources, an Interner for names), so a
// source URL or name already seen in an earlier contribution is reused
// rather than re-appended. Literal-null sources are never deduplicated.
func WithDedupe() ConcatOption {
	return func(c *ConcatSourceMapBuilder) { c.dedupe = true }
}

// NewConcatBuilder returns an empty ConcatSourceMapBuilder.
func NewConcatBuilder(opts ...ConcatOption) *ConcatSourceMapBuilder {
	c := &ConcatSourceMapBuilder{}
	for _, opt := range opts {
		opt(c)
	}
	if c.dedupe {
		c.sourceDedupe = make(map[string]uint32)
		c.nameIntern = NewInterner(8)
	}
	return c
}

// SetFile sets the generated file name recorded in the resulting map.
func (c *ConcatSourceMapBuilder) SetFile(name string) { c.file = name }

// SetSourceRoot sets the source-root prefix recorded in the resulting map.
func (c *ConcatSourceMapBuilder) SetSourceRoot(root string) { c.sourceRoot = root }

// Add splices one contribution into the output. Contributions must be
// added in the order they should appear; Add does not sort or reorder.
//
// Even a contribution with zero sources and zero tokens still runs the
// full interning join below, so the id maps computed for every later
// contribution advance correctly: concatenating an empty map must never
// corrupt the id offsets of what follows it.
func (c *ConcatSourceMapBuilder) Add(m *sourcemap.SourceMap, lineOffset uint32) {
	sourceIDs := c.joinSources(m)
	nameIDs := c.joinNames(m)

	for _, id := range m.IgnoreList() {
		c.ignoreList = append(c.ignoreList, sourceIDs[id])
	}

	for i := 0; i < m.LenTokens(); i++ {
		t := m.TokenAt(i)
		out := sourcemap.Token{
			DstLine: t.DstLine + lineOffset,
			DstCol:  t.DstCol,
		}
		if t.HasSource() {
			out.SrcLine = t.SrcLine
			out.SrcCol = t.SrcCol
			out.SourceID = sourceIDs[t.SourceID]
			if t.HasName() {
				out.NameID = nameIDs[t.NameID]
			} else {
				out.NameID = absent
			}
		} else {
			out.SrcLine = absent
			out.SrcCol = absent
			out.SourceID = absent
			out.NameID = absent
		}
		c.tokens = append(c.tokens, out)
	}
}

// joinSources appends m's sources to the output table (disjoint append),
// or resolves each through the shared interner (dedupe mode). It returns a
// slice mapping m's local source ids to output ids, for Add to translate
// tokens and the ignore list with.
func (c *ConcatSourceMapBuilder) joinSources(m *sourcemap.SourceMap) []uint32 {
	n := m.LenSources()
	ids := make([]uint32, n)

	for i := 0; i < n; i++ {
		var entry *string
		if !m.SourceIsNull(uint32(i)) {
			s := m.Source(uint32(i))
			entry = &s
		}

		if c.dedupe && entry != nil {
			if id, ok := c.sourceDedupe[*entry]; ok {
				ids[i] = id
				continue
			}
		}

		id := uint32(len(c.sources))
		c.sources = append(c.sources, entry)
		if content, ok := m.SourceContentAt(uint32(i)); ok {
			c.setSourceContent(id, &content)
		} else {
			c.setSourceContent(id, nil)
		}
		if c.dedupe && entry != nil {
			c.sourceDedupe[*entry] = id
		}
		ids[i] = id
	}
	return ids
}

func (c *ConcatSourceMapBuilder) setSourceContent(id uint32, content *string) {
	for len(c.sourceContents) <= int(id) {
		c.sourceContents = append(c.sourceContents, nil)
	}
	c.sourceContents[id] = content
}

// joinNames appends m's names to the output table (disjoint append), or
// resolves each through the shared interner (dedupe mode). It returns a
// slice mapping m's local name ids to output ids.
func (c *ConcatSourceMapBuilder) joinNames(m *sourcemap.SourceMap) []uint32 {
	n := m.LenNames()
	ids := make([]uint32, n)

	for i := 0; i < n; i++ {
		name := m.Name(uint32(i))
		if c.dedupe {
			id, created := c.nameIntern.InternNew(name)
			ids[i] = id
			if created {
				c.names = append(c.names, name)
			}
			continue
		}
		ids[i] = uint32(len(c.names))
		c.names = append(c.names, name)
	}
	return ids
}

// IntoSourceMap consumes the builder, producing its spliced SourceMap.
func (c *ConcatSourceMapBuilder) IntoSourceMap() *sourcemap.SourceMap {
	sm := sourcemap.New()
	sm.SetFile(c.file)
	sm.SetSourceRoot(c.sourceRoot)
	for _, s := range c.sources {
		sourcemap.AppendSource(sm, s)
	}
	for id, content := range c.sourceContents {
		if content != nil {
			sm.AppendSourceContent(uint32(id), content)
		}
	}
	sourcemap.AppendNames(sm, c.names)
	sourcemap.AppendTokens(sm, c.tokens)
	sm.SetIgnoreList(c.ignoreList)
	return sm
}
