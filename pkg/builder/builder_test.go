package builder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceMapBuilderBasic(t *testing.T) {
	b := NewBuilder()
	b.SetFile("out.js")
	src := b.AddSource("a.js")
	require.Equal(t, uint32(0), src)
	// Re-adding the same source must return the same id, not a new one.
	require.Equal(t, src, b.AddSource("a.js"))

	name := b.AddName("foo")
	require.Equal(t, uint32(0), name)

	b.AddToken(0, 0, 0, 0, src, name)
	b.AddToken(0, 5, 0, 3, src, NoName)
	b.AddToken(1, 0, 0, 0, NoSource, NoName)

	sm := b.IntoSourceMap()
	require.Equal(t, "out.js", sm.File())
	require.Equal(t, 3, sm.LenTokens())
	require.Equal(t, "a.js", sm.Source(0))

	tok := sm.TokenAt(0)
	require.True(t, tok.HasSource())
	require.True(t, tok.HasName())

	tok2 := sm.TokenAt(1)
	require.True(t, tok2.HasSource())
	require.False(t, tok2.HasName())

	tok3 := sm.TokenAt(2)
	require.False(t, tok3.HasSource())
}

func TestSourceMapBuilderAddSourceAndContent(t *testing.T) {
	b := NewBuilder()
	content := "console.log(1)"
	id := b.AddSourceAndContent("a.js", &content)
	require.Equal(t, id, b.AddSource("a.js"))

	sm := b.IntoSourceMap()
	got, ok := sm.SourceContentAt(id)
	require.True(t, ok)
	require.Equal(t, content, got)
}

func TestSourceMapBuilderChunks(t *testing.T) {
	b := NewBuilder()
	src := b.AddSource("a.js")

	b.BeginChunk()
	b.AddToken(0, 0, 0, 0, src, NoName)
	b.AddToken(0, 4, 0, 4, src, NoName)
	b.EndChunk()

	b.BeginChunk()
	b.AddToken(0, 8, 0, 8, src, NoName)
	b.AddToken(1, 0, 1, 0, src, NoName)
	b.EndChunk()

	chunks := b.Chunks()
	require.Len(t, chunks, 2)
	require.Equal(t, 0, chunks[0].StartToken)
	require.Equal(t, 2, chunks[0].EndToken)
	require.Equal(t, 2, chunks[1].StartToken)
	require.Equal(t, 4, chunks[1].EndToken)
	// Second chunk starts on the same dst_line (0) the first chunk ended on,
	// so its carried column must be the first chunk's final column.
	require.Equal(t, uint32(4), chunks[1].PrevDstCol)
}
