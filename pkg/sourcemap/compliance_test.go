package sourcemap

import (
	"testing"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// TestEncodeCompliesWithGoSourcemap cross-checks this package's encoder
// against an independent Source Map v3 consumer: every stored token's
// generated position must resolve, to that token's source/line/column,
// through github.com/go-sourcemap/sourcemap's Consumer.
func TestEncodeCompliesWithGoSourcemap(t *testing.T) {
	sm := New()
	sm.appendSource(strp("a.js"))
	sm.appendSource(strp("b.js"))
	sm.names = append(sm.names, "foo")
	sm.tokens = []Token{
		{DstLine: 0, DstCol: 0, SrcLine: 0, SrcCol: 0, SourceID: 0, NameID: 0},
		{DstLine: 0, DstCol: 8, SrcLine: 0, SrcCol: 4, SourceID: 0, NameID: absent},
		{DstLine: 1, DstCol: 0, SrcLine: 2, SrcCol: 1, SourceID: 1, NameID: absent},
	}

	data := Encode(sm)

	consumer, err := gosourcemap.Parse("out.js.map", data)
	if err != nil {
		t.Fatalf("go-sourcemap failed to parse our encoder's output: %v", err)
	}

	for i := 0; i < sm.LenTokens(); i++ {
		tok := sm.TokenAt(i)
		wantSource := sm.Source(tok.SourceID)

		source, _, line, col, ok := consumer.Source(int(tok.DstLine)+1, int(tok.DstCol)+1)
		if !ok {
			t.Errorf("token %d: go-sourcemap found no mapping at %d:%d", i, tok.DstLine, tok.DstCol)
			continue
		}
		if source != wantSource {
			t.Errorf("token %d: go-sourcemap source = %q, want %q", i, source, wantSource)
		}
		if uint32(line-1) != tok.SrcLine || uint32(col-1) != tok.SrcCol {
			t.Errorf("token %d: go-sourcemap position = %d:%d, want %d:%d", i, line-1, col-1, tok.SrcLine, tok.SrcCol)
		}
	}
}
