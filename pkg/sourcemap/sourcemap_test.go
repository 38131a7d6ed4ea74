package sourcemap

import "testing"

func strp(s string) *string { return &s }

func buildSample() *SourceMap {
	sm := New()
	sm.SetFile("out.js")
	sm.appendSource(strp("a.js"))
	sm.appendSource(strp("b.js"))
	sm.names = append(sm.names, "foo", "bar")

	sm.tokens = []Token{
		{DstLine: 0, DstCol: 0, SrcLine: 0, SrcCol: 0, SourceID: 0, NameID: 0},
		{DstLine: 0, DstCol: 5, SrcLine: 0, SrcCol: 3, SourceID: 0, NameID: absent},
		{DstLine: 2, DstCol: 0, SrcLine: 1, SrcCol: 0, SourceID: 1, NameID: 1},
		pureToken(2, 10),
	}
	return sm
}

func TestRoundTrip(t *testing.T) {
	sm := buildSample()
	data := Encode(sm)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.File() != sm.File() {
		t.Errorf("File = %q, want %q", got.File(), sm.File())
	}
	if got.LenTokens() != sm.LenTokens() {
		t.Fatalf("LenTokens = %d, want %d", got.LenTokens(), sm.LenTokens())
	}
	for i := 0; i < sm.LenTokens(); i++ {
		if got.TokenAt(i) != sm.TokenAt(i) {
			t.Errorf("token %d = %+v, want %+v", i, got.TokenAt(i), sm.TokenAt(i))
		}
	}
	if got.Source(0) != "a.js" || got.Source(1) != "b.js" {
		t.Errorf("sources = %q, %q", got.Source(0), got.Source(1))
	}

	// Re-encoding the decoded map must reproduce the exact same bytes.
	if string(Encode(got)) != string(data) {
		t.Errorf("re-encode mismatch:\n got  %s\n want %s", Encode(got), data)
	}
}

func TestDecodeNullSourcePreserved(t *testing.T) {
	doc := `{"version":3,"sources":[null,"a.js"],"names":[],"mappings":""}`
	sm, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !sm.SourceIsNull(0) {
		t.Error("expected sources[0] to be null")
	}
	if sm.SourceIsNull(1) {
		t.Error("expected sources[1] to be a real URL")
	}
	if sm.Source(1) != "a.js" {
		t.Errorf("Source(1) = %q", sm.Source(1))
	}

	out := string(Encode(sm))
	want := `"sources":[null,"a.js"]`
	if !contains(out, want) {
		t.Errorf("encoded output %s does not contain %s", out, want)
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":2,"sources":[],"names":[],"mappings":""}`))
	if err == nil {
		t.Fatal("expected an error for unsupported version")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != kindUnsupportedVersion {
		t.Errorf("got %v, want kind %s", err, kindUnsupportedVersion)
	}
}

func TestDecodeRejectsOutOfRangeSourceRef(t *testing.T) {
	// "AAEA" is a valid 4-field segment referencing source_id 0, but zero
	// sources are declared: source_id 0 is out of range.
	_, err := Decode([]byte(`{"version":3,"sources":[],"names":[],"mappings":"AAEA"}`))
	if err == nil {
		t.Fatal("expected an invalid source reference error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != kindInvalidSourceRef {
		t.Errorf("got %v, want kind %s", err, kindInvalidSourceRef)
	}
}

func TestDecodeRejectsBadSegmentArity(t *testing.T) {
	// The grammar only permits arity 1, 4, or 5. "AAA" is three single-digit
	// VLQs with no separator between them, so it decodes as one 3-field
	// segment (arity 3).
	_, err := Decode([]byte(`{"version":3,"sources":["a"],"names":[],"mappings":"AAA"}`))
	if err == nil {
		t.Fatal("expected a bad segment size error")
	}
	serr, ok := err.(*Error)
	if !ok || serr.Kind != kindBadSegmentSize {
		t.Errorf("got %v, want kind %s", err, kindBadSegmentSize)
	}
}

func TestLookupTokenTieBreakLastWins(t *testing.T) {
	sm := New()
	sm.appendSource(strp("a.js"))
	sm.tokens = []Token{
		{DstLine: 0, DstCol: 0, SrcLine: 0, SrcCol: 0, SourceID: 0, NameID: absent},
		{DstLine: 0, DstCol: 0, SrcLine: 5, SrcCol: 0, SourceID: 0, NameID: absent},
	}
	tok, ok := sm.LookupToken(0, 0)
	if !ok {
		t.Fatal("expected a hit")
	}
	if tok.SrcLine != 5 {
		t.Errorf("SrcLine = %d, want 5 (last inserted should win the tie)", tok.SrcLine)
	}
}

func TestLookupTokenBeforeFirstMapping(t *testing.T) {
	sm := New()
	sm.appendSource(strp("a.js"))
	sm.tokens = []Token{
		{DstLine: 0, DstCol: 5, SrcLine: 0, SrcCol: 0, SourceID: 0, NameID: absent},
	}
	if _, ok := sm.LookupToken(0, 2); ok {
		t.Error("expected no match before the first mapping on the line")
	}
	if _, ok := sm.LookupToken(1, 0); ok {
		t.Error("expected no match on a line past the last mapped line")
	}
}

func TestEncodeMappingsLineGaps(t *testing.T) {
	sm := New()
	sm.appendSource(strp("a.js"))
	sm.tokens = []Token{
		{DstLine: 0, DstCol: 0, SrcLine: 0, SrcCol: 0, SourceID: 0, NameID: absent},
		{DstLine: 3, DstCol: 0, SrcLine: 1, SrcCol: 0, SourceID: 0, NameID: absent},
	}
	data := Encode(sm)
	// Expect two blank lines (";;") between line 0 and line 3's segment.
	want := `"mappings":"AAAA;;;AACA"`
	if !contains(string(data), want) {
		t.Errorf("encoded = %s, want to contain %s", data, want)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
