package sourcemap

import (
	"github.com/MadAppGang/sourcemap/pkg/vlq"
	"github.com/segmentio/encoding/json"
)

// rawSourceMap is the outer JSON shape of a Source Map v3 document. Its
// member-shape validation is exactly the kind of generic struct-tag
// unmarshal segmentio/encoding/json is a faster drop-in for; the
// mapping-string grammar itself is decoded by hand below because no struct
// tag can express it.
type rawSourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []*string `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
	DebugID        string    `json:"debugId"`
	DebugIDSnake   string    `json:"debug_id"`
	IgnoreList     []uint32  `json:"x_google_ignoreList"`
}

// Decode parses a Source Map v3 JSON document into a SourceMap. All decode
// errors surface to the caller; no partial map is ever returned.
func Decode(data []byte) (*SourceMap, error) {
	var raw rawSourceMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError(kindBadJSON, "%v", err)
	}
	if raw.Version != 3 {
		return nil, newError(kindUnsupportedVersion, "version %d is not supported, only 3", raw.Version)
	}

	sm := New()
	sm.file = raw.File
	sm.sourceRoot = raw.SourceRoot

	for _, s := range raw.Sources {
		sm.appendSource(s)
	}

	for i, c := range raw.SourcesContent {
		if i >= len(sm.sources) {
			break
		}
		sm.AppendSourceContent(uint32(i), c)
	}

	sm.names = append(sm.names, raw.Names...)
	sm.ignoreList = append(sm.ignoreList, raw.IgnoreList...)

	debugIDStr := raw.DebugID
	if debugIDStr == "" {
		debugIDStr = raw.DebugIDSnake
	}
	if debugIDStr != "" {
		id, err := ParseDebugID(debugIDStr)
		if err != nil {
			return nil, newError(kindBadJSON, "invalid debugId: %v", err)
		}
		sm.SetDebugID(id)
	}

	tokens, err := decodeMappings(raw.Mappings, len(sm.sources), len(sm.names))
	if err != nil {
		return nil, err
	}
	sm.tokens = tokens

	return sm, nil
}

// decodeMappings implements the mapping string's grammar and
// running-accumulator state machine:
//
//	mappings  := line (';' line)*
//	line      := segment (',' segment)*
//	segment   := (empty) | vlq | vlq^4 | vlq^5
//
// dst_col resets to 0 at each ';'; source_id, src_line, src_col, and
// name_id persist across lines.
func decodeMappings(mappings string, numSources, numNames int) ([]Token, error) {
	// One token per ~6 bytes is a reasonable initial capacity estimate,
	// avoiding reallocation for the common case without over-allocating.
	tokens := make([]Token, 0, len(mappings)/6+1)

	data := []byte(mappings)
	var dstLine, dstCol uint32
	var sourceID, srcLine, srcCol, nameID uint32

	i := 0
	for i < len(data) {
		switch data[i] {
		case ';':
			dstLine++
			dstCol = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		values, arity, n, err := vlq.DecodeSegment(data[i:])
		if err != nil {
			kind := kindBadJSON
			if vlqErr, ok := err.(*vlq.Error); ok {
				kind = vlqErr.Kind
			}
			return nil, newError(kind, "malformed mappings at byte %d: %v", i, err)
		}
		if arity != 1 && arity != 4 && arity != 5 {
			return nil, newError(kindBadSegmentSize, "segment at byte %d has %d fields, expected 1, 4, or 5", i, arity)
		}
		i += n

		dstCol = addDelta(dstCol, values[0])

		if arity == 1 {
			tokens = append(tokens, pureToken(dstLine, dstCol))
			continue
		}

		sourceID = addDelta(sourceID, values[1])
		if int(sourceID) >= numSources {
			return nil, newError(kindInvalidSourceRef, "source index %d out of range (have %d sources)", sourceID, numSources)
		}
		srcLine = addDelta(srcLine, values[2])
		srcCol = addDelta(srcCol, values[3])

		tok := Token{
			DstLine:  dstLine,
			DstCol:   dstCol,
			SrcLine:  srcLine,
			SrcCol:   srcCol,
			SourceID: sourceID,
			NameID:   absent,
		}

		if arity == 5 {
			nameID = addDelta(nameID, values[4])
			if int(nameID) >= numNames {
				return nil, newError(kindInvalidNameRef, "name index %d out of range (have %d names)", nameID, numNames)
			}
			tok.NameID = nameID
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

// addDelta applies a signed VLQ delta to a running unsigned accumulator.
func addDelta(acc uint32, delta int64) uint32 {
	return uint32(int64(acc) + delta)
}
