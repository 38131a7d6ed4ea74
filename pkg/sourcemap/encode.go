package sourcemap

import (
	"bytes"
	"runtime"
	"sync"

	"github.com/MadAppGang/sourcemap/pkg/vlq"
)

// Encode serializes sm to canonical Source Map v3 JSON: members in a stable
// order, mapping string built token by token. Encode never fails; any
// SourceMap, however constructed, has a well-defined encoding.
func Encode(sm *SourceMap) []byte {
	var buf bytes.Buffer
	buf.Grow(64 + len(sm.tokens)*8)

	buf.WriteString(`{"version":3`)

	if sm.file != "" {
		buf.WriteString(`,"file":`)
		writeJSONString(&buf, sm.file)
	}
	if sm.sourceRoot != "" {
		buf.WriteString(`,"sourceRoot":`)
		writeJSONString(&buf, sm.sourceRoot)
	}

	buf.WriteString(`,"sources":[`)
	for i, s := range sm.sources {
		if i > 0 {
			buf.WriteByte(',')
		}
		if s == nil {
			buf.WriteString("null")
		} else {
			writeJSONString(&buf, *s)
		}
	}
	buf.WriteString(`]`)

	if anySourceContent(sm.sourceContents) {
		buf.WriteString(`,"sourcesContent":[`)
		for i := range sm.sources {
			if i > 0 {
				buf.WriteByte(',')
			}
			if i < len(sm.sourceContents) && sm.sourceContents[i] != nil {
				writeJSONString(&buf, *sm.sourceContents[i])
			} else {
				buf.WriteString("null")
			}
		}
		buf.WriteString(`]`)
	}

	if len(sm.ignoreList) > 0 {
		buf.WriteString(`,"x_google_ignoreList":[`)
		for i, id := range sm.ignoreList {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeUint(&buf, uint64(id))
		}
		buf.WriteString(`]`)
	}

	buf.WriteString(`,"names":[`)
	for i, n := range sm.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, n)
	}
	buf.WriteString(`]`)

	buf.WriteString(`,"mappings":"`)
	buf.Write(encodeMappings(sm.tokens))
	buf.WriteString(`"`)

	if id, ok := sm.DebugID(); ok {
		buf.WriteString(`,"debugId":`)
		writeJSONString(&buf, FormatDebugID(id))
	}

	buf.WriteByte('}')
	return buf.Bytes()
}

func anySourceContent(contents []SourceContent) bool {
	for _, c := range contents {
		if c != nil {
			return true
		}
	}
	return false
}

// encodeLineState is the five running accumulators maintained across one
// partition (the tokens of one generated line) of the mapping string. Zero value
// is the correct starting state for the very first line of the map.
type encodeLineState struct {
	prevDstCol  int64
	prevSrcID   int64
	prevSrcLine int64
	prevSrcCol  int64
	prevNameID  int64
}

// encodeMappings produces the VLQ mapping string for tokens, which must
// already be in ascending (dst_line, dst_col) order.
//
// The mapping string is partitioned at line boundaries (dst_col resets at
// each ';') and each partition is encoded independently, concatenated with
// ';'. The cross-partition running state for source_id/src_line/src_col/
// name_id is pre-computed from each partition's first token rather than
// carried through a shared mutex, so the result is identical whether this
// runs sequentially or in parallel.
func encodeMappings(tokens []Token) []byte {
	if len(tokens) == 0 {
		return nil
	}

	ranges := partitionByLine(tokens)
	results := make([][]byte, len(ranges))

	if len(ranges) == 1 || runtime.GOMAXPROCS(0) <= 1 {
		for i, r := range ranges {
			results[i] = encodeLineFragment(tokens, r, i)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, runtime.GOMAXPROCS(0))
		for i, r := range ranges {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, r lineRange) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i] = encodeLineFragment(tokens, r, i)
			}(i, r)
		}
		wg.Wait()
	}

	out := withSemicolonGaps(nil, ranges[0].line)
	out = append(out, results[0]...)
	for i := 1; i < len(results); i++ {
		out = withSemicolonGaps(out, ranges[i].line-ranges[i-1].line)
		out = append(out, results[i]...)
	}
	return out
}

// withSemicolonGaps appends n semicolons to dst.
func withSemicolonGaps(dst []byte, n uint32) []byte {
	for ; n > 0; n-- {
		dst = append(dst, ';')
	}
	return dst
}

// encodeLineFragment encodes one partition's tokens (all sharing the same
// dst_line) against the entry state computed from everything before it.
func encodeLineFragment(tokens []Token, r lineRange, _ int) []byte {
	return encodeLineRange(tokens, r.start, r.end, startStateFor(tokens, r.start))
}

type lineRange struct {
	start, end int // token indices [start, end) all on the same dst_line
	line       uint32
}

// partitionByLine splits tokens into contiguous same-line runs. Line gaps
// (no tokens on an intermediate line) produce no run; encodeMappings emits
// the right number of semicolons between runs from their recorded lines,
// just as the sequential encoder would.
func partitionByLine(tokens []Token) []lineRange {
	var ranges []lineRange
	start := 0
	for i := 1; i <= len(tokens); i++ {
		if i == len(tokens) || tokens[i].DstLine != tokens[start].DstLine {
			ranges = append(ranges, lineRange{start: start, end: i, line: tokens[start].DstLine})
			start = i
		}
	}
	return ranges
}

// startStateFor computes the entry accumulator state for a partition
// starting at token index i: source_id/src_line/src_col/name_id must be
// carried from whatever the previous token (anywhere earlier in the whole
// stream) last set them to, while dst_col always starts a new line at 0.
func startStateFor(tokens []Token, i int) encodeLineState {
	var st encodeLineState
	foundSrc, foundName := false, false
	for j := i - 1; j >= 0 && !(foundSrc && foundName); j-- {
		if !foundSrc && tokens[j].HasSource() {
			st.prevSrcID = int64(tokens[j].SourceID)
			st.prevSrcLine = int64(tokens[j].SrcLine)
			st.prevSrcCol = int64(tokens[j].SrcCol)
			foundSrc = true
		}
		if !foundName && tokens[j].HasName() {
			st.prevNameID = int64(tokens[j].NameID)
			foundName = true
		}
	}
	return st
}

// encodeLineRange encodes tokens[start:end], all of which share one
// dst_line (partitionByLine's invariant), starting from the given
// accumulator state. It returns the mapping-string fragment for that one
// line, with no leading or trailing ';' (the caller joins fragments with
// the right number of semicolons for any line gaps).
func encodeLineRange(tokens []Token, start, end int, st encodeLineState) []byte {
	if start == end {
		return nil
	}
	var out []byte

	for i := start; i < end; i++ {
		tok := tokens[i]
		if i > start {
			out = append(out, ',')
		}

		out = vlq.Append(out, int64(tok.DstCol)-st.prevDstCol)
		st.prevDstCol = int64(tok.DstCol)

		if !tok.HasSource() {
			continue
		}

		out = vlq.Append(out, int64(tok.SourceID)-st.prevSrcID)
		out = vlq.Append(out, int64(tok.SrcLine)-st.prevSrcLine)
		out = vlq.Append(out, int64(tok.SrcCol)-st.prevSrcCol)
		st.prevSrcID = int64(tok.SourceID)
		st.prevSrcLine = int64(tok.SrcLine)
		st.prevSrcCol = int64(tok.SrcCol)

		if tok.HasName() {
			out = vlq.Append(out, int64(tok.NameID)-st.prevNameID)
			st.prevNameID = int64(tok.NameID)
		}
	}
	return out
}

// writeUint writes a non-negative integer as decimal ASCII.
func writeUint(buf *bytes.Buffer, v uint64) {
	var tmp [20]byte
	i := len(tmp)
	if v == 0 {
		buf.WriteByte('0')
		return
	}
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	buf.Write(tmp[i:])
}

// writeJSONString writes s as a JSON string literal, escaping \", \\, \n,
// \r, \t, \b, \f, and \uXXXX for other control characters; everything else
// (including multibyte UTF-8) is copied verbatim.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			const hex = "0123456789abcdef"
			buf.WriteString(`\u00`)
			buf.WriteByte(hex[c>>4])
			buf.WriteByte(hex[c&0xF])
		}
		start = i + 1
	}
	if start < len(s) {
		buf.WriteString(s[start:])
	}
	buf.WriteByte('"')
}
