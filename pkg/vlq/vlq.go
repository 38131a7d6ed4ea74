// Package vlq implements the Base64-VLQ codec used by the Source Map v3
// mapping string: a signed integer is zig-zag biased to unsigned, sign in
// bit 0, then emitted five bits at a time with a continuation bit in
// position 5, each 6-bit group mapped to one Base64 character.
package vlq

import "fmt"

const (
	shiftBits      = 5
	groupMask      = (1 << shiftBits) - 1 // 31
	continuation   = 1 << shiftBits       // 32
	maxGroups      = 13                   // ceil(65 bits / 5): zig-zag of any int64 needs at most this many groups
)

var alphabet = [64]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
	'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '+', '/',
}

// decodeTable maps a Base64 character to its 6-bit value, or -1 if the byte
// is not part of the alphabet.
var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i, c := range alphabet {
		t[c] = int8(i)
	}
	return t
}()

// Error is the sum of things that can go wrong decoding a VLQ value.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("vlq: %s: %s", e.Kind, e.Msg) }

var (
	// ErrInvalidChar is returned when a byte outside the Base64 alphabet is
	// encountered while decoding.
	ErrInvalidChar = &Error{Kind: "VlqInvalidChar", Msg: "character is not part of the base64 VLQ alphabet"}
	// ErrTooLong is returned when a single VLQ value exceeds the maximum
	// number of continuation groups a 64-bit integer can ever need.
	ErrTooLong = &Error{Kind: "VlqTooLong", Msg: "value has more continuation groups than fit in 64 bits"}
	// ErrEmptyField is returned when decoding is attempted on an empty
	// remainder (no characters left to decode a value from).
	ErrEmptyField = &Error{Kind: "VlqEmptyField", Msg: "no characters available to decode a value from"}
)

// Append encodes value as Base64-VLQ and appends the 1-13 ASCII bytes it
// produces to dst, returning the extended slice.
func Append(dst []byte, value int64) []byte {
	var n uint64
	if value < 0 {
		n = (uint64(-value) << 1) | 1
	} else {
		n = uint64(value) << 1
	}

	// Common case: value fits in a single digit.
	if n>>shiftBits == 0 {
		return append(dst, alphabet[n&groupMask])
	}

	for {
		digit := n & groupMask
		n >>= shiftBits
		if n != 0 {
			digit |= continuation
		}
		dst = append(dst, alphabet[digit])
		if n == 0 {
			break
		}
	}
	return dst
}

// Decode reads one Base64-VLQ integer from the start of src, returning its
// value and the number of bytes consumed.
func Decode(src []byte) (value int64, n int, err error) {
	if len(src) == 0 {
		return 0, 0, ErrEmptyField
	}

	var result uint64
	shift := uint(0)
	for i := 0; i < len(src); i++ {
		if i >= maxGroups {
			return 0, 0, ErrTooLong
		}
		digit := decodeTable[src[i]]
		if digit < 0 {
			return 0, 0, ErrInvalidChar
		}
		result |= uint64(digit&groupMask) << shift
		shift += shiftBits
		n++
		if digit&continuation == 0 {
			signed := int64(result >> 1)
			if result&1 != 0 {
				signed = -signed
			}
			return signed, n, nil
		}
	}
	return 0, 0, ErrTooLong
}

// DecodeSegment reads one full mapping segment (1, 4, or 5 VLQ integers)
// from the start of src, stopping at the first byte that is not part of the
// Base64 alphabet (a ',' or ';' separator, or end of input). It returns the
// decoded values, the segment's arity, and the number of bytes consumed.
// Integers past the fifth are counted in arity but not stored in values.
//
// Any arity outside {1, 4, 5} is reported via BadSegmentSize-shaped errors
// at the call site; DecodeSegment itself only reports malformed VLQ.
func DecodeSegment(src []byte) (values [5]int64, arity int, n int, err error) {
	for {
		rest := src[n:]
		if len(rest) == 0 || decodeTable[rest[0]] < 0 {
			break
		}
		v, consumed, derr := Decode(rest)
		if derr != nil {
			return values, 0, 0, derr
		}
		if arity < len(values) {
			values[arity] = v
		}
		arity++
		n += consumed
	}
	return values, arity, n, nil
}
