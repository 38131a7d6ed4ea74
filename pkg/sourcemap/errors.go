package sourcemap

import "fmt"

// Error is the sum of decode-time error kinds. The decoder performs no
// partial recovery: any of these aborts decoding and returns no partial
// map.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("sourcemap: %s: %s", e.Kind, e.Msg) }

func newError(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

const (
	kindBadJSON            = "BadJson"
	kindUnsupportedVersion = "UnsupportedVersion"
	kindBadSegmentSize     = "BadSegmentSize"
	kindInvalidSourceRef   = "InvalidSourceReference"
	kindInvalidNameRef     = "InvalidNameReference"
)
