package sourcemap

import "github.com/google/uuid"

// ParseDebugID parses a 32-hex-character (optionally hyphenated) debug id
// string into a uuid.UUID.
func ParseDebugID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatDebugID renders id in canonical 8-4-4-4-12 form for the `debugId`
// wire member.
func FormatDebugID(id uuid.UUID) string {
	return id.String()
}
