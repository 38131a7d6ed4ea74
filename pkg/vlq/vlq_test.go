package vlq

import "testing"

func TestAppend(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"zero", 0, "A"},
		{"one", 1, "C"},
		{"minus one", -1, "D"},
		{"sixteen", 16, "gB"},
		{"minus sixteen", -16, "hB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Append(nil, tt.input))
			if got != tt.expected {
				t.Errorf("Append(%d) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		consumed int
	}{
		{"zero", "A", 0, 1},
		{"one", "C", 1, 1},
		{"minus one", "D", -1, 1},
		{"sixteen", "gB", 16, 2},
		{"minus sixteen", "hB", -16, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, n, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.input, err)
			}
			if value != tt.expected || n != tt.consumed {
				t.Errorf("Decode(%q) = (%d, %d), expected (%d, %d)", tt.input, value, n, tt.expected, tt.consumed)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 31, -31, 32, -32, 123, -123, 1000, -1000, 1 << 20, -(1 << 20), 1 << 40, -(1 << 40)} {
		encoded := Append(nil, v)
		decoded, n, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Append(%d)) returned error: %v", v, err)
		}
		if n != len(encoded) {
			t.Errorf("Decode(Append(%d)) consumed %d bytes, expected %d", v, n, len(encoded))
		}
		if decoded != v {
			t.Errorf("Decode(Append(%d)) = %d", v, decoded)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"invalid char", "!"},
		{"truncated continuation", "g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode([]byte(tt.input)); err == nil {
				t.Errorf("Decode(%q) expected an error, got none", tt.input)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		arity    int
		values   [5]int64
		consumed int
	}{
		{"pure segment", "A,", 1, [5]int64{0}, 1},
		{"four field segment", "AAAA,", 4, [5]int64{0, 0, 0, 0}, 4},
		{"five field segment", "IAUEA", 5, [5]int64{4, 0, 10, 2, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, arity, n, err := DecodeSegment([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeSegment(%q) returned error: %v", tt.input, err)
			}
			if arity != tt.arity || n != tt.consumed {
				t.Fatalf("DecodeSegment(%q) = (arity=%d, n=%d), expected (arity=%d, n=%d)", tt.input, arity, n, tt.arity, tt.consumed)
			}
			if values != tt.values {
				t.Errorf("DecodeSegment(%q) values = %v, expected %v", tt.input, values, tt.values)
			}
		})
	}
}

func TestAlphabetCharset(t *testing.T) {
	expected := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	if string(alphabet[:]) != expected {
		t.Errorf("alphabet = %q, expected %q", alphabet, expected)
	}
}
