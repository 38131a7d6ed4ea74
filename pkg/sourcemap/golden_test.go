package sourcemap

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestGoldenRoundTrip decodes each fixture's "input.map" and checks that
// re-encoding it reproduces the fixture's "canonical.map" byte for byte.
// Locks the encoder's exact output down against the fixture file, the way
// the teacher's own tests/golden directory pins generated output.
func TestGoldenRoundTrip(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "roundtrip.txtar"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	fixtures := map[string]struct{ input, canonical []byte }{}
	for _, f := range archive.Files {
		dir, name := path2(f.Name)
		entry := fixtures[dir]
		switch name {
		case "input.map":
			entry.input = f.Data
		case "canonical.map":
			entry.canonical = f.Data
		}
		fixtures[dir] = entry
	}

	if len(fixtures) == 0 {
		t.Fatal("no fixtures found in roundtrip.txtar")
	}

	for name, fx := range fixtures {
		t.Run(name, func(t *testing.T) {
			sm, err := Decode(trimNL(fx.input))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			got := string(Encode(sm))
			want := string(trimNL(fx.canonical))
			if got != want {
				t.Errorf("re-encode mismatch:\n got  %s\n want %s", got, want)
			}
		})
	}
}

func path2(name string) (dir, file string) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

func trimNL(b []byte) []byte {
	return []byte(strings.TrimRight(string(b), "\n"))
}
