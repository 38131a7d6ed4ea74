// Package builder implements the two source-map write paths: a
// single-origin SourceMapBuilder that accumulates tokens from a code
// generator, and a ConcatSourceMapBuilder that splices already-built maps
// together.
package builder

import "github.com/cespare/xxhash/v2"

// internEntry is one slot in an Interner's open-addressed table.
type internEntry struct {
	hash uint64
	id   uint32
	used bool
}

// Interner assigns stable, insertion-ordered ids to interned strings with a
// single hash computation and a single table probe per call, allocating the
// backing string storage only on a miss. This is built on xxhash rather
// than a bare `map[string]uint32`, which would otherwise be perfectly
// adequate but re-hashes the key internally on every lookup and every
// insert.
type Interner struct {
	table  []internEntry // power-of-two sized, open addressing with linear probe
	values []string      // id -> string, insertion order
	count  int
}

// NewInterner returns an empty interner pre-sized for cap entries.
func NewInterner(capHint int) *Interner {
	size := 16
	for size < capHint*2 {
		size *= 2
	}
	return &Interner{table: make([]internEntry, size)}
}

// Intern returns the id for s, creating one if s has not been seen before.
// Exactly one hash is computed and exactly one probe sequence is walked
// regardless of hit or miss.
func (in *Interner) Intern(s string) uint32 {
	id, _ := in.InternNew(s)
	return id
}

// InternNew is Intern plus a hit/miss report, so a caller that needs to know
// whether s was newly added (for example to also record source content only
// the first time a source URL is seen) does not have to pay for a separate
// Lookup probe before interning.
func (in *Interner) InternNew(s string) (id uint32, created bool) {
	if in.table == nil {
		in.table = make([]internEntry, 16)
	}
	if in.count*2 >= len(in.table) {
		in.grow()
	}

	h := xxhash.Sum64String(s)
	mask := uint64(len(in.table) - 1)
	idx := h & mask

	for {
		e := &in.table[idx]
		if !e.used {
			id := uint32(len(in.values))
			in.values = append(in.values, s)
			*e = internEntry{hash: h, id: id, used: true}
			in.count++
			return id, true
		}
		if e.hash == h && in.values[e.id] == s {
			return e.id, false
		}
		idx = (idx + 1) & mask
	}
}

// Lookup returns the id already assigned to s without creating a new entry.
func (in *Interner) Lookup(s string) (uint32, bool) {
	if in.table == nil {
		return 0, false
	}
	h := xxhash.Sum64String(s)
	mask := uint64(len(in.table) - 1)
	idx := h & mask
	for {
		e := &in.table[idx]
		if !e.used {
			return 0, false
		}
		if e.hash == h && in.values[e.id] == s {
			return e.id, true
		}
		idx = (idx + 1) & mask
	}
}

// Values returns the interned strings in id order. The caller must not
// mutate the returned slice.
func (in *Interner) Values() []string { return in.values }

// Len returns the number of distinct interned strings.
func (in *Interner) Len() int { return len(in.values) }

func (in *Interner) grow() {
	old := in.table
	in.table = make([]internEntry, len(old)*2)
	mask := uint64(len(in.table) - 1)
	for _, e := range old {
		if !e.used {
			continue
		}
		idx := e.hash & mask
		for in.table[idx].used {
			idx = (idx + 1) & mask
		}
		in.table[idx] = e
	}
}
