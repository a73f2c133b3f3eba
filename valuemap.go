package pivot

import (
	"hash/maphash"
	"iter"
	"slices"
)

// Map is an associative container from Value to Value. Keys are unique
// under the total order of the ordering kernel, so a NaN key is a single
// well-defined slot.
//
// Iteration order is a build-time policy of the map: [NewMap] keeps keys
// in canonical sort order, which makes encode output byte-stable across
// runs and is the default everywhere in this package; [NewOrderedMap]
// keeps insertion order instead.
type Map struct {
	sorted  bool
	entries []mapEntry

	// index accelerates key lookup for insertion-ordered maps; sorted
	// maps use binary search instead. Buckets hold entry positions.
	seed  maphash.Seed
	index map[uint64][]int
}

type mapEntry struct {
	key Value
	val Value
}

// Pair is a key/value literal for [MapOf] and [OrderedMapOf].
type Pair struct {
	Key   Value
	Value Value
}

// NewMap returns an empty map in canonical sort order.
func NewMap() *Map {
	return &Map{sorted: true}
}

// NewOrderedMap returns an empty map that preserves insertion order.
func NewOrderedMap() *Map {
	return &Map{
		seed:  maphash.MakeSeed(),
		index: map[uint64][]int{},
	}
}

// MapOf builds a sort-ordered map Value from the given pairs. Later pairs
// replace earlier ones holding an equal key.
func MapOf(pairs ...Pair) Value {
	m := NewMap()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return Mapping(m)
}

// OrderedMapOf builds an insertion-ordered map Value from the given pairs.
func OrderedMapOf(pairs ...Pair) Value {
	m := NewOrderedMap()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return Mapping(m)
}

// Len returns the number of key/value pairs.
func (m *Map) Len() int { return len(m.entries) }

// find returns the entry position of key, or -1.
func (m *Map) find(key Value) int {
	if m.sorted {
		pos, ok := slices.BinarySearchFunc(m.entries, key, func(e mapEntry, k Value) int {
			return Compare(e.key, k)
		})
		if ok {
			return pos
		}
		return -1
	}

	for _, pos := range m.index[key.Hash(m.seed)] {
		if Equal(m.entries[pos].key, key) {
			return pos
		}
	}
	return -1
}

// Set inserts key/value, replacing the value of an equal existing key.
func (m *Map) Set(key, value Value) {
	if pos := m.find(key); pos >= 0 {
		m.entries[pos].val = value
		return
	}

	if m.sorted {
		pos, _ := slices.BinarySearchFunc(m.entries, key, func(e mapEntry, k Value) int {
			return Compare(e.key, k)
		})
		m.entries = slices.Insert(m.entries, pos, mapEntry{key: key, val: value})
		return
	}

	h := key.Hash(m.seed)
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, mapEntry{key: key, val: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	if pos := m.find(key); pos >= 0 {
		return m.entries[pos].val, true
	}
	return Value{}, false
}

// Entries iterates the key/value pairs in the map's policy order.
func (m *Map) Entries() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, e := range m.entries {
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}
