package pivot

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"hash/maphash"
	"strings"
)

// The ordering kernel defines a total order, equality and hashing over
// Values. Same-kind Values compare by content, Values of different kinds
// compare by their Kind discriminant, so the order is total even across
// incomparable shapes.
//
// Floats have no native total order; they are normalized to a bit pattern
// whose unsigned comparison matches numeric order, with every NaN payload
// collapsed to one canonical NaN that sorts above all non-NaN values and
// negative zero collapsed to zero. Equality and hashing use the same
// normalization, so NaN equals itself, equal Values hash equal, and a NaN
// can serve as a map key without breaking the order laws.

const canonicalNaN64 = 0x7ff8000000000000
const canonicalNaN32 = 0x7fc00000

// orderedBits64 maps float bits to a totally ordered uint64.
func orderedBits64(bits uint64) uint64 {
	if bits&0x7ff0000000000000 == 0x7ff0000000000000 && bits&0x000fffffffffffff != 0 {
		bits = canonicalNaN64
	}
	if bits == 1<<63 { // -0.0
		bits = 0
	}
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | 1<<63
}

// orderedBits32 is the float32 analogue of orderedBits64.
func orderedBits32(bits uint32) uint32 {
	if bits&0x7f800000 == 0x7f800000 && bits&0x007fffff != 0 {
		bits = canonicalNaN32
	}
	if bits == 1<<31 {
		bits = 0
	}
	if bits&(1<<31) != 0 {
		return ^bits
	}
	return bits | 1<<31
}

// Compare returns -1, 0 or +1 ordering a against b. The order is total,
// transitive and antisymmetric, and consistent with [Equal].
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}

	switch a.kind {
	case KindBool:
		return cmp.Compare(a.num, b.num)

	case KindUint8, KindUint16, KindUint32, KindUint64, KindChar:
		return cmp.Compare(a.num, b.num)

	case KindInt8, KindInt16, KindInt32, KindInt64:
		return cmp.Compare(a.asInt(), b.asInt())

	case KindFloat32:
		return cmp.Compare(orderedBits32(uint32(a.num)), orderedBits32(uint32(b.num)))

	case KindFloat64:
		return cmp.Compare(orderedBits64(a.num), orderedBits64(b.num))

	case KindString:
		return strings.Compare(a.str, b.str)

	case KindUnit:
		return 0

	case KindOption:
		// none sorts before some, matching option semantics
		switch {
		case a.child == nil && b.child == nil:
			return 0
		case a.child == nil:
			return -1
		case b.child == nil:
			return 1
		default:
			return Compare(*a.child, *b.child)
		}

	case KindNewtype:
		return Compare(*a.child, *b.child)

	case KindSeq:
		return compareSlices(a.seq, b.seq)

	case KindMap:
		// lexicographic over key/value pairs in iteration order
		an, bn := a.m.Len(), b.m.Len()
		for i := 0; i < an && i < bn; i++ {
			ae, be := a.m.entries[i], b.m.entries[i]
			if c := Compare(ae.key, be.key); c != 0 {
				return c
			}
			if c := Compare(ae.val, be.val); c != 0 {
				return c
			}
		}
		return cmp.Compare(an, bn)

	case KindBytes:
		return bytes.Compare(a.raw, b.raw)

	default:
		return 0
	}
}

func compareSlices(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Equal reports structural, variant-exact equality. A u32 and an i64
// holding the same numeric value are never equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Compare orders v against o per [Compare].
func (v Value) Compare(o Value) int { return Compare(v, o) }

// Equal reports whether v and o are structurally equal per [Equal].
func (v Value) Equal(o Value) bool { return Equal(v, o) }

// Hash returns a seeded hash of v. Equal Values produce equal hashes for
// the same seed; floats are hashed via the same normalized representation
// the ordering uses, never via their raw bit pattern.
func (v Value) Hash(seed maphash.Seed) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	v.hashInto(&h)
	return h.Sum64()
}

func (v Value) hashInto(h *maphash.Hash) {
	var buf [8]byte

	h.WriteByte(byte(v.kind))

	switch v.kind {
	case KindBool, KindUint8, KindUint16, KindUint32, KindUint64,
		KindInt8, KindInt16, KindInt32, KindInt64, KindChar:
		binary.LittleEndian.PutUint64(buf[:], v.num)
		h.Write(buf[:])

	case KindFloat32:
		binary.LittleEndian.PutUint64(buf[:], uint64(orderedBits32(uint32(v.num))))
		h.Write(buf[:])

	case KindFloat64:
		binary.LittleEndian.PutUint64(buf[:], orderedBits64(v.num))
		h.Write(buf[:])

	case KindString:
		h.WriteString(v.str)

	case KindUnit:
		// discriminant alone

	case KindOption:
		if v.child == nil {
			h.WriteByte(0)
		} else {
			h.WriteByte(1)
			v.child.hashInto(h)
		}

	case KindNewtype:
		v.child.hashInto(h)

	case KindSeq:
		for _, e := range v.seq {
			e.hashInto(h)
		}

	case KindMap:
		for _, e := range v.m.entries {
			e.key.hashInto(h)
			e.val.hashInto(h)
		}

	case KindBytes:
		h.Write(v.raw)
	}
}
