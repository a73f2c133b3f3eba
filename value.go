package pivot

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the variant held by a [Value]. The declaration order is
// the discriminant ranking used when ordering Values of different kinds.
type Kind uint8

const (
	KindBool Kind = iota
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindUnit
	KindOption
	KindNewtype
	KindSeq
	KindMap
	KindBytes
)

// String returns the kind name as used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint8:
		return "u8"
	case KindUint16:
		return "u16"
	case KindUint32:
		return "u32"
	case KindUint64:
		return "u64"
	case KindInt8:
		return "i8"
	case KindInt16:
		return "i16"
	case KindInt32:
		return "i32"
	case KindInt64:
		return "i64"
	case KindFloat32:
		return "f32"
	case KindFloat64:
		return "f64"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindUnit:
		return "unit"
	case KindOption:
		return "option"
	case KindNewtype:
		return "newtype"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Value is a self-describing intermediate representation of a serialized
// value. Any encodable shape can be captured as a Value and any Value can
// be decoded into a matching Go shape via [Value.DecodeInto].
//
// Scalars occupy the packed num word; composites hold their children
// exclusively. Value trees are finite and acyclic since they are only ever
// built bottom-up.
type Value struct {
	kind Kind

	// num packs bool (0/1), the integer kinds (unsigned, or two's
	// complement via int64), the raw IEEE bits of the float kinds, and
	// char code points. Float normalization happens in the ordering
	// kernel, never at rest.
	num uint64

	str   string
	child *Value // Some and Newtype payload; nil for None
	seq   []Value
	m     *Map
	raw   []byte
}

// Bool returns a Value holding a boolean.
func Bool(v bool) Value {
	var num uint64
	if v {
		num = 1
	}
	return Value{kind: KindBool, num: num}
}

func Uint8(v uint8) Value   { return Value{kind: KindUint8, num: uint64(v)} }
func Uint16(v uint16) Value { return Value{kind: KindUint16, num: uint64(v)} }
func Uint32(v uint32) Value { return Value{kind: KindUint32, num: uint64(v)} }
func Uint64(v uint64) Value { return Value{kind: KindUint64, num: v} }

func Int8(v int8) Value   { return Value{kind: KindInt8, num: uint64(int64(v))} }
func Int16(v int16) Value { return Value{kind: KindInt16, num: uint64(int64(v))} }
func Int32(v int32) Value { return Value{kind: KindInt32, num: uint64(int64(v))} }
func Int64(v int64) Value { return Value{kind: KindInt64, num: uint64(v)} }

func Float32(v float32) Value { return Value{kind: KindFloat32, num: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{kind: KindFloat64, num: math.Float64bits(v)} }

// Char returns a Value holding a single code point.
func Char(v rune) Value { return Value{kind: KindChar, num: uint64(uint32(v))} }

// String returns a Value holding a UTF-8 string.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Unit returns the empty marker Value. It is distinct from absence: Unit
// is a present value carrying no content.
func Unit() Value { return Value{kind: KindUnit} }

// None returns the absent Option Value.
func None() Value { return Value{kind: KindOption} }

// Some returns the present Option Value wrapping v.
func Some(v Value) Value { return Value{kind: KindOption, child: &v} }

// Newtype returns a Value wrapping v as a transparent single-field wrapper.
func Newtype(v Value) Value { return Value{kind: KindNewtype, child: &v} }

// Seq returns a Value holding the given elements in order.
func Seq(elems ...Value) Value { return Value{kind: KindSeq, seq: elems} }

// Bytes returns a Value holding a raw byte sequence.
func Bytes(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// Mapping returns a Value holding m. A nil map is treated as empty.
func Mapping(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// internal scalar views; callers check the kind first.

func (v Value) asBool() bool       { return v.num != 0 }
func (v Value) asUint() uint64     { return v.num }
func (v Value) asInt() int64       { return int64(v.num) }
func (v Value) asFloat32() float32 { return math.Float32frombits(uint32(v.num)) }
func (v Value) asFloat64() float64 { return math.Float64frombits(v.num) }
func (v Value) asChar() rune       { return rune(uint32(v.num)) }

// Interface returns a plain-Go view of v: scalars as their native types,
// Unit and None as nil, Some and Newtype unwrapped, Seq as []any, Map as
// map[any]any (iteration order is lost) and Bytes as []byte. It is a
// convenience for handing Values to code that speaks `any`, such as the
// encoders of reflection-based wire formats.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.asBool()
	case KindUint8:
		return uint8(v.num)
	case KindUint16:
		return uint16(v.num)
	case KindUint32:
		return uint32(v.num)
	case KindUint64:
		return v.num
	case KindInt8:
		return int8(v.asInt())
	case KindInt16:
		return int16(v.asInt())
	case KindInt32:
		return int32(v.asInt())
	case KindInt64:
		return v.asInt()
	case KindFloat32:
		return v.asFloat32()
	case KindFloat64:
		return v.asFloat64()
	case KindChar:
		return v.asChar()
	case KindString:
		return v.str
	case KindUnit:
		return nil
	case KindOption:
		if v.child == nil {
			return nil
		}
		return v.child.Interface()
	case KindNewtype:
		return v.child.Interface()
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[any]any, v.m.Len())
		for _, e := range v.m.entries {
			out[e.key.Interface()] = e.val.Interface()
		}
		return out
	case KindBytes:
		return v.raw
	default:
		return nil
	}
}

// String renders a compact debug form such as `map{"a": u32(15)}`.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.asBool())
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return fmt.Sprintf("%s(%d)", v.kind, v.num)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%s(%d)", v.kind, v.asInt())
	case KindFloat32:
		return fmt.Sprintf("f32(%g)", v.asFloat32())
	case KindFloat64:
		return fmt.Sprintf("f64(%g)", v.asFloat64())
	case KindChar:
		return fmt.Sprintf("char(%q)", v.asChar())
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindUnit:
		return "unit"
	case KindOption:
		if v.child == nil {
			return "none"
		}
		return fmt.Sprintf("some(%s)", v.child)
	case KindNewtype:
		return fmt.Sprintf("newtype(%s)", v.child)
	case KindSeq:
		var sb strings.Builder
		sb.WriteString("seq[")
		for i, e := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteString("]")
		return sb.String()
	case KindMap:
		var sb strings.Builder
		sb.WriteString("map{")
		for i, e := range v.m.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.key.String())
			sb.WriteString(": ")
			sb.WriteString(e.val.String())
		}
		sb.WriteString("}")
		return sb.String()
	case KindBytes:
		return fmt.Sprintf("bytes(%x)", v.raw)
	default:
		return "invalid"
	}
}

// DecodeInto decodes v into target, which must be a non-nil pointer. It is
// the decode entry point for callers that already hold a Value; target
// types drive the pull contract and v answers the requests.
func (v Value) DecodeInto(target any) error {
	return Unmarshal(v.Source(), target)
}

// DecodeIntoWith decodes v into target using the given Decoder.
func (v Value) DecodeIntoWith(dec *Decoder, target any) error {
	return dec.Unmarshal(v.Source(), target)
}
