package pivot

import "iter"

// Source adapts v to the pull-style decode contract, so any target type
// can be decoded from it with [Unmarshal]. Scalar answers are width-exact:
// a u32 request against a Value holding an i64 is an invalid-type failure,
// never a silent cast. Newtype wrappers unwrap transparently for every
// request.
func (v Value) Source() Source {
	return valueSource{v: v}
}

type valueSource struct {
	v Value
}

var (
	_ Source       = valueSource{}
	_ BinarySource = valueSource{}
	_ BytesSource  = valueSource{}
	_ OptionSource = valueSource{}
	_ ValueSource  = valueSource{}
)

// unwrap strips Newtype layers; there is no observable intermediate
// state between the wrapper and its payload.
func (s valueSource) unwrap() Value {
	v := s.v
	for v.kind == KindNewtype {
		v = *v.child
	}
	return v
}

func (s valueSource) AsValue() Value { return s.v }

func (s valueSource) Bool() (bool, error) {
	v := s.unwrap()
	if v.kind != KindBool {
		return false, invalidType(v, "bool")
	}
	return v.asBool(), nil
}

func (s valueSource) Uint8() (uint8, error) {
	v := s.unwrap()
	if v.kind != KindUint8 {
		return 0, invalidType(v, "u8")
	}
	return uint8(v.num), nil
}

func (s valueSource) Uint16() (uint16, error) {
	v := s.unwrap()
	if v.kind != KindUint16 {
		return 0, invalidType(v, "u16")
	}
	return uint16(v.num), nil
}

func (s valueSource) Uint32() (uint32, error) {
	v := s.unwrap()
	if v.kind != KindUint32 {
		return 0, invalidType(v, "u32")
	}
	return uint32(v.num), nil
}

func (s valueSource) Uint64() (uint64, error) {
	v := s.unwrap()
	if v.kind != KindUint64 {
		return 0, invalidType(v, "u64")
	}
	return v.num, nil
}

func (s valueSource) Int8() (int8, error) {
	v := s.unwrap()
	if v.kind != KindInt8 {
		return 0, invalidType(v, "i8")
	}
	return int8(v.asInt()), nil
}

func (s valueSource) Int16() (int16, error) {
	v := s.unwrap()
	if v.kind != KindInt16 {
		return 0, invalidType(v, "i16")
	}
	return int16(v.asInt()), nil
}

func (s valueSource) Int32() (int32, error) {
	v := s.unwrap()
	if v.kind != KindInt32 {
		return 0, invalidType(v, "i32")
	}
	return int32(v.asInt()), nil
}

func (s valueSource) Int64() (int64, error) {
	v := s.unwrap()
	if v.kind != KindInt64 {
		return 0, invalidType(v, "i64")
	}
	return v.asInt(), nil
}

func (s valueSource) Float32() (float32, error) {
	v := s.unwrap()
	if v.kind != KindFloat32 {
		return 0, invalidType(v, "f32")
	}
	return v.asFloat32(), nil
}

func (s valueSource) Float64() (float64, error) {
	v := s.unwrap()
	if v.kind != KindFloat64 {
		return 0, invalidType(v, "f64")
	}
	return v.asFloat64(), nil
}

// Int answers the generic 64-bit request; only an i64 Value matches.
func (s valueSource) Int() (int64, error) {
	return s.Int64()
}

// Uint answers the generic 64-bit request; only a u64 Value matches.
func (s valueSource) Uint() (uint64, error) {
	return s.Uint64()
}

// Float answers the generic request; only an f64 Value matches.
func (s valueSource) Float() (float64, error) {
	return s.Float64()
}

func (s valueSource) String() (string, error) {
	v := s.unwrap()
	if v.kind != KindString {
		return "", invalidType(v, "string")
	}
	return v.str, nil
}

// Bytes answers only for the Bytes variant. A Seq of u8 does not satisfy
// a bytes request, and a Bytes value does not satisfy Iter.
func (s valueSource) Bytes() ([]byte, error) {
	v := s.unwrap()
	if v.kind != KindBytes {
		return nil, invalidType(v, "bytes")
	}
	return v.raw, nil
}

// Option probes for presence: an Option variant answers its payload or
// absence, Unit answers absent, and every other variant answers present
// with the value itself as payload.
func (s valueSource) Option() (Source, bool, error) {
	v := s.unwrap()
	switch v.kind {
	case KindOption:
		if v.child == nil {
			return nil, false, nil
		}
		return v.child.Source(), true, nil
	case KindUnit:
		return nil, false, nil
	default:
		return v.Source(), true, nil
	}
}

// Get resolves a string key against a Map value, the container path of
// the contract. Pairs whose key is not the requested string are left
// untouched.
func (s valueSource) Get(key string) (Source, error) {
	v := s.unwrap()
	if v.kind != KindMap {
		return nil, invalidType(v, "map")
	}
	child, ok := v.m.Get(String(key))
	if !ok {
		return nil, ErrNoValue
	}
	return child.Source(), nil
}

// KeyValues walks the Map pairs in the map's policy order, each exactly
// once.
func (s valueSource) KeyValues() (iter.Seq2[Source, Source], error) {
	v := s.unwrap()
	if v.kind != KindMap {
		return nil, invalidType(v, "map")
	}
	return func(yield func(Source, Source) bool) {
		for _, e := range v.m.entries {
			if !yield(e.key.Source(), e.val.Source()) {
				return
			}
		}
	}, nil
}

// Iter walks the Seq elements left to right, each exactly once.
func (s valueSource) Iter() (iter.Seq[Source], error) {
	v := s.unwrap()
	if v.kind != KindSeq {
		return nil, invalidType(v, "seq")
	}
	return func(yield func(Source) bool) {
		for _, e := range v.seq {
			if !yield(e.Source()) {
				return
			}
		}
	}, nil
}
