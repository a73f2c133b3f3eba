package pivot

// Sink is the push-style encode contract. A serializable value drives a
// Sink by emitting exactly one call per primitive and bracketed calls for
// composites; wire-format encoders implement Sink to consume the stream,
// and [Builder] implements it to reassemble a [Value].
//
// Some and Newtype wrap the emission that follows them. BeginSeq and
// BeginMap receive the element or pair count as a size hint and are
// closed by the matching End call; map pairs are emitted key first.
//
// Sink implementations report their own failures; callers propagate them
// unchanged.
type Sink interface {
	Bool(v bool) error

	Uint8(v uint8) error
	Uint16(v uint16) error
	Uint32(v uint32) error
	Uint64(v uint64) error

	Int8(v int8) error
	Int16(v int16) error
	Int32(v int32) error
	Int64(v int64) error

	Float32(v float32) error
	Float64(v float64) error

	Char(v rune) error
	String(v string) error
	Bytes(v []byte) error

	Unit() error

	// None emits an absent optional. Some announces a present optional
	// whose payload is the next emission.
	None() error
	Some() error

	// Newtype announces a transparent single-field wrapper whose payload
	// is the next emission. The name may be empty when the wrapper's
	// original type name is not known.
	Newtype(name string) error

	BeginSeq(n int) error
	EndSeq() error

	BeginMap(n int) error
	EndMap() error
}

// EncodeTo pushes v into sink, one emission per variant. A Value does not
// retain the original type's name, so Newtype is emitted with the empty
// name placeholder. Errors from the sink propagate unchanged; EncodeTo
// introduces no failures of its own.
func (v Value) EncodeTo(sink Sink) error {
	switch v.kind {
	case KindBool:
		return sink.Bool(v.asBool())
	case KindUint8:
		return sink.Uint8(uint8(v.num))
	case KindUint16:
		return sink.Uint16(uint16(v.num))
	case KindUint32:
		return sink.Uint32(uint32(v.num))
	case KindUint64:
		return sink.Uint64(v.num)
	case KindInt8:
		return sink.Int8(int8(v.asInt()))
	case KindInt16:
		return sink.Int16(int16(v.asInt()))
	case KindInt32:
		return sink.Int32(int32(v.asInt()))
	case KindInt64:
		return sink.Int64(v.asInt())
	case KindFloat32:
		return sink.Float32(v.asFloat32())
	case KindFloat64:
		return sink.Float64(v.asFloat64())
	case KindChar:
		return sink.Char(v.asChar())
	case KindString:
		return sink.String(v.str)
	case KindUnit:
		return sink.Unit()

	case KindOption:
		if v.child == nil {
			return sink.None()
		}
		if err := sink.Some(); err != nil {
			return err
		}
		return v.child.EncodeTo(sink)

	case KindNewtype:
		if err := sink.Newtype(""); err != nil {
			return err
		}
		return v.child.EncodeTo(sink)

	case KindSeq:
		if err := sink.BeginSeq(len(v.seq)); err != nil {
			return err
		}
		for _, e := range v.seq {
			if err := e.EncodeTo(sink); err != nil {
				return err
			}
		}
		return sink.EndSeq()

	case KindMap:
		if err := sink.BeginMap(v.m.Len()); err != nil {
			return err
		}
		for _, e := range v.m.entries {
			if err := e.key.EncodeTo(sink); err != nil {
				return err
			}
			if err := e.val.EncodeTo(sink); err != nil {
				return err
			}
		}
		return sink.EndMap()

	case KindBytes:
		return sink.Bytes(v.raw)

	default:
		return sink.Unit()
	}
}
