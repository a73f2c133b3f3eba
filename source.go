package pivot

import "iter"

// Source is the pull-style decode contract. The target type is the active
// side: it repeatedly asks the source for a primitive, a child, or an
// iteration, and the source answers from its underlying representation.
// [Value.Source] adapts a Value tree; [StringSource] adapts a string;
// custom implementations adapt anything else.
//
// If the source cannot represent its data as the requested type, the
// method must return [ErrNotSupported]. [Source.Get] on a container that
// lacks the requested child must return [ErrNoValue] instead.
//
// Sources extend the base contract by additionally implementing
// [BinarySource], [BytesSource] or [OptionSource]; [Unmarshal] probes for
// these and prefers them over the generic methods.
type Source interface {
	// Bool returns the current value as a bool.
	Bool() (bool, error)

	// Int returns the current value as an int64.
	Int() (int64, error)

	// Uint returns the current value as an uint64.
	Uint() (uint64, error)

	// Float returns the current value as a float64.
	Float() (float64, error)

	// String returns the current value as a string.
	String() (string, error)

	// Get returns a child value of this Source if it exists.
	Get(key string) (Source, error)

	// KeyValues interprets the Source as a map and iterates over its
	// key/value pairs in source order.
	KeyValues() (iter.Seq2[Source, Source], error)

	// Iter interprets the Source as a sequence and iterates over the
	// elements within.
	Iter() (iter.Seq[Source], error)
}

// BinarySource answers width-exact integer and float requests. Decoding
// prefers these over [Source.Int] and friends, which lets a source
// distinguish a u32 from an i64 instead of funnelling everything through
// 64-bit values.
type BinarySource interface {
	Int8() (int8, error)
	Int16() (int16, error)
	Int32() (int32, error)
	Int64() (int64, error)

	Uint8() (uint8, error)
	Uint16() (uint16, error)
	Uint32() (uint32, error)
	Uint64() (uint64, error)

	Float32() (float32, error)
	Float64() (float64, error)
}

// BytesSource answers raw byte-buffer requests. A source holding an
// opaque byte string implements this so []byte targets receive it intact
// instead of element by element.
type BytesSource interface {
	Bytes() ([]byte, error)
}

// OptionSource lets a source answer "is a value present" directly.
// Decoding into a pointer target probes this: absent yields a nil
// pointer, present decodes the payload source.
type OptionSource interface {
	// Option returns the payload source and whether a value is present.
	Option() (Source, bool, error)
}

// ValueSource is implemented by sources backed by a Value tree. Decoding
// into a [Value] target captures the tree verbatim through it.
type ValueSource interface {
	Source

	// AsValue returns the backing Value.
	AsValue() Value
}

// EmptySource is a Source that answers ErrNotSupported to every request.
// It is useful as an embedded base for custom Source implementations that
// only answer a few request kinds.
type EmptySource struct{}

var _ Source = EmptySource{}

func (EmptySource) Bool() (bool, error) {
	return false, ErrNotSupported
}

func (EmptySource) Int() (int64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) Uint() (uint64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) Float() (float64, error) {
	return 0, ErrNotSupported
}

func (EmptySource) String() (string, error) {
	return "", ErrNotSupported
}

func (EmptySource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (EmptySource) KeyValues() (iter.Seq2[Source, Source], error) {
	return nil, ErrNotSupported
}

func (EmptySource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}
