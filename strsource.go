package pivot

import (
	"errors"
	"fmt"
	"iter"
	"strconv"

	"golang.org/x/exp/constraints"
)

// StringSource adapts a string to the [Source] contract. Primitive
// requests parse the string with the strconv package; string requests
// return it as is. It is the building block for sources over textual
// carriers such as query parameters or path segments.
type StringSource string

var _ Source = StringSource("")
var _ BinarySource = StringSource("")

func parseSigned[T constraints.Signed](s string, bits int) (T, error) {
	parsed, err := strconv.ParseInt(s, 10, bits)
	return handleSyntaxErr(s, T(parsed), err)
}

func parseUnsigned[T constraints.Unsigned](s string, bits int) (T, error) {
	parsed, err := strconv.ParseUint(s, 10, bits)
	return handleSyntaxErr(s, T(parsed), err)
}

func (s StringSource) Int8() (int8, error)   { return parseSigned[int8](string(s), 8) }
func (s StringSource) Int16() (int16, error) { return parseSigned[int16](string(s), 16) }
func (s StringSource) Int32() (int32, error) { return parseSigned[int32](string(s), 32) }
func (s StringSource) Int64() (int64, error) { return parseSigned[int64](string(s), 64) }

func (s StringSource) Uint8() (uint8, error)   { return parseUnsigned[uint8](string(s), 8) }
func (s StringSource) Uint16() (uint16, error) { return parseUnsigned[uint16](string(s), 16) }
func (s StringSource) Uint32() (uint32, error) { return parseUnsigned[uint32](string(s), 32) }
func (s StringSource) Uint64() (uint64, error) { return parseUnsigned[uint64](string(s), 64) }

func (s StringSource) Float32() (float32, error) {
	parsed, err := strconv.ParseFloat(string(s), 32)
	return handleSyntaxErr(string(s), float32(parsed), err)
}

func (s StringSource) Float64() (float64, error) {
	parsed, err := strconv.ParseFloat(string(s), 64)
	return handleSyntaxErr(string(s), parsed, err)
}

func (s StringSource) Bool() (bool, error) {
	parsed, err := strconv.ParseBool(string(s))
	return handleSyntaxErr(string(s), parsed, err)
}

func (s StringSource) Int() (int64, error)     { return s.Int64() }
func (s StringSource) Uint() (uint64, error)   { return s.Uint64() }
func (s StringSource) Float() (float64, error) { return s.Float64() }

func (s StringSource) String() (string, error) {
	return string(s), nil
}

func (s StringSource) Get(key string) (Source, error) {
	return nil, ErrNotSupported
}

func (s StringSource) KeyValues() (iter.Seq2[Source, Source], error) {
	return nil, ErrNotSupported
}

func (s StringSource) Iter() (iter.Seq[Source], error) {
	return nil, ErrNotSupported
}

func handleSyntaxErr[T any](inputValue string, value T, err error) (T, error) {
	var zeroValue T
	if errors.Is(err, strconv.ErrSyntax) {
		err := fmt.Errorf("parse number %q: %w", inputValue, err)
		return zeroValue, errors.Join(err, ErrNotSupported)
	}

	if err != nil {
		return zeroValue, err
	}

	return value, nil
}
