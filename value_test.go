package pivot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	require.Equal(t, KindBool, Bool(true).Kind())
	require.Equal(t, KindUint32, Uint32(1).Kind())
	require.Equal(t, KindInt8, Int8(-1).Kind())
	require.Equal(t, KindFloat64, Float64(1).Kind())
	require.Equal(t, KindChar, Char('a').Kind())
	require.Equal(t, KindString, String("").Kind())
	require.Equal(t, KindUnit, Unit().Kind())
	require.Equal(t, KindOption, None().Kind())
	require.Equal(t, KindOption, Some(Unit()).Kind())
	require.Equal(t, KindNewtype, Newtype(Unit()).Kind())
	require.Equal(t, KindSeq, Seq().Kind())
	require.Equal(t, KindMap, MapOf().Kind())
	require.Equal(t, KindBytes, Bytes(nil).Kind())
}

func TestValueInterface(t *testing.T) {
	require.Equal(t, true, Bool(true).Interface())
	require.Equal(t, uint16(7), Uint16(7).Interface())
	require.Equal(t, int32(-7), Int32(-7).Interface())
	require.Equal(t, float32(1.5), Float32(1.5).Interface())
	require.Equal(t, 'x', Char('x').Interface())
	require.Equal(t, "hi", String("hi").Interface())
	require.Nil(t, Unit().Interface())
	require.Nil(t, None().Interface())
	require.Equal(t, int64(3), Some(Int64(3)).Interface())
	require.Equal(t, "inner", Newtype(String("inner")).Interface())
	require.Equal(t, []any{true, int64(1)}, Seq(Bool(true), Int64(1)).Interface())
	require.Equal(t, []byte{1, 2}, Bytes([]byte{1, 2}).Interface())

	m := MapOf(Pair{String("a"), Int64(1)}, Pair{String("b"), Int64(2)})
	require.Equal(t, map[any]any{"a": int64(1), "b": int64(2)}, m.Interface())
}

func TestValueString(t *testing.T) {
	require.Equal(t, "bool(true)", Bool(true).String())
	require.Equal(t, "u32(15)", Uint32(15).String())
	require.Equal(t, "i16(-3)", Int16(-3).String())
	require.Equal(t, `"hello"`, String("hello").String())
	require.Equal(t, "unit", Unit().String())
	require.Equal(t, "none", None().String())
	require.Equal(t, "some(u8(1))", Some(Uint8(1)).String())
	require.Equal(t, "seq[bool(true), bool(false)]", Seq(Bool(true), Bool(false)).String())
	require.Equal(t, `map{"a": u32(15)}`, MapOf(Pair{String("a"), Uint32(15)}).String())
	require.Equal(t, "bytes(0102)", Bytes([]byte{1, 2}).String())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "u8", KindUint8.String())
	require.Equal(t, "f32", KindFloat32.String())
	require.Equal(t, "newtype", KindNewtype.String())
	require.Equal(t, "unknown", Kind(200).String())
}
