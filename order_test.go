package pivot

import (
	"hash/maphash"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// a cross-section of the value grammar, one per kind plus a few extra
// float shapes, used for the algebraic law checks
func lawValues() []Value {
	return []Value{
		Bool(false),
		Bool(true),
		Uint8(1),
		Uint16(2),
		Uint32(3),
		Uint64(4),
		Int8(-1),
		Int16(-2),
		Int32(-3),
		Int64(-4),
		Float32(1.5),
		Float32(float32(math.NaN())),
		Float64(-7.25),
		Float64(math.NaN()),
		Float64(math.Inf(1)),
		Float64(math.Inf(-1)),
		Float64(0),
		Float64(math.Copysign(0, -1)),
		Char('x'),
		String(""),
		String("hello"),
		Unit(),
		None(),
		Some(Int64(1)),
		Newtype(String("wrapped")),
		Seq(),
		Seq(Bool(true), Int8(2)),
		MapOf(Pair{String("a"), Uint32(15)}),
		Bytes(nil),
		Bytes([]byte{1, 2, 3}),
	}
}

func TestCompareTotality(t *testing.T) {
	values := lawValues()

	for _, a := range values {
		for _, b := range values {
			ab := Compare(a, b)
			ba := Compare(b, a)

			require.Equal(t, -ab, ba, "antisymmetry of %s and %s", a, b)
			require.Equal(t, ab == 0, Equal(a, b), "equality consistent with order for %s and %s", a, b)
		}
	}
}

func TestCompareTransitivity(t *testing.T) {
	values := lawValues()

	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
					require.LessOrEqual(t, Compare(a, c), 0, "%s <= %s <= %s", a, b, c)
				}
			}
		}
	}
}

func TestCompareReflexivity(t *testing.T) {
	for _, v := range lawValues() {
		require.Equal(t, 0, Compare(v, v), "%s", v)
		require.True(t, Equal(v, v), "%s", v)
	}
}

func TestFloatTotalOrder(t *testing.T) {
	nan := Float64(math.NaN())

	// NaN equals itself and sorts above every non-NaN value
	require.True(t, Equal(nan, nan))
	require.Equal(t, 1, Compare(nan, Float64(math.Inf(1))))
	require.Equal(t, 1, Compare(nan, Float64(math.MaxFloat64)))
	require.Equal(t, -1, Compare(Float64(math.Inf(-1)), Float64(-1)))
	require.Equal(t, -1, Compare(Float64(-1), Float64(0)))
	require.Equal(t, -1, Compare(Float64(0), Float64(1)))
	require.Equal(t, -1, Compare(Float64(1), Float64(math.Inf(1))))

	// all NaN payloads collapse into one value
	otherNaN := Float64(math.Float64frombits(0x7ff8000000000001))
	require.True(t, Equal(nan, otherNaN))

	// negative zero equals zero
	require.True(t, Equal(Float64(math.Copysign(0, -1)), Float64(0)))

	// float32 follows the same rules
	nan32 := Float32(float32(math.NaN()))
	require.True(t, Equal(nan32, nan32))
	require.Equal(t, 1, Compare(nan32, Float32(math.MaxFloat32)))
	require.True(t, Equal(Float32(float32(math.Copysign(0, -1))), Float32(0)))
}

func TestCrossKindCompareUsesDiscriminant(t *testing.T) {
	// a u8 and an i64 holding the same number are not equal, and order
	// by kind declaration order
	require.False(t, Equal(Uint8(1), Int64(1)))
	require.Equal(t, -1, Compare(Uint8(1), Int64(1)))
	require.Equal(t, -1, Compare(Bool(true), Uint8(0)))
	require.Equal(t, -1, Compare(String("z"), Unit()))
	require.Equal(t, -1, Compare(Seq(), MapOf()))
}

func TestCompareComposites(t *testing.T) {
	require.Equal(t, -1, Compare(Seq(Int8(1)), Seq(Int8(1), Int8(2))))
	require.Equal(t, -1, Compare(Seq(Int8(1)), Seq(Int8(2))))
	require.Equal(t, 0, Compare(Seq(Int8(1), Int8(2)), Seq(Int8(1), Int8(2))))

	require.Equal(t, -1, Compare(None(), Some(Int8(0))))
	require.Equal(t, -1, Compare(Some(Int8(1)), Some(Int8(2))))

	a := MapOf(Pair{String("a"), Int64(1)})
	b := MapOf(Pair{String("a"), Int64(1)}, Pair{String("b"), Int64(2)})
	require.Equal(t, -1, Compare(a, b))
	require.True(t, Equal(b, MapOf(Pair{String("b"), Int64(2)}, Pair{String("a"), Int64(1)})))
}

func TestHashConsistentWithEquality(t *testing.T) {
	seed := maphash.MakeSeed()
	values := lawValues()

	for _, a := range values {
		for _, b := range values {
			if Equal(a, b) {
				require.Equal(t, a.Hash(seed), b.Hash(seed), "%s and %s", a, b)
			}
		}
	}
}

func TestHashNormalizesFloats(t *testing.T) {
	seed := maphash.MakeSeed()

	nan := Float64(math.NaN())
	otherNaN := Float64(math.Float64frombits(0x7ff8000000000001))
	require.Equal(t, nan.Hash(seed), otherNaN.Hash(seed))

	require.Equal(t, Float64(0).Hash(seed), Float64(math.Copysign(0, -1)).Hash(seed))
	require.Equal(t, Float32(0).Hash(seed), Float32(float32(math.Copysign(0, -1))).Hash(seed))
}
