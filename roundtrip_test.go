package pivot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// rebuild feeds a Value through the push contract into a fresh Builder
// and returns the reconstructed tree.
func rebuild(t *testing.T, v Value) Value {
	t.Helper()

	builder := NewBuilder()
	require.NoError(t, v.EncodeTo(builder))

	out, err := builder.Value()
	require.NoError(t, err)
	return out
}

func TestValueRoundTripIdentity(t *testing.T) {
	values := []Value{
		Bool(false),
		Uint8(255),
		Int32(-1),
		Float32(1.5),
		Char('ß'),
		String("hello"),
		Unit(),
		None(),
		Some(String("payload")),
		Newtype(Bytes([]byte("hi"))),
		Seq(),
		Seq(Int64(1), Int64(2)),
		Bytes([]byte{0, 1, 2}),
		MapOf(
			Pair{String("a"), Int64(1)},
			Pair{String("b"), Seq(Bool(true))},
		),
	}

	for _, v := range values {
		require.True(t, Equal(v, rebuild(t, v)), "round trip changed %s", v)
	}
}

func TestValueRoundTripDeeplyNested(t *testing.T) {
	v := Some(Seq(
		Uint16(8),
		Char('a'),
		Float32(1.0),
		String("hello"),
		MapOf(
			Pair{Bool(false), Unit()},
			Pair{Bool(true), Newtype(Bytes([]byte("hi")))},
		),
	))

	require.True(t, Equal(v, rebuild(t, v)))
}

func TestValueRoundTripNaN(t *testing.T) {
	v := Seq(
		Float64(math.NaN()),
		Float32(float32(math.NaN())),
		Float64(math.Inf(-1)),
	)

	out := rebuild(t, v)
	require.True(t, Equal(v, out))

	// the rebuilt float is still a NaN, not some canonical number
	f, err := UnmarshalNew[[]float64](Seq(out.seq[0]).Source())
	require.NoError(t, err)
	require.True(t, math.IsNaN(f[0]))
}

func TestTypedRoundTrip(t *testing.T) {
	type Inner struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	type Outer struct {
		Name   string            `json:"name"`
		Count  uint32            `json:"count"`
		Opt    *int64            `json:"opt"`
		Absent *string           `json:"absent"`
		Tags   []string          `json:"tags"`
		Raw    []byte            `json:"raw"`
		Attrs  map[string]string `json:"attrs"`
		Inner  Inner             `json:"inner"`
	}

	opt := int64(5)
	original := Outer{
		Name:  "roundtrip",
		Count: 7,
		Opt:   &opt,
		Tags:  []string{"x", "y"},
		Raw:   []byte{0xde, 0xad},
		Attrs: map[string]string{"k": "v"},
		Inner: Inner{Label: "in", Score: 0.25},
	}

	v, err := ValueOf(original)
	require.NoError(t, err)

	back, err := UnmarshalNew[Outer](v.Source())
	require.NoError(t, err)
	require.Equal(t, original, back)
}

func TestTypedRoundTripThroughMarshal(t *testing.T) {
	type Point struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
	}

	builder := NewBuilder()
	require.NoError(t, Marshal(Point{X: 3, Y: -4}, builder))

	v, err := builder.Value()
	require.NoError(t, err)

	back, err := UnmarshalNew[Point](v.Source())
	require.NoError(t, err)
	require.Equal(t, Point{X: 3, Y: -4}, back)
}
