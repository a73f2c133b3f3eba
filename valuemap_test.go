package pivot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapSortedOrder(t *testing.T) {
	m := NewMap()
	m.Set(String("c"), Int64(3))
	m.Set(String("a"), Int64(1))
	m.Set(String("b"), Int64(2))

	var keys []string
	for k, v := range m.Entries() {
		keys = append(keys, k.Interface().(string))
		require.Equal(t, KindInt64, v.Kind())
	}

	require.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set(String("c"), Int64(3))
	m.Set(String("a"), Int64(1))
	m.Set(String("b"), Int64(2))

	var keys []string
	for k := range m.Entries() {
		keys = append(keys, k.Interface().(string))
	}

	require.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestMapSetReplacesEqualKey(t *testing.T) {
	for _, m := range []*Map{NewMap(), NewOrderedMap()} {
		m.Set(String("a"), Int64(1))
		m.Set(String("a"), Int64(2))

		require.Equal(t, 1, m.Len())

		v, ok := m.Get(String("a"))
		require.True(t, ok)
		require.True(t, Equal(v, Int64(2)))
	}
}

func TestMapGetMissing(t *testing.T) {
	m := NewMap()
	m.Set(String("a"), Int64(1))

	_, ok := m.Get(String("b"))
	require.False(t, ok)
}

func TestMapNaNKey(t *testing.T) {
	// NaN is a single well-defined slot under the total order
	for _, m := range []*Map{NewMap(), NewOrderedMap()} {
		m.Set(Float64(math.NaN()), String("first"))
		m.Set(Float64(math.Float64frombits(0x7ff8000000000001)), String("second"))

		require.Equal(t, 1, m.Len())

		v, ok := m.Get(Float64(math.NaN()))
		require.True(t, ok)
		require.True(t, Equal(v, String("second")))
	}
}

func TestMapHeterogeneousKeys(t *testing.T) {
	m := NewMap()
	m.Set(Bool(true), String("bool"))
	m.Set(Int64(1), String("int"))
	m.Set(String("1"), String("string"))

	require.Equal(t, 3, m.Len())

	// sorted by discriminant first: bool before i64 before string
	var kinds []Kind
	for k := range m.Entries() {
		kinds = append(kinds, k.Kind())
	}
	require.Equal(t, []Kind{KindBool, KindInt64, KindString}, kinds)
}
