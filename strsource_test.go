package pivot

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringSourceParses(t *testing.T) {
	n, err := UnmarshalNew[int32](StringSource("-123"))
	require.NoError(t, err)
	require.Equal(t, int32(-123), n)

	u, err := UnmarshalNew[uint8](StringSource("200"))
	require.NoError(t, err)
	require.Equal(t, uint8(200), u)

	f, err := UnmarshalNew[float64](StringSource("1.25"))
	require.NoError(t, err)
	require.Equal(t, 1.25, f)

	b, err := UnmarshalNew[bool](StringSource("true"))
	require.NoError(t, err)
	require.True(t, b)

	s, err := UnmarshalNew[string](StringSource("verbatim"))
	require.NoError(t, err)
	require.Equal(t, "verbatim", s)
}

func TestStringSourceSyntaxError(t *testing.T) {
	// non-numeric input converts into the contract vocabulary
	_, err := UnmarshalNew[int32](StringSource("twelve"))
	require.ErrorIs(t, err, ErrNotSupported)
	require.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestStringSourceRangeError(t *testing.T) {
	// out-of-range input is a real failure, not a not-supported answer
	_, err := UnmarshalNew[uint8](StringSource("300"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotSupported)
	require.ErrorIs(t, err, strconv.ErrRange)
}

func TestStringSourceIsNotAContainer(t *testing.T) {
	_, err := UnmarshalNew[[]string](StringSource("a,b"))
	require.ErrorIs(t, err, ErrNotSupported)
}
