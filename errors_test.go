package pivot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeErrorMessages(t *testing.T) {
	require.Equal(t,
		`invalid type: got "x", want bool`,
		invalidType(String("x"), "bool").Error())

	require.Equal(t, `missing field "port"`, missingField("port").Error())
	require.Equal(t, `duplicate field "port"`, duplicateField("port").Error())
	require.Equal(t, "invalid length: got 2 elements, want 4", invalidLength(4, 2).Error())
}

func TestDecodeErrorUnwrapsToSentinels(t *testing.T) {
	require.ErrorIs(t, invalidType(String("x"), "bool"), ErrNotSupported)
	require.ErrorIs(t, missingField("port"), ErrNoValue)

	// the remaining kinds convert to nothing
	require.NotErrorIs(t, duplicateField("port"), ErrNotSupported)
	require.NotErrorIs(t, duplicateField("port"), ErrNoValue)
}

func TestClassify(t *testing.T) {
	// canonical errors pass through, even wrapped
	original := missingField("port")
	classified := Classify(fmt.Errorf("outer: %w", original))
	require.Same(t, original, classified)

	// bare sentinels lift into the matching kind
	require.Equal(t, ErrInvalidType, Classify(ErrNotSupported).Kind)
	require.Equal(t, ErrMissingField, Classify(ErrNoValue).Kind)

	// anything else is a custom failure carrying the message
	classified = Classify(errors.New("broken pipe"))
	require.Equal(t, ErrCustom, classified.Kind)
	require.Equal(t, "broken pipe", classified.Msg)
}

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "invalid type", ErrInvalidType.String())
	require.Equal(t, "missing field", ErrMissingField.String())
	require.Equal(t, "unknown field", ErrUnknownField.String())
}
