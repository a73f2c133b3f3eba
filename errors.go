package pivot

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors of the source/sink contracts. Custom [Source]
// implementations report them directly; the decoder lifts them into the
// richer [DecodeError] taxonomy via [Classify].
var (
	// ErrNotSupported means the source cannot represent its value as the
	// requested kind.
	ErrNotSupported = errors.New("not supported")

	// ErrNoValue means a container source has no child under the
	// requested key.
	ErrNoValue = errors.New("no value")

	// ErrIncomplete means a Builder was read before every composite
	// opened on it was closed.
	ErrIncomplete = errors.New("incomplete value")
)

// NotSupportedError reports a Go type that neither bridge can handle.
type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// ErrorKind classifies decode failures independent of the source
// contract's own vocabulary.
type ErrorKind int

const (
	// ErrCustom is an arbitrary failure raised by a target's own decode
	// logic.
	ErrCustom ErrorKind = iota + 1

	// ErrInvalidType means the requested kind does not match what the
	// source holds. No numeric widening or narrowing is ever attempted.
	ErrInvalidType

	// ErrInvalidValue means the kind matched but the value violates a
	// target-imposed constraint.
	ErrInvalidValue

	// ErrInvalidLength means a sequence length does not match what the
	// target requires.
	ErrInvalidLength

	// ErrUnknownField means a map key has no counterpart in the target.
	// During struct decode the offending pair is re-buffered instead of
	// failing; everywhere else it is fatal.
	ErrUnknownField

	// ErrMissingField means a required key never appeared and no value
	// could be synthesized.
	ErrMissingField

	// ErrDuplicateField means a key appeared more than once where the
	// target forbids it.
	ErrDuplicateField
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCustom:
		return "custom"
	case ErrInvalidType:
		return "invalid type"
	case ErrInvalidValue:
		return "invalid value"
	case ErrInvalidLength:
		return "invalid length"
	case ErrUnknownField:
		return "unknown field"
	case ErrMissingField:
		return "missing field"
	case ErrDuplicateField:
		return "duplicate field"
	default:
		return "unknown"
	}
}

// DecodeError is the canonical decode failure. It unwraps to the matching
// contract sentinel so errors.Is works against either vocabulary.
type DecodeError struct {
	Kind ErrorKind

	// Field names the struct field or map key involved, if any.
	Field string

	// Want and Got describe the expected and offending shapes for
	// invalid-type failures.
	Want string
	Got  string

	// Msg carries free-form detail for custom and invalid-value
	// failures.
	Msg string
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrInvalidType:
		if e.Got == "" && e.Want == "" {
			return fmt.Sprintf("invalid type: %s", e.Msg)
		}
		return fmt.Sprintf("invalid type: got %s, want %s", e.Got, e.Want)
	case ErrInvalidValue:
		return fmt.Sprintf("invalid value: %s", e.Msg)
	case ErrInvalidLength:
		return fmt.Sprintf("invalid length: %s", e.Msg)
	case ErrUnknownField:
		return fmt.Sprintf("unknown field %q", e.Field)
	case ErrMissingField:
		if e.Field == "" {
			return fmt.Sprintf("missing field: %s", e.Msg)
		}
		return fmt.Sprintf("missing field %q", e.Field)
	case ErrDuplicateField:
		return fmt.Sprintf("duplicate field %q", e.Field)
	default:
		return e.Msg
	}
}

// Unwrap maps the taxonomy onto the contract sentinels: invalid type
// converts to [ErrNotSupported], missing field to [ErrNoValue].
func (e *DecodeError) Unwrap() error {
	switch e.Kind {
	case ErrInvalidType:
		return ErrNotSupported
	case ErrMissingField:
		return ErrNoValue
	default:
		return nil
	}
}

// Classify lifts err into the canonical taxonomy. DecodeErrors pass
// through; bare contract sentinels become the matching kind; anything
// else becomes a custom failure.
func Classify(err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, ErrNotSupported):
		return &DecodeError{Kind: ErrInvalidType, Msg: err.Error()}
	case errors.Is(err, ErrNoValue):
		return &DecodeError{Kind: ErrMissingField, Msg: err.Error()}
	default:
		return &DecodeError{Kind: ErrCustom, Msg: err.Error()}
	}
}

func invalidType(got Value, want string) *DecodeError {
	return &DecodeError{Kind: ErrInvalidType, Got: got.String(), Want: want}
}

func missingField(name string) *DecodeError {
	return &DecodeError{Kind: ErrMissingField, Field: name}
}

func duplicateField(name string) *DecodeError {
	return &DecodeError{Kind: ErrDuplicateField, Field: name}
}

func invalidLength(want, got int) *DecodeError {
	return &DecodeError{Kind: ErrInvalidLength, Msg: fmt.Sprintf("got %d elements, want %d", got, want)}
}
