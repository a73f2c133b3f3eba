// Package pivot provides a self-describing, format-agnostic [Value]
// representation and the bridges between it and typed Go values.
//
// A [Value] captures any encodable shape (booleans, sized integers,
// floats, chars, strings, optionals, transparent wrappers, sequences,
// maps and byte buffers) with full structural fidelity, and carries a
// total order, structural equality and a consistent hash, including for
// floating point NaN.
//
// Two generic contracts connect Values to everything else: [Sink] is the
// push-style encode contract ([Value.EncodeTo] drives it, [Builder]
// reassembles a Value from it), and [Source] is the pull-style decode
// contract ([Value.Source] answers it, [Unmarshal] walks a target type
// against it, similar to [encoding/json.Unmarshal]). The reflection
// bridges [ValueOf] and [Value.DecodeInto] connect plain Go values to
// both sides, so any wire format implementing one of the contracts can
// exchange data with any Go type through a Value as the pivot.
package pivot
