package pivot

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Marshal pushes v into sink using the default Encoder: v is walked by
// reflection and every primitive and composite becomes one emission on
// the push contract.
func Marshal(v any, sink Sink) error {
	return enc.Marshal(v, sink)
}

// ValueOf captures v as a Value tree with canonically sorted maps, so the
// result is deterministic across runs.
func ValueOf(v any) (Value, error) {
	builder := NewBuilder()
	if err := Marshal(v, builder); err != nil {
		return Value{}, err
	}
	return builder.Value()
}

// A getter pushes the reflect.Value into the given Sink
type getter func(reflect.Value, Sink) error

var tyTextMarshaler = reflect.TypeFor[encoding.TextMarshaler]()

// The default Encoder instance.
var enc Encoder

// Encoder can be used to customize marshalling, mirroring [Decoder].
type Encoder struct {
	// the struct tag that is used
	structTag string

	// Cache for getters, indexed by reflect.Type
	getterCache sync.Map
}

func NewEncoder() *Encoder {
	return &Encoder{
		structTag: "json",
	}
}

func (e *Encoder) WithTag(structTag string) *Encoder {
	if e.structTag == structTag {
		return e
	}

	return &Encoder{
		structTag: structTag,
	}
}

func (e *Encoder) Marshal(v any, sink Sink) error {
	if v == nil {
		return sink.Unit()
	}

	value := reflect.ValueOf(v)

	getter, err := e.getterOf(typeSet{}, value.Type())
	if err != nil {
		return err
	}

	return getter(value, sink)
}

func (e *Encoder) getterOf(inConstruction typeSet, ty reflect.Type) (getter, error) {
	if cached, ok := e.getterCache.Load(ty); ok {
		return cached.(getter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a getter that does a cache lookup when
		// executed, same trick as the Decoder's setter construction.
		lazyGetter := func(value reflect.Value, sink Sink) error {
			cached, _ := e.getterCache.Load(ty)
			return cached.(getter)(value, sink)
		}

		return lazyGetter, nil
	}

	inConstruction[ty] = struct{}{}

	getter, err := e.makeGetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	e.getterCache.Store(ty, getter)

	return getter, nil
}

func (e *Encoder) makeGetterOf(inConstruction typeSet, ty reflect.Type) (getter, error) {
	if ty == tyValue {
		return getValue, nil
	}

	if ty.Implements(tyTextMarshaler) {
		return getTextMarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return func(value reflect.Value, sink Sink) error {
			return sink.Bool(value.Bool())
		}, nil

	case reflect.Int:
		switch unsafe.Sizeof(int(0)) {
		case 4:
			return func(value reflect.Value, sink Sink) error {
				return sink.Int32(int32(value.Int()))
			}, nil
		case 8:
			return func(value reflect.Value, sink Sink) error {
				return sink.Int64(value.Int())
			}, nil
		default:
			panic("int must be 4 or 8 byte")
		}

	case reflect.Int8:
		return func(value reflect.Value, sink Sink) error {
			return sink.Int8(int8(value.Int()))
		}, nil

	case reflect.Int16:
		return func(value reflect.Value, sink Sink) error {
			return sink.Int16(int16(value.Int()))
		}, nil

	case reflect.Int32:
		return func(value reflect.Value, sink Sink) error {
			return sink.Int32(int32(value.Int()))
		}, nil

	case reflect.Int64:
		return func(value reflect.Value, sink Sink) error {
			return sink.Int64(value.Int())
		}, nil

	case reflect.Uint:
		switch unsafe.Sizeof(uint(0)) {
		case 4:
			return func(value reflect.Value, sink Sink) error {
				return sink.Uint32(uint32(value.Uint()))
			}, nil
		case 8:
			return func(value reflect.Value, sink Sink) error {
				return sink.Uint64(value.Uint())
			}, nil
		default:
			panic("uint must be 4 or 8 byte")
		}

	case reflect.Uint8:
		return func(value reflect.Value, sink Sink) error {
			return sink.Uint8(uint8(value.Uint()))
		}, nil

	case reflect.Uint16:
		return func(value reflect.Value, sink Sink) error {
			return sink.Uint16(uint16(value.Uint()))
		}, nil

	case reflect.Uint32:
		return func(value reflect.Value, sink Sink) error {
			return sink.Uint32(uint32(value.Uint()))
		}, nil

	case reflect.Uint64:
		return func(value reflect.Value, sink Sink) error {
			return sink.Uint64(value.Uint())
		}, nil

	case reflect.Float32:
		return func(value reflect.Value, sink Sink) error {
			return sink.Float32(float32(value.Float()))
		}, nil

	case reflect.Float64:
		return func(value reflect.Value, sink Sink) error {
			return sink.Float64(value.Float())
		}, nil

	case reflect.String:
		return func(value reflect.Value, sink Sink) error {
			return sink.String(value.String())
		}, nil

	case reflect.Pointer:
		return e.makeGetPointer(inConstruction, ty)

	case reflect.Struct:
		return e.makeGetStruct(inConstruction, ty)

	case reflect.Slice:
		if ty.Elem().Kind() == reflect.Uint8 {
			return func(value reflect.Value, sink Sink) error {
				return sink.Bytes(value.Bytes())
			}, nil
		}
		return e.makeGetSeq(inConstruction, ty)

	case reflect.Array:
		return e.makeGetSeq(inConstruction, ty)

	case reflect.Map:
		return e.makeGetMap(inConstruction, ty)

	case reflect.Interface:
		return e.getDynamic, nil

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

// makeGetPointer emits the optional shape: a nil pointer is absent, a
// non-nil pointer is present wrapping the pointee.
func (e *Encoder) makeGetPointer(inConstruction typeSet, ty reflect.Type) (getter, error) {
	pointeeGetter, err := e.getterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	getter := func(value reflect.Value, sink Sink) error {
		if value.IsNil() {
			return sink.None()
		}

		if err := sink.Some(); err != nil {
			return err
		}

		return pointeeGetter(value.Elem(), sink)
	}

	return getter, nil
}

// makeGetStruct emits a struct as a map keyed by the resolved field
// names. A `,remain` field is flattened back into the enclosing map, the
// inverse of the decoder's leftover collection.
func (e *Encoder) makeGetStruct(inConstruction typeSet, ty reflect.Type) (getter, error) {
	structTag := e.structTag
	if structTag == "" {
		structTag = "json"
	}

	var fields []field
	var remain *field

	for _, f := range fieldsToSerialize(ty, structTag) {
		if f.Remain {
			f := f
			remain = &f
			continue
		}
		fields = append(fields, f)
	}

	getters := make([]getter, len(fields))
	for idx, field := range fields {
		ge, err := e.getterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("getter for field %q: %w", field.Name, err)
		}

		getters[idx] = ge
	}

	var remainGetter getter
	if remain != nil {
		if remain.Type.Kind() != reflect.Map {
			return nil, fmt.Errorf("remain field %q: %w", remain.Name, NotSupportedError{Type: remain.Type})
		}

		var err error
		if remainGetter, err = e.makeMapEntries(inConstruction, remain.Type); err != nil {
			return nil, fmt.Errorf("getter for remain field %q: %w", remain.Name, err)
		}
	}

	getter := func(value reflect.Value, sink Sink) error {
		count := len(fields)

		var remainValue reflect.Value
		if remain != nil {
			remainValue = value.FieldByIndex(remain.Index)
			count += remainValue.Len()
		}

		if err := sink.BeginMap(count); err != nil {
			return err
		}

		for idx, field := range fields {
			if err := sink.String(field.Name); err != nil {
				return err
			}

			if err := getters[idx](value.FieldByIndex(field.Index), sink); err != nil {
				return fmt.Errorf("get field %q on %q: %w", field.Name, value.Type(), err)
			}
		}

		if remain != nil {
			if err := remainGetter(remainValue, sink); err != nil {
				return err
			}
		}

		return sink.EndMap()
	}

	return getter, nil
}

func (e *Encoder) makeGetMap(inConstruction typeSet, ty reflect.Type) (getter, error) {
	entries, err := e.makeMapEntries(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	getter := func(value reflect.Value, sink Sink) error {
		if err := sink.BeginMap(value.Len()); err != nil {
			return err
		}

		if err := entries(value, sink); err != nil {
			return err
		}

		return sink.EndMap()
	}

	return getter, nil
}

// makeMapEntries emits the key/value pairs of a map without the
// surrounding BeginMap/EndMap, so struct emission can flatten a remain
// field into its own map.
func (e *Encoder) makeMapEntries(inConstruction typeSet, ty reflect.Type) (getter, error) {
	keyGetter, err := e.getterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("getter for key type %q: %w", ty, err)
	}

	valueGetter, err := e.getterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("getter for value type %q: %w", ty, err)
	}

	getter := func(value reflect.Value, sink Sink) error {
		// map iteration order is unspecified; a sorted Builder reorders
		// pairs canonically, other sinks see them as Go yields them
		iter := value.MapRange()
		for iter.Next() {
			if err := keyGetter(iter.Key(), sink); err != nil {
				return fmt.Errorf("get key: %w", err)
			}

			if err := valueGetter(iter.Value(), sink); err != nil {
				return fmt.Errorf("get value: %w", err)
			}
		}

		return nil
	}

	return getter, nil
}

func (e *Encoder) makeGetSeq(inConstruction typeSet, ty reflect.Type) (getter, error) {
	elementGetter, err := e.getterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("getter for element type %q: %w", ty, err)
	}

	getter := func(value reflect.Value, sink Sink) error {
		if err := sink.BeginSeq(value.Len()); err != nil {
			return err
		}

		for idx := range value.Len() {
			if err := elementGetter(value.Index(idx), sink); err != nil {
				return fmt.Errorf("get element idx=%d: %w", idx, err)
			}
		}

		return sink.EndSeq()
	}

	return getter, nil
}

// getDynamic dispatches on the runtime type inside an interface value.
// A nil interface emits Unit.
func (e *Encoder) getDynamic(value reflect.Value, sink Sink) error {
	if value.IsNil() {
		return sink.Unit()
	}

	elem := value.Elem()

	getter, err := e.getterOf(typeSet{}, elem.Type())
	if err != nil {
		return err
	}

	return getter(elem, sink)
}

func getValue(value reflect.Value, sink Sink) error {
	return value.Interface().(Value).EncodeTo(sink)
}

func getTextMarshaler(value reflect.Value, sink Sink) error {
	text, err := value.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return fmt.Errorf("marshal text: %w", err)
	}

	return sink.String(string(text))
}
