package pivot

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"sync"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Unmarshal decodes source into target using the default Decoder. The
// target type drives the pull contract; the source answers each request.
func Unmarshal(source Source, target any) error {
	return dec.Unmarshal(source, target)
}

// UnmarshalNew decodes source into a new T using the default Decoder.
func UnmarshalNew[T any](source Source) (T, error) {
	return UnmarshalNewWith[T](&dec, source)
}

// UnmarshalNewWith decodes source into a new T using the given Decoder.
func UnmarshalNewWith[T any](dec *Decoder, source Source) (T, error) {
	var target T
	err := dec.Unmarshal(source, &target)
	return target, err
}

// A setter sets the reflect.Value to a value extracted from the given Source
type setter func(Source, reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
var tyValue = reflect.TypeFor[Value]()

// The default Decoder instance.
var dec Decoder

// Decoder can be used to customize unmarshalling. This type is typesafe.
type Decoder struct {
	// the struct tag that is used
	structTag string

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map

	// Tolerate struct fields whose key never appears in the source.
	// The default is a MissingField error for non-pointer fields.
	allowMissing bool
}

func NewDecoder() *Decoder {
	return &Decoder{
		structTag: "json",
	}
}

func (d *Decoder) WithTag(structTag string) *Decoder {
	if d.structTag == structTag {
		return d
	}

	return &Decoder{
		structTag:    structTag,
		allowMissing: d.allowMissing,
	}
}

// AllowMissing returns a Decoder that leaves struct fields at their zero
// value when the source holds no key for them, instead of failing.
func (d *Decoder) AllowMissing() *Decoder {
	if d.allowMissing {
		return d
	}

	return &Decoder{
		structTag:    d.structTag,
		allowMissing: true,
	}
}

func (d *Decoder) Unmarshal(source Source, target any) error {
	targetValue := reflect.ValueOf(target).Elem()

	// build the setter for the targets type
	setter, err := d.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	return setter(source, targetValue)
}

func (d *Decoder) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := d.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a setter that does a cache lookup when executed.
		// we assume that the actual setter will be in the cache once this setter is executed.
		lazySetter := func(source Source, target reflect.Value) error {
			cached, _ := d.setterCache.Load(ty)
			return cached.(setter)(source, target)
		}

		return lazySetter, nil
	}

	inConstruction[ty] = struct{}{}

	setter, err := d.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	d.setterCache.Store(ty, setter)

	return setter, nil
}

func (d *Decoder) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if ty == tyValue {
		return setValue, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int:
		switch unsafe.Sizeof(int(0)) {
		case 4:
			return makeSetInt(BinarySource.Int32, reflect.Value.SetInt, math.MinInt, math.MaxInt, false), nil
		case 8:
			return makeSetInt(BinarySource.Int64, reflect.Value.SetInt, math.MinInt, math.MaxInt, false), nil
		default:
			panic("int must be 4 or 8 byte")
		}

	case reflect.Int8:
		return makeSetInt(BinarySource.Int8, reflect.Value.SetInt, math.MinInt8, math.MaxInt8, false), nil

	case reflect.Int16:
		return makeSetInt(BinarySource.Int16, reflect.Value.SetInt, math.MinInt16, math.MaxInt16, false), nil

	case reflect.Int32:
		return makeSetInt(BinarySource.Int32, reflect.Value.SetInt, math.MinInt32, math.MaxInt32, false), nil

	case reflect.Int64:
		return makeSetInt(BinarySource.Int64, reflect.Value.SetInt, math.MinInt64, math.MaxInt64, false), nil

	case reflect.Uint:
		switch unsafe.Sizeof(uint(0)) {
		case 4:
			return makeSetInt(BinarySource.Uint32, reflect.Value.SetUint, 0, math.MaxUint, true), nil
		case 8:
			return makeSetInt(BinarySource.Uint64, reflect.Value.SetUint, 0, math.MaxUint, true), nil
		default:
			panic("uint must be 4 or 8 byte")
		}

	case reflect.Uint8:
		return makeSetInt(BinarySource.Uint8, reflect.Value.SetUint, 0, math.MaxUint8, true), nil

	case reflect.Uint16:
		return makeSetInt(BinarySource.Uint16, reflect.Value.SetUint, 0, math.MaxUint16, true), nil

	case reflect.Uint32:
		return makeSetInt(BinarySource.Uint32, reflect.Value.SetUint, 0, math.MaxUint32, true), nil

	case reflect.Uint64:
		return makeSetInt(BinarySource.Uint64, reflect.Value.SetUint, 0, math.MaxUint64, true), nil

	case reflect.Float32:
		return setFloat32, nil

	case reflect.Float64:
		return setFloat64, nil

	case reflect.String:
		return setString, nil

	case reflect.Pointer:
		return d.makeSetPointer(inConstruction, ty)

	case reflect.Struct:
		return d.makeSetStruct(inConstruction, ty)

	case reflect.Slice:
		return d.makeSetSlice(inConstruction, ty)

	case reflect.Array:
		return d.makeSetArray(inConstruction, ty)

	case reflect.Map:
		return d.makeSetMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

// makeSetPointer builds the setter for the optional shape. The source is
// probed for presence: absent leaves the pointer nil, present decodes the
// payload. Sources without a presence notion decode as present.
func (d *Decoder) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := d.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	setter := func(source Source, target reflect.Value) error {
		if optSource, ok := source.(OptionSource); ok {
			payload, present, err := optSource.Option()
			if err != nil {
				return fmt.Errorf("probe optional: %w", err)
			}

			if !present {
				target.SetZero()
				return nil
			}

			source = payload
		}

		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(source, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, nil
}

// makeSetStruct builds the associative decode for struct targets. The
// source's key/value pairs are walked in source order; each key is
// decoded to a field name. Pairs naming no field are put back into a side
// buffer instead of being dropped, and merged into the `,remain` field
// after the walk. Fields whose key never appeared are synthesized: pointer
// fields stay absent, anything else is a missing-field failure unless the
// Decoder allows missing values.
func (d *Decoder) makeSetStruct(inConstruction typeSet, ty reflect.Type) (setter, error) {
	structTag := d.structTag
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

	setters := make([]setter, len(fields))
	index := make(map[string]int, len(fields))

	for idx, field := range fields {
		de, err := d.setterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters[idx] = de
		index[field.Name] = idx
	}

	var remainKeySetter, remainValueSetter setter
	if remain != nil {
		if remain.Type.Kind() != reflect.Map {
			return nil, fmt.Errorf("remain field %q: %w", remain.Name, NotSupportedError{Type: remain.Type})
		}

		var err error
		if remainKeySetter, err = d.setterOf(inConstruction, remain.Type.Key()); err != nil {
			return nil, fmt.Errorf("setter for remain key type %q: %w", remain.Type, err)
		}
		if remainValueSetter, err = d.setterOf(inConstruction, remain.Type.Elem()); err != nil {
			return nil, fmt.Errorf("setter for remain value type %q: %w", remain.Type, err)
		}
	}

	setter := func(source Source, target reflect.Value) error {
		keyValues, err := source.KeyValues()
		if errors.Is(err, ErrNotSupported) {
			// source has no pair iteration; fall back to key lookup
			return d.setStructByGet(fields, setters, source, target)
		}
		if err != nil {
			return fmt.Errorf("iterate key/value pairs: %w", err)
		}

		seen := make([]bool, len(fields))

		// pairs no field claimed. They are buffered during the walk and
		// merged at the end, never dropped.
		var leftover [][2]Source

		var walkErr error
		for keySource, valueSource := range keyValues {
			name, err := keySource.String()
			if err != nil {
				walkErr = fmt.Errorf("decode map key: %w", err)
				break
			}

			idx, known := index[name]
			if !known {
				leftover = append(leftover, [2]Source{keySource, valueSource})
				continue
			}

			if seen[idx] {
				walkErr = duplicateField(name)
				break
			}
			seen[idx] = true

			fieldValue := target.FieldByIndex(fields[idx].Index)
			if err := setters[idx](valueSource, fieldValue); err != nil {
				walkErr = fmt.Errorf("set field %q on %q: %w", name, target.Type(), err)
				break
			}
		}
		if walkErr != nil {
			return walkErr
		}

		for idx, field := range fields {
			if seen[idx] {
				continue
			}
			if field.Type.Kind() == reflect.Pointer {
				// optional shape, synthesized as absent
				continue
			}
			if d.allowMissing {
				continue
			}
			return missingField(field.Name)
		}

		if remain != nil {
			remainMap := reflect.MakeMapWithSize(remain.Type, len(leftover))

			for _, pair := range leftover {
				keyTarget := reflect.New(remain.Type.Key()).Elem()
				if err := remainKeySetter(pair[0], keyTarget); err != nil {
					return fmt.Errorf("set leftover key: %w", err)
				}

				valueTarget := reflect.New(remain.Type.Elem()).Elem()
				if err := remainValueSetter(pair[1], valueTarget); err != nil {
					return fmt.Errorf("set leftover value: %w", err)
				}

				remainMap.SetMapIndex(keyTarget, valueTarget)
			}

			target.FieldByIndex(remain.Index).Set(remainMap)
		}

		return nil
	}

	return setter, nil
}

// setStructByGet resolves each field through Source.Get, for sources that
// answer key lookups but cannot iterate their pairs.
func (d *Decoder) setStructByGet(fields []field, setters []setter, source Source, target reflect.Value) error {
	for idx, field := range fields {
		fieldSource, err := source.Get(field.Name)
		switch {
		case errors.Is(err, ErrNoValue):
			if field.Type.Kind() == reflect.Pointer || d.allowMissing {
				continue
			}
			return missingField(field.Name)
		case err != nil:
			return fmt.Errorf("lookup child %q: %w", field.Name, err)
		}

		fieldValue := target.FieldByIndex(field.Index)
		if err := setters[idx](fieldSource, fieldValue); err != nil {
			return fmt.Errorf("set field %q on %q: %w", field.Name, target.Type(), err)
		}
	}

	return nil
}

func (d *Decoder) makeSetMap(inConstruction typeSet, ty reflect.Type) (setter, error) {
	keySetter, err := d.setterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("setter for key type %q: %w", ty, err)
	}

	valueSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for value type %q: %w", ty, err)
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	setter := func(source Source, target reflect.Value) error {
		keyValues, err := source.KeyValues()
		if err != nil {
			return fmt.Errorf("iterate key/value pairs: %w", err)
		}

		mapTarget := reflect.MakeMap(ty)

		var walkErr error
		for keySource, valueSource := range keyValues {
			keyTarget := reflect.New(keyType).Elem()
			if err := keySetter(keySource, keyTarget); err != nil {
				walkErr = fmt.Errorf("set key: %w", err)
				break
			}

			valueTarget := reflect.New(valueType).Elem()
			if err := valueSetter(valueSource, valueTarget); err != nil {
				walkErr = fmt.Errorf("set value: %w", err)
				break
			}

			mapTarget.SetMapIndex(keyTarget, valueTarget)
		}
		if walkErr != nil {
			return walkErr
		}

		target.Set(mapTarget)

		return nil
	}

	return setter, nil
}

func (d *Decoder) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// a empty element
	placeholderValue := reflect.New(ty.Elem()).Elem()

	fromElements := func(source Source, target reflect.Value) error {
		sourceIter, err := source.Iter()
		if err != nil {
			return fmt.Errorf("as iter: %w", err)
		}

		var walkErr error
		for elementSource := range sourceIter {
			// add an empty element to grow the list
			target.Set(reflect.Append(target, placeholderValue))

			idx := target.Len() - 1
			elementValue := target.Index(idx)
			if err := elementSetter(elementSource, elementValue); err != nil {
				walkErr = fmt.Errorf("set element idx=%d: %w", idx, err)
				break
			}
		}

		return walkErr
	}

	if ty.Elem().Kind() != reflect.Uint8 {
		return fromElements, nil
	}

	// byte slices ask for the raw buffer first. A source that cannot
	// answer a bytes request still decodes element-wise.
	setter := func(source Source, target reflect.Value) error {
		if bytesSource, ok := source.(BytesSource); ok {
			raw, err := bytesSource.Bytes()
			if err == nil {
				target.SetBytes(append([]byte(nil), raw...))
				return nil
			}
			if !errors.Is(err, ErrNotSupported) {
				return fmt.Errorf("get bytes value: %w", err)
			}
		}

		return fromElements(source, target)
	}

	return setter, nil
}

// makeSetArray requires the source length to match the array length
// exactly; there is no truncation or zero padding.
func (d *Decoder) makeSetArray(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// number of elements in the array
	elementCount := ty.Len()

	setter := func(source Source, target reflect.Value) error {
		sourceIter, err := source.Iter()
		if err != nil {
			return fmt.Errorf("as iter: %w", err)
		}

		idx := 0
		var walkErr error
		for elementSource := range sourceIter {
			if idx >= elementCount {
				idx++
				continue
			}

			elementValue := target.Index(idx)
			if err := elementSetter(elementSource, elementValue); err != nil {
				walkErr = fmt.Errorf("set element idx=%d: %w", idx, err)
				break
			}
			idx++
		}
		if walkErr != nil {
			return walkErr
		}

		if idx != elementCount {
			return invalidLength(elementCount, idx)
		}

		return nil
	}

	return setter, nil
}

func setValue(source Source, target reflect.Value) error {
	valueSource, ok := source.(ValueSource)
	if !ok {
		return NotSupportedError{Type: tyValue}
	}

	target.Set(reflect.ValueOf(valueSource.AsValue()))
	return nil
}

func setBool(source Source, target reflect.Value) error {
	boolValue, err := source.Bool()
	if err != nil {
		return fmt.Errorf("get bool value: %w", err)
	}

	target.SetBool(boolValue)
	return nil
}

func makeSetInt[T constraints.Integer | constraints.Unsigned, V uint64 | int64](
	parse func(BinarySource) (T, error),
	setValue func(reflect.Value, V),
	minValue, maxValue V,
	isUnsigned bool,
) setter {
	return func(source Source, target reflect.Value) error {
		if intSource, ok := source.(BinarySource); ok {
			parsedValue, err := parse(intSource)
			if err != nil {
				return fmt.Errorf("get %T value: %w", parsedValue, err)
			}

			setValue(target, V(parsedValue))
			return nil
		}

		// no binary source, need to fallback to Source.Int
		intValue, err := source.Int()
		if err != nil {
			return fmt.Errorf("get int value: %w", err)
		}

		var vZero V

		if isUnsigned && intValue < 0 {
			return ErrNotSupported
		}

		if V(intValue) < minValue {
			return fmt.Errorf("invalid %T value %d: %w", vZero, intValue, strconv.ErrRange)
		}

		if V(intValue) > maxValue {
			return fmt.Errorf("invalid %T value: %d: %w", vZero, intValue, strconv.ErrRange)
		}

		setValue(target, V(intValue))
		return nil
	}
}

func setFloat32(source Source, target reflect.Value) error {
	if binarySource, ok := source.(BinarySource); ok {
		floatValue, err := binarySource.Float32()
		if err != nil {
			return fmt.Errorf("get f32 value: %w", err)
		}

		target.SetFloat(float64(floatValue))
		return nil
	}

	floatValue, err := source.Float()
	if err != nil {
		return fmt.Errorf("get float value: %w", err)
	}

	target.SetFloat(floatValue)
	return nil
}

func setFloat64(source Source, target reflect.Value) error {
	if binarySource, ok := source.(BinarySource); ok {
		floatValue, err := binarySource.Float64()
		if err != nil {
			return fmt.Errorf("get f64 value: %w", err)
		}

		target.SetFloat(floatValue)
		return nil
	}

	floatValue, err := source.Float()
	if err != nil {
		return fmt.Errorf("get float value: %w", err)
	}

	target.SetFloat(floatValue)
	return nil
}

func setString(source Source, target reflect.Value) error {
	stringValue, err := source.String()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	target.SetString(stringValue)

	return nil
}

func setTextUnmarshaler(source Source, target reflect.Value) error {
	text, err := source.String()
	if err != nil {
		return fmt.Errorf("get string value: %w", err)
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(text))
}
