package pivot

import "fmt"

// Builder is a [Sink] that reassembles the emission stream into a Value
// tree, bottom-up. Composites are accumulated in a frame stack and merged
// into their parent when closed, so there is never a partially visible
// composite.
//
// [NewBuilder] builds canonically sorted maps; [NewOrderedBuilder] keeps
// map pairs in emission order.
type Builder struct {
	ordered bool
	stack   []*buildFrame
	out     Value
	done    bool
}

type buildFrame struct {
	kind  Kind // KindSeq, KindMap, KindOption (some) or KindNewtype
	elems []Value
	m     *Map
	key   *Value // pending map key awaiting its value
}

// NewBuilder returns a Builder producing sort-ordered maps.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewOrderedBuilder returns a Builder producing insertion-ordered maps.
func NewOrderedBuilder() *Builder {
	return &Builder{ordered: true}
}

// Value returns the assembled tree. It fails with [ErrIncomplete] until
// exactly one complete value has been emitted.
func (b *Builder) Value() (Value, error) {
	if !b.done || len(b.stack) > 0 {
		return Value{}, ErrIncomplete
	}
	return b.out, nil
}

// emit places a finished value into the enclosing frame, unwinding
// wrapper frames as they complete.
func (b *Builder) emit(v Value) error {
	for {
		if len(b.stack) == 0 {
			if b.done {
				return fmt.Errorf("emit after value is complete")
			}
			b.out = v
			b.done = true
			return nil
		}

		top := b.stack[len(b.stack)-1]
		switch top.kind {
		case KindSeq:
			top.elems = append(top.elems, v)
			return nil

		case KindMap:
			if top.key == nil {
				key := v
				top.key = &key
				return nil
			}
			top.m.Set(*top.key, v)
			top.key = nil
			return nil

		case KindOption:
			b.stack = b.stack[:len(b.stack)-1]
			v = Some(v)
			continue

		case KindNewtype:
			b.stack = b.stack[:len(b.stack)-1]
			v = Newtype(v)
			continue

		default:
			return fmt.Errorf("corrupt builder frame")
		}
	}
}

func (b *Builder) Bool(v bool) error       { return b.emit(Bool(v)) }
func (b *Builder) Uint8(v uint8) error     { return b.emit(Uint8(v)) }
func (b *Builder) Uint16(v uint16) error   { return b.emit(Uint16(v)) }
func (b *Builder) Uint32(v uint32) error   { return b.emit(Uint32(v)) }
func (b *Builder) Uint64(v uint64) error   { return b.emit(Uint64(v)) }
func (b *Builder) Int8(v int8) error       { return b.emit(Int8(v)) }
func (b *Builder) Int16(v int16) error     { return b.emit(Int16(v)) }
func (b *Builder) Int32(v int32) error     { return b.emit(Int32(v)) }
func (b *Builder) Int64(v int64) error     { return b.emit(Int64(v)) }
func (b *Builder) Float32(v float32) error { return b.emit(Float32(v)) }
func (b *Builder) Float64(v float64) error { return b.emit(Float64(v)) }
func (b *Builder) Char(v rune) error       { return b.emit(Char(v)) }
func (b *Builder) String(v string) error   { return b.emit(String(v)) }
func (b *Builder) Bytes(v []byte) error    { return b.emit(Bytes(v)) }
func (b *Builder) Unit() error             { return b.emit(Unit()) }
func (b *Builder) None() error             { return b.emit(None()) }

func (b *Builder) Some() error {
	b.stack = append(b.stack, &buildFrame{kind: KindOption})
	return nil
}

func (b *Builder) Newtype(string) error {
	b.stack = append(b.stack, &buildFrame{kind: KindNewtype})
	return nil
}

func (b *Builder) BeginSeq(n int) error {
	b.stack = append(b.stack, &buildFrame{kind: KindSeq, elems: make([]Value, 0, max(n, 0))})
	return nil
}

func (b *Builder) EndSeq() error {
	top, err := b.pop(KindSeq)
	if err != nil {
		return err
	}
	return b.emit(Seq(top.elems...))
}

func (b *Builder) BeginMap(int) error {
	m := NewMap()
	if b.ordered {
		m = NewOrderedMap()
	}
	b.stack = append(b.stack, &buildFrame{kind: KindMap, m: m})
	return nil
}

func (b *Builder) EndMap() error {
	top, err := b.pop(KindMap)
	if err != nil {
		return err
	}
	if top.key != nil {
		return fmt.Errorf("map closed with a key awaiting its value")
	}
	return b.emit(Mapping(top.m))
}

func (b *Builder) pop(kind Kind) (*buildFrame, error) {
	if len(b.stack) == 0 {
		return nil, fmt.Errorf("end of %s without matching begin", kind)
	}
	top := b.stack[len(b.stack)-1]
	if top.kind != kind {
		return nil, fmt.Errorf("end of %s inside %s", kind, top.kind)
	}
	b.stack = b.stack[:len(b.stack)-1]
	return top, nil
}
