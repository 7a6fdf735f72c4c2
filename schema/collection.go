package schema

import (
	"encoding/binary"
	"reflect"

	"github.com/pkg/errors"
)

// EnumSchema carries an ordered, fixed list of constant names. A value is
// either the ordinal (any integer type) or the name itself (a string),
// resolved to its ordinal via linear lookup.
type EnumSchema struct {
	names []string
}

// NewEnumSchema builds an Enum schema over names, in declared order. The
// order is part of the wire format (it is the ordinal space) and is
// frozen at construction.
func NewEnumSchema(names []string) *EnumSchema {
	cp := make([]string, len(names))
	copy(cp, names)
	return &EnumSchema{names: cp}
}

// Names returns the schema's declared constant names, in ordinal order.
func (s *EnumSchema) Names() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

func (s *EnumSchema) Tag() int32 { return TagEnum }

func (s *EnumSchema) SchemaSize() uint32 {
	var size uint32 = 8 // tag + count
	for _, n := range s.names {
		size += stringSize(n)
	}
	return size
}

func (s *EnumSchema) EncodeSchema(w Sink) error {
	if err := writeInt32(w, s.Tag()); err != nil {
		return err
	}
	if err := writeInt32(w, int32(len(s.names))); err != nil {
		return err
	}
	for _, n := range s.names {
		if err := writeString(w, n); err != nil {
			return err
		}
	}
	return nil
}

// ordinal resolves v (an ordinal integer or a declared name) to its
// 0-based position.
func (s *EnumSchema) ordinal(v any) (int32, error) {
	switch t := v.(type) {
	case string:
		for i, n := range s.names {
			if n == t {
				return int32(i), nil
			}
		}
		return 0, errors.Wrapf(ErrInvalidEnumValue, "name %q not declared", t)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			ord := rv.Int()
			if ord < 0 || ord >= int64(len(s.names)) {
				return 0, errors.Wrapf(ErrInvalidEnumValue, "ordinal %d out of range", ord)
			}
			return int32(ord), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			ord := rv.Uint()
			if ord >= uint64(len(s.names)) {
				return 0, errors.Wrapf(ErrInvalidEnumValue, "ordinal %d out of range", ord)
			}
			return int32(ord), nil
		default:
			return 0, errors.Wrapf(ErrWrongValueType, "Enum: got %T", v)
		}
	}
}

func (s *EnumSchema) ObjSize(v any) (uint32, error) {
	if _, err := s.ordinal(v); err != nil {
		return 0, err
	}
	return 4, nil
}

func (s *EnumSchema) EncodeObject(w Sink, v any) error {
	ord, err := s.ordinal(v)
	if err != nil {
		return err
	}
	return writeInt32(w, ord)
}

// ArraySchema is a homogeneous sequence of values of a single element
// schema. Values are supplied as a Go slice (any element type matching
// the element schema) or as []any.
type ArraySchema struct {
	elem Schema
}

// NewArraySchema builds an Array schema over elem.
func NewArraySchema(elem Schema) *ArraySchema {
	return &ArraySchema{elem: elem}
}

// Elem returns the element schema.
func (s *ArraySchema) Elem() Schema { return s.elem }

func (s *ArraySchema) Tag() int32 { return TagArray }

func (s *ArraySchema) SchemaSize() uint32 {
	return 4 + s.elem.SchemaSize()
}

func (s *ArraySchema) EncodeSchema(w Sink) error {
	if err := writeInt32(w, s.Tag()); err != nil {
		return err
	}
	return s.elem.EncodeSchema(w)
}

// elements returns v as a slice of individually addressable elements,
// accepting both []any and any concrete slice/array type via reflection.
func elements(v any) ([]any, error) {
	if xs, ok := v.([]any); ok {
		return xs, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Wrapf(ErrWrongValueType, "Array: got %T", v)
	}

	n := rv.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func (s *ArraySchema) ObjSize(v any) (uint32, error) {
	xs, err := elements(v)
	if err != nil {
		return 0, err
	}

	var size uint32 = 4
	for _, x := range xs {
		n, err := s.elem.ObjSize(x)
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

func (s *ArraySchema) EncodeObject(w Sink, v any) error {
	xs, err := elements(v)
	if err != nil {
		return err
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(xs)))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	for _, x := range xs {
		if err := s.elem.EncodeObject(w, x); err != nil {
			return err
		}
	}
	return nil
}
