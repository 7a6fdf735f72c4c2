package schema

import (
	"github.com/pkg/errors"
)

const discriminatorFieldName = ".type"

// Field is one named, nested component of a structured-record schema,
// with an explicit getter from the record's value to that field's value.
// This is the explicit-builder path the design notes call for in a
// language without host reflection over arbitrary fields; Derive (see
// derive.go) builds the same shape from a struct type via reflect.
type Field struct {
	Name   string
	Schema Schema
	Get    func(v any) (any, error)
}

func fieldSchemaSize(name string, s Schema) uint32 {
	return stringSize(name) + s.SchemaSize()
}

func encodeFieldSchema(w Sink, name string, s Schema) error {
	if err := writeString(w, name); err != nil {
		return err
	}
	return s.EncodeSchema(w)
}

// RecordSchema is the reflected-record / typed-record variant of §3: a
// Record has no discriminator; a TypedRecord has one prepended as field
// zero. Both are wire tag 0 and otherwise identical.
type RecordSchema struct {
	discriminator string // "" for a plain Record
	fields        []Field
}

// NewRecordSchema builds a plain Record over fields, in the given order.
// Field order is frozen at construction and used consistently for sizing
// and encoding.
func NewRecordSchema(fields []Field) *RecordSchema {
	return &RecordSchema{fields: append([]Field(nil), fields...)}
}

// NewTypedRecordSchema builds a Record with an implicit ".type" string
// field prepended, holding typeName. Wire-identical to a Record whose
// first field is ".type".
func NewTypedRecordSchema(typeName string, fields []Field) *RecordSchema {
	return &RecordSchema{discriminator: typeName, fields: append([]Field(nil), fields...)}
}

// Fields returns the declared fields, not including any discriminator.
func (s *RecordSchema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *RecordSchema) Tag() int32 { return TagRecord }

func (s *RecordSchema) SchemaSize() uint32 {
	var size uint32 = 8 // tag + field_count
	if s.discriminator != "" {
		size += fieldSchemaSize(discriminatorFieldName, Utf8StringSchema)
	}
	for _, f := range s.fields {
		size += fieldSchemaSize(f.Name, f.Schema)
	}
	return size
}

func (s *RecordSchema) fieldCount() int32 {
	n := int32(len(s.fields))
	if s.discriminator != "" {
		n++
	}
	return n
}

func (s *RecordSchema) EncodeSchema(w Sink) error {
	if err := writeInt32(w, s.Tag()); err != nil {
		return err
	}
	if err := writeInt32(w, s.fieldCount()); err != nil {
		return err
	}
	if s.discriminator != "" {
		if err := encodeFieldSchema(w, discriminatorFieldName, Utf8StringSchema); err != nil {
			return err
		}
	}
	for _, f := range s.fields {
		if err := encodeFieldSchema(w, f.Name, f.Schema); err != nil {
			return err
		}
	}
	return nil
}

func (s *RecordSchema) ObjSize(v any) (uint32, error) {
	var size uint32
	if s.discriminator != "" {
		size += stringSize(s.discriminator)
	}
	for _, f := range s.fields {
		fv, err := f.Get(v)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", f.Name)
		}
		n, err := f.Schema.ObjSize(fv)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", f.Name)
		}
		size += n
	}
	return size, nil
}

func (s *RecordSchema) EncodeObject(w Sink, v any) error {
	if s.discriminator != "" {
		if err := writeString(w, s.discriminator); err != nil {
			return err
		}
	}
	for _, f := range s.fields {
		fv, err := f.Get(v)
		if err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
		if err := f.Schema.EncodeObject(w, fv); err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
	}
	return nil
}

// CustomSchema is the custom-component variant of §4.5: wire-identical to
// a TypedRecord, but the caller supplies a single encoder that yields all
// component values in one call instead of per-field getters. The encoder
// is invoked once during ObjSize and once during EncodeObject, so it must
// be deterministic and free of side effects.
type CustomSchema struct {
	typeName string
	names    []string
	schemas  []Schema
	encode   func(v any) ([]any, error)
}

// NewCustomSchema builds a Custom schema. names and schemas must have
// equal length, or ErrMismatchedComponents is returned. encode receives
// the logged value once the schema has checked that it is a T (any other
// type yields ErrWrongValueType) and must return one value per entry in
// schemas, in the same order.
func NewCustomSchema[T any](typeName string, names []string, schemas []Schema, encode func(T) ([]any, error)) (*CustomSchema, error) {
	if len(names) != len(schemas) {
		return nil, errors.Wrapf(ErrMismatchedComponents, "%d names, %d schemas", len(names), len(schemas))
	}

	erased := func(v any) ([]any, error) {
		t, ok := v.(T)
		if !ok {
			return nil, errors.Wrapf(ErrWrongValueType, "Custom %q: got %T", typeName, v)
		}
		return encode(t)
	}

	return &CustomSchema{
		typeName: typeName,
		names:    append([]string(nil), names...),
		schemas:  append([]Schema(nil), schemas...),
		encode:   erased,
	}, nil
}

func (s *CustomSchema) Tag() int32 { return TagRecord }

func (s *CustomSchema) SchemaSize() uint32 {
	size := uint32(8) + fieldSchemaSize(discriminatorFieldName, Utf8StringSchema)
	for i, name := range s.names {
		size += fieldSchemaSize(name, s.schemas[i])
	}
	return size
}

func (s *CustomSchema) EncodeSchema(w Sink) error {
	if err := writeInt32(w, s.Tag()); err != nil {
		return err
	}
	if err := writeInt32(w, int32(len(s.names)+1)); err != nil {
		return err
	}
	if err := encodeFieldSchema(w, discriminatorFieldName, Utf8StringSchema); err != nil {
		return err
	}
	for i, name := range s.names {
		if err := encodeFieldSchema(w, name, s.schemas[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CustomSchema) components(v any) ([]any, error) {
	components, err := s.encode(v)
	if err != nil {
		return nil, errors.Wrapf(err, "Custom %q: encoder", s.typeName)
	}
	if len(components) != len(s.schemas) {
		return nil, errors.Wrapf(ErrMismatchedComponents, "Custom %q: encoder returned %d values, want %d", s.typeName, len(components), len(s.schemas))
	}
	return components, nil
}

func (s *CustomSchema) ObjSize(v any) (uint32, error) {
	components, err := s.components(v)
	if err != nil {
		return 0, err
	}

	size := stringSize(s.typeName)
	for i, c := range components {
		n, err := s.schemas[i].ObjSize(c)
		if err != nil {
			return 0, errors.Wrapf(err, "Custom %q: component %q", s.typeName, s.names[i])
		}
		size += n
	}
	return size, nil
}

func (s *CustomSchema) EncodeObject(w Sink, v any) error {
	components, err := s.components(v)
	if err != nil {
		return err
	}

	if err := writeString(w, s.typeName); err != nil {
		return err
	}
	for i, c := range components {
		if err := s.schemas[i].EncodeObject(w, c); err != nil {
			return errors.Wrapf(err, "Custom %q: component %q", s.typeName, s.names[i])
		}
	}
	return nil
}
