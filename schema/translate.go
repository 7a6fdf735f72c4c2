package schema

import "github.com/pkg/errors"

// translateSchema wraps a base schema over U with a T -> U conversion. It
// is wire-invisible: tag, descriptor and schema size are all the base
// schema's.
type translateSchema struct {
	base   Schema
	toBase func(v any) (any, error)
}

// NewTranslateSchema builds a Translate adapter: a schema over T that
// delegates to base (a schema over U) via toBase. This lets a caller log
// a value whose in-memory storage shape differs from the shape it wants
// on the wire.
func NewTranslateSchema[T, U any](base Schema, toBase func(T) U) Schema {
	erased := func(v any) (any, error) {
		t, ok := v.(T)
		if !ok {
			return nil, errors.Wrapf(ErrWrongValueType, "Translate: got %T", v)
		}
		return toBase(t), nil
	}

	return &translateSchema{base: base, toBase: erased}
}

func (s *translateSchema) Tag() int32 { return s.base.Tag() }

func (s *translateSchema) SchemaSize() uint32 { return s.base.SchemaSize() }

func (s *translateSchema) EncodeSchema(w Sink) error { return s.base.EncodeSchema(w) }

func (s *translateSchema) ObjSize(v any) (uint32, error) {
	u, err := s.toBase(v)
	if err != nil {
		return 0, err
	}
	return s.base.ObjSize(u)
}

func (s *translateSchema) EncodeObject(w Sink, v any) error {
	u, err := s.toBase(v)
	if err != nil {
		return err
	}
	return s.base.EncodeObject(w, u)
}
