package schema

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Primitives carry no per-instance parameters; their descriptor is just
// the tag (SchemaSize == 4).

type int32Schema struct{}

// Int32Schema is the schema for a two's-complement big-endian int32.
var Int32Schema Schema = int32Schema{}

func (int32Schema) Tag() int32            { return TagInt32 }
func (int32Schema) SchemaSize() uint32    { return 4 }
func (s int32Schema) EncodeSchema(w Sink) error { return writeInt32(w, s.Tag()) }

func (int32Schema) ObjSize(v any) (uint32, error) {
	if _, ok := v.(int32); !ok {
		return 0, errors.Wrapf(ErrWrongValueType, "Int32: got %T", v)
	}
	return 4, nil
}

func (int32Schema) EncodeObject(w Sink, v any) error {
	n, ok := v.(int32)
	if !ok {
		return errors.Wrapf(ErrWrongValueType, "Int32: got %T", v)
	}
	return writeInt32(w, n)
}

type int64Schema struct{}

// Int64Schema is the schema for a two's-complement big-endian int64.
var Int64Schema Schema = int64Schema{}

func (int64Schema) Tag() int32         { return TagInt64 }
func (int64Schema) SchemaSize() uint32 { return 4 }
func (s int64Schema) EncodeSchema(w Sink) error { return writeInt32(w, s.Tag()) }

func (int64Schema) ObjSize(v any) (uint32, error) {
	if _, ok := v.(int64); !ok {
		return 0, errors.Wrapf(ErrWrongValueType, "Int64: got %T", v)
	}
	return 8, nil
}

func (int64Schema) EncodeObject(w Sink, v any) error {
	n, ok := v.(int64)
	if !ok {
		return errors.Wrapf(ErrWrongValueType, "Int64: got %T", v)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	_, err := w.Write(buf[:])
	return err
}

type float64Schema struct{}

// Float64Schema is the schema for an IEEE-754 big-endian double.
var Float64Schema Schema = float64Schema{}

func (float64Schema) Tag() int32         { return TagFloat64 }
func (float64Schema) SchemaSize() uint32 { return 4 }
func (s float64Schema) EncodeSchema(w Sink) error { return writeInt32(w, s.Tag()) }

func (float64Schema) ObjSize(v any) (uint32, error) {
	if _, ok := v.(float64); !ok {
		return 0, errors.Wrapf(ErrWrongValueType, "Float64: got %T", v)
	}
	return 8, nil
}

func (float64Schema) EncodeObject(w Sink, v any) error {
	f, ok := v.(float64)
	if !ok {
		return errors.Wrapf(ErrWrongValueType, "Float64: got %T", v)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	_, err := w.Write(buf[:])
	return err
}

type boolSchema struct{}

// BoolSchema is the schema for a single byte, 0x00 or 0x01.
var BoolSchema Schema = boolSchema{}

func (boolSchema) Tag() int32         { return TagBool }
func (boolSchema) SchemaSize() uint32 { return 4 }
func (s boolSchema) EncodeSchema(w Sink) error { return writeInt32(w, s.Tag()) }

func (boolSchema) ObjSize(v any) (uint32, error) {
	if _, ok := v.(bool); !ok {
		return 0, errors.Wrapf(ErrWrongValueType, "Bool: got %T", v)
	}
	return 1, nil
}

func (boolSchema) EncodeObject(w Sink, v any) error {
	b, ok := v.(bool)
	if !ok {
		return errors.Wrapf(ErrWrongValueType, "Bool: got %T", v)
	}
	var buf [1]byte
	if b {
		buf[0] = 0x01
	}
	_, err := w.Write(buf[:])
	return err
}

type utf8StringSchema struct{}

// Utf8StringSchema is the schema for a length-prefixed UTF-8 string. The
// length prefix counts bytes, not codepoints.
var Utf8StringSchema Schema = utf8StringSchema{}

func (utf8StringSchema) Tag() int32         { return TagUtf8String }
func (utf8StringSchema) SchemaSize() uint32 { return 4 }
func (s utf8StringSchema) EncodeSchema(w Sink) error { return writeInt32(w, s.Tag()) }

func (utf8StringSchema) ObjSize(v any) (uint32, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.Wrapf(ErrWrongValueType, "Utf8String: got %T", v)
	}
	return stringSize(s), nil
}

func (utf8StringSchema) EncodeObject(w Sink, v any) error {
	s, ok := v.(string)
	if !ok {
		return errors.Wrapf(ErrWrongValueType, "Utf8String: got %T", v)
	}
	return writeString(w, s)
}
