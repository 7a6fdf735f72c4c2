package schema

import "errors"

// ErrInvalidEnumValue is returned when encoding an enum name/ordinal not
// declared in its schema (see §9 / P9).
var ErrInvalidEnumValue = errors.New("schemalog: enum value not declared in schema")

// ErrUnsupportedType is returned when derivation encounters a type it
// cannot handle: a function, channel, cyclic type graph, or anything
// outside the closed schema algebra.
var ErrUnsupportedType = errors.New("schemalog: cannot derive a schema for this type")

// ErrMismatchedComponents is returned when a Custom schema is constructed
// with component name/schema slices of unequal length, or when its
// encoder returns the wrong number of values at write time.
var ErrMismatchedComponents = errors.New("schemalog: component names and schemas have different lengths")

// ErrWrongValueType is returned when a value passed to ObjSize/EncodeObject
// does not match the Go type a schema expects.
var ErrWrongValueType = errors.New("schemalog: value does not match schema's expected type")
