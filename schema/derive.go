package schema

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Enumerator is implemented by Go types that derivation should treat as
// an Enum: a closed, ordered list of constant names. A named integer type
// is the idiomatic shape, the way schema.MessageDirection declared
// ToString() in the teacher this package descends from.
type Enumerator interface {
	EnumNames() []string
}

var enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()

// discriminatorMethodNames are the case-insensitive spellings of the
// AS_TYPE marker the spec calls for.
var discriminatorMethodNames = []string{"astype", "as_type"}

// Derive builds a Schema for t, recursing into fields of aggregate types.
// t must not be a channel, function, or map; pointers derive the schema of
// the type they point to, and slices/arrays derive an Array over their
// element type. Cyclic type graphs are rejected with
// ErrUnsupportedType, matching the spec's "configuration error, detect
// and fail fast" rule.
func Derive(t reflect.Type) (Schema, error) {
	return derive(t, map[reflect.Type]bool{})
}

// DeriveValue derives a schema from the runtime type of v, without
// consulting or populating any Registry.
func DeriveValue(v any) (Schema, error) {
	return Derive(reflect.TypeOf(v))
}

func derive(t reflect.Type, inProgress map[reflect.Type]bool) (Schema, error) {
	if inProgress[t] {
		return nil, errors.Wrapf(ErrUnsupportedType, "cyclic type graph at %s", t)
	}

	if names, ok := enumNames(t); ok {
		return NewEnumSchema(names), nil
	}

	switch t.Kind() {
	case reflect.Int32:
		return Int32Schema, nil
	case reflect.Int64:
		return Int64Schema, nil
	case reflect.Float64:
		return Float64Schema, nil
	case reflect.Bool:
		return BoolSchema, nil
	case reflect.String:
		return Utf8StringSchema, nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		inProgress[t] = true
		elemSchema, err := derive(t.Elem(), inProgress)
		delete(inProgress, t)
		if err != nil {
			return nil, err
		}
		return NewArraySchema(elemSchema), nil

	case reflect.Ptr:
		return derive(t.Elem(), inProgress)

	case reflect.Struct:
		inProgress[t] = true
		defer delete(inProgress, t)
		return deriveStruct(t, inProgress)

	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "unsupported kind %s for type %s", t.Kind(), t)
	}
}

// enumNames reports whether t (or *t) implements Enumerator, and if so
// its declared names.
func enumNames(t reflect.Type) ([]string, bool) {
	if t.Implements(enumeratorType) {
		return reflect.Zero(t).Interface().(Enumerator).EnumNames(), true
	}
	if reflect.PointerTo(t).Implements(enumeratorType) {
		zero := reflect.New(t)
		return zero.Interface().(Enumerator).EnumNames(), true
	}
	return nil, false
}

// discriminator reports whether t (or *t) exposes an AS_TYPE-named
// no-argument string method, and its result if so.
func discriminator(t reflect.Type) (string, bool) {
	for _, candidate := range []reflect.Type{t, reflect.PointerTo(t)} {
		for i := 0; i < candidate.NumMethod(); i++ {
			m := candidate.Method(i)
			lower := strings.ToLower(m.Name)
			matched := false
			for _, name := range discriminatorMethodNames {
				if lower == name {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || m.Type.Out(0).Kind() != reflect.String {
				continue
			}

			recv := reflect.New(t)
			if candidate.Kind() != reflect.Ptr {
				recv = recv.Elem()
			}
			out := recv.Method(i).Call(nil)
			return out[0].String(), true
		}
	}
	return "", false
}

func fieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("schemalog")
	if !ok {
		if f.PkgPath != "" { // unexported
			return "", false
		}
		return f.Name, true
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = f.Name
	}
	return name, true
}

func fieldGetter(idx int, ptrField bool) func(v any) (any, error) {
	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, errors.Wrapf(ErrWrongValueType, "record getter: got %T", v)
		}

		fv := rv.Field(idx)
		if ptrField {
			if fv.IsNil() {
				return reflect.Zero(fv.Type().Elem()).Interface(), nil
			}
			fv = fv.Elem()
		}
		return fv.Interface(), nil
	}
}

func deriveStruct(t reflect.Type, inProgress map[reflect.Type]bool) (Schema, error) {
	var fields []Field

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}

		ft := f.Type
		ptrField := false
		if ft.Kind() == reflect.Ptr {
			ptrField = true
			ft = ft.Elem()
		}

		fieldSchema, err := derive(ft, inProgress)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}

		fields = append(fields, Field{
			Name:   name,
			Schema: fieldSchema,
			Get:    fieldGetter(i, ptrField),
		})
	}

	if typeName, ok := discriminator(t); ok {
		return NewTypedRecordSchema(typeName, fields), nil
	}
	return NewRecordSchema(fields), nil
}
