// Package schema implements the closed algebra of schema kinds described
// by the wire format: primitives, enumerations, homogeneous arrays,
// structured records (reflected, typed, and custom-component, which are
// wire-identical), and a translation adapter.
package schema

import "encoding/binary"

// Sink is the narrow byte-writing capability a schema needs to emit its
// descriptor and values. The root package's ByteSink satisfies it; schema
// itself stays free of any writer/channel concerns.
type Sink interface {
	Write(p []byte) (int, error)
}

// Tag numbers are part of the wire format (see the descriptor table in
// the spec) and must never be renumbered.
const (
	TagRecord     int32 = 0
	TagInt32      int32 = 1
	TagInt64      int32 = 2
	TagFloat64    int32 = 3
	TagUtf8String int32 = 4
	TagBool       int32 = 5
	TagEnum       int32 = 6
	TagArray      int32 = 7
)

// Schema describes one value type: how to size and serialize both its own
// descriptor and the values it governs.
type Schema interface {
	// Tag is the stable wire tag for this schema's kind. It must equal
	// the first four bytes written by EncodeSchema.
	Tag() int32

	// SchemaSize is the exact byte length EncodeSchema will write.
	SchemaSize() uint32

	// EncodeSchema writes this schema's descriptor, starting with Tag().
	EncodeSchema(w Sink) error

	// ObjSize is the exact byte length EncodeObject will write for v.
	ObjSize(v any) (uint32, error)

	// EncodeObject writes v's value encoding, consuming exactly ObjSize(v)
	// bytes.
	EncodeObject(w Sink, v any) error
}

func writeInt32(w Sink, n int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}

func writeString(w Sink, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func stringSize(s string) uint32 {
	return 4 + uint32(len(s))
}
