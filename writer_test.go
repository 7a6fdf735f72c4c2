package schemalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/schemalog/schema"
)

func hex(b ...byte) []byte { return b }

func TestS1EmptyLog(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, hex(0x52, 0x52, 0x00, 0x01), sink.Bytes(), "S1/P1: header only")
}

func TestS2OneInt32Channel(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	ch, err := w.AddChannel("ints", schema.Int32Schema)
	require.NoError(t, err)
	require.NoError(t, ch.Put(int32(42)))
	require.NoError(t, w.Close())

	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // schema entry kind
	want = append(want, hex(0x00, 0x00, 0x00, 0x04)...) // name len
	want = append(want, []byte("ints")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // Int32 tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // message entry kind
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // channel index 0
	want = append(want, hex(0x00, 0x00, 0x00, 0x2A)...) // value 42

	assert.Equal(t, want, sink.Bytes())
}

func TestS3ArrayOfFloat64(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	ch, err := w.AddChannel("xs", schema.NewArraySchema(schema.Float64Schema))
	require.NoError(t, err)
	require.NoError(t, ch.Put([]float64{2.0, 3.0}))
	require.NoError(t, w.Close())

	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x02)...)
	want = append(want, []byte("xs")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x07)...) // Array tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...) // Float64 tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // message kind
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // index 0
	want = append(want, hex(0x00, 0x00, 0x00, 0x02)...) // count 2
	want = append(want, hex(0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)...) // 2.0
	want = append(want, hex(0x40, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)...) // 3.0

	assert.Equal(t, want, sink.Bytes())
}

type pt struct {
	X float64
	Y float64
}

func TestS4TypedRecord(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	fields := []schema.Field{
		{Name: "x", Schema: schema.Float64Schema, Get: func(v any) (any, error) { return v.(pt).X, nil }},
		{Name: "y", Schema: schema.Float64Schema, Get: func(v any) (any, error) { return v.(pt).Y, nil }},
	}
	s := schema.NewTypedRecordSchema("Pt", fields)

	ch, err := w.AddChannel("p", s)
	require.NoError(t, err)
	require.NoError(t, ch.Put(pt{X: 1.0, Y: 2.0}))
	require.NoError(t, w.Close())

	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, []byte("p")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // record tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...) // field count
	want = append(want, hex(0x00, 0x00, 0x00, 0x05)...)
	want = append(want, []byte(".type")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x04)...) // Utf8String tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, []byte("x")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...) // Float64 tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, []byte("y")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // message kind
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // index
	want = append(want, hex(0x00, 0x00, 0x00, 0x02)...) // ".type" = "Pt"
	want = append(want, []byte("Pt")...)
	want = append(want, hex(0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)...) // 1.0
	want = append(want, hex(0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)...) // 2.0

	assert.Equal(t, want, sink.Bytes())
}

func TestS5Enum(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	e := schema.NewEnumSchema([]string{"RED", "GREEN", "BLUE"})
	ch, err := w.AddChannel("c", e)
	require.NoError(t, err)
	require.NoError(t, ch.Put("GREEN"))
	require.NoError(t, w.Close())

	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, []byte("c")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x06)...) // Enum tag
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...) // count
	for _, n := range []string{"RED", "GREEN", "BLUE"} {
		var nl [4]byte
		nl[3] = byte(len(n))
		want = append(want, nl[:]...)
		want = append(want, []byte(n)...)
	}
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // message kind
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...) // index
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...) // ordinal of GREEN

	assert.Equal(t, want, sink.Bytes())
}

func TestS6DuplicateChannelName(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	_, err = w.AddChannel("a", schema.Int32Schema)
	require.NoError(t, err)
	afterFirst := append([]byte(nil), sink.Bytes()...)

	_, err = w.AddChannel("a", schema.Int32Schema)
	assert.ErrorIs(t, err, ErrDuplicateChannelName)
	assert.Equal(t, afterFirst, sink.Bytes(), "S6: failed registration writes nothing")
}

func TestChannelIndexing(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	a, err := w.AddChannel("a", schema.Int32Schema)
	require.NoError(t, err)
	b, err := w.AddChannel("b", schema.Int32Schema)
	require.NoError(t, err)
	c, err := w.AddChannel("c", schema.Int32Schema)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, []int{a.index, b.index, c.index}, "P5: dense 0-based indices in declaration order")
}

func TestWriteAfterCloseFails(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	ch, err := w.AddChannel("a", schema.Int32Schema)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, ch.Put(int32(1)), ErrWriterClosed)
	_, err = w.AddChannel("b", schema.Int32Schema)
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestUnboundChannelAutoRegistersOnFirstWrite(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	ch := w.Channel("lazy", schema.Int32Schema)
	require.NoError(t, ch.Put(int32(7)))
	require.NoError(t, w.Close())

	// header + schema entry + message entry for one channel at index 0
	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x04)...)
	want = append(want, []byte("lazy")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x07)...)
	assert.Equal(t, want, sink.Bytes())
}

func TestChannelFromAnotherWriterIsUnknown(t *testing.T) {
	w1, err := NewWriter(NewBufferSink())
	require.NoError(t, err)
	w2, err := NewWriter(NewBufferSink())
	require.NoError(t, err)

	ch, err := w1.AddChannel("a", schema.Int32Schema)
	require.NoError(t, err)

	assert.ErrorIs(t, w2.Write(ch, int32(1)), ErrUnknownChannel)
}

func TestWriteNameDerivesSchemaOnFirstSight(t *testing.T) {
	sink := NewBufferSink()
	w, err := NewWriter(sink)
	require.NoError(t, err)

	require.NoError(t, w.WriteName("count", int32(3)))
	require.NoError(t, w.WriteName("count", int32(4)))
	require.NoError(t, w.Close())

	want := append([]byte{}, hex(0x52, 0x52, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x05)...)
	want = append(want, []byte("count")...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x03)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x01)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x00)...)
	want = append(want, hex(0x00, 0x00, 0x00, 0x04)...)
	assert.Equal(t, want, sink.Bytes())
}
