package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Color int

func (c Color) EnumNames() []string { return []string{"RED", "GREEN", "BLUE"} }

type Order struct {
	Symbol string  `schemalog:"symbol"`
	Price  float64 `schemalog:"price"`
	Size   int32   `schemalog:"size"`
	secret string  //nolint:unused
}

type CancelOrder struct {
	OrderID string
}

func (CancelOrder) AsType() string { return "CancelOrder" }

type node struct {
	Children []node
}

func TestDeriveStructOrder(t *testing.T) {
	s, err := Derive(reflect.TypeOf(Order{}))
	require.NoError(t, err)

	rec, ok := s.(*RecordSchema)
	require.True(t, ok)

	fields := rec.Fields()
	require.Len(t, fields, 3, "unexported field must be skipped")
	assert.Equal(t, []string{"symbol", "price", "size"}, []string{fields[0].Name, fields[1].Name, fields[2].Name})
}

func TestDeriveEnum(t *testing.T) {
	s, err := Derive(reflect.TypeOf(Color(0)))
	require.NoError(t, err)

	e, ok := s.(*EnumSchema)
	require.True(t, ok)
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, e.Names())
}

func TestDeriveArray(t *testing.T) {
	s, err := Derive(reflect.TypeOf([]int32{}))
	require.NoError(t, err)

	arr, ok := s.(*ArraySchema)
	require.True(t, ok)
	assert.Equal(t, TagInt32, arr.Elem().Tag())
}

func TestDeriveDiscriminator(t *testing.T) {
	s, err := Derive(reflect.TypeOf(CancelOrder{}))
	require.NoError(t, err)

	v, err := s.ObjSize(CancelOrder{OrderID: "abc"})
	require.NoError(t, err)
	assert.Positive(t, v)

	got := encodeObject(t, s, CancelOrder{OrderID: "abc"})
	// ".type" field value "CancelOrder" (11 bytes) then OrderID "abc" (3 bytes)
	assert.EqualValues(t, 4+11+4+3, v)
	assert.Equal(t, uint32(len(got)), v)
}

func TestDeriveCyclicRejected(t *testing.T) {
	_, err := Derive(reflect.TypeOf(node{}))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDeriveUnsupportedType(t *testing.T) {
	_, err := Derive(reflect.TypeOf(make(chan int)))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
