package schemalog

import (
	"errors"

	"github.com/benjamin-larsen/schemalog/schema"
)

// Entry kinds, as they appear on the wire immediately after the header.
const (
	entryKindSchema  int32 = 0
	entryKindMessage int32 = 1
)

// Header magic and version, written immediately on writer construction.
var headerMagic = [2]byte{'R', 'R'}

const headerVersion uint16 = 1

var ErrDuplicateChannelName = errors.New("schemalog: channel name already registered")
var ErrUnknownChannel = errors.New("schemalog: handle not bound to this writer")
var ErrSizeAccountingMismatch = errors.New("schemalog: schema objSize disagreed with bytes written")
var ErrWriterClosed = errors.New("schemalog: operation on a closed writer")
var ErrBadHeader = errors.New("schemalog: invalid stream header")

// These mirror the schema package's errors so callers of the root package
// don't need to import schema just to check an error kind.
var ErrInvalidEnumValue = schema.ErrInvalidEnumValue
var ErrUnsupportedType = schema.ErrUnsupportedType
var ErrMismatchedComponents = schema.ErrMismatchedComponents
var ErrWrongValueType = schema.ErrWrongValueType
