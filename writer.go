package schemalog

import (
	"encoding/binary"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/benjamin-larsen/schemalog/schema"
)

// entryBuffer is an exact-size, pre-allocated write target for a single
// entry. It generalizes the teacher's Writer.GrowBytes discipline in
// encoder/encode.go: one entry is assembled in memory before ever
// touching the sink, and any attempt to write past its declared size is
// caught immediately rather than silently corrupting the stream.
type entryBuffer struct {
	buf []byte
	pos int
}

func newEntryBuffer(size uint32) *entryBuffer {
	return &entryBuffer{buf: make([]byte, size)}
}

func (b *entryBuffer) Write(p []byte) (int, error) {
	if b.pos+len(p) > len(b.buf) {
		return 0, ErrSizeAccountingMismatch
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *entryBuffer) full() bool { return b.pos == len(b.buf) }

func (b *entryBuffer) writeInt32(n int32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	_, err := b.Write(tmp[:])
	return err
}

type channelEntry struct {
	name   string
	schema schema.Schema
}

// Writer is the engine of §4.9: it owns a sink, writes the header
// immediately on construction, assigns channels dense 0-based indices in
// declaration order, and emits exactly one schema entry per channel
// before any message entry referencing it.
//
// A Writer is a shared resource: every register/write/close call takes
// the same mutex, so entry order is exactly call order, the way the
// teacher's MessageDescriptorRegistry is meant to be guarded (it wasn't,
// in goschemaipc — this is the gap cramberry's Registry closes with its
// own sync.RWMutex, which this type's mutex mirrors for the hot write
// path).
type Writer struct {
	mu       sync.Mutex
	sink     ByteSink
	channels []channelEntry
	byName   map[string]int
	closed   bool
	logger   logrus.FieldLogger
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithLogger injects a logger for diagnostic messages (channel
// registration, close). The default is logrus's standard logger.
func WithLogger(l logrus.FieldLogger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter wraps sink, writes the 4-byte header immediately, and returns
// the writer ready to accept channel registrations and writes.
func NewWriter(sink ByteSink, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		sink:   sink,
		byName: make(map[string]int),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}

	var header [4]byte
	header[0], header[1] = headerMagic[0], headerMagic[1]
	binary.BigEndian.PutUint16(header[2:], headerVersion)

	if _, err := w.sink.Write(header[:]); err != nil {
		return nil, errors.Wrap(err, "schemalog: write header")
	}

	return w, nil
}

// AddChannel registers name with schema s and returns a bound Channel
// handle carrying its dense, stable 0-based index. Registering a name twice returns ErrDuplicateChannelName
// and writes nothing.
func (w *Writer) AddChannel(name string, s schema.Schema) (*Channel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWriterClosed
	}

	index, err := w.addChannelLocked(name, s)
	if err != nil {
		return nil, err
	}

	return &Channel{writer: w, name: name, schema: s, index: index, registered: true}, nil
}

// Channel returns a handle for name/s that is not yet registered with
// this writer. It is registered lazily on its first Put/Write call
// (§4.9's "unbound handle" path).
func (w *Writer) Channel(name string, s schema.Schema) *Channel {
	return &Channel{writer: w, name: name, schema: s, index: -1}
}

func (w *Writer) addChannelLocked(name string, s schema.Schema) (int, error) {
	if _, exists := w.byName[name]; exists {
		return 0, errors.Wrapf(ErrDuplicateChannelName, "name %q", name)
	}

	entrySize := 8 + uint32(len(name)) + s.SchemaSize()
	eb := newEntryBuffer(entrySize)

	if err := eb.writeInt32(entryKindSchema); err != nil {
		return 0, err
	}
	if err := eb.writeInt32(int32(len(name))); err != nil {
		return 0, err
	}
	if _, err := eb.Write([]byte(name)); err != nil {
		return 0, err
	}
	if err := s.EncodeSchema(eb); err != nil {
		return 0, err
	}
	if !eb.full() {
		return 0, ErrSizeAccountingMismatch
	}

	if _, err := w.sink.Write(eb.buf); err != nil {
		return 0, errors.Wrapf(err, "schemalog: write schema entry for %q", name)
	}

	index := len(w.channels)
	w.channels = append(w.channels, channelEntry{name: name, schema: s})
	w.byName[name] = index

	w.logger.WithFields(logrus.Fields{"channel": name, "index": index}).Debug("schemalog: channel registered")

	return index, nil
}

// Write emits a message entry on ch. If ch was produced by Writer.Channel
// and has not yet been registered with this writer, it is registered
// first. ch must belong to this writer (returned by AddChannel or
// Channel on this instance), or ErrUnknownChannel is returned.
func (w *Writer) Write(ch *Channel, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	if ch.writer != w {
		return ErrUnknownChannel
	}

	if !ch.registered {
		index, err := w.addChannelLocked(ch.name, ch.schema)
		if err != nil {
			return err
		}
		ch.index = index
		ch.registered = true
	}

	return w.writeMessageLocked(ch.index, ch.schema, value)
}

// WriteName is the dynamically typed, name-indexed write path: if name is
// already a known channel, it dispatches to that channel's schema;
// otherwise it resolves a schema for value's runtime type through
// schema.SchemaOf (the DefaultRegistry, deriving and memoizing when no
// schema is registered), registers a new channel under name, and writes. Schema drift on an existing channel
// is not checked; per the spec's open question, only the first-seen
// schema prevails.
func (w *Writer) WriteName(name string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	index, ok := w.byName[name]
	if !ok {
		s, err := schema.SchemaOf(reflect.TypeOf(value))
		if err != nil {
			return errors.Wrapf(err, "schemalog: derive schema for channel %q", name)
		}
		index, err = w.addChannelLocked(name, s)
		if err != nil {
			return err
		}
	}

	return w.writeMessageLocked(index, w.channels[index].schema, value)
}

func (w *Writer) writeMessageLocked(index int, s schema.Schema, value any) error {
	n, err := s.ObjSize(value)
	if err != nil {
		return err
	}

	eb := newEntryBuffer(8 + n)
	if err := eb.writeInt32(entryKindMessage); err != nil {
		return err
	}
	if err := eb.writeInt32(int32(index)); err != nil {
		return err
	}
	if err := s.EncodeObject(eb, value); err != nil {
		return err
	}
	if !eb.full() {
		return ErrSizeAccountingMismatch
	}

	if _, err := w.sink.Write(eb.buf); err != nil {
		return errors.Wrapf(err, "schemalog: write message entry on channel %d", index)
	}
	return nil
}

// Close flushes and releases the underlying sink. Further writes return
// ErrWriterClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	w.logger.Debug("schemalog: writer closing")

	if err := w.sink.Close(); err != nil {
		return errors.Wrap(err, "schemalog: close sink")
	}
	return nil
}
