package schemalog

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ByteSink is the minimal append-only capability the writer needs: accept
// exactly len(p) bytes, or fail. Implementations make no buffering
// promises to callers; they may buffer internally. Close flushes and
// releases any underlying resource.
type ByteSink interface {
	Write(p []byte) (int, error)
	Close() error
}

// FileSink appends to a file on disk, creating it if necessary.
type FileSink struct {
	f *os.File
}

// NewFileSink opens path for append, creating it if it does not exist.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "schemalog: open sink file %q", path)
	}

	return &FileSink{f: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "schemalog: file sink write")
	}

	return n, nil
}

func (s *FileSink) Close() error {
	if err := s.f.Sync(); err != nil {
		return errors.Wrap(err, "schemalog: file sink sync")
	}

	return s.f.Close()
}

// BufferSink accumulates written bytes in memory. It never fails a write
// and Close is a no-op; it exists primarily for tests that assert on
// literal byte output.
type BufferSink struct {
	buf bytes.Buffer
}

// NewBufferSink returns an empty in-memory sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (s *BufferSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *BufferSink) Close() error {
	return nil
}

// Bytes returns the accumulated output. The returned slice aliases the
// sink's internal buffer and must not be retained across further writes.
func (s *BufferSink) Bytes() []byte {
	return s.buf.Bytes()
}

// ConnSink adapts any io.WriteCloser (most notably a net.Conn) to
// ByteSink, for writers that stream entries to a remote collector instead
// of a local file.
type ConnSink struct {
	wc io.WriteCloser
}

// NewConnSink wraps wc as a ByteSink.
func NewConnSink(wc io.WriteCloser) *ConnSink {
	return &ConnSink{wc: wc}
}

func (s *ConnSink) Write(p []byte) (int, error) {
	n, err := s.wc.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "schemalog: conn sink write")
	}

	return n, nil
}

func (s *ConnSink) Close() error {
	return s.wc.Close()
}
