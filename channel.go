package schemalog

import (
	"sync"
	"time"

	"github.com/benjamin-larsen/schemalog/schema"
)

// Channel is a named handle bound to a writer, as described in §4.10: a
// (name, schema, writer_ref) bundle whose Put forwards to the writer.
// It may or may not yet be registered with its writer; see
// Writer.AddChannel and Writer.Channel.
type Channel struct {
	writer     *Writer
	name       string
	schema     schema.Schema
	index      int
	registered bool
}

// Name returns the channel's declared name.
func (c *Channel) Name() string { return c.name }

// Schema returns the channel's schema.
func (c *Channel) Schema() schema.Schema { return c.schema }

// Put writes value on this channel, registering it with its writer first
// if it hasn't been already.
func (c *Channel) Put(value any) error {
	return c.writer.Write(c, value)
}

// Clock abstracts the monotonic time source a Downsampler reads, so tests
// can supply a fake instead of time.Now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock, backed by time.Now.
var SystemClock Clock = systemClock{}

// Downsampler wraps a Channel with a period P. After accepting a value at
// time now, Put drops values silently until the clock reaches the next
// multiple of P after now, i.e. ((now/P)+1)*P. This bounds the emitted
// rate to at most one value per P-aligned window without trying to fix it
// to exactly P (the emitted stream stays aperiodic). Two accepted values
// that fall on either side of a window boundary can be less than P apart.
type Downsampler struct {
	mu      sync.Mutex
	ch      *Channel
	period  time.Duration
	clock   Clock
	nextDue int64 // UnixNano; zero means "always write on first Put"
}

// NewDownsampler wraps ch, accepting at most one write per period-aligned
// window of the clock.
func NewDownsampler(ch *Channel, period time.Duration) *Downsampler {
	return &Downsampler{ch: ch, period: period, clock: SystemClock}
}

// WithClock overrides the Downsampler's time source, for tests.
func (d *Downsampler) WithClock(c Clock) *Downsampler {
	d.clock = c
	return d
}

// Put writes value if the clock has reached the next period boundary after
// the last accepted write (or this is the first call), and silently drops
// it otherwise.
func (d *Downsampler) Put(value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now().UnixNano()
	if now < d.nextDue {
		return nil
	}

	if err := d.ch.Put(value); err != nil {
		return err
	}

	p := int64(d.period)
	d.nextDue = (now/p + 1) * p
	return nil
}
