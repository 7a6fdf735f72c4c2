// Package schemalog is a typed, self-describing binary logging codec.
// Applications declare named channels of strongly typed values; schemalog
// derives or accepts a schema for each value type and appends entries to
// a stream in a format a reader can reconstruct without side information.
// See the schema subpackage for the schema algebra itself.
package schemalog
