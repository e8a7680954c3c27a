package qadataswap

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// FieldType identifies the type of values stored in a Column.
type FieldType int

const (
	FieldInt64 FieldType = iota
	FieldFloat64
	FieldString
)

// Field describes one column of a Schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema describes the columns of a Batch.
type Schema struct {
	Fields []Field
}

// Column holds one column's worth of values. Exactly one of the three
// slices is populated, matching the corresponding Field's Type.
type Column struct {
	Int64s   []int64
	Float64s []float64
	Strings  []string
}

// Len returns the number of values in whichever slice is populated.
func (c Column) Len() int {
	switch {
	case c.Int64s != nil:
		return len(c.Int64s)
	case c.Float64s != nil:
		return len(c.Float64s)
	default:
		return len(c.Strings)
	}
}

// Batch is a single record batch: a schema plus one column of values
// per field, all with equal length.
type Batch struct {
	Schema  Schema
	Columns []Column
}

// NumRows returns the row count of the batch, i.e. the length of its
// first column, or 0 for a batch with no columns.
func (b *Batch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].Len()
}

// Validate checks that a batch is internally consistent: one column per
// schema field, and every column the same length.
func (b *Batch) Validate() error {
	if len(b.Columns) != len(b.Schema.Fields) {
		return fmt.Errorf("qadataswap: batch has %d columns, schema has %d fields", len(b.Columns), len(b.Schema.Fields))
	}
	rows := b.NumRows()
	for i, col := range b.Columns {
		if col.Len() != rows {
			return fmt.Errorf("qadataswap: column %d has %d rows, want %d", i, col.Len(), rows)
		}
	}
	return nil
}

// Codec serializes and deserializes Batch values directly against a
// slot's payload region. Arena never inspects payload bytes itself;
// everything beyond framing (how many bytes a batch occupies) is
// delegated to the configured Codec.
//
// Encode must serialize b self-describingly into dst, a byte region of
// bounded capacity, and report the number of bytes written. If the
// encoded form does not fit in dst, Encode must refuse and return an
// error without writing past len(dst); the caller (Arena) relies on
// this to keep a slot's ready flag unset and write_sequence unchanged
// on failure.
type Codec interface {
	Encode(b *Batch, dst []byte) (int, error)
	Decode(data []byte, b *Batch) error
}

// GobCodec is a reference Codec built on encoding/gob. It is not meant
// to be the fastest or most compact wire format available for columnar
// data; it exists so the arena, ring, and semaphore machinery can be
// exercised end to end without pulling in an external columnar format.
// Production callers with stricter throughput or cross-language
// requirements are expected to supply their own Codec.
type GobCodec struct{}

// Encode implements Codec. It serializes to an intermediate buffer
// first, since encoding/gob has no notion of a bounded destination,
// then copies into dst only if the result fits.
func (GobCodec) Encode(b *Batch, dst []byte) (int, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return 0, fmt.Errorf("qadataswap: gob encode: %w", err)
	}
	if buf.Len() > len(dst) {
		return 0, fmt.Errorf("%w: encoded size %d exceeds capacity %d", ErrPayloadTooLarge, buf.Len(), len(dst))
	}
	return copy(dst, buf.Bytes()), nil
}

// Decode implements Codec.
func (GobCodec) Decode(data []byte, b *Batch) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(b); err != nil {
		return fmt.Errorf("qadataswap: gob decode: %w", err)
	}
	return nil
}
