package qadataswap

import (
	"errors"
	"testing"
)

func sampleBatch() *Batch {
	return &Batch{
		Schema: Schema{Fields: []Field{
			{Name: "id", Type: FieldInt64},
			{Name: "price", Type: FieldFloat64},
			{Name: "symbol", Type: FieldString},
		}},
		Columns: []Column{
			{Int64s: []int64{1, 2, 3}},
			{Float64s: []float64{1.5, 2.5, 3.5}},
			{Strings: []string{"a", "b", "c"}},
		},
	}
}

func TestBatchValidate(t *testing.T) {
	b := sampleBatch()
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if b.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", b.NumRows())
	}
}

func TestBatchValidateRejectsMismatch(t *testing.T) {
	b := sampleBatch()
	b.Columns[1].Float64s = b.Columns[1].Float64s[:2]
	if err := b.Validate(); err == nil {
		t.Fatalf("Validate did not catch row-count mismatch")
	}
}

func TestGobCodecRoundTrip(t *testing.T) {
	codec := GobCodec{}
	in := sampleBatch()

	dst := make([]byte, 4096)
	n, err := codec.Encode(in, dst)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var out Batch
	if err := codec.Decode(dst[:n], &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out.NumRows() != in.NumRows() {
		t.Fatalf("NumRows after round trip = %d, want %d", out.NumRows(), in.NumRows())
	}
	if len(out.Columns) != len(in.Columns) {
		t.Fatalf("Columns after round trip = %d, want %d", len(out.Columns), len(in.Columns))
	}
	for i := range out.Columns[2].Strings {
		if out.Columns[2].Strings[i] != in.Columns[2].Strings[i] {
			t.Fatalf("string column mismatch at %d: got %q, want %q", i, out.Columns[2].Strings[i], in.Columns[2].Strings[i])
		}
	}
}

func TestGobCodecEncodeRefusesOverCapacity(t *testing.T) {
	codec := GobCodec{}
	in := sampleBatch()

	dst := make([]byte, 4)
	n, err := codec.Encode(in, dst)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Encode into undersized dst = %v, want ErrPayloadTooLarge", err)
	}
	if n != 0 {
		t.Fatalf("Encode reported %d bytes written on failure, want 0", n)
	}
}
