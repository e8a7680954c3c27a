package qadataswap

import "testing"

func TestCalculateLayoutBasics(t *testing.T) {
	layout, err := CalculateLayout(DefaultArenaSize, DefaultBufferCount)
	if err != nil {
		t.Fatalf("CalculateLayout failed: %v", err)
	}
	if layout.BufferCount != DefaultBufferCount {
		t.Fatalf("expected %d buffers, got %d", DefaultBufferCount, layout.BufferCount)
	}
	if layout.SlotSize <= 0 {
		t.Fatalf("expected positive slot size, got %d", layout.SlotSize)
	}
	if layout.HeaderSize%64 != 0 {
		t.Fatalf("header size %d not 64-byte aligned", layout.HeaderSize)
	}
	if layout.BuffersOffset != layout.HeaderSize {
		t.Fatalf("buffers offset %d != header size %d", layout.BuffersOffset, layout.HeaderSize)
	}
}

func TestCalculateLayoutRejectsZeroBuffers(t *testing.T) {
	if _, err := CalculateLayout(DefaultArenaSize, 0); err != ErrInvalidBufferCount {
		t.Fatalf("expected ErrInvalidBufferCount, got %v", err)
	}
}

func TestCalculateLayoutRejectsTooSmall(t *testing.T) {
	if _, err := CalculateLayout(64, 256); err != ErrArenaTooSmall {
		t.Fatalf("expected ErrArenaTooSmall, got %v", err)
	}
}

func TestValidateHeaderRejectsBadMagic(t *testing.T) {
	h := &Header{}
	h.version = LayoutVersion
	if err := ValidateHeader(h); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestValidateHeaderRejectsWrongVersion(t *testing.T) {
	h := &Header{}
	h.magic = Magic
	h.version = LayoutVersion + 1
	if err := ValidateHeader(h); err != ErrVersionMismatch {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestAlignTo64(t *testing.T) {
	cases := map[int64]int64{
		0:  0,
		1:  64,
		63: 64,
		64: 64,
		65: 128,
	}
	for in, want := range cases {
		if got := alignTo64(in); got != want {
			t.Fatalf("alignTo64(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSlotStateRoundTrip(t *testing.T) {
	var s SlotState
	s.SetDataSize(1234)
	s.SetReady(true)
	s.SetTimestamp(99)

	if s.DataSize() != 1234 {
		t.Fatalf("DataSize = %d, want 1234", s.DataSize())
	}
	if !s.Ready() {
		t.Fatalf("Ready = false, want true")
	}
	if s.Timestamp() != 99 {
		t.Fatalf("Timestamp = %d, want 99", s.Timestamp())
	}

	s.SetReady(false)
	if s.Ready() {
		t.Fatalf("Ready = true after SetReady(false)")
	}
}
