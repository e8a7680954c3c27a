package qadataswap

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Memory layout constants. These mirror the reference C++ header exactly
// so that a Go writer and a Go reader (or, in principle, a C++ peer built
// against the same constants) agree on byte offsets.
const (
	// Magic identifies a qadataswap arena: the ASCII bytes "QDAS" read
	// as a big-endian uint32 (stored little-endian, the bytes in memory
	// are "SADQ").
	Magic = 0x51444153

	// LayoutVersion is the current on-disk layout version. Bumping it
	// is a breaking change: ValidateHeader rejects any other value.
	LayoutVersion = 1

	// maxSemNameField is the fixed width, in bytes, reserved in the
	// header for each of the two diagnostic semaphore name fields.
	maxSemNameField = 64
)

// Header sits at the start of every arena. Every field after magic and
// version that can change after creation is accessed through atomic
// Load/Store helpers so that a writer process and one or more reader
// processes can observe updates safely without a language-level memory
// model spanning the two.
type Header struct {
	magic         uint32
	version       uint32
	totalSize     int64
	headerSize    int64
	bufferCount   uint32
	slotSize      int64
	buffersOffset int64

	_ cpu.CacheLinePad

	writeSequence uint64

	_ cpu.CacheLinePad

	readSequence uint64

	_ cpu.CacheLinePad

	writerActive uint32
	readerCount  uint32

	writeSemName [maxSemNameField]byte
	readSemName  [maxSemNameField]byte

	freeSem  semState
	readySem semState
}

// SlotState is the fixed-size per-slot control block. The blocks of all
// slots form one contiguous array right after the fixed header. Its
// size (64 bytes) is part of the layout contract: CalculateLayout
// reserves exactly this many bytes per slot for that array, before the
// payload region.
type SlotState struct {
	dataSize  int64
	ready     uint32
	_         uint32
	timestamp int64
	_         [40]byte
}

// Magic returns the arena's magic number. It never changes after
// creation, so no atomic load is needed.
func (h *Header) Magic() uint32 { return h.magic }

// Version returns the arena's layout version.
func (h *Header) Version() uint32 { return h.version }

// TotalSize returns the total number of bytes backing the arena.
func (h *Header) TotalSize() int64 { return h.totalSize }

// HeaderSize returns the number of bytes occupied by the fixed header
// plus the per-slot SlotState array that precedes the slot payloads.
func (h *Header) HeaderSize() int64 { return h.headerSize }

// BufferCount returns the number of slots in the ring.
func (h *Header) BufferCount() uint32 { return h.bufferCount }

// SlotSize returns the payload capacity of a single slot, in bytes.
func (h *Header) SlotSize() int64 { return h.slotSize }

// BuffersOffset returns the byte offset from the start of the arena to
// the first slot's payload region.
func (h *Header) BuffersOffset() int64 { return h.buffersOffset }

// WriteSequence returns the writer's monotonic slot counter.
func (h *Header) WriteSequence() uint64 {
	return atomic.LoadUint64(&h.writeSequence)
}

// IncrementWriteSequence atomically advances the writer's slot counter
// and returns its new value.
func (h *Header) IncrementWriteSequence() uint64 {
	return atomic.AddUint64(&h.writeSequence, 1)
}

// ReadSequence returns the reader's monotonic slot counter.
func (h *Header) ReadSequence() uint64 {
	return atomic.LoadUint64(&h.readSequence)
}

// IncrementReadSequence atomically advances the reader's slot counter
// and returns its new value.
func (h *Header) IncrementReadSequence() uint64 {
	return atomic.AddUint64(&h.readSequence, 1)
}

// WriterActive reports whether a writer currently holds this arena.
func (h *Header) WriterActive() bool {
	return atomic.LoadUint32(&h.writerActive) != 0
}

// SetWriterActive sets the writer-bound flag.
func (h *Header) SetWriterActive(active bool) {
	var v uint32
	if active {
		v = 1
	}
	atomic.StoreUint32(&h.writerActive, v)
}

// ReaderCount returns the number of currently bound readers.
func (h *Header) ReaderCount() uint32 {
	return atomic.LoadUint32(&h.readerCount)
}

// IncrementReaderCount atomically increments the bound reader count and
// returns its new value.
func (h *Header) IncrementReaderCount() uint32 {
	return atomic.AddUint32(&h.readerCount, 1)
}

// DecrementReaderCount atomically decrements the bound reader count and
// returns its new value.
func (h *Header) DecrementReaderCount() uint32 {
	return atomic.AddUint32(&h.readerCount, ^uint32(0))
}

// WriteSemName returns the diagnostic name recorded for the free-slot
// semaphore.
func (h *Header) WriteSemName() string {
	return cStringFromBytes(h.writeSemName[:])
}

// SetWriteSemName records the diagnostic name for the free-slot
// semaphore, truncating to fit if necessary.
func (h *Header) SetWriteSemName(name string) {
	setCString(h.writeSemName[:], name)
}

// ReadSemName returns the diagnostic name recorded for the ready-slot
// semaphore.
func (h *Header) ReadSemName() string {
	return cStringFromBytes(h.readSemName[:])
}

// SetReadSemName records the diagnostic name for the ready-slot
// semaphore, truncating to fit if necessary.
func (h *Header) SetReadSemName(name string) {
	setCString(h.readSemName[:], name)
}

func cStringFromBytes(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func setCString(dst []byte, s string) {
	n := copy(dst, s)
	if n < len(dst) {
		dst[n] = 0
	}
}

// DataSize returns the number of valid payload bytes currently stored
// in the slot.
func (s *SlotState) DataSize() int64 {
	return atomic.LoadInt64(&s.dataSize)
}

// SetDataSize sets the number of valid payload bytes stored in the
// slot.
func (s *SlotState) SetDataSize(n int64) {
	atomic.StoreInt64(&s.dataSize, n)
}

// Ready reports whether the slot holds a batch a reader has not yet
// consumed.
func (s *SlotState) Ready() bool {
	return atomic.LoadUint32(&s.ready) != 0
}

// SetReady sets or clears the slot's ready flag.
func (s *SlotState) SetReady(ready bool) {
	var v uint32
	if ready {
		v = 1
	}
	atomic.StoreUint32(&s.ready, v)
}

// Timestamp returns the UnixNano timestamp the writer recorded when it
// published the slot's current contents.
func (s *SlotState) Timestamp() int64 {
	return atomic.LoadInt64(&s.timestamp)
}

// SetTimestamp records the UnixNano timestamp of the slot's current
// contents.
func (s *SlotState) SetTimestamp(ts int64) {
	atomic.StoreInt64(&s.timestamp, ts)
}

// Layout describes the derived byte offsets and sizes for an arena of a
// given total size and slot count. CalculateLayout is the single source
// of truth; both BindWriter and BindReader (via ValidateHeader) must
// agree with it.
type Layout struct {
	TotalSize     int64
	HeaderSize    int64
	BufferCount   uint32
	SlotSize      int64
	BuffersOffset int64
}

// CalculateLayout derives a Layout for an arena of totalSize bytes split
// into bufferCount equal slots, with one SlotState control block per
// slot in an array after the fixed header. It fails if bufferCount is
// zero or if totalSize is too small to hold the fixed header, the
// per-slot state array, and at least 64 bytes of payload per slot (slot
// sizes are rounded down to a multiple of 64).
func CalculateLayout(totalSize int64, bufferCount uint32) (Layout, error) {
	if bufferCount < MinBufferCount {
		return Layout{}, ErrInvalidBufferCount
	}

	fixedHeaderSize := alignTo64(int64(unsafe.Sizeof(Header{})))
	slotStateArea := int64(bufferCount) * int64(unsafe.Sizeof(SlotState{}))
	headerSize := fixedHeaderSize + slotStateArea

	if totalSize <= headerSize {
		return Layout{}, ErrArenaTooSmall
	}

	remaining := totalSize - headerSize
	slotSize := floorTo64(remaining / int64(bufferCount))
	if slotSize <= 0 {
		return Layout{}, ErrArenaTooSmall
	}

	return Layout{
		TotalSize:     totalSize,
		HeaderSize:    headerSize,
		BufferCount:   bufferCount,
		SlotSize:      slotSize,
		BuffersOffset: headerSize,
	}, nil
}

// alignTo64 rounds size up to the next multiple of 64.
func alignTo64(size int64) int64 {
	return (size + 63) &^ 63
}

// floorTo64 rounds size down to the previous multiple of 64.
func floorTo64(size int64) int64 {
	return size &^ 63
}

// ValidateHeader checks that h describes a layout consistent with its
// own recorded total size and slot count, and that its magic and
// version match what this package expects.
func ValidateHeader(h *Header) error {
	if h.Magic() != Magic {
		return ErrBadMagic
	}
	if h.Version() != LayoutVersion {
		return ErrVersionMismatch
	}

	want, err := CalculateLayout(h.TotalSize(), h.BufferCount())
	if err != nil {
		return err
	}
	if h.HeaderSize() != want.HeaderSize {
		return fmt.Errorf("%w: header size %d, expected %d", ErrProtocolViolation, h.HeaderSize(), want.HeaderSize)
	}
	if h.SlotSize() != want.SlotSize {
		return fmt.Errorf("%w: slot size %d, expected %d", ErrProtocolViolation, h.SlotSize(), want.SlotSize)
	}
	if h.BuffersOffset() != want.BuffersOffset {
		return fmt.Errorf("%w: buffers offset %d, expected %d", ErrProtocolViolation, h.BuffersOffset(), want.BuffersOffset)
	}
	return nil
}

// slotStateAt returns a pointer to the SlotState for slot index within
// mem, which must be the full mapped arena. It models the flexible
// array member that follows the fixed header in the original layout:
// the state array starts right after the aligned Header and holds one
// entry per slot.
func slotStateAt(mem []byte, index uint32) *SlotState {
	fixedHeaderSize := alignTo64(int64(unsafe.Sizeof(Header{})))
	base := unsafe.Pointer(&mem[0])
	off := uintptr(fixedHeaderSize) + uintptr(index)*unsafe.Sizeof(SlotState{})
	return (*SlotState)(unsafe.Pointer(uintptr(base) + off))
}

// slotPayloadAt returns the payload byte slice for slot index within
// mem, given the arena's layout.
func slotPayloadAt(mem []byte, layout Layout, index uint32) []byte {
	start := layout.BuffersOffset + int64(index)*layout.SlotSize
	end := start + layout.SlotSize
	return mem[start:end]
}
